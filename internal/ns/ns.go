// Package ns centralizes the well-known N3 builtin namespaces so the
// rule-normalization, builtin-dispatch, and forward-engine packages
// don't each hardcode the same IRI prefixes.
package ns

const (
	Math   = "http://www.w3.org/2000/10/swap/math#"
	String = "http://www.w3.org/2000/10/swap/string#"
	List   = "http://www.w3.org/2000/10/swap/list#"
	Log    = "http://www.w3.org/2000/10/swap/log#"
	Crypto = "http://www.w3.org/2000/10/swap/crypto#"
	Time   = "http://www.w3.org/2000/10/swap/time#"
	RDF    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
)

// Q builds a fully-qualified predicate IRI from a namespace and a
// local name, e.g. Q(Math, "sum") == ".../math#sum".
func Q(namespace, local string) string {
	return namespace + local
}

// LogImplies and LogImpliedBy are the two rule-as-data predicates
// (§4.6); named here since both the rule normalizer and forward engine
// need to recognize them.
var (
	LogImplies  = Q(Log, "implies")
	LogImpliedBy = Q(Log, "impliedBy")
)
