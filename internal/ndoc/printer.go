package ndoc

import (
	"strings"

	"n3reason/internal/term"
)

// Printer serializes triples and terms back to N3 text using an active
// prefix environment (§6), for log:trace and the CLI's explain/run
// output.
type Printer struct {
	Prefixes *PrefixEnv
}

// NewPrinter builds a Printer against env. A nil env prints full IRIs.
func NewPrinter(env *PrefixEnv) *Printer {
	if env == nil {
		env = NewPrefixEnv("")
	}
	return &Printer{Prefixes: env}
}

// Triple renders one triple as "subject predicate object ." N3 text.
func (p *Printer) Triple(t term.Triple) string {
	return p.Term(t.Subject) + " " + p.Term(t.Predicate) + " " + p.Term(t.Object) + " ."
}

// Term renders a single term, shrinking IRIs against the prefix
// environment and recursing into lists and quoted formulas.
func (p *Printer) Term(t term.Term) string {
	switch x := t.(type) {
	case *term.IRI:
		return p.Prefixes.Shrink(x.Value)
	case *term.Literal:
		return x.String()
	case term.Var:
		return "?" + string(x)
	case term.Blank:
		return x.String()
	case term.List:
		return p.list(x.Elems, "")
	case term.OpenList:
		return p.list(x.Prefix, p.Term(x.Tail))
	case *term.Formula:
		return p.formula(x)
	default:
		return t.String()
	}
}

func (p *Printer) list(elems []term.Term, tail string) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = p.Term(e)
	}
	body := strings.Join(parts, " ")
	if tail != "" {
		if body != "" {
			body += " "
		}
		body += "| " + tail
	}
	return "(" + body + ")"
}

func (p *Printer) formula(f *term.Formula) string {
	var sb strings.Builder
	sb.WriteString("{ ")
	for _, tr := range f.Triples {
		sb.WriteString(p.Triple(tr))
		sb.WriteString(" ")
	}
	sb.WriteString("}")
	return sb.String()
}
