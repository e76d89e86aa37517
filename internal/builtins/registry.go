// Package builtins implements the §4.5 builtin predicate library:
// math:, string:, list:, crypto:, time:, log:, and rdf: dispatch
// handlers wired into a prover.Context's dispatch table.
package builtins

import "n3reason/internal/prover"

// All returns the complete builtin dispatch table, keyed by predicate
// IRI, ready to hand to prover.NewContext.
func All() map[string]prover.BuiltinFunc {
	table := make(map[string]prover.BuiltinFunc)
	addMath(table)
	addCompare(table)
	addString(table)
	addList(table)
	addCrypto(table)
	addTime(table)
	addLog(table)
	addRDF(table)
	return table
}
