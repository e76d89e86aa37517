package builtins

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"

	"n3reason/internal/ns"
	"n3reason/internal/prover"
	"n3reason/internal/subst"
	"n3reason/internal/term"
)

func addString(table map[string]prover.BuiltinFunc) {
	table[ns.Q(ns.String, "concatenation")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		elems, isList := asList(goal.Subject)
		if !isList {
			return fail()
		}
		var b strings.Builder
		for _, e := range elems {
			str, ok := asString(e)
			if !ok {
				return fail()
			}
			b.WriteString(str)
		}
		return unifyBind(goal.Object, stringTerm(ctx.Interner, b.String()))
	}

	table[ns.Q(ns.String, "format")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		elems, isList := asList(goal.Subject)
		if !isList || len(elems) == 0 {
			return fail()
		}
		format, ok := asString(elems[0])
		if !ok {
			return fail()
		}
		args := elems[1:]
		var b strings.Builder
		argIdx := 0
		for i := 0; i < len(format); i++ {
			if format[i] != '%' || i+1 >= len(format) {
				b.WriteByte(format[i])
				continue
			}
			switch format[i+1] {
			case '%':
				b.WriteByte('%')
				i++
			case 's':
				if argIdx >= len(args) {
					return fail()
				}
				str, ok := asString(args[argIdx])
				if !ok {
					return fail()
				}
				b.WriteString(str)
				argIdx++
				i++
			default:
				b.WriteByte(format[i])
			}
		}
		return unifyBind(goal.Object, stringTerm(ctx.Interner, b.String()))
	}

	pred := func(fn func(subj, obj string) bool) prover.BuiltinFunc {
		return func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
			subj, ok1 := asString(goal.Subject)
			obj, ok2 := asString(goal.Object)
			if !ok1 || !ok2 {
				return fail()
			}
			if fn(subj, obj) {
				return ok()
			}
			return fail()
		}
	}
	table[ns.Q(ns.String, "contains")] = pred(func(a, b string) bool { return strings.Contains(a, b) })
	table[ns.Q(ns.String, "startsWith")] = pred(strings.HasPrefix)
	table[ns.Q(ns.String, "endsWith")] = pred(strings.HasSuffix)
	table[ns.Q(ns.String, "equal")] = pred(func(a, b string) bool { return a == b })
	table[ns.Q(ns.String, "notEqual")] = pred(func(a, b string) bool { return a != b })
	table[ns.Q(ns.String, "equalIgnoringCase")] = pred(strings.EqualFold)
	table[ns.Q(ns.String, "notEqualIgnoringCase")] = pred(func(a, b string) bool { return !strings.EqualFold(a, b) })
	table[ns.Q(ns.String, "greaterThan")] = pred(func(a, b string) bool { return a > b })
	table[ns.Q(ns.String, "lessThan")] = pred(func(a, b string) bool { return a < b })
	table[ns.Q(ns.String, "notGreaterThan")] = pred(func(a, b string) bool { return a <= b })
	table[ns.Q(ns.String, "notLessThan")] = pred(func(a, b string) bool { return a >= b })

	table[ns.Q(ns.String, "matches")] = regexPred(true)
	table[ns.Q(ns.String, "notMatches")] = regexPred(false)

	table[ns.Q(ns.String, "replace")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		elems, isList := asList(goal.Subject)
		if !isList || len(elems) != 3 {
			return fail()
		}
		subject, ok1 := asString(elems[0])
		pattern, ok2 := asString(elems[1])
		replacement, ok3 := asString(elems[2])
		if !ok1 || !ok2 || !ok3 {
			return fail()
		}
		re, err := compileUnicodeAware(pattern)
		if err != nil {
			return fail()
		}
		out, err := re.Replace(subject, replacement, -1, -1)
		if err != nil {
			return fail()
		}
		return unifyBind(goal.Object, stringTerm(ctx.Interner, out))
	}

	table[ns.Q(ns.String, "scrape")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		elems, isList := asList(goal.Subject)
		if !isList || len(elems) != 2 {
			return fail()
		}
		subject, ok1 := asString(elems[0])
		pattern, ok2 := asString(elems[1])
		if !ok1 || !ok2 {
			return fail()
		}
		re, err := compileUnicodeAware(pattern)
		if err != nil {
			return fail()
		}
		m, err := re.FindStringMatch(subject)
		if err != nil || m == nil || len(m.Groups()) < 2 {
			return fail()
		}
		return unifyBind(goal.Object, stringTerm(ctx.Interner, m.Groups()[1].String()))
	}

	table[ns.Q(ns.String, "jsonPointer")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		elems, isList := asList(goal.Subject)
		if !isList || len(elems) != 2 {
			return fail()
		}
		doc, ok1 := elems[0].(*term.Literal)
		pointer, ok2 := asString(elems[1])
		if !ok1 || !ok2 {
			return fail()
		}
		lex, dt, _, err := doc.Decompose()
		if err != nil || dt != term.RDFJSON {
			return fail()
		}
		var val interface{}
		if err := json.Unmarshal([]byte(lex), &val); err != nil {
			return fail()
		}
		resolved, err := resolveJSONPointer(val, pointer)
		if err != nil {
			return fail()
		}
		out, err := json.Marshal(resolved)
		if err != nil {
			return fail()
		}
		return unifyBind(goal.Object, ctx.Interner.Typed(string(out), term.RDFJSON))
	}
}

func regexPred(wantMatch bool) prover.BuiltinFunc {
	return func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		subj, ok1 := asString(goal.Subject)
		pattern, ok2 := asString(goal.Object)
		if !ok1 || !ok2 {
			return fail()
		}
		re, err := compileUnicodeAware(pattern)
		if err != nil {
			return fail()
		}
		m, err := re.FindStringMatch(subj)
		matched := err == nil && m != nil
		if matched == wantMatch {
			return ok()
		}
		return fail()
	}
}

// compileUnicodeAware compiles pattern with dlclark/regexp2, which
// natively understands \p{…} Unicode category classes; no extra flag
// is required, matching the spec's automatic Unicode-mode behavior for
// patterns using \p{…} or \u{…} escapes.
func compileUnicodeAware(pattern string) (*regexp2.Regexp, error) {
	return regexp2.Compile(pattern, regexp2.None)
}

func resolveJSONPointer(doc interface{}, pointer string) (interface{}, error) {
	pointer = strings.TrimPrefix(pointer, "#")
	if pointer == "" {
		return doc, nil
	}
	if !strings.HasPrefix(pointer, "/") {
		return nil, fmt.Errorf("builtins: invalid json pointer %q", pointer)
	}
	cur := doc
	for _, tok := range strings.Split(pointer[1:], "/") {
		tok = strings.ReplaceAll(tok, "~1", "/")
		tok = strings.ReplaceAll(tok, "~0", "~")
		if unescaped, err := unescapePercent(tok); err == nil {
			tok = unescaped
		}
		switch v := cur.(type) {
		case map[string]interface{}:
			next, ok := v[tok]
			if !ok {
				return nil, fmt.Errorf("builtins: json pointer member %q not found", tok)
			}
			cur = next
		case []interface{}:
			var idx int
			if _, err := fmt.Sscanf(tok, "%d", &idx); err != nil || idx < 0 || idx >= len(v) {
				return nil, fmt.Errorf("builtins: json pointer index %q out of range", tok)
			}
			cur = v[idx]
		default:
			return nil, fmt.Errorf("builtins: json pointer descends into scalar at %q", tok)
		}
	}
	return cur, nil
}

func unescapePercent(s string) (string, error) {
	if !strings.ContainsRune(s, '%') {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			var v int
			if _, err := fmt.Sscanf(s[i+1:i+3], "%02x", &v); err == nil {
				b.WriteByte(byte(v))
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String(), nil
}
