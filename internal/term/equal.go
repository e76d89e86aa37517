package term

// LiteralsEqual implements §3's datatype-aware literal equality: equal
// if the lexicals match, or both parse to equal numeric values under a
// common numeric datatype, or one is a plain string and the other is
// ^^xsd:string.
func LiteralsEqual(a, b *Literal) bool {
	return literalsEqual(a, b, true)
}

// LiteralsEqualNoIntDecimal is the variant used where integer↔decimal
// equality must NOT hold (§4.2: comparing index literals during list
// iteration).
func LiteralsEqualNoIntDecimal(a, b *Literal) bool {
	return literalsEqual(a, b, false)
}

func literalsEqual(a, b *Literal, crossNumeric bool) bool {
	if a == b {
		return true
	}
	la, dta, langa, erra := a.Decompose()
	lb, dtb, langb, errb := b.Decompose()
	if erra != nil || errb != nil {
		return false
	}
	if dta == dtb && langa == langb {
		if la == lb {
			return true
		}
		if !IsNumericDatatype(dta) {
			return false
		}
	}
	// plain string vs ^^xsd:string
	plain := func(dt string) bool { return dt == XSDString }
	if plain(dta) && plain(dtb) {
		return la == lb
	}
	if !crossNumeric {
		// still allow same-family numeric equality (e.g. two decimals),
		// just not integer<->decimal cross-type.
		if IsNumericDatatype(dta) && IsNumericDatatype(dtb) && dta == dtb {
			na, oka := ParseNumeric(la, dta)
			nb, okb := ParseNumeric(lb, dtb)
			return oka && okb && Compare(na, nb) == 0
		}
		return false
	}
	if IsNumericDatatype(dta) && IsNumericDatatype(dtb) {
		na, oka := ParseNumeric(la, dta)
		nb, okb := ParseNumeric(lb, dtb)
		return oka && okb && Compare(na, nb) == 0
	}
	return false
}

// Equal is structural equality over ground or non-ground terms. Vars
// compare by name, Blanks by label (no renaming) — use Formula
// α-equivalence or unification when renaming should be respected.
func Equal(a, b Term) bool {
	switch x := a.(type) {
	case *IRI:
		y, ok := b.(*IRI)
		return ok && x == y
	case *Literal:
		y, ok := b.(*Literal)
		return ok && LiteralsEqual(x, y)
	case Var:
		y, ok := b.(Var)
		return ok && x == y
	case Blank:
		y, ok := b.(Blank)
		return ok && x == y
	case List:
		y, ok := b.(List)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case OpenList:
		y, ok := b.(OpenList)
		if !ok || x.Tail != y.Tail || len(x.Prefix) != len(y.Prefix) {
			return false
		}
		for i := range x.Prefix {
			if !Equal(x.Prefix[i], y.Prefix[i]) {
				return false
			}
		}
		return true
	case *Formula:
		y, ok := b.(*Formula)
		return ok && FormulasEqual(x, y)
	}
	return false
}

func tripleEqual(a, b Triple) bool {
	return Equal(a.Subject, b.Subject) && Equal(a.Predicate, b.Predicate) && Equal(a.Object, b.Object)
}

// FormulasEqual tests α-equivalence: same multiset of triples modulo
// renaming of interior Vars and Blanks (§3, §8). Implemented as
// unordered triple-permutation matching with a shared renaming map
// threaded through branches and backtracked on failure.
func FormulasEqual(f, g *Formula) bool {
	if len(f.Triples) != len(g.Triples) {
		return false
	}
	used := make([]bool, len(g.Triples))
	mapping := map[string]string{} // f's var/blank name -> g's
	reverse := map[string]string{}
	return matchFormula(f.Triples, g.Triples, used, mapping, reverse, 0)
}

func matchFormula(fs, gs []Triple, used []bool, mapping, reverse map[string]string, i int) bool {
	if i == len(fs) {
		return true
	}
	for j, g := range gs {
		if used[j] {
			continue
		}
		addedKeys, ok := tryMatchTriple(fs[i], g, mapping, reverse)
		if ok {
			used[j] = true
			if matchFormula(fs, gs, used, mapping, reverse, i+1) {
				return true
			}
			used[j] = false
		}
		for _, k := range addedKeys {
			delete(reverse, mapping[k])
			delete(mapping, k)
		}
	}
	return false
}

// tryMatchTriple attempts to unify the renaming mapping so that a
// renames to b; returns the mapping keys it newly added (for
// backtracking) and whether the match succeeded.
func tryMatchTriple(a, b Triple, mapping, reverse map[string]string) ([]string, bool) {
	var added []string
	ok := matchRenamed(a.Subject, b.Subject, mapping, reverse, &added) &&
		matchRenamed(a.Predicate, b.Predicate, mapping, reverse, &added) &&
		matchRenamed(a.Object, b.Object, mapping, reverse, &added)
	if !ok {
		for _, k := range added {
			delete(reverse, mapping[k])
			delete(mapping, k)
		}
		return nil, false
	}
	return added, true
}

func renameKey(t Term) (string, bool) {
	switch x := t.(type) {
	case Var:
		return "?" + string(x), true
	case Blank:
		return "_" + string(x), true
	}
	return "", false
}

func matchRenamed(a, b Term, mapping, reverse map[string]string, added *[]string) bool {
	ka, isRenA := renameKey(a)
	kb, isRenB := renameKey(b)
	if isRenA != isRenB {
		return false
	}
	if isRenA {
		if existing, ok := mapping[ka]; ok {
			return existing == kb
		}
		if _, taken := reverse[kb]; taken {
			return false
		}
		mapping[ka] = kb
		reverse[kb] = ka
		*added = append(*added, ka)
		return true
	}
	switch x := a.(type) {
	case *Formula:
		y, ok := b.(*Formula)
		return ok && FormulasEqual(x, y)
	case List:
		y, ok := b.(List)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !matchRenamed(x.Elems[i], y.Elems[i], mapping, reverse, added) {
				return false
			}
		}
		return true
	default:
		return Equal(a, b)
	}
}
