package term

// Ground reports whether t contains no Var and no OpenList. Blanks and
// nested Formulas are allowed (§3, §4.1).
func Ground(t Term) bool {
	switch x := t.(type) {
	case Var:
		return false
	case OpenList:
		return false
	case List:
		for _, e := range x.Elems {
			if !Ground(e) {
				return false
			}
		}
		return true
	case *Formula:
		for _, tr := range x.Triples {
			if !TripleGround(tr) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// TripleGround reports whether every position of t is ground.
func TripleGround(t Triple) bool {
	return Ground(t.Subject) && Ground(t.Predicate) && Ground(t.Object)
}

// VarsOf collects the distinct variable names reachable inside t.
func VarsOf(t Term, into map[string]struct{}) {
	switch x := t.(type) {
	case Var:
		into[string(x)] = struct{}{}
	case OpenList:
		for _, e := range x.Prefix {
			VarsOf(e, into)
		}
		into[string(x.Tail)] = struct{}{}
	case List:
		for _, e := range x.Elems {
			VarsOf(e, into)
		}
	case *Formula:
		for _, tr := range x.Triples {
			VarsOf(tr.Subject, into)
			VarsOf(tr.Predicate, into)
			VarsOf(tr.Object, into)
		}
	}
}

// VarsOfTriples collects variable names across a triple list.
func VarsOfTriples(triples []Triple) map[string]struct{} {
	vars := map[string]struct{}{}
	for _, t := range triples {
		VarsOf(t.Subject, vars)
		VarsOf(t.Predicate, vars)
		VarsOf(t.Object, vars)
	}
	return vars
}

// BlanksOfHead computes the set of blank labels textually present in a
// rule conclusion (§4.1); used to decide which blanks are existentials
// requiring skolemization versus lifting to Vars in the premise.
func BlanksOfHead(head []Triple) map[string]struct{} {
	blanks := map[string]struct{}{}
	var walk func(t Term)
	walk = func(t Term) {
		switch x := t.(type) {
		case Blank:
			blanks[string(x)] = struct{}{}
		case List:
			for _, e := range x.Elems {
				walk(e)
			}
		case OpenList:
			for _, e := range x.Prefix {
				walk(e)
			}
		case *Formula:
			for _, tr := range x.Triples {
				walk(tr.Subject)
				walk(tr.Predicate)
				walk(tr.Object)
			}
		}
	}
	for _, t := range head {
		walk(t.Subject)
		walk(t.Predicate)
		walk(t.Object)
	}
	return blanks
}
