package prover

import (
	"n3reason/internal/ns"
	"n3reason/internal/rules"
	"n3reason/internal/subst"
	"n3reason/internal/term"
)

const (
	gcSubstThreshold = 64
	gcDepthThreshold = 200
)

// frame is one work-stack entry (§4.4): a residual goal list, the
// substitution accumulated so far, the loop-protection visited stack,
// and the current depth.
type frame struct {
	goals   []term.Triple
	subst   subst.Subst
	visited []*term.Formula
	depth   int
}

// Prove runs the depth-first goal prover over goals, returning up to
// maxResults substitutions (answers), each projected to the variables
// that appear in the original goal list. maxResults <= 0 means
// unlimited.
func Prove(ctx *Context, goals []term.Triple, s subst.Subst, maxResults int) ([]subst.Subst, error) {
	answerVars := term.VarsOfTriples(goals)
	var results []subst.Subst
	stack := []frame{{goals: goals, subst: s}}

	for len(stack) > 0 {
		if maxResults > 0 && len(results) >= maxResults {
			break
		}
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(f.subst) > gcSubstThreshold || f.depth > gcDepthThreshold {
			f.subst = gcSubst(f.subst, answerVars, f.goals)
		}

		if len(f.goals) == 0 {
			answer := subst.New()
			for v := range answerVars {
				t := subst.Apply(term.Var(v), f.subst)
				if tv, isVar := t.(term.Var); isVar && tv == term.Var(v) {
					continue
				}
				answer[term.Var(v)] = t
			}
			results = append(results, answer)
			continue
		}

		goal := subst.ApplyTriple(f.goals[0], f.subst)
		rest := f.goals[1:]

		if iri, ok := goal.Predicate.(*term.IRI); ok {
			if fn, ok := ctx.Builtins[iri.Value]; ok {
				if ctx.SuperRestricted && iri.Value != ns.LogImplies && iri.Value != ns.LogImpliedBy {
					continue
				}
				deltas, err := fn(ctx, goal, f.subst)
				if err != nil {
					return results, err
				}
				for i := len(deltas) - 1; i >= 0; i-- {
					merged, ok := subst.Compose(f.subst, deltas[i])
					if !ok {
						continue
					}
					stack = append(stack, frame{goals: rest, subst: merged, visited: f.visited, depth: f.depth + 1})
				}
				continue
			}
		}

		goalFormula := term.NewFormula([]term.Triple{goal})
		looping := false
		for _, v := range f.visited {
			if term.FormulasEqual(goalFormula, v) {
				looping = true
				break
			}
		}
		if looping {
			continue
		}
		newVisited := append(append([]*term.Formula{}, f.visited...), goalFormula)

		var expansions []frame
		for _, fact := range ctx.Store.Candidates(goal.Predicate, goal.Subject, goal.Object) {
			merged, ok := unifyTriple(goal, fact, f.subst)
			if !ok {
				continue
			}
			expansions = append(expansions, frame{goals: rest, subst: merged, visited: f.visited, depth: f.depth + 1})
		}

		var candidates []*rules.Rule
		if iri, ok := goal.Predicate.(*term.IRI); ok {
			candidates = append(candidates, ctx.Backward[iri.Value]...)
		}
		candidates = append(candidates, ctx.BackwardWildcard...)
		for _, r := range candidates {
			sr := r.StandardizeApart(ctx.nextGen())
			matchedIdx := -1
			var merged subst.Subst
			for i, h := range sr.Conclusion {
				m, ok := unifyTriple(goal, h, f.subst)
				if ok {
					merged = m
					matchedIdx = i
					break
				}
			}
			if matchedIdx == -1 {
				continue
			}
			newGoals := append(append([]term.Triple{}, sr.Premise...), otherHeads(sr.Conclusion, matchedIdx)...)
			newGoals = append(newGoals, rest...)
			expansions = append(expansions, frame{goals: newGoals, subst: merged, visited: newVisited, depth: f.depth + 1})
		}

		for i := len(expansions) - 1; i >= 0; i-- {
			stack = append(stack, expansions[i])
		}
	}
	return results, nil
}

func otherHeads(conclusion []term.Triple, skip int) []term.Triple {
	var out []term.Triple
	for i, h := range conclusion {
		if i != skip {
			out = append(out, h)
		}
	}
	return out
}

func unifyTriple(a, b term.Triple, s subst.Subst) (subst.Subst, bool) {
	s, ok := subst.Unify(a.Subject, b.Subject, s)
	if !ok {
		return nil, false
	}
	s, ok = subst.Unify(a.Predicate, b.Predicate, s)
	if !ok {
		return nil, false
	}
	s, ok = subst.Unify(a.Object, b.Object, s)
	if !ok {
		return nil, false
	}
	return s, true
}

// gcSubst reduces s to the variables that still matter: the caller's
// answer projection plus anything reachable through the remaining goal
// list, closed transitively over var→var chains so Apply keeps working
// on the retained variables (§4.4, Substitution garbage collection).
func gcSubst(s subst.Subst, answerVars map[string]struct{}, remainingGoals []term.Triple) subst.Subst {
	keep := make(map[string]struct{}, len(answerVars))
	for v := range answerVars {
		keep[v] = struct{}{}
	}
	for v := range term.VarsOfTriples(remainingGoals) {
		keep[v] = struct{}{}
	}
	closeOverChains(s, keep)
	return subst.Project(s, keep)
}

func closeOverChains(s subst.Subst, keep map[string]struct{}) {
	for {
		changed := false
		for v := range keep {
			bound, ok := s[term.Var(v)]
			if !ok {
				continue
			}
			found := map[string]struct{}{}
			term.VarsOf(bound, found)
			for fv := range found {
				if _, already := keep[fv]; !already {
					keep[fv] = struct{}{}
					changed = true
				}
			}
		}
		if !changed {
			return
		}
	}
}
