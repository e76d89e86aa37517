// Package explain builds and renders proof trees from a forward run's
// derivation records (§4.7): for each derived fact, the rule that
// produced it, the instantiated premises, and — recursively — whichever
// derivation record produced each premise in turn.
package explain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"n3reason/internal/forward"
	"n3reason/internal/rules"
	"n3reason/internal/subst"
	"n3reason/internal/term"
)

// Source distinguishes a fact present before the run (EDB, "extensional")
// from one materialized by a rule firing (IDB, "intensional").
type Source string

const (
	SourceEDB Source = "EDB"
	SourceIDB Source = "IDB"
)

// Node is one step of a proof tree: a fact, how it was obtained, and the
// premises (as child nodes) that obtained it.
type Node struct {
	Fact     term.Triple
	Source   Source
	Rule     string // schematic rule text, empty for EDB facts
	Solution subst.Subst
	Children []*Node
}

// Tree explains a single derived fact by walking the derivation records
// backward: each premise that matches some derivation's Fact becomes a
// child node, recursively, until an EDB fact (no producing derivation)
// or a depth limit is reached.
type Tree struct {
	Root *Node
}

// Build finds the derivation (if any) that produced goal and explains it.
// If goal was never derived — it was present from the start, or it is
// not a fact at all — the resulting tree has a single EDB root.
func Build(derived []forward.Derivation, goal term.Triple) *Tree {
	byFact := indexByFact(derived)
	return &Tree{Root: buildNode(byFact, goal, map[string]bool{}, 0)}
}

func indexByFact(derived []forward.Derivation) map[string]forward.Derivation {
	idx := make(map[string]forward.Derivation, len(derived))
	for _, d := range derived {
		idx[factKey(d.Fact)] = d
	}
	return idx
}

func factKey(t term.Triple) string {
	return t.Subject.String() + "|" + t.Predicate.String() + "|" + t.Object.String()
}

const maxExplainDepth = 64

func buildNode(byFact map[string]forward.Derivation, goal term.Triple, visiting map[string]bool, depth int) *Node {
	key := factKey(goal)
	d, derived := byFact[key]
	if !derived || visiting[key] || depth >= maxExplainDepth {
		return &Node{Fact: goal, Source: SourceEDB}
	}
	visiting[key] = true
	defer delete(visiting, key)

	n := &Node{
		Fact:     goal,
		Source:   SourceIDB,
		Rule:     ruleSchema(d.Rule),
		Solution: projectToRuleVars(d),
	}
	for _, premise := range d.Premises {
		n.Children = append(n.Children, buildNode(byFact, premise, visiting, depth+1))
	}
	return n
}

// projectToRuleVars restricts a derivation's full solution down to the
// variables that actually appear in its rule's own premise or head —
// the part of the substitution an explanation reader cares about (§4.7).
func projectToRuleVars(d forward.Derivation) subst.Subst {
	if d.Rule == nil {
		return d.Solution
	}
	keep := term.VarsOfTriples(d.Rule.Premise)
	for v := range term.VarsOfTriples(d.Rule.Conclusion) {
		keep[v] = struct{}{}
	}
	return subst.Project(d.Solution, keep)
}

func ruleSchema(r *rules.Rule) string {
	if r == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("{ ")
	for _, t := range r.Premise {
		sb.WriteString(t.String())
		sb.WriteString(" ")
	}
	sb.WriteString("} => { ")
	for _, t := range r.Conclusion {
		sb.WriteString(t.String())
		sb.WriteString(" ")
	}
	sb.WriteString("}")
	return sb.String()
}

// RenderASCII renders the tree with box-drawing connectors, in the style
// of a classic derivation-tree dump: root first, premises indented below.
func (tr *Tree) RenderASCII() string {
	var sb strings.Builder
	renderNodeASCII(&sb, tr.Root, "", true)
	return sb.String()
}

func renderNodeASCII(sb *strings.Builder, n *Node, prefix string, isLast bool) {
	connector := "├── "
	if isLast {
		connector = "└── "
	}
	label := "[EDB]"
	if n.Source == SourceIDB {
		label = fmt.Sprintf("[IDB: %s %s]", n.Rule, formatSubst(n.Solution))
	}
	sb.WriteString(fmt.Sprintf("%s%s%s %s\n", prefix, connector, n.Fact.String(), label))

	childPrefix := prefix
	if isLast {
		childPrefix += "    "
	} else {
		childPrefix += "│   "
	}
	for i, child := range n.Children {
		renderNodeASCII(sb, child, childPrefix, i == len(n.Children)-1)
	}
}

type jsonNode struct {
	Fact     string      `json:"fact"`
	Source   string      `json:"source"`
	Rule     string      `json:"rule,omitempty"`
	Solution string      `json:"solution,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

// RenderJSON serializes the tree for machine consumption.
func (tr *Tree) RenderJSON() ([]byte, error) {
	return json.MarshalIndent(toJSONNode(tr.Root), "", "  ")
}

func toJSONNode(n *Node) *jsonNode {
	jn := &jsonNode{
		Fact:   n.Fact.String(),
		Source: string(n.Source),
		Rule:   n.Rule,
	}
	if n.Source == SourceIDB {
		jn.Solution = formatSubst(n.Solution)
	}
	for _, child := range n.Children {
		jn.Children = append(jn.Children, toJSONNode(child))
	}
	return jn
}

// formatSubst renders a substitution as "?x=<val>, ?y=<val>" in a stable
// (sorted by variable name) order, for human- and machine-readable output.
func formatSubst(s subst.Subst) string {
	if len(s) == 0 {
		return "{}"
	}
	names := make([]string, 0, len(s))
	for v := range s {
		names = append(names, string(v))
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("?%s=%s", name, s[term.Var(name)].String()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
