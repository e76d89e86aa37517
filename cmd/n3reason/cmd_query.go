package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"n3reason/internal/subst"
	"n3reason/internal/term"
)

var queryCmd = &cobra.Command{
	Use:   "query <file> '{ ?s ?p ?o }'",
	Short: "close a document and run one backward-chaining goal against it",
	Args:  cobra.ExactArgs(2),
	RunE:  runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	e, err := loadEngine(args[:1])
	if err != nil {
		return err
	}
	if _, runErr := e.Run(); runErr != nil {
		logFuseOutcome(runErr)
		return runErr
	}

	goal, err := parseGoal(e, args[1])
	if err != nil {
		return err
	}
	sols, err := e.Query(goal)
	if err != nil {
		return fmt.Errorf("n3reason: %w", err)
	}
	if len(sols) == 0 {
		fmt.Println("no solutions")
		return nil
	}
	for _, s := range sols {
		fmt.Println(formatSolution(s))
	}
	return nil
}

func formatSolution(s subst.Subst) string {
	names := make([]string, 0, len(s))
	for v := range s {
		names = append(names, string(v))
	}
	sort.Strings(names)

	p := printer()
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("?%s=%s", name, p.Term(s[term.Var(name)]))
	}
	return strings.Join(parts, " ")
}
