package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain <file> '{ ?s ?p ?o }'",
	Short: "print the derivation trail for one derived triple",
	Args:  cobra.ExactArgs(2),
	RunE:  runExplain,
}

func runExplain(cmd *cobra.Command, args []string) error {
	e, err := loadEngine(args[:1])
	if err != nil {
		return err
	}
	if _, runErr := e.Run(); runErr != nil {
		logFuseOutcome(runErr)
		return runErr
	}

	goals, err := parseGoal(e, args[1])
	if err != nil {
		return err
	}
	if len(goals) != 1 {
		return fmt.Errorf("n3reason: explain takes a single-triple goal pattern")
	}

	tree := e.Explain(goals[0])
	fmt.Println(tree.RenderASCII())
	return nil
}
