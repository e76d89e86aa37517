package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var showStats bool

var runCmd = &cobra.Command{
	Use:   "run <file>...",
	Short: "load and close one or more N3 documents, printing derived facts",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&showStats, "stats", false, "print per-predicate fact counts after closure")
}

func runRun(cmd *cobra.Command, args []string) error {
	e, err := loadEngine(args)
	if err != nil {
		return err
	}
	res, runErr := e.Run()
	logFuseOutcome(runErr)

	p := printer()
	for _, t := range res.Facts {
		fmt.Println(p.Triple(t))
	}
	fmt.Printf("# %d facts, %d rules\n", res.Stats.FactCount, res.Stats.RuleCount)
	if showStats {
		printPredicateCounts(res.Stats.PredicateCounts)
	}
	return runErr
}

func printPredicateCounts(counts map[string]int) {
	preds := make([]string, 0, len(counts))
	for pred := range counts {
		preds = append(preds, pred)
	}
	sort.Strings(preds)
	for _, pred := range preds {
		fmt.Printf("#   %-60s %d\n", pred, counts[pred])
	}
}
