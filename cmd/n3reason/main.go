// Package main implements the n3reason CLI: load one or more N3
// documents, close them under their forward rules, then print derived
// facts, run one backward-chaining goal, or explain a derivation.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"n3reason/internal/config"
	"n3reason/internal/logging"
)

var (
	verbose  bool
	cfgPath  string
	superRestricted bool
	enforceHTTPS    bool

	activeConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "n3reason",
	Short: "a forward/backward-chaining reasoner for a Horn-style subset of N3",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(verbose); err != nil {
			return fmt.Errorf("n3reason: %w", err)
		}
		cfg := config.DefaultConfig()
		if cfgPath != "" {
			loaded, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("n3reason: %w", err)
			}
			cfg = loaded
		}
		if cmd.Flags().Changed("super-restricted") {
			cfg.SuperRestricted = superRestricted
		}
		if cmd.Flags().Changed("enforce-https") {
			cfg.EnforceHTTPS = enforceHTTPS
		}
		activeConfig = cfg
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVar(&superRestricted, "super-restricted", false, "disable every builtin except log:implies and log:impliedBy, including the external-collaborator ones (log:semantics, log:content, log:parsedAsN3)")
	rootCmd.PersistentFlags().BoolVar(&enforceHTTPS, "enforce-https", false, "rewrite http:// fetch targets to https:// before dereferencing")

	rootCmd.AddCommand(runCmd, queryCmd, explainCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
