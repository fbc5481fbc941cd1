// Package cmd implements jcc1's cobra command tree, grounded on the
// teacher's cmd/dwscript/cmd package: a package-level rootCmd with
// persistent flags, subcommands registering themselves onto it from
// their own init().
package cmd

import (
	"fmt"

	"github.com/joos1w/jcc1/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"

	cfg = config.Default()
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "jcc1",
	Short: "Joos1W ahead-of-time compiler middle/back end",
	Long: `jcc1 resolves, hierarchy-checks, and type-checks a Joos1W
compilation unit, then lowers it through TIR, SSA/CFG transforms, and
DAG-based instruction selection onto a target machine description.

The parser accepted here is a minimal scanner/parser for a fixed seed
grammar, not a full Joos1W front end: jcc1's own job is everything from
the parse tree onward.`,
	Version:           Version,
	PersistentPreRunE: overlayConfigFile,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
`, GitCommit))

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a jcc1.yaml configuration file")
	config.BindFlags(cfg, rootCmd.PersistentFlags())
}

// overlayConfigFile loads configFile, if given, as defaults for any flag
// the user didn't explicitly pass on the command line — flags always
// win over the file, the file always wins over Default().
func overlayConfigFile(c *cobra.Command, _ []string) error {
	if configFile == "" {
		return nil
	}
	loaded, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if !c.Flags().Changed("target") {
		cfg.Target = loaded.Target
	}
	if !c.Flags().Changed("dump") {
		cfg.Dump = loaded.Dump
	}
	if !c.Flags().Changed("verbose") {
		cfg.Verbose = loaded.Verbose
	}
	return nil
}
