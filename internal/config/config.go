// Package config loads jcc1's compiler configuration: target selection
// and debug-dump flags, overlaid the way the teacher's own cmd/dwscript/
// cmd layers cobra-bound flags on top of defaults — an optional YAML
// file supplies defaults, and pflag-typed command flags win over it.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// DumpStage names one intermediate representation --dump can print.
type DumpStage string

const (
	DumpNone      DumpStage = ""
	DumpAST       DumpStage = "ast"
	DumpTIR       DumpStage = "tir"
	DumpMIR       DumpStage = "mir"
	DumpArenaStat DumpStage = "arena-stats"
)

// Config is the compiler's resolved configuration: which target to
// lower to and which stages (if any) to dump to stderr.
type Config struct {
	Target  string    `yaml:"target"`
	Dump    DumpStage `yaml:"dump"`
	Verbose bool      `yaml:"verbose"`
}

// Default returns the configuration used when no file and no flags
// override anything.
func Default() *Config {
	return &Config{Target: "x86-64", Dump: DumpNone}
}

// Load reads path (if it exists; a missing file is not an error, since
// jcc1.yaml is optional) and unmarshals it over Default().
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return c, nil
}

// BindFlags registers pflag definitions that, once parsed, override
// whatever Load populated c with. Flags are bound directly onto c's
// fields so the caller only has to call fs.Parse.
func BindFlags(c *Config, fs *pflag.FlagSet) {
	fs.StringVar(&c.Target, "target", c.Target, "backend target to lower to (x86-64)")
	fs.StringVar((*string)(&c.Dump), "dump", string(c.Dump), "intermediate representation to dump (ast, tir, mir, arena-stats)")
	fs.BoolVarP(&c.Verbose, "verbose", "v", c.Verbose, "verbose diagnostic output")
}
