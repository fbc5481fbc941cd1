package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, "x86-64", c.Target)
	assert.Equal(t, DumpNone, c.Dump)
	assert.False(t, c.Verbose)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jcc1.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target: arm64\nverbose: true\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "arm64", c.Target)
	assert.True(t, c.Verbose)
	assert.Equal(t, DumpNone, c.Dump, "fields absent from the file keep Default's value")
}

func TestBindFlagsOverridesConfig(t *testing.T) {
	c := &Config{Target: "x86-64", Dump: DumpNone}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(c, fs)

	require.NoError(t, fs.Parse([]string{"--target=arm64", "--dump=mir", "-v"}))

	assert.Equal(t, "arm64", c.Target)
	assert.Equal(t, DumpMIR, c.Dump)
	assert.True(t, c.Verbose)
}
