package root

import (
	"testing"

	"fjacquet/statement-import/internal/config"
	"fjacquet/statement-import/internal/container"
	"fjacquet/statement-import/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "stmt-import", Cmd.Use)
	assert.Contains(t, Cmd.Short, "normalized transaction ledger")
	assert.NotNil(t, Cmd.PersistentPreRunE)
}

func TestInit_Flags(t *testing.T) {
	Init()
	for name, short := range map[string]string{"input": "i", "output": "o", "format": "f"} {
		flag := Cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, short, flag.Shorthand)
	}
	assert.NotNil(t, Cmd.PersistentFlags().Lookup("log-level"))
}

func TestSetup(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)
	t.Setenv("STMTIMPORT_FORMATS_DEFAULT", "cal")
	t.Cleanup(func() { SetContainer(nil) })

	SharedFlags.LogLevel = "debug"
	t.Cleanup(func() { SharedFlags.LogLevel = "" })

	require.NoError(t, setup(Cmd, nil))
	c := GetContainer()
	require.NotNil(t, c)
	assert.Equal(t, "debug", c.GetConfig().Log.Level)
	assert.Equal(t, "cal", c.GetConfig().Formats.Default)
}

func TestSetup_InvalidDefaultFormat(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)
	t.Setenv("STMTIMPORT_FORMATS_DEFAULT", "unknown")

	err := setup(Cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize application")
}

func TestSetContainer(t *testing.T) {
	c, err := container.NewContainerWithLogger(config.Default(), logging.NewMockLogger())
	require.NoError(t, err)
	SetContainer(c)
	t.Cleanup(func() { SetContainer(nil) })
	assert.Same(t, c, GetContainer())
	assert.Equal(t, c.GetLogger(), Log)
}
