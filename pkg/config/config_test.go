package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/wordsolve/pkg/environment"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())

	s, err := c.StrategyID()
	require.NoError(t, err)
	assert.Equal(t, environment.Minimax, s)
	assert.Equal(t, filepath.Join("saved", "data.bin"), c.Paths.Data)
	assert.Equal(t, 250, c.Test.MaxGuesses)
}

func TestInitConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	c, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
	assert.FileExists(t, path)

	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, c, again)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[paths]
pool = "lists/all.txt"

[solver]
strategy = "entropy"
workers = 4

[server]
max_sessions = 8
`)
	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "lists/all.txt", c.Paths.Pool)
	assert.Equal(t, DefaultConfig().Paths.Targets, c.Paths.Targets)
	assert.Equal(t, 4, c.Solver.Workers)
	assert.Equal(t, 8, c.Server.MaxSessions)

	s, err := c.StrategyID()
	require.NoError(t, err)
	assert.Equal(t, environment.Entropy, s)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := writeConfig(t, `
[solver]
strategy = 1
workers = "three"

[test]
max_guesses = 10
`)
	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "1", c.Solver.Strategy)
	assert.Equal(t, 0, c.Solver.Workers)
	assert.Equal(t, 10, c.Test.MaxGuesses)

	s, err := c.StrategyID()
	require.NoError(t, err)
	assert.Equal(t, environment.Entropy, s)
}

func TestLoadConfigUnparsable(t *testing.T) {
	path := writeConfig(t, "this is [not toml")
	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"strategy":     func(c *Config) { c.Solver.Strategy = "fastest" },
		"strategy id":  func(c *Config) { c.Solver.Strategy = "7" },
		"workers":      func(c *Config) { c.Solver.Workers = -1 },
		"max guesses":  func(c *Config) { c.Test.MaxGuesses = 0 },
		"max sessions": func(c *Config) { c.Server.MaxSessions = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := DefaultConfig()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeConfig(t, "[test]\nmax_guesses = 6\n")

	c, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 6, c.Test.MaxGuesses)
}

func TestRebuildConfigFile(t *testing.T) {
	path := writeConfig(t, "[test]\nmax_guesses = 6\n")

	got, err := RebuildConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestGetActiveConfigPath(t *testing.T) {
	assert.Equal(t, "builtin defaults", GetActiveConfigPath(""))
	assert.True(t, filepath.IsAbs(GetActiveConfigPath("wordsolve.toml")))
}
