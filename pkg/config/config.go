/*
Package config manages TOML config for wordsolve.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/wordsolve/internal/utils"
	"github.com/bastiangx/wordsolve/pkg/environment"
	"github.com/charmbracelet/log"
)

// FileName is the config file looked up in the user config dir.
const FileName = "wordsolve.toml"

// Config holds the entire config structure
type Config struct {
	Paths  PathsConfig  `toml:"paths"`
	Solver SolverConfig `toml:"solver"`
	Test   TestConfig   `toml:"test"`
	Server ServerConfig `toml:"server"`
}

// PathsConfig locates the word lists and the dataset.
type PathsConfig struct {
	Pool    string `toml:"pool"`
	Targets string `toml:"targets"`
	Data    string `toml:"data"`
}

// SolverConfig holds guess selection options.
type SolverConfig struct {
	// Strategy is a name ("minimax", "entropy") or numeric id.
	Strategy string `toml:"strategy"`
	// Workers bounds scoring goroutines; 0 uses GOMAXPROCS.
	Workers int `toml:"workers"`
}

// TestConfig holds evaluation options.
type TestConfig struct {
	MaxGuesses int `toml:"max_guesses"`
	Workers    int `toml:"workers"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxSessions int `toml:"max_sessions"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			Pool:    filepath.Join("input", "pool.txt"),
			Targets: filepath.Join("input", "targets.txt"),
			Data:    filepath.Join("saved", "data.bin"),
		},
		Solver: SolverConfig{
			Strategy: environment.Minimax.String(),
			Workers:  0,
		},
		Test: TestConfig{
			MaxGuesses: 250,
			Workers:    0,
		},
		Server: ServerConfig{
			MaxSessions: 64,
		},
	}
}

// StrategyID parses the configured strategy.
func (c *Config) StrategyID() (environment.Strategy, error) {
	s, err := environment.ParseStrategy(c.Solver.Strategy)
	if err != nil {
		return 0, err
	}
	if !s.Valid() {
		return 0, fmt.Errorf("unknown strategy %q", c.Solver.Strategy)
	}
	return s, nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if _, err := c.StrategyID(); err != nil {
		return err
	}
	if c.Solver.Workers < 0 || c.Test.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	if c.Test.MaxGuesses < 1 {
		return fmt.Errorf("max_guesses must be at least 1, got %d", c.Test.MaxGuesses)
	}
	if c.Server.MaxSessions < 1 {
		return fmt.Errorf("max_sessions must be at least 1, got %d", c.Server.MaxSessions)
	}
	return nil
}

// GetDefaultConfigPath returns the default path for wordsolve.toml
func GetDefaultConfigPath() (string, error) {
	pr, err := utils.NewPathResolver()
	if err != nil {
		return "", err
	}
	return pr.GetConfigPath(FileName)
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordsolve/wordsolve.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. A file that does not fit the schema is
// salvaged section by section.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "paths"); ok {
		extractPathsConfig(section, &config.Paths)
	}
	if section, ok := utils.ExtractSection(tempConfig, "solver"); ok {
		extractSolverConfig(section, &config.Solver)
	}
	if section, ok := utils.ExtractSection(tempConfig, "test"); ok {
		extractTestConfig(section, &config.Test)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	return config, nil
}

func extractPathsConfig(data map[string]any, paths *PathsConfig) {
	if val, ok := utils.ExtractString(data, "pool"); ok {
		paths.Pool = val
	}
	if val, ok := utils.ExtractString(data, "targets"); ok {
		paths.Targets = val
	}
	if val, ok := utils.ExtractString(data, "data"); ok {
		paths.Data = val
	}
}

func extractSolverConfig(data map[string]any, solver *SolverConfig) {
	if val, ok := utils.ExtractString(data, "strategy"); ok {
		solver.Strategy = val
	} else if val, ok := utils.ExtractInt64(data, "strategy"); ok {
		solver.Strategy = fmt.Sprint(val)
	}
	if val, ok := utils.ExtractInt64(data, "workers"); ok {
		solver.Workers = val
	}
}

func extractTestConfig(data map[string]any, test *TestConfig) {
	if val, ok := utils.ExtractInt64(data, "max_guesses"); ok {
		test.MaxGuesses = val
	}
	if val, ok := utils.ExtractInt64(data, "workers"); ok {
		test.Workers = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_sessions"); ok {
		server.MaxSessions = val
	}
}

// RebuildConfigFile force creates a new config file at path, or at the
// default location when path is empty.
func RebuildConfigFile(path string) (string, error) {
	if path == "" {
		defaultPath, err := GetDefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return "", err
	}
	return path, SaveConfig(DefaultConfig(), path)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "builtin defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
