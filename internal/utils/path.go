package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// PathResolver resolves word lists and the dataset relative to the working
// directory first and the executable second.
type PathResolver struct {
	executableDir string
	workDir       string
	homeDir       string
	configDir     string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}
	workDir, err := os.Getwd()
	if err != nil {
		workDir = "."
	}

	pr := &PathResolver{
		executableDir: filepath.Dir(execPath),
		workDir:       workDir,
		homeDir:       homeDir,
		configDir:     getConfigDir(homeDir),
	}
	log.Debugf("PathResolver initialized: execDir=%s, workDir=%s, configDir=%s",
		pr.executableDir, pr.workDir, pr.configDir)
	return pr, nil
}

// getConfigDir returns the appropriate config directory for the platform
func getConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, ".config", "wordsolve")
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, "wordsolve")
		}
		return filepath.Join(homeDir, ".config", "wordsolve")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "wordsolve")
		}
		return filepath.Join(homeDir, "AppData", "Roaming", "wordsolve")
	default:
		return filepath.Join(homeDir, ".wordsolve")
	}
}

// Resolve returns the first existing location of path, trying it as given
// (absolute or relative to the working directory) and then relative to the
// executable. When nothing exists the working-directory form is returned, so
// outputs such as the dataset are created where the user ran the command.
func (pr *PathResolver) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	candidates := []string{
		filepath.Join(pr.workDir, path),
		filepath.Join(pr.executableDir, path),
	}
	for _, c := range candidates {
		if FileExists(c) {
			log.Debugf("Resolved %s to %s", path, c)
			return c
		}
		log.Debugf("Path candidate not found: %s", c)
	}
	return candidates[0]
}

// GetConfigPath returns the full path for a config file, falling back to
// other writable locations when the config dir cannot be created.
func (pr *PathResolver) GetConfigPath(filename string) (string, error) {
	if CheckDirStatus(pr.configDir).Writable {
		return filepath.Join(pr.configDir, filename), nil
	}

	fallbackDirs := []string{
		filepath.Join(pr.homeDir, ".wordsolve"),
		filepath.Join(os.TempDir(), "wordsolve"),
		pr.executableDir,
	}
	for _, dir := range fallbackDirs {
		if CheckDirStatus(dir).Writable {
			path := filepath.Join(dir, filename)
			log.Warnf("Using fallback config location: %s", path)
			return path, nil
		}
	}

	tempPath := filepath.Join(os.TempDir(), filename)
	log.Warnf("Using temporary config file: %s", tempPath)
	return tempPath, nil
}

// GetConfigDir returns the config directory
func (pr *PathResolver) GetConfigDir() string {
	return pr.configDir
}
