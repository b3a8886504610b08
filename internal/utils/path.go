package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// DefaultDictionaryNames are tried when no dictionary file is configured.
var DefaultDictionaryNames = []string{"words.dic", "words.dic.zst", "words.dic.xz"}

// ErrDictionaryNotFound is returned when no candidate path holds a file.
var ErrDictionaryNotFound = errors.New("dictionary file not found")

// PathResolver locates the files of the binary: the dictionary next to the
// executable, in the working directory or in the config directory.
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
}

// NewPathResolver determines the executable location and config directory.
func NewPathResolver(appName string) (*PathResolver, error) {
	execDir, err := ExecutableDir()
	if err != nil {
		return nil, err
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}
	pr := &PathResolver{
		executableDir: execDir,
		homeDir:       homeDir,
		configDir:     userConfigDir(homeDir, appName),
	}
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", pr.executableDir, pr.configDir)
	return pr, nil
}

// UserConfigDir is the per-user config directory of appName.
func UserConfigDir(appName string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return userConfigDir(home, appName)
}

func userConfigDir(homeDir, appName string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, appName)
		}
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", appName)
	}
	return filepath.Join(homeDir, ".config", appName)
}

// ConfigDir returns the config directory.
func (pr *PathResolver) ConfigDir() string { return pr.configDir }

// DictionaryCandidates lists where a dictionary called name is looked for,
// in order. An empty name stands for each of DefaultDictionaryNames.
func (pr *PathResolver) DictionaryCandidates(name string) []string {
	names := []string{name}
	if name == "" {
		names = DefaultDictionaryNames
	}
	var candidates []string
	for _, n := range names {
		if filepath.IsAbs(n) {
			candidates = append(candidates, n)
			continue
		}
		if cwd, err := os.Getwd(); err == nil {
			candidates = append(candidates, filepath.Join(cwd, n))
		}
		candidates = append(candidates,
			filepath.Join(pr.executableDir, n),
			filepath.Join(pr.executableDir, "data", n),
			filepath.Join(pr.configDir, n),
		)
	}
	return candidates
}

// ResolveDictionary returns the first existing candidate for name.
func (pr *PathResolver) ResolveDictionary(name string) (string, error) {
	candidates := pr.DictionaryCandidates(name)
	for _, path := range candidates {
		if IsFile(path) {
			log.Debugf("Found dictionary file: %s", path)
			return path, nil
		}
		log.Debugf("Dictionary candidate not found: %s", path)
	}
	if name == "" {
		name = DefaultDictionaryNames[0]
	}
	return "", fmt.Errorf("%w: %s (tried %d locations)", ErrDictionaryNotFound, name, len(candidates))
}

// GetRuntimeInfo returns debug information about the current runtime environment
func (pr *PathResolver) GetRuntimeInfo() map[string]string {
	cwd, _ := os.Getwd()
	return map[string]string{
		"executable_dir": pr.executableDir,
		"current_dir":    cwd,
		"home_dir":       pr.homeDir,
		"config_dir":     pr.configDir,
		"os":             runtime.GOOS,
		"arch":           runtime.GOARCH,
	}
}
