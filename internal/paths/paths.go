// Package paths resolves the configuration directory, the data directory, and
// the two store files inside it.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// appDirName is the per-user directory name under the platform config and data roots.
const appDirName = "assistant"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "ASSISTANT_CONFIG_DIR"
	EnvDataDir   = "ASSISTANT_DATA_DIR"
)

// Store file base names. The extension follows the backend.
const (
	ContactsStoreName = "contacts"
	NotesStoreName    = "notes"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/assistant (fallback ~/.config/assistant)
// macOS:   ~/Library/Application Support/assistant
// Windows: %APPDATA%/assistant
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_CONFIG_HOME", ".config")
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName), nil
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/assistant (fallback ~/.local/share/assistant)
// macOS:   ~/Library/Application Support/assistant
// Windows: %APPDATA%/assistant
func DefaultDataDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName), nil
}

func xdgDir(env, homeRel string) (string, error) {
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeRel, appDirName), nil
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > ASSISTANT_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configValue > ASSISTANT_DATA_DIR env > DefaultDataDir().
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultDataDir()
}

// StoreFiles returns the contacts and notes file paths inside dataDir for the
// given file extension (without the dot).
func StoreFiles(dataDir, ext string) (contacts, notes string, err error) {
	if dataDir == "" {
		return "", "", fmt.Errorf("data directory is empty")
	}
	if ext == "" {
		return "", "", fmt.Errorf("store extension is empty")
	}
	contacts = filepath.Join(dataDir, ContactsStoreName+"."+ext)
	notes = filepath.Join(dataDir, NotesStoreName+"."+ext)
	return contacts, notes, nil
}
