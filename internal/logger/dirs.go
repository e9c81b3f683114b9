package logger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DefaultDir returns the platform log directory for the app identifier:
//
//	linux    $XDG_DATA_HOME/<identifier>/logs (~/.local/share when unset)
//	darwin   ~/Library/Logs/<identifier>
//	windows  %LOCALAPPDATA%\<identifier>\logs
func DefaultDir(identifier string) (string, error) {
	if identifier == "" {
		return "", errors.New("app identifier is empty")
	}

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, "Library", "Logs", identifier), nil

	case "windows":
		base := os.Getenv("LOCALAPPDATA")
		if base == "" {
			var err error
			if base, err = os.UserConfigDir(); err != nil {
				return "", fmt.Errorf("failed to resolve local app data: %w", err)
			}
		}
		return filepath.Join(base, identifier, "logs"), nil

	default:
		base := os.Getenv("XDG_DATA_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to resolve home directory: %w", err)
			}
			base = filepath.Join(home, ".local", "share")
		}
		return filepath.Join(base, identifier, "logs"), nil
	}
}
