package core

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the application name used in data directory paths.
const AppName = "ArtArena"

// GetDataDirectory returns the platform-specific data directory path for
// the client. This is where the session database and logs live; it plays
// the role per-origin browser storage played for the web frontend.
//
// Paths by platform:
//   - Windows: %APPDATA%/ArtArena
//   - Linux/macOS: ~/.artarena
//
// Does NOT create the directory - callers should use EnsureDataDirectory for that.
func GetDataDirectory() string {
	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return AppName
			}
			return filepath.Join(home, "AppData", "Roaming", AppName)
		}
		return filepath.Join(appData, AppName)
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return ".artarena"
		}
		return filepath.Join(home, ".artarena")
	}
}

// GetDataFilePath returns the full path for a file within the data directory.
// Example: GetDataFilePath("session.db") -> "/home/user/.artarena/session.db"
func GetDataFilePath(filename string) string {
	return filepath.Join(GetDataDirectory(), filename)
}

// EnsureDataDirectory creates the data directory if it doesn't exist.
// Returns the directory path and any error encountered.
func EnsureDataDirectory() (string, error) {
	dir := GetDataDirectory()
	err := os.MkdirAll(dir, 0700) // session token lives here, keep it private
	if err != nil {
		return "", err
	}
	return dir, nil
}
