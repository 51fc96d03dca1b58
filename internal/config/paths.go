package config

import (
	"os"
	"path/filepath"
)

const appDirName = ".pinboard"

// DataDir returns the base data directory for pinboard.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, appDirName), nil
}

// SettingsPath returns the path to the TOML settings file.
func SettingsPath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "config.toml"), nil
}

// PinsPath returns the path to the pinned-conversations file.
func PinsPath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "pins.json"), nil
}

// DBPath returns the path to the bbolt database file.
func DBPath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "pinboard.db"), nil
}

// UIStatePath returns the path to the persisted UI state file.
func UIStatePath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "state.json"), nil
}

// KeymapPath returns the path to the keymap configuration file.
func KeymapPath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "keymap.json"), nil
}

// SnapshotPath returns the default path to the host snapshot file.
func SnapshotPath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "snapshot.json"), nil
}

// UILogPath returns the path to the UI log file.
func UILogPath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "ui.log"), nil
}
