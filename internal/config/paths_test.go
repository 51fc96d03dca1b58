package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestPaths(t *testing.T) {
	t.Setenv("HOME", filepath.Join(t.TempDir(), "home"))

	dataDir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir: %v", err)
	}
	if !strings.HasSuffix(dataDir, filepath.Join(".pinboard")) {
		t.Fatalf("unexpected data dir: %s", dataDir)
	}

	settingsPath, err := SettingsPath()
	if err != nil {
		t.Fatalf("SettingsPath: %v", err)
	}
	if !strings.HasSuffix(settingsPath, filepath.Join(".pinboard", "config.toml")) {
		t.Fatalf("unexpected settings path: %s", settingsPath)
	}

	pinsPath, err := PinsPath()
	if err != nil {
		t.Fatalf("PinsPath: %v", err)
	}
	if !strings.HasSuffix(pinsPath, filepath.Join(".pinboard", "pins.json")) {
		t.Fatalf("unexpected pins path: %s", pinsPath)
	}

	dbPath, err := DBPath()
	if err != nil {
		t.Fatalf("DBPath: %v", err)
	}
	if !strings.HasSuffix(dbPath, filepath.Join(".pinboard", "pinboard.db")) {
		t.Fatalf("unexpected db path: %s", dbPath)
	}

	uiStatePath, err := UIStatePath()
	if err != nil {
		t.Fatalf("UIStatePath: %v", err)
	}
	if !strings.HasSuffix(uiStatePath, filepath.Join(".pinboard", "state.json")) {
		t.Fatalf("unexpected ui state path: %s", uiStatePath)
	}

	keymapPath, err := KeymapPath()
	if err != nil {
		t.Fatalf("KeymapPath: %v", err)
	}
	if !strings.HasSuffix(keymapPath, filepath.Join(".pinboard", "keymap.json")) {
		t.Fatalf("unexpected keymap path: %s", keymapPath)
	}

	snapshotPath, err := SnapshotPath()
	if err != nil {
		t.Fatalf("SnapshotPath: %v", err)
	}
	if !strings.HasSuffix(snapshotPath, filepath.Join(".pinboard", "snapshot.json")) {
		t.Fatalf("unexpected snapshot path: %s", snapshotPath)
	}

	uiLogPath, err := UILogPath()
	if err != nil {
		t.Fatalf("UILogPath: %v", err)
	}
	if !strings.HasSuffix(uiLogPath, filepath.Join(".pinboard", "ui.log")) {
		t.Fatalf("unexpected ui log path: %s", uiLogPath)
	}
}
