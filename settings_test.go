package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClampSettingsPullsBadValues(t *testing.T) {
	old := gs
	defer func() { gs = old }()

	gs = gsdef
	gs.SmoothingFactor = 3
	gs.EdgeFraction = 0.9
	gs.ScrollMinSpeed = -5
	gs.ScrollMaxSpeed = 1
	gs.FrameSendHz = 1000
	gs.MasterVolume = 4
	clampSettings()

	if gs.SmoothingFactor != gsdef.SmoothingFactor {
		t.Fatalf("smoothing factor not clamped: %v", gs.SmoothingFactor)
	}
	if gs.EdgeFraction != gsdef.EdgeFraction {
		t.Fatalf("edge fraction not clamped: %v", gs.EdgeFraction)
	}
	if gs.ScrollMinSpeed != gsdef.ScrollMinSpeed {
		t.Fatalf("min scroll speed not clamped: %v", gs.ScrollMinSpeed)
	}
	if gs.ScrollMaxSpeed != gs.ScrollMinSpeed {
		t.Fatalf("max speed below min should clamp to min, got %v", gs.ScrollMaxSpeed)
	}
	if gs.FrameSendHz != gsdef.FrameSendHz {
		t.Fatalf("frame rate not clamped: %v", gs.FrameSendHz)
	}
	if gs.MasterVolume != gsdef.MasterVolume {
		t.Fatalf("volume not clamped: %v", gs.MasterVolume)
	}
}

func TestLoadSettingsVersionMismatch(t *testing.T) {
	oldDir := dataDirPath
	dataDirPath = t.TempDir()
	oldGS := gs
	defer func() {
		dataDirPath = oldDir
		gs = oldGS
	}()

	data := []byte(`{"Version":1,"ServerURL":"ws://elsewhere:1/ws"}`)
	if err := os.WriteFile(filepath.Join(dataDirPath, settingsFile), data, 0644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	if loadSettings() {
		t.Fatalf("version mismatch should reject the file")
	}
	if gs.ServerURL != gsdef.ServerURL {
		t.Fatalf("rejected settings must leave defaults, got %q", gs.ServerURL)
	}
}

func TestSaveLoadSettingsRoundTrip(t *testing.T) {
	oldDir := dataDirPath
	dataDirPath = t.TempDir()
	oldGS := gs
	defer func() {
		dataDirPath = oldDir
		gs = oldGS
	}()

	gs = gsdef
	gs.ServerURL = "ws://example.test:9999/ws"
	gs.ShowFPS = false
	saveSettings()

	gs = settings{}
	if !loadSettings() {
		t.Fatalf("saved settings should load")
	}
	if gs.ServerURL != "ws://example.test:9999/ws" {
		t.Fatalf("server url lost in round trip: %q", gs.ServerURL)
	}
	if gs.ShowFPS {
		t.Fatalf("showFPS lost in round trip")
	}
	if gs.Version != SETTINGS_VERSION {
		t.Fatalf("version lost in round trip: %d", gs.Version)
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	oldDir := dataDirPath
	dataDirPath = t.TempDir()
	oldGS := gs
	defer func() {
		dataDirPath = oldDir
		gs = oldGS
	}()

	gs = settings{}
	if loadSettings() {
		t.Fatalf("missing file should report false")
	}
	if gs.ServerURL != gsdef.ServerURL || gs.SmoothingFactor != gsdef.SmoothingFactor {
		t.Fatalf("missing file should leave defaults in place")
	}
}
