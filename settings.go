package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const SETTINGS_VERSION = 3

var gs settings = gsdef

// settingsLoaded reports whether settings were successfully loaded from disk.
var settingsLoaded bool

var gsdef settings = settings{
	Version: SETTINGS_VERSION,

	ServerURL: "ws://127.0.0.1:8765/ws",

	WindowWidth:  1200,
	WindowHeight: 800,
	Vsync:        true,
	ShowFPS:      true,

	MasterVolume: 1.0,
	GameSound:    true,

	SmoothingFactor: 0.08,
	CursorRadius:    24,

	EdgeFraction:   0.10,
	ScrollDwellMs:  300,
	ScrollMinSpeed: 200,
	ScrollMaxSpeed: 800,

	FrameSendHz: 10,

	PromptOnSaveRecording: true,
	Notifications:         true,
	DiscordPresence:       true,
}

type settings struct {
	Version int

	ServerURL    string
	AssetBaseURL string

	WindowWidth  int
	WindowHeight int
	Fullscreen   bool
	Vsync        bool
	ShowFPS      bool

	MasterVolume float64
	GameSound    bool
	Mute         bool

	// SmoothingFactor eases the gaze cursor toward each sample;
	// CursorRadius keeps its circle inside the screen; MouseGaze swaps the
	// OS cursor in for gaze samples.
	SmoothingFactor float64
	CursorRadius    float64
	MouseGaze       bool

	EdgeFraction   float64
	ScrollDwellMs  int
	ScrollMinSpeed float64
	ScrollMaxSpeed float64

	// FrameSendHz caps outbound webcam frames per second. FramesDir is a
	// directory of JPEGs standing in for a camera.
	FrameSendHz float64
	FramesDir   string

	RecordSessions        bool
	PromptOnSaveRecording bool

	Notifications   bool
	DiscordPresence bool
	DebugLogging    bool
}

var (
	settingsDirty    bool
	lastSettingsSave = time.Now()
)

const settingsFile = "settings.json"

func loadSettings() bool {
	path := filepath.Join(dataDirPath, settingsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		gs = gsdef
		settingsLoaded = false
		return false
	}

	tmp := gsdef
	if err := json.Unmarshal(data, &tmp); err != nil {
		gs = gsdef
		settingsLoaded = false
		return false
	}
	if tmp.Version != SETTINGS_VERSION {
		gs = gsdef
		settingsLoaded = false
		return false
	}
	gs = tmp
	clampSettings()
	settingsLoaded = true
	return true
}

// clampSettings pulls out-of-range tuning back to sane values so a
// hand-edited file cannot wedge the client.
func clampSettings() {
	if gs.SmoothingFactor <= 0 || gs.SmoothingFactor > 1 {
		gs.SmoothingFactor = gsdef.SmoothingFactor
	}
	if gs.CursorRadius < 0 || gs.CursorRadius > 200 {
		gs.CursorRadius = gsdef.CursorRadius
	}
	if gs.EdgeFraction <= 0 || gs.EdgeFraction > 0.45 {
		gs.EdgeFraction = gsdef.EdgeFraction
	}
	if gs.ScrollDwellMs < 0 || gs.ScrollDwellMs > 5000 {
		gs.ScrollDwellMs = gsdef.ScrollDwellMs
	}
	if gs.ScrollMinSpeed <= 0 {
		gs.ScrollMinSpeed = gsdef.ScrollMinSpeed
	}
	if gs.ScrollMaxSpeed < gs.ScrollMinSpeed {
		gs.ScrollMaxSpeed = gs.ScrollMinSpeed
	}
	if gs.MasterVolume < 0 || gs.MasterVolume > 1 {
		gs.MasterVolume = gsdef.MasterVolume
	}
	if gs.FrameSendHz <= 0 || gs.FrameSendHz > 60 {
		gs.FrameSendHz = gsdef.FrameSendHz
	}
	if gs.WindowWidth < 320 || gs.WindowHeight < 240 {
		gs.WindowWidth = gsdef.WindowWidth
		gs.WindowHeight = gsdef.WindowHeight
	}
}

// applySettings pushes the loaded values into the live window.
func applySettings() {
	ebiten.SetWindowSize(gs.WindowWidth, gs.WindowHeight)
	ebiten.SetFullscreen(gs.Fullscreen)
	ebiten.SetVsyncEnabled(gs.Vsync)
}

func saveSettings() {
	data, err := json.MarshalIndent(gs, "", "  ")
	if err != nil {
		logError("save settings: %v", err)
		return
	}
	path := filepath.Join(dataDirPath, settingsFile)
	if err := os.WriteFile(path+".tmp", data, 0644); err != nil {
		logError("save settings: %v", err)
		return
	}
	os.Rename(path+".tmp", path)
}

// maybeSaveSettings flushes dirty settings at most once per second. Called
// from the update loop.
func maybeSaveSettings(now time.Time) {
	if !settingsDirty || now.Sub(lastSettingsSave) < time.Second {
		return
	}
	saveSettings()
	settingsDirty = false
	lastSettingsSave = now
}
