// Package sheet loads the static type catalog: which enemy and effect types
// exist, their sprite sheets, frame timings and playback modes. The catalog
// ships embedded and can be overridden by a manifest file beside the data
// dir, so new enemy art lands without a rebuild.
package sheet

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gazefall/scene"

	"github.com/hajimehoshi/ebiten/v2"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultManifest []byte

// StateSpec is one animation state row of the manifest. Frames run
// horizontally across the sheet image; reverse marks sheets authored
// last-to-first.
type StateSpec struct {
	Image    string `yaml:"image"`
	Frames   int    `yaml:"frames"`
	FrameMs  int    `yaml:"frame_ms"`
	FrameW   int    `yaml:"frame_w"`
	FrameH   int    `yaml:"frame_h"`
	Playback string `yaml:"playback"`
	Reverse  bool   `yaml:"reverse"`
}

// EnemyDef describes one enemy type.
type EnemyDef struct {
	Name         string                `yaml:"name"`
	MaxHP        int                   `yaml:"max_hp"`
	Scale        float64               `yaml:"scale"`
	DefaultState string                `yaml:"default_state"`
	States       map[string]*StateSpec `yaml:"states"`
}

// EffectDef describes one ephemeral effect type: a single one-shot state
// plus placement and an optional sound cue.
type EffectDef struct {
	Image   string  `yaml:"image"`
	Frames  int     `yaml:"frames"`
	FrameMs int     `yaml:"frame_ms"`
	FrameW  int     `yaml:"frame_w"`
	FrameH  int     `yaml:"frame_h"`
	Scale   float64 `yaml:"scale"`
	YOffset float64 `yaml:"y_offset"`
	Reverse bool    `yaml:"reverse"`
	Sound   string  `yaml:"sound"`
}

type worldDef struct {
	Width  float64 `yaml:"width"`
	Ground float64 `yaml:"ground"`
}

type manifest struct {
	World   worldDef              `yaml:"world"`
	Enemies map[string]*EnemyDef  `yaml:"enemies"`
	Effects map[string]*EffectDef `yaml:"effects"`
}

// Library is the parsed catalog plus the image registry. Logf, when set,
// receives load warnings.
type Library struct {
	WorldWidth float64
	// Ground is the effect baseline as a fraction of viewport height.
	Ground  float64
	Enemies map[string]*EnemyDef
	Effects map[string]*EffectDef

	Logf func(format string, args ...any)

	enemyClasses  map[string]*scene.EntityClass
	effectClasses map[string]*scene.EffectClass

	dir     string
	mu      sync.Mutex
	images  map[string]*ebiten.Image
	loading map[string]bool
	failed  map[string]bool
}

// Parse builds a Library from manifest bytes, applying defaults for omitted
// tuning fields. Degenerate state rows are kept; the animation clock pads
// them to single-frame holds at run time.
func Parse(data []byte) (*Library, error) {
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	if len(m.Enemies) == 0 {
		return nil, fmt.Errorf("manifest: no enemy types defined")
	}
	if m.World.Width <= 0 {
		m.World.Width = 2148
	}
	if m.World.Ground <= 0 || m.World.Ground > 1 {
		m.World.Ground = 0.82
	}
	for _, d := range m.Enemies {
		if d.Scale <= 0 {
			d.Scale = 1
		}
		if d.DefaultState == "" {
			d.DefaultState = "walk"
		}
		for _, s := range d.States {
			if s.FrameMs <= 0 {
				s.FrameMs = 100
			}
		}
	}
	for _, d := range m.Effects {
		if d.Scale <= 0 {
			d.Scale = 1
		}
		if d.FrameMs <= 0 {
			d.FrameMs = 100
		}
	}

	l := &Library{
		WorldWidth: m.World.Width,
		Ground:     m.World.Ground,
		Enemies:    m.Enemies,
		Effects:    m.Effects,
		images:     make(map[string]*ebiten.Image),
		loading:    make(map[string]bool),
		failed:     make(map[string]bool),
	}
	l.enemyClasses = make(map[string]*scene.EntityClass, len(m.Enemies))
	for id, d := range m.Enemies {
		l.enemyClasses[id] = d.class()
	}
	l.effectClasses = make(map[string]*scene.EffectClass, len(m.Effects))
	for id, d := range m.Effects {
		l.effectClasses[id] = d.class()
	}
	return l, nil
}

// Load reads a manifest file; sheet images resolve relative to its
// directory.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l.dir = filepath.Dir(path)
	return l, nil
}

// Default returns the embedded catalog. The embedded file is fixed at build
// time and covered by tests, so a parse failure here is a build defect.
func Default() *Library {
	l, err := Parse(defaultManifest)
	if err != nil {
		panic("sheet: embedded manifest: " + err.Error())
	}
	return l
}

// SetDir points image resolution at dir. Used with Default, whose images
// live under the data dir rather than beside a manifest file.
func (l *Library) SetDir(dir string) { l.dir = dir }

// EnemyClass resolves an enemy type id into its animation metadata. Plugs
// straight into scene.Roster.
func (l *Library) EnemyClass(typeID string) (*scene.EntityClass, bool) {
	c, ok := l.enemyClasses[typeID]
	return c, ok
}

// EffectClass resolves an effect type id. Plugs straight into
// scene.EffectSet.
func (l *Library) EffectClass(typeID string) (*scene.EffectClass, bool) {
	c, ok := l.effectClasses[typeID]
	return c, ok
}

func (d *EnemyDef) class() *scene.EntityClass {
	t := make(scene.StateTable, len(d.States))
	for label, s := range d.States {
		t[label] = scene.StateDef{
			Frames:    s.Frames,
			FrameTime: time.Duration(s.FrameMs) * time.Millisecond,
			Playback:  playbackMode(s.Playback, label),
			Reverse:   s.Reverse,
		}
	}
	return &scene.EntityClass{States: t, Default: d.DefaultState}
}

func (d *EffectDef) class() *scene.EffectClass {
	return &scene.EffectClass{State: scene.StateDef{
		Frames:    d.Frames,
		FrameTime: time.Duration(d.FrameMs) * time.Millisecond,
		Playback:  scene.PlaybackHold,
		Reverse:   d.Reverse,
	}}
}

// playbackMode maps a manifest playback string onto the clock behavior.
// Unspecified states loop, except that a bare "death" holds its last frame;
// that keeps hand-written manifests short.
func playbackMode(s, label string) scene.Playback {
	switch s {
	case "loop":
		return scene.PlaybackLoop
	case "hold":
		return scene.PlaybackHold
	case "return":
		return scene.PlaybackReturn
	case "":
		if label == "death" {
			return scene.PlaybackHold
		}
		return scene.PlaybackLoop
	default:
		return scene.PlaybackLoop
	}
}

func (l *Library) warnf(format string, args ...any) {
	if l.Logf != nil {
		l.Logf(format, args...)
	}
}
