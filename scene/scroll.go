package scene

import "time"

// maxEvalGap caps the dt applied per scroll evaluation so a stalled frame or
// the first call after a reset cannot teleport the camera.
const maxEvalGap = 250 * time.Millisecond

// ScrollConfig tunes edge scrolling.
type ScrollConfig struct {
	// EdgeFraction is the width of each trigger zone as a fraction of the
	// viewport width.
	EdgeFraction float64
	// Dwell is how long the pointer must stay continuously inside a zone
	// before scrolling starts. Keeps glances at the HUD corners from
	// yanking the camera.
	Dwell time.Duration
	// MinSpeed and MaxSpeed bound the scroll rate in px/s; speed ramps
	// linearly from the zone's inner boundary to the screen edge.
	MinSpeed float64
	MaxSpeed float64
}

// Scroller drives the camera from pointer dwell in the viewport edge zones.
// It is evaluated once per tick with the pointer's world X; all camera
// movement goes through Viewport.Scroll so the world-bounds clamp holds.
type Scroller struct {
	cfg       ScrollConfig
	zone      int // -1 left, 0 none, +1 right
	holdSince time.Time
	lastEval  time.Time
}

func NewScroller(cfg ScrollConfig) *Scroller {
	return &Scroller{cfg: cfg}
}

// Reset clears zone and dwell state. Called on screen transitions so a
// pointer parked near an edge does not carry its dwell across screens.
func (s *Scroller) Reset() {
	s.zone = 0
	s.holdSince = time.Time{}
	s.lastEval = time.Time{}
}

// Evaluate updates dwell state and, once the dwell has elapsed inside a
// zone, scrolls the viewport by speed*dt. Entering a zone (or swapping
// sides) restarts the dwell; leaving it clears everything.
func (s *Scroller) Evaluate(v *Viewport, pointerWorldX float64, now time.Time) {
	w, _ := v.Size()
	x, _ := v.WorldToScreen(pointerWorldX, 0)
	zoneW := w * s.cfg.EdgeFraction

	zone := 0
	depth := 0.0
	switch {
	case zoneW > 0 && x <= zoneW:
		zone = -1
		depth = (zoneW - x) / zoneW
	case zoneW > 0 && x >= w-zoneW:
		zone = 1
		depth = (x - (w - zoneW)) / zoneW
	}

	dt := now.Sub(s.lastEval)
	s.lastEval = now
	if dt < 0 {
		dt = 0
	} else if dt > maxEvalGap {
		dt = maxEvalGap
	}

	if zone != s.zone {
		s.zone = zone
		s.holdSince = now
		return
	}
	if zone == 0 || now.Sub(s.holdSince) < s.cfg.Dwell {
		return
	}
	if depth < 0 {
		depth = 0
	} else if depth > 1 {
		depth = 1
	}
	speed := s.cfg.MinSpeed + (s.cfg.MaxSpeed-s.cfg.MinSpeed)*depth
	v.Scroll(float64(zone) * speed * dt.Seconds())
}

// Zone reports the current trigger zone: -1 left, 0 none, +1 right. The HUD
// uses it for the edge glow.
func (s *Scroller) Zone() int { return s.zone }

// Scrolling reports whether the dwell has elapsed and the camera is moving.
func (s *Scroller) Scrolling(now time.Time) bool {
	return s.zone != 0 && !s.holdSince.IsZero() && now.Sub(s.holdSince) >= s.cfg.Dwell
}
