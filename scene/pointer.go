package scene

// Edge flags reported by Pointer.EdgeProximity.
const (
	EdgeLeft = 1 << iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

// Pointer is the smoothed gaze cursor. Raw gaze samples set a target; the
// displayed position eases toward it a fixed fraction per tick, which softens
// tracker jitter at the cost of a little lag. The factor is dimensionless and
// assumes the fixed tick rate; it is not scaled by wall time.
//
// The game keeps X in world units and Y in viewport units, since the world
// only ever scrolls horizontally. The pointer itself is unit-agnostic apart
// from EdgeProximity, which assumes that convention.
type Pointer struct {
	targetX, targetY float64
	x, y             float64
	radius           float64
	factor           float64
}

// NewPointer builds a pointer with the given smoothing factor and visual
// radius. Factors outside (0,1] are clamped; 1 means no smoothing.
func NewPointer(factor, radius float64) *Pointer {
	if factor <= 0 || factor > 1 {
		factor = 1
	}
	if radius < 0 {
		radius = 0
	}
	return &Pointer{factor: factor, radius: radius}
}

// SetTarget stores a new raw target, clamped so the pointer circle stays
// fully inside the bounds rectangle.
func (p *Pointer) SetTarget(x, y, boundsW, boundsH float64) {
	p.targetX = clampRange(x, p.radius, boundsW-p.radius)
	p.targetY = clampRange(y, p.radius, boundsH-p.radius)
}

// Advance moves the displayed position one smoothing step toward the target.
// Runs every tick whether or not a fresh sample arrived, so the cursor keeps
// easing between samples.
func (p *Pointer) Advance() {
	p.x += (p.targetX - p.x) * p.factor
	p.y += (p.targetY - p.y) * p.factor
}

// SetPosition snaps both the displayed position and the target, bypassing
// smoothing. Used on resets and when the input source stops.
func (p *Pointer) SetPosition(x, y float64) {
	p.x, p.y = x, y
	p.targetX, p.targetY = x, y
}

// EdgeProximity reports which edges of the viewport's current window the
// displayed position is within threshold of, as a bitmask of Edge* flags.
// X is compared in world space, so a pointer pinned to a world position
// drops out of an edge zone once the camera scrolls past it.
func (p *Pointer) EdgeProximity(v *Viewport, threshold float64) int {
	w, h := v.Size()
	x, _ := v.WorldToScreen(p.x, p.y)
	var edges int
	if x <= threshold {
		edges |= EdgeLeft
	}
	if x >= w-threshold {
		edges |= EdgeRight
	}
	if p.y <= threshold {
		edges |= EdgeTop
	}
	if p.y >= h-threshold {
		edges |= EdgeBottom
	}
	return edges
}

func (p *Pointer) Position() (float64, float64) { return p.x, p.y }
func (p *Pointer) Target() (float64, float64)   { return p.targetX, p.targetY }
func (p *Pointer) Radius() float64              { return p.radius }

func clampRange(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
