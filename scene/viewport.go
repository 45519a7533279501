// Package scene holds the client-side presentation state for the game view:
// the camera over the wide world strip, the smoothed gaze pointer, per-entity
// animation clocks, the reconciled enemy roster, ephemeral effects and edge
// scrolling. Everything here is plain state math so it tests headless; the
// root package owns drawing and input.
package scene

// Viewport maps between world coordinates and screen coordinates. The world
// is a horizontal strip wider than the screen; only the X axis scrolls. Y is
// shared between the two spaces and never transformed.
type Viewport struct {
	worldWidth float64
	width      float64
	height     float64
	offset     float64
}

func NewViewport(worldWidth, width, height float64) *Viewport {
	v := &Viewport{worldWidth: worldWidth}
	v.Resize(width, height)
	return v
}

// MaxOffset is the rightmost legal camera position. Zero when the world is
// narrower than the viewport.
func (v *Viewport) MaxOffset() float64 {
	m := v.worldWidth - v.width
	if m < 0 {
		return 0
	}
	return m
}

// SetOffset clamps x into [0, MaxOffset] and stores it.
func (v *Viewport) SetOffset(x float64) {
	if x < 0 {
		x = 0
	} else if m := v.MaxOffset(); x > m {
		x = m
	}
	v.offset = x
}

// Scroll moves the camera by dx, clamped at the world bounds.
func (v *Viewport) Scroll(dx float64) {
	v.SetOffset(v.offset + dx)
}

// Resize updates the viewport dimensions and re-clamps the offset so the
// camera never shows past the world edge after a window resize.
func (v *Viewport) Resize(width, height float64) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	v.width = width
	v.height = height
	v.SetOffset(v.offset)
}

func (v *Viewport) WorldToScreen(x, y float64) (float64, float64) {
	return x - v.offset, y
}

func (v *Viewport) ScreenToWorld(x, y float64) (float64, float64) {
	return x + v.offset, y
}

func (v *Viewport) Offset() float64     { return v.offset }
func (v *Viewport) WorldWidth() float64 { return v.worldWidth }

func (v *Viewport) Size() (float64, float64) {
	return v.width, v.height
}
