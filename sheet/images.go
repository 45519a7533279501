package sheet

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/remeh/sizedwaitgroup"
)

// Image returns the decoded sheet for a manifest-relative path, or nil while
// it is still loading or after it failed. A nil return is the draw layer's
// cue to paint a placeholder; the first miss kicks off a background load so
// the placeholder heals on a later tick.
func (l *Library) Image(path string) *ebiten.Image {
	if path == "" {
		return nil
	}
	l.mu.Lock()
	if img, ok := l.images[path]; ok {
		l.mu.Unlock()
		return img
	}
	if l.failed[path] || l.loading[path] {
		l.mu.Unlock()
		return nil
	}
	l.loading[path] = true
	l.mu.Unlock()

	go l.load(path)
	return nil
}

// Frame crops frame i out of a state sheet, or nil when the sheet is not
// ready. Frames run left to right.
func (l *Library) Frame(path string, i, frameW, frameH int) *ebiten.Image {
	img := l.Image(path)
	if img == nil || frameW <= 0 || frameH <= 0 {
		return nil
	}
	r := image.Rect(i*frameW, 0, (i+1)*frameW, frameH)
	if !r.In(img.Bounds()) {
		return nil
	}
	return img.SubImage(r).(*ebiten.Image)
}

// Precache decodes every sheet the manifest references, a bounded number at
// a time, and waits for all of them. Called once at startup so the first
// frame draws with real art instead of placeholders.
func (l *Library) Precache() {
	swg := sizedwaitgroup.New(runtime.NumCPU())
	for _, path := range l.imagePaths() {
		l.mu.Lock()
		busy := l.loading[path] || l.failed[path]
		if _, ok := l.images[path]; ok || busy {
			l.mu.Unlock()
			continue
		}
		l.loading[path] = true
		l.mu.Unlock()

		swg.Add()
		go func(p string) {
			defer swg.Done()
			l.load(p)
		}(path)
	}
	swg.Wait()
}

func (l *Library) load(path string) {
	img, err := l.decode(path)
	l.mu.Lock()
	delete(l.loading, path)
	if err != nil {
		l.failed[path] = true
		l.mu.Unlock()
		l.warnf("sheet %s: %v", path, err)
		return
	}
	l.images[path] = img
	l.mu.Unlock()
}

func (l *Library) decode(path string) (*ebiten.Image, error) {
	f, err := os.Open(filepath.Join(l.dir, filepath.FromSlash(path)))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	src, err := png.Decode(f)
	if err != nil {
		return nil, err
	}
	return ebiten.NewImageFromImage(src), nil
}

// imagePaths returns the unique sheet paths in the catalog, sorted for a
// stable load order.
func (l *Library) imagePaths() []string {
	set := make(map[string]bool)
	for _, d := range l.Enemies {
		for _, s := range d.States {
			if s.Image != "" {
				set[s.Image] = true
			}
		}
	}
	for _, d := range l.Effects {
		if d.Image != "" {
			set[d.Image] = true
		}
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// SoundPaths returns the unique effect sound cues, for the audio precache.
func (l *Library) SoundPaths() []string {
	set := make(map[string]bool)
	for _, d := range l.Effects {
		if d.Sound != "" {
			set[d.Sound] = true
		}
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
