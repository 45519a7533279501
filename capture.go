package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/time/rate"
)

// frameSource produces JPEG frames for upload to the vision pipeline. Real
// webcam capture lives outside this client; anything that can hand over
// encoded JPEGs plugs in here.
type frameSource interface {
	NextFrame() ([]byte, error)
}

// dirFrames cycles through the image files of a directory, standing in for
// a camera during development and replays. Frames are normalized to small
// JPEGs regardless of what is on disk.
type dirFrames struct {
	files []string
	idx   int
}

func newDirFrames(dir string) (*dirFrames, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no frames in %s", dir)
	}
	sort.Strings(files)
	return &dirFrames{files: files}, nil
}

func (d *dirFrames) NextFrame() ([]byte, error) {
	data, err := os.ReadFile(d.files[d.idx])
	d.idx = (d.idx + 1) % len(d.files)
	if err != nil {
		return nil, err
	}
	return normalizeFrame(data)
}

// runFrameUploader sends frames at the configured rate until ctx ends. The
// limiter keeps the cadence even when a write stalls, instead of letting
// sends bunch up behind a ticker.
func runFrameUploader(ctx context.Context, n *netClient, src frameSource) {
	lim := rate.NewLimiter(rate.Limit(gs.FrameSendHz), 1)
	failures := 0
	for {
		if err := lim.Wait(ctx); err != nil {
			return
		}
		if !n.connected() {
			continue
		}
		data, err := src.NextFrame()
		if err != nil {
			failures++
			logWarn("frame source: %v", err)
			if failures >= 5 {
				logError("frame source failing repeatedly, stopping uploads")
				return
			}
			continue
		}
		failures = 0
		if err := n.sendFrame(data); err != nil {
			logDebug("send frame: %v", err)
		}
	}
}
