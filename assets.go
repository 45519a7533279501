package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"gazefall/sheet"
)

// fetchMissingAssets downloads any catalog-referenced sprite sheets or sound
// cues that are absent from the data dir, when an asset base URL is
// configured. Best-effort: a failed fetch leaves the placeholder path in
// charge, it never blocks startup on art.
func fetchMissingAssets(ctx context.Context, lib *sheet.Library) {
	base := strings.TrimRight(gs.AssetBaseURL, "/")
	if base == "" {
		return
	}
	var paths []string
	for _, d := range lib.Enemies {
		for _, s := range d.States {
			if s.Image != "" {
				paths = append(paths, s.Image)
			}
		}
	}
	for _, d := range lib.Effects {
		if d.Image != "" {
			paths = append(paths, d.Image)
		}
		if d.Sound != "" {
			paths = append(paths, d.Sound)
		}
	}

	fetched := 0
	for _, rel := range paths {
		dest := filepath.Join(dataDirPath, filepath.FromSlash(rel))
		if _, err := os.Stat(dest); err == nil {
			continue
		}
		if err := downloadFile(ctx, base+"/"+rel, dest); err != nil {
			logWarn("fetch %s: %v", rel, err)
			continue
		}
		fetched++
	}
	if fetched > 0 {
		logDebug("fetched %d missing assets from %s", fetched, base)
	}
}

// downloadFile GETs url into dest via a temp file, logging progress for
// anything big enough to care about.
func downloadFile(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %v: %v", url, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	tmp := dest + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	removeTmp := true
	defer func() {
		if removeTmp {
			os.Remove(tmp)
		}
	}()

	pc := &progCounter{name: filepath.Base(dest), size: resp.ContentLength}
	if _, err := io.Copy(f, io.TeeReader(resp.Body, pc)); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp, dest); err != nil {
		return err
	}
	removeTmp = false
	return nil
}

// progCounter logs throttled download progress.
type progCounter struct {
	last  time.Time
	total int64
	size  int64
	name  string
}

func (pc *progCounter) Write(p []byte) (int, error) {
	n := len(p)
	pc.total += int64(n)
	if time.Since(pc.last) >= 500*time.Millisecond {
		if pc.size > 0 {
			logDebug("downloading %s: %s of %s", pc.name,
				humanize.Bytes(uint64(pc.total)), humanize.Bytes(uint64(pc.size)))
		} else {
			logDebug("downloading %s: %s", pc.name, humanize.Bytes(uint64(pc.total)))
		}
		pc.last = time.Now()
	}
	return n, nil
}
