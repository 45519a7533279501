package main

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/remeh/sizedwaitgroup"
)

const sampleRate = 44100

var (
	audioContext *audio.Context

	// noSound silences the session without touching saved settings.
	noSound bool

	soundMu      sync.Mutex
	soundPCM     = map[string][]byte{}
	soundMissing = map[string]bool{}
)

func initAudio() {
	if audioContext == nil {
		audioContext = audio.NewContext(sampleRate)
	}
}

// precacheSounds decodes the catalog's sound cues up front, a bounded number
// at a time, so the first effect doesn't hitch on disk IO.
func precacheSounds(paths []string) {
	swg := sizedwaitgroup.New(runtime.NumCPU())
	for _, p := range paths {
		swg.Add()
		go func(path string) {
			defer swg.Done()
			cachedPCM(path)
		}(p)
	}
	swg.Wait()
}

// cachedPCM returns the decoded PCM for a cue, loading it on first use. A
// missing or undecodable file warns once and stays silent.
func cachedPCM(path string) []byte {
	soundMu.Lock()
	if pcm, ok := soundPCM[path]; ok {
		soundMu.Unlock()
		return pcm
	}
	if soundMissing[path] {
		soundMu.Unlock()
		return nil
	}
	soundMu.Unlock()

	pcm, err := loadWAV(path)

	soundMu.Lock()
	defer soundMu.Unlock()
	if err != nil {
		soundMissing[path] = true
		logWarn("sound %s: %v", path, err)
		return nil
	}
	soundPCM[path] = pcm
	return pcm
}

func loadWAV(path string) ([]byte, error) {
	f, err := os.Open(filepath.Join(dataDirPath, filepath.FromSlash(path)))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := wav.DecodeWithSampleRate(sampleRate, f)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(d)
}

// playCue fires one effect cue asynchronously. Volume and mute gates apply
// at play time, so settings changes take effect immediately.
func playCue(path string) {
	if path == "" || audioContext == nil || noSound {
		return
	}
	if gs.Mute || !gs.GameSound || gs.MasterVolume <= 0 {
		return
	}
	go func() {
		pcm := cachedPCM(path)
		if pcm == nil {
			return
		}
		p := audioContext.NewPlayerFromBytes(pcm)
		p.SetVolume(gs.MasterVolume)
		p.Play()
	}()
}
