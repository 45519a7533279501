package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	clipboard "golang.design/x/clipboard"

	"gazefall/sheet"
)

var (
	serverFlag string
	fake       bool
	replayPath string
	recordFlag bool
	framesFlag string
	doDebug    bool
	windowed   bool
)

func main() {
	flag.StringVar(&serverFlag, "server", "", "game server websocket URL (overrides settings)")
	flag.BoolVar(&fake, "fake", false, "simulate server messages without connecting")
	flag.StringVar(&replayPath, "replay", "", "play back a recorded session journal")
	flag.BoolVar(&recordFlag, "record", false, "journal inbound messages for later replay")
	flag.StringVar(&framesFlag, "frames", "", "directory of images standing in for the webcam")
	flag.BoolVar(&doDebug, "debug", false, "verbose/debug logging")
	flag.BoolVar(&windowed, "win", false, "start windowed")
	flag.BoolVar(&noSound, "nosound", false, "disable sound for this session")
	flag.Parse()

	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard init: %v", err)
	}

	if err := os.MkdirAll(dataDirPath, 0755); err != nil {
		log.Printf("could not create data directory: %v", err)
	}

	loadSettings()
	if windowed {
		gs.Fullscreen = false
	}
	applySettings()
	setupLogging(doDebug || gs.DebugLogging)

	defer func() {
		if r := recover(); r != nil {
			logPanic(r)
		}
	}()

	loadStats()
	defer saveStats()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
	defer cancel()

	initAudio()
	initDiscordRPC(ctx)

	lib := loadLibrary()
	lib.Logf = logWarn
	fetchMissingAssets(ctx, lib)
	// Join the sheet loads before the window opens; from here on a
	// placeholder can only mean a file is actually missing.
	lib.Precache()
	go precacheSounds(lib.SoundPaths())

	serverURL := gs.ServerURL
	if serverFlag != "" {
		serverURL = serverFlag
	}
	n := newNetClient(serverURL)
	if recordFlag || gs.RecordSessions {
		if rec, err := newRecorder(); err != nil {
			logError("start recording: %v", err)
		} else {
			n.rec = rec
			logDebug("recording to %s", rec.Path())
		}
	}

	g := newGame(ctx, lib, n)
	switch {
	case replayPath != "":
		g.replayMode = true
		go func() {
			if err := runReplay(ctx, replayPath, n); err != nil {
				logError("replay: %v", err)
			}
		}()
	case fake:
		g.fakeMode = true
		go runFakeMode(ctx, n)
	default:
		go n.run(ctx)
		framesDir := gs.FramesDir
		if framesFlag != "" {
			framesDir = framesFlag
		}
		if framesDir != "" {
			if src, err := newDirFrames(framesDir); err != nil {
				logError("frame source: %v", err)
			} else {
				go runFrameUploader(ctx, n, src)
			}
		}
	}

	runGame(g)
	cancel()
}

// loadLibrary prefers a manifest file in the data dir over the embedded
// catalog, so new art lands without a rebuild.
func loadLibrary() *sheet.Library {
	path := filepath.Join(dataDirPath, "manifest.yaml")
	if _, err := os.Stat(path); err == nil {
		lib, err := sheet.Load(path)
		if err == nil {
			logDebug("catalog from %s", path)
			return lib
		}
		logError("manifest: %v, using built-in catalog", err)
	}
	lib := sheet.Default()
	lib.SetDir(dataDirPath)
	return lib
}
