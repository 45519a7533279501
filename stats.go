package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

type playStats struct {
	GamesPlayed int   `json:"gamesPlayed"`
	BestScore   int   `json:"bestScore"`
	BestWave    int   `json:"bestWave"`
	TotalPlayMs int64 `json:"totalPlayMs"`
}

const statsFile = "stats.json"

// dataDirPath holds the absolute path to the directory containing settings,
// logs, recordings and downloaded assets. On macOS the path resolves to the
// app's container directory so the client can operate inside the sandbox. On
// other platforms the path is resolved relative to the executable so data is
// placed alongside the binary regardless of the current working directory.
var dataDirPath = func() string {
	if runtime.GOOS == "darwin" {
		if home, err := os.UserHomeDir(); err == nil {
			if filepath.Base(home) == "Data" && filepath.Base(filepath.Dir(home)) == "com.gazefall.client" {
				home = filepath.Dir(home)
			} else {
				home = filepath.Join(home, "Library", "Containers", "com.gazefall.client")
			}
			_ = os.MkdirAll(home, 0o755)
			return home
		}
	}
	if exe, err := os.Executable(); err == nil {
		if dir, err := filepath.Abs(filepath.Dir(exe)); err == nil {
			return filepath.Join(dir, "data")
		}
	}
	// Fallback to relative path.
	return "data"
}()

var (
	stats      playStats
	statsMu    sync.Mutex
	statsDirty bool
)

func loadStats() {
	path := filepath.Join(dataDirPath, statsFile)
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &stats); err != nil {
			log.Printf("load stats: %v", err)
		}
	}

	go func() {
		ticker := time.NewTicker(time.Minute)
		for range ticker.C {
			saveStats()
		}
	}()
}

func saveStats() {
	statsMu.Lock()
	if !statsDirty {
		statsMu.Unlock()
		return
	}
	statsDirty = false
	data, err := json.MarshalIndent(stats, "", "  ")
	statsMu.Unlock()
	if err != nil {
		log.Printf("save stats: %v", err)
		return
	}
	path := filepath.Join(dataDirPath, statsFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("save stats: %v", err)
	}
}

// statRunFinished folds one finished run into the lifetime stats and reports
// whether it set a new best score.
func statRunFinished(score, wave int, played time.Duration) bool {
	statsMu.Lock()
	defer statsMu.Unlock()
	stats.GamesPlayed++
	stats.TotalPlayMs += played.Milliseconds()
	newBest := false
	if score > stats.BestScore {
		stats.BestScore = score
		newBest = true
	}
	if wave > stats.BestWave {
		stats.BestWave = wave
	}
	statsDirty = true
	return newBest
}

func bestScore() (score, wave int) {
	statsMu.Lock()
	defer statsMu.Unlock()
	return stats.BestScore, stats.BestWave
}
