package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"
	"sync"
	"time"
)

var (
	errorLogger  *log.Logger
	errorLogPath string
	errorLogOnce sync.Once

	debugLogger  *log.Logger
	debugLogPath string
	debugLogOnce sync.Once
	// debugMsgDumpLen limits how many bytes of a wire message are logged.
	// A value of 0 dumps the entire payload.
	debugMsgDumpLen = 256
)

// keepLogs is how many old log files survive the startup prune.
const keepLogs = 20

func setupLogging(debug bool) {
	logDir := filepath.Join(dataDirPath, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Printf("could not create log directory: %v", err)
	}
	pruneOldLogs(logDir)
	ts := time.Now().Format("20060102-150405")

	errorLogPath = filepath.Join(logDir, fmt.Sprintf("error-%s.log", ts))
	errorLogOnce = sync.Once{}
	errorLogger = log.New(os.Stdout, "", log.LstdFlags)
	log.SetOutput(errorLogger.Writer())

	setDebugLogging(debug)
}

func logError(format string, v ...interface{}) {
	if errorLogger == nil {
		return
	}
	errorLogOnce.Do(func() {
		if f, err := os.Create(errorLogPath); err == nil {
			errorLogger.SetOutput(io.MultiWriter(os.Stdout, f))
			log.SetOutput(errorLogger.Writer())
		}
	})
	errorLogger.Printf(format, v...)
}

func logWarn(format string, v ...interface{}) {
	if errorLogger == nil {
		return
	}
	errorLogOnce.Do(func() {
		if f, err := os.Create(errorLogPath); err == nil {
			errorLogger.SetOutput(io.MultiWriter(os.Stdout, f))
			log.SetOutput(errorLogger.Writer())
		}
	})
	errorLogger.Printf("warning: "+format, v...)
}

func logDebug(format string, v ...interface{}) {
	if debugLogger == nil {
		return
	}
	debugLogOnce.Do(func() {
		if f, err := os.Create(debugLogPath); err == nil {
			debugLogger.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	})
	debugLogger.Printf(format, v...)
}

// logPanic records a recovered panic with its stack, then exits nonzero.
// Deferred saves have already run by the time this is reached.
func logPanic(r interface{}) {
	logError("panic: %v\n%s", r, debug.Stack())
	os.Exit(1)
}

// logDebugMsg dumps one wire message, truncated so a burst of snapshots
// cannot flood the debug log.
func logDebugMsg(prefix string, data []byte) {
	if debugLogger == nil {
		return
	}
	dump := data
	if debugMsgDumpLen > 0 && len(data) > debugMsgDumpLen {
		dump = data[:debugMsgDumpLen]
	}
	logDebug("%s len=%d payload=%s", prefix, len(data), dump)
}

func setDebugLogging(enabled bool) {
	if !enabled {
		debugLogger = nil
		return
	}
	logDir := filepath.Join(dataDirPath, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Printf("could not create log directory: %v", err)
	}
	ts := time.Now().Format("20060102-150405")
	debugLogPath = filepath.Join(logDir, fmt.Sprintf("debug-%s.log", ts))
	debugLogOnce = sync.Once{}
	debugLogger = log.New(os.Stdout, "", log.LstdFlags)
}

// pruneOldLogs deletes all but the newest keepLogs files in dir. The
// timestamped names sort chronologically.
func pruneOldLogs(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".log" {
			names = append(names, e.Name())
		}
	}
	if len(names) <= keepLogs {
		return
	}
	sort.Strings(names)
	for _, name := range names[:len(names)-keepLogs] {
		os.Remove(filepath.Join(dir, name))
	}
}
