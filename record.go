package main

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// recordEntry is one journaled wire message with its offset from session
// start.
type recordEntry struct {
	T   int64           `json:"t_ms"`
	Msg json.RawMessage `json:"msg"`
}

// recorder journals every inbound message as zstd-compressed JSON lines, one
// file per session. The reader goroutine writes; the update loop closes, so
// the mutex stays.
type recorder struct {
	mu     sync.Mutex
	f      *os.File
	enc    *zstd.Encoder
	w      *bufio.Writer
	start  time.Time
	path   string
	closed bool
}

func recordingsDir() string {
	return filepath.Join(dataDirPath, "recordings")
}

func newRecorder() (*recorder, error) {
	dir := recordingsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "session-"+time.Now().Format("20060102-150405")+".jsonl.zst")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &recorder{
		f:     f,
		enc:   enc,
		w:     bufio.NewWriterSize(enc, 64*1024),
		start: time.Now(),
		path:  path,
	}, nil
}

// Write journals one raw message. Only called with frames that already
// decoded cleanly, so the journal stays valid JSONL.
func (r *recorder) Write(raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	b, err := json.Marshal(recordEntry{
		T:   time.Since(r.start).Milliseconds(),
		Msg: json.RawMessage(raw),
	})
	if err != nil {
		return
	}
	if _, err := r.w.Write(b); err != nil {
		logError("record: %v", err)
		return
	}
	if err := r.w.WriteByte('\n'); err != nil {
		logError("record: %v", err)
	}
}

func (r *recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if err := r.w.Flush(); err != nil {
		return err
	}
	if err := r.enc.Close(); err != nil {
		return err
	}
	return r.f.Close()
}

// Discard closes the journal and deletes the file. Used when the player
// declines to keep the session.
func (r *recorder) Discard() {
	if err := r.Close(); err != nil {
		logWarn("discard recording: %v", err)
	}
	os.Remove(r.path)
}

func (r *recorder) Path() string { return r.path }

// Duration is how long the session has been recording.
func (r *recorder) Duration() time.Duration {
	return time.Since(r.start)
}
