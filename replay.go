package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"
)

// runReplay streams a recorded session into the client's inbox with the
// original timing, instead of a live connection. When the journal runs out
// the screen freezes on the final state, same as a dead connection.
func runReplay(ctx context.Context, path string, n *netClient) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return fmt.Errorf("replay %s: %w", path, err)
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	start := time.Now()
	lines := 0
	for sc.Scan() {
		var e recordEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			logWarn("replay line %d: %v", lines+1, err)
			continue
		}
		lines++

		due := start.Add(time.Duration(e.T) * time.Millisecond)
		if wait := time.Until(due); wait > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(wait):
			}
		}

		msg, err := decodeServerMessage(e.Msg)
		if err != nil {
			logWarn("replay line %d: %v", lines, err)
			continue
		}
		n.deliver(msg)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("replay %s: %w", path, err)
	}
	logDebug("replay finished: %d messages over %v", lines, time.Since(start).Round(time.Millisecond))
	return nil
}
