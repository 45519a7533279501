package main

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Connection states, surfaced on the landing screen and HUD banner.
const (
	netIdle int32 = iota
	netConnecting
	netConnected
	netGaveUp
)

const (
	retryDelay = 3 * time.Second
	// maxRetries bounds reconnection attempts per outage; after that the
	// client gives up and keeps the last state on screen.
	maxRetries = 5
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var errNotConnected = errors.New("not connected")

// netClient owns the websocket to the game server. One goroutine dials and
// reads; decoded messages land in inbox and are drained by the update loop,
// so all game state mutation stays on the tick.
type netClient struct {
	url   string
	inbox chan any
	state atomic.Int32

	mu   sync.Mutex
	conn *websocket.Conn

	// rec journals inbound messages when the session is being recorded.
	rec *recorder

	// touched only by the reader goroutine
	unknownTypes map[string]bool
}

func newNetClient(url string) *netClient {
	return &netClient{
		url:          url,
		inbox:        make(chan any, 128),
		unknownTypes: make(map[string]bool),
	}
}

// run dials and reads until ctx ends. A lost connection is retried after a
// fixed delay, a bounded number of times; a successful connect resets the
// count.
func (n *netClient) run(ctx context.Context) {
	attempts := 0
	for ctx.Err() == nil {
		n.state.Store(netConnecting)
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, n.url, nil)
		if err != nil {
			attempts++
			logWarn("connect %s: %v (attempt %d/%d)", n.url, err, attempts, maxRetries)
			if attempts >= maxRetries {
				n.state.Store(netGaveUp)
				notifyDesktop("Connection lost", "Gave up reconnecting to the game server.")
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(retryDelay):
			}
			continue
		}

		attempts = 0
		n.setConn(conn)
		n.state.Store(netConnected)
		logDebug("connected to %s", n.url)
		n.readLoop(ctx, conn)
		n.setConn(nil)
	}
}

func (n *netClient) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go pingLoop(ctx, conn, done)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				logWarn("read: %v", err)
			}
			return
		}
		n.handleRaw(data)
	}
}

// pingLoop keeps the connection alive. WriteControl is safe concurrently
// with the data writers.
func pingLoop(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) {
	t := time.NewTicker(pingPeriod)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			deadline := time.Now().Add(writeWait)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		case <-done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// handleRaw decodes one frame and queues it. Malformed input is logged and
// dropped; unknown message types warn once each. Valid messages are
// journaled before delivery when recording.
func (n *netClient) handleRaw(data []byte) {
	logDebugMsg("recv", data)
	msg, err := decodeServerMessage(data)
	if err != nil {
		var ut *unknownTypeError
		if errors.As(err, &ut) {
			if !n.unknownTypes[ut.t] {
				n.unknownTypes[ut.t] = true
				logWarn("dropping messages of %v", err)
			}
			return
		}
		logWarn("drop malformed message: %v", err)
		return
	}
	if n.rec != nil {
		n.rec.Write(data)
	}
	n.deliver(msg)
}

// deliver queues msg without ever blocking the reader. When the inbox is
// full the oldest entry is dropped; with snapshots, the newest state wins.
func (n *netClient) deliver(msg any) {
	select {
	case n.inbox <- msg:
		return
	default:
	}
	select {
	case <-n.inbox:
	default:
	}
	select {
	case n.inbox <- msg:
	default:
	}
}

func (n *netClient) setConn(conn *websocket.Conn) {
	n.mu.Lock()
	n.conn = conn
	n.mu.Unlock()
}

// send marshals v as one text frame. The mutex serializes the update loop's
// commands with the frame uploader; gorilla allows only one concurrent
// writer.
func (n *netClient) send(v any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conn == nil {
		return errNotConnected
	}
	n.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return n.conn.WriteJSON(v)
}

func (n *netClient) sendCommand(cmdType string) {
	if err := n.send(commandMsg{Type: cmdType}); err != nil {
		logDebug("send %s: %v", cmdType, err)
	}
}

func (n *netClient) sendFrame(jpeg []byte) error {
	return n.send(videoFrameMsg{
		Type: cmdVideoFrame,
		Data: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpeg),
	})
}

func (n *netClient) connected() bool { return n.state.Load() == netConnected }
func (n *netClient) gaveUp() bool    { return n.state.Load() == netGaveUp }
