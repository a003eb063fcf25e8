package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/markoshka/markoshka/internal/engine"
	"github.com/markoshka/markoshka/internal/logging"
	"github.com/markoshka/markoshka/internal/render"
)

const (
	// writeWait bounds a frame write to a viewer; a stalled viewer is
	// dropped rather than stalling the broadcast.
	writeWait = 10 * time.Second

	// wsPath is the websocket endpoint viewers connect to.
	wsPath = "/ws"
)

// Config holds the mirror listener settings.
type Config struct {
	Host      string // empty = all interfaces
	Port      int
	Advertise bool // announce the endpoint over mDNS
}

// frameMessage is what viewers receive for every display refresh.
type frameMessage struct {
	Lines [render.Height]string `json:"lines"`
}

// pressMessage is what viewers send to simulate a button press. Press is
// one of "short", "long", "weather".
type pressMessage struct {
	Press string `json:"press"`
}

// Mirror streams every rendered frame to connected websocket viewers and
// feeds their simulated button presses into the intent queue. It
// implements display.Driver so the app can fan frames out to it like any
// other transport; its failures degrade to "mirror off" and never disturb
// the physical display.
type Mirror struct {
	config  Config
	intents *engine.IntentQueue

	listener   net.Listener
	httpServer *http.Server
	upgrader   websocket.Upgrader

	mu        sync.Mutex
	clients   map[*websocket.Conn]struct{}
	lastFrame *render.Frame

	mdns *zeroconf.Server
}

// New creates a mirror. Call Start before using it as a driver.
func New(config Config, intents *engine.IntentQueue) *Mirror {
	return &Mirror{
		config:  config,
		intents: intents,
		upgrader: websocket.Upgrader{
			// Viewers are LAN tools; no origin policy.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Start binds the listener and begins serving viewers.
func (m *Mirror) Start() error {
	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("mirror failed to listen on %s: %w", addr, err)
	}
	m.listener = listener

	mux := http.NewServeMux()
	mux.HandleFunc(wsPath, m.handleViewer)

	m.httpServer = &http.Server{Handler: mux}
	go func() {
		if err := m.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logging.Error("Mirror server stopped", zap.Error(err))
		}
	}()

	logging.Info("Frame mirror listening",
		zap.String("addr", listener.Addr().String()),
		zap.String("path", wsPath),
	)

	if m.config.Advertise {
		if err := m.advertise(); err != nil {
			// Advertising is convenience, not function.
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		}
	}
	return nil
}

// Write implements display.Driver: broadcast the frame to all viewers.
func (m *Mirror) Write(frame render.Frame) error {
	msg := frameMessage{Lines: frame}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.lastFrame = &frame
	for conn := range m.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logging.Warn("Dropping mirror viewer",
				zap.String("remote_addr", conn.RemoteAddr().String()),
				zap.Error(err),
			)
			delete(m.clients, conn)
			_ = conn.Close()
		}
	}
	m.mu.Unlock()
	return nil
}

// Close stops advertising, disconnects viewers and shuts the listener
// down.
func (m *Mirror) Close() error {
	if m.mdns != nil {
		m.mdns.Shutdown()
		m.mdns = nil
	}

	m.mu.Lock()
	for conn := range m.clients {
		_ = conn.Close()
	}
	m.clients = make(map[*websocket.Conn]struct{})
	m.mu.Unlock()

	if m.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return m.httpServer.Shutdown(ctx)
}

// handleViewer upgrades the connection, replays the last frame so the
// viewer is not blank until the next refresh, then reads press messages
// until the viewer goes away.
func (m *Mirror) handleViewer(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("Mirror upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	logging.Info("Mirror viewer connected",
		zap.String("remote_addr", conn.RemoteAddr().String()),
	)

	// Replay before registering, under the same lock the broadcast takes:
	// the connection only becomes visible to Write once the replay write
	// has finished, so no two goroutines ever write to it concurrently.
	m.mu.Lock()
	if m.lastFrame != nil {
		if payload, err := json.Marshal(frameMessage{Lines: *m.lastFrame}); err == nil {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.TextMessage, payload)
		}
	}
	m.clients[conn] = struct{}{}
	m.mu.Unlock()

	go m.readPresses(conn)
}

func (m *Mirror) readPresses(conn *websocket.Conn) {
	defer func() {
		m.mu.Lock()
		delete(m.clients, conn)
		m.mu.Unlock()
		_ = conn.Close()
		logging.Info("Mirror viewer disconnected",
			zap.String("remote_addr", conn.RemoteAddr().String()),
		)
	}()

	for {
		var msg pressMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		var intent engine.Intent
		switch msg.Press {
		case "short":
			intent = engine.IntentToggleMode
		case "long":
			intent = engine.IntentCycleCategory
		case "weather":
			intent = engine.IntentToggleWeather
		default:
			logging.Warn("Unknown press from mirror viewer",
				zap.String("press", msg.Press),
			)
			continue
		}

		queued := m.intents.Push(intent)
		logging.LogButtonPress("mirror", msg.Press, queued)
	}
}
