package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/geopin/internal/core/domain"
	"github.com/samirrijal/geopin/internal/pkg/metrics"
)

// wsMessage is sent from the map client.
type wsMessage struct {
	Action string   `json:"action"` // "click" | "sync"
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	Lat    *float64 `json:"lat"`
	Lon    *float64 `json:"lon"`
}

// wsState answers a client action with the resulting session state.
type wsState struct {
	Type    string              `json:"type"`
	Session domain.SessionState `json:"session"`
}

var errConnClosed = errors.New("websocket closed")

// connWriter serializes writes to a websocket conn and refuses them once
// closed.
type connWriter struct {
	mu     sync.Mutex
	closed bool
	write  func(messageType int, data []byte) error
}

func (w *connWriter) send(messageType int, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errConnClosed
	}
	return w.write(messageType, data)
}

func (w *connWriter) close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
}

// WebSocketHandler relays a session's render and view frames to a map client
// and accepts its clicks. The session ID is validated by the upgrade
// middleware and stored in Locals.
// Clients send JSON: {"action":"click","x":-8237642.3,"y":4970241.3}
func WebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		sessionID, _ := c.Locals("session").(string)
		remoteAddr := c.RemoteAddr().String()
		log := slog.Default().With("session_id", sessionID, "remote", remoteAddr)
		log.Info("ws client connected")

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Frames may still be in flight from a NATS callback after the
		// handler returns; the conn is recycled at that point.
		out := &connWriter{write: c.WriteMessage}
		defer out.close()

		writeRaw := func(data []byte) error {
			return out.send(websocket.TextMessage, data)
		}
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			return writeRaw(data)
		}

		unsubscribe, err := deps.Frames.SubscribeSession(ctx, sessionID, func(frame []byte) {
			_ = writeRaw(frame)
		})
		if err != nil {
			log.Error("ws subscribe failed", "error", err)
			_ = writeJSON(map[string]string{"error": "subscribe failed"})
			return
		}
		defer unsubscribe()

		// Bring a (re)connecting client up to date.
		if err := deps.Markers.Rerender(ctx, sessionID); err != nil {
			log.Warn("ws initial render failed", "error", err)
		}

		// Keep-alive ping
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if err := out.send(websocket.PingMessage, nil); err != nil {
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			switch m.Action {
			case "click":
				var (
					st  domain.SessionState
					err error
				)
				switch {
				case m.X != nil && m.Y != nil:
					st, err = deps.Sessions.HandleMapClick(ctx, sessionID, domain.DisplayCoordinate{X: *m.X, Y: *m.Y})
				case m.Lat != nil && m.Lon != nil:
					st, err = deps.Sessions.ClickAt(ctx, sessionID, domain.GeoPoint{Lat: *m.Lat, Lon: *m.Lon})
				default:
					_ = writeJSON(map[string]string{"error": "click needs x and y, or lat and lon"})
					continue
				}
				if err != nil {
					_ = writeJSON(map[string]string{"error": err.Error()})
					continue
				}
				_ = writeJSON(wsState{Type: "state", Session: st})

			case "sync":
				if err := deps.Markers.Rerender(ctx, sessionID); err != nil {
					_ = writeJSON(map[string]string{"error": err.Error()})
				}

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		log.Info("ws client disconnected")
	}
}
