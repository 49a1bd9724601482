package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/geopin/internal/core/domain"
	"github.com/samirrijal/geopin/internal/core/ports"
)

// Subject prefix for per-session map frames.
const subjectPrefix = "geopin.session."

// RenderSubject is where full marker re-renders for a session are published.
func RenderSubject(sessionID string) string { return subjectPrefix + sessionID + ".render" }

// ViewSubject is where viewport changes for a session are published.
func ViewSubject(sessionID string) string { return subjectPrefix + sessionID + ".view" }

// SessionSubjects matches every frame of one session.
func SessionSubjects(sessionID string) string { return subjectPrefix + sessionID + ".>" }

// Publisher implements ports.MapView by publishing frames to NATS JetStream.
// Marker coordinates are projected before they leave the process so clients
// can draw them directly.
type Publisher struct {
	conn        *nats.Conn
	js          nats.JetStreamContext
	proj        ports.Projection
	animationMS int
}

// NewPublisher connects to NATS and makes sure the frame stream exists.
func NewPublisher(url string, proj ports.Projection, animation time.Duration) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	// Latest frame per subject only.
	cfg := nats.StreamConfig{
		Name:              "GEOPIN_FRAMES",
		Subjects:          []string{subjectPrefix + ">"},
		Retention:         nats.LimitsPolicy,
		MaxMsgsPerSubject: 1,
		MaxAge:            1 * time.Hour,
		Storage:           nats.MemoryStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{
		conn:        conn,
		js:          js,
		proj:        proj,
		animationMS: int(animation / time.Millisecond),
	}, nil
}

// RenderMarkers publishes the full marker list for a session.
func (p *Publisher) RenderMarkers(ctx context.Context, sessionID string, points []domain.GeoPoint) error {
	return p.publish(ctx, RenderSubject(sessionID), p.renderFrame(sessionID, points))
}

// RecenterAndZoom publishes a viewport change for a session.
func (p *Publisher) RecenterAndZoom(ctx context.Context, sessionID string, point domain.GeoPoint, zoom float64, animated bool) error {
	return p.publish(ctx, ViewSubject(sessionID), p.viewFrame(sessionID, point, zoom, animated))
}

func (p *Publisher) renderFrame(sessionID string, points []domain.GeoPoint) domain.RenderFrame {
	frame := domain.RenderFrame{
		Type:      domain.FrameRender,
		SessionID: sessionID,
		Markers:   make([]domain.RenderedMarker, len(points)),
	}
	for i, pt := range points {
		frame.Markers[i] = domain.RenderedMarker{
			Index:   i,
			Point:   pt,
			Display: p.proj.Project(pt.Lon, pt.Lat),
			Label:   pt.Label(),
		}
	}
	return frame
}

func (p *Publisher) viewFrame(sessionID string, point domain.GeoPoint, zoom float64, animated bool) domain.ViewFrame {
	frame := domain.ViewFrame{
		Type:      domain.FrameView,
		SessionID: sessionID,
		Center:    point,
		Display:   p.proj.Project(point.Lon, point.Lat),
		Zoom:      zoom,
		Animated:  animated,
	}
	if animated {
		frame.DurationMS = p.animationMS
	}
	return frame
}

func (p *Publisher) publish(ctx context.Context, subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := p.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Conn exposes the underlying connection for readiness checks.
func (p *Publisher) Conn() *nats.Conn { return p.conn }

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection (e.g. for the WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("geopin"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
