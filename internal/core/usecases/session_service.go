package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/geopin/internal/core/domain"
	"github.com/samirrijal/geopin/internal/core/ports"
	"github.com/samirrijal/geopin/internal/pkg/metrics"
	"github.com/samirrijal/geopin/internal/pkg/telemetry"
)

// SessionOptions tune session lifecycle and the initial map view.
type SessionOptions struct {
	IdleTTL     time.Duration
	InitialView domain.Viewport
}

// SessionService owns session lifecycle, the modal, map clicks and the
// entry form.
type SessionService struct {
	sessions ports.SessionRepository
	view     ports.MapView
	proj     ports.Projection
	clock    clockwork.Clock
	opts     SessionOptions
	tracer   trace.Tracer
}

// NewSessionService creates a new SessionService. view may be nil when no
// map client transport is configured.
func NewSessionService(
	sessions ports.SessionRepository,
	view ports.MapView,
	proj ports.Projection,
	clock clockwork.Clock,
	opts SessionOptions,
) *SessionService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SessionService{
		sessions: sessions,
		view:     view,
		proj:     proj,
		clock:    clock,
		opts:     opts,
		tracer:   telemetry.Tracer("geopin/usecases"),
	}
}

// Create starts a session and points its map at the initial view.
func (s *SessionService) Create(ctx context.Context) (domain.SessionState, error) {
	sess := domain.NewSession(uuid.NewString(), s.clock.Now())
	if err := s.sessions.Create(ctx, sess); err != nil {
		return domain.SessionState{}, fmt.Errorf("create session: %w", err)
	}
	s.refreshActiveGauge(ctx)

	if s.view != nil {
		iv := s.opts.InitialView
		if err := s.view.RecenterAndZoom(ctx, sess.ID, iv.Center, iv.Zoom, false); err != nil {
			metrics.RenderPublishErrors.WithLabelValues(domain.FrameView).Inc()
			slog.WarnContext(ctx, "initial view publish failed", "session_id", sess.ID, "error", err)
		}
	}

	slog.InfoContext(ctx, "session created", "session_id", sess.ID)
	return sess.Snapshot(), nil
}

// Get returns the current state of a session.
func (s *SessionService) Get(ctx context.Context, id string) (domain.SessionState, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return domain.SessionState{}, err
	}
	sess.Touch(s.clock.Now())
	return sess.Snapshot(), nil
}

// End discards a session and its markers.
func (s *SessionService) End(ctx context.Context, id string) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	s.refreshActiveGauge(ctx)
	slog.InfoContext(ctx, "session ended", "session_id", id)
	return nil
}

// SetModal opens or closes the entry modal. Closing forgets the clicked
// coordinate.
func (s *SessionService) SetModal(ctx context.Context, id string, open bool) (domain.SessionState, error) {
	return s.update(ctx, id, func(tx domain.Tx) error {
		if open {
			tx.OpenModal(nil)
		} else {
			tx.CloseModal()
		}
		return nil
	})
}

// HandleMapClick is the inbound map click: the display coordinate is
// unprojected, remembered, used to prefill the form, and the modal opens.
func (s *SessionService) HandleMapClick(ctx context.Context, id string, c domain.DisplayCoordinate) (domain.SessionState, error) {
	lon, lat := s.proj.Unproject(c)
	return s.ClickAt(ctx, id, domain.GeoPoint{Lat: lat, Lon: lon})
}

// ClickAt is HandleMapClick for clients that already have lon/lat.
func (s *SessionService) ClickAt(ctx context.Context, id string, p domain.GeoPoint) (domain.SessionState, error) {
	ctx, span := s.tracer.Start(ctx, telemetry.SpanMapClick, trace.WithAttributes(
		attribute.String("session.id", id),
		attribute.Float64("geo.lat", p.Lat),
		attribute.Float64("geo.lon", p.Lon),
	))
	defer span.End()

	return s.update(ctx, id, func(tx domain.Tx) error {
		tx.OpenModal(&p)
		tx.SetForm(tx.Form().WithClick(p))
		return nil
	})
}

// Dispatch applies one form action. converted is only meaningful for
// domain.ActionConvert.
func (s *SessionService) Dispatch(ctx context.Context, id string, a domain.FormAction) (st domain.SessionState, converted bool, err error) {
	st, err = s.update(ctx, id, func(tx domain.Tx) error {
		next, ok, err := tx.Form().Apply(a)
		if err != nil {
			return err
		}
		converted = ok
		tx.SetForm(next)
		return nil
	})
	return st, converted, err
}

// Fill applies several form actions as one change: either all of them land
// or the form is left as it was.
func (s *SessionService) Fill(ctx context.Context, id string, actions ...domain.FormAction) (domain.SessionState, error) {
	return s.update(ctx, id, func(tx domain.Tx) error {
		form := tx.Form()
		for _, a := range actions {
			next, _, err := form.Apply(a)
			if err != nil {
				return err
			}
			form = next
		}
		tx.SetForm(form)
		return nil
	})
}

// refreshActiveGauge sets the live-session gauge from the repository.
func (s *SessionService) refreshActiveGauge(ctx context.Context) {
	n, err := s.sessions.Count(ctx)
	if err != nil {
		slog.WarnContext(ctx, "count sessions failed", "error", err)
		return
	}
	metrics.ActiveSessions.Set(float64(n))
}

// ExpireIdle removes every session idle for longer than IdleTTL.
func (s *SessionService) ExpireIdle(ctx context.Context) (int, error) {
	all, err := s.sessions.List(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := s.clock.Now().Add(-s.opts.IdleTTL)
	expired := 0
	for _, sess := range all {
		if !sess.LastActiveAt().Before(cutoff) {
			continue
		}
		if err := s.sessions.Delete(ctx, sess.ID); err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				continue
			}
			return expired, err
		}
		expired++
		metrics.SessionsExpired.Inc()
	}
	s.refreshActiveGauge(ctx)

	if expired > 0 {
		slog.InfoContext(ctx, "expired idle sessions", "count", expired)
	}
	return expired, nil
}

// RunSweeper calls ExpireIdle every interval until ctx is cancelled.
func (s *SessionService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if _, err := s.ExpireIdle(ctx); err != nil {
				slog.ErrorContext(ctx, "session sweep failed", "error", err)
			}
		}
	}
}

func (s *SessionService) update(ctx context.Context, id string, fn func(tx domain.Tx) error) (domain.SessionState, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return domain.SessionState{}, err
	}

	var st domain.SessionState
	err = sess.Update(s.clock.Now(), func(tx domain.Tx) error {
		if err := fn(tx); err != nil {
			return err
		}
		st = tx.Snapshot()
		return nil
	})
	if err != nil {
		return domain.SessionState{}, err
	}
	return st, nil
}
