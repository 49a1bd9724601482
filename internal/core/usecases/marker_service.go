package usecases

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/geopin/internal/core/domain"
	"github.com/samirrijal/geopin/internal/core/ports"
	"github.com/samirrijal/geopin/internal/pkg/metrics"
	"github.com/samirrijal/geopin/internal/pkg/telemetry"
)

// MarkerService commits form input to a session's marker store and keeps
// the map in sync with it.
type MarkerService struct {
	sessions   ports.SessionRepository
	view       ports.MapView
	clock      clockwork.Clock
	policy     domain.RangePolicy
	markerZoom float64
	tracer     trace.Tracer
}

// NewMarkerService creates a new MarkerService. view may be nil.
func NewMarkerService(
	sessions ports.SessionRepository,
	view ports.MapView,
	clock clockwork.Clock,
	policy domain.RangePolicy,
	markerZoom float64,
) *MarkerService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MarkerService{
		sessions:   sessions,
		view:       view,
		clock:      clock,
		policy:     policy,
		markerZoom: markerZoom,
		tracer:     telemetry.Tracer("geopin/usecases"),
	}
}

// Submit commits the session's form. On success the point is appended, the
// form cleared, the modal closed, and the map re-rendered and recentered on
// the new point. On failure nothing changes and the error is a
// *domain.ValidationError.
func (s *MarkerService) Submit(ctx context.Context, sessionID string) (domain.GeoPoint, error) {
	ctx, span := s.tracer.Start(ctx, telemetry.SpanSubmitMarker, trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.GeoPoint{}, err
	}

	var point domain.GeoPoint
	err = sess.Update(s.clock.Now(), func(tx domain.Tx) error {
		form := tx.Form()
		p, err := domain.CommitMarker(form)
		if err != nil {
			return err
		}
		if err := s.policy.Check(form, p); err != nil {
			return err
		}

		tx.Commit(p)
		tx.SetForm(form.Clear())
		tx.CloseModal()
		point = p

		metrics.MarkersCommitted.WithLabelValues(string(form.Mode)).Inc()
		// Render while still holding the session so frames go out in commit order.
		s.sync(ctx, sessionID, tx.Markers().All(), p)
		return nil
	})
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			metrics.ValidationFailures.WithLabelValues(ve.Field).Inc()
		}
		span.SetStatus(codes.Error, err.Error())
		return domain.GeoPoint{}, err
	}

	span.SetAttributes(attribute.Float64("geo.lat", point.Lat), attribute.Float64("geo.lon", point.Lon))
	slog.InfoContext(ctx, "marker committed",
		"session_id", sessionID,
		"lat", point.Lat,
		"lon", point.Lon,
	)
	return point, nil
}

// List returns a page of the session's markers in insertion order, with the
// total count.
func (s *MarkerService) List(ctx context.Context, sessionID string, offset, limit int) ([]domain.MarkerEntry, int, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, 0, err
	}

	entries := sess.MarkerEntries()
	total := len(entries)
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return entries[offset:end], total, nil
}

// All returns every marker of the session in insertion order.
func (s *MarkerService) All(ctx context.Context, sessionID string) ([]domain.GeoPoint, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Snapshot().Markers, nil
}

// Rerender pushes the session's full marker list again, e.g. when a map
// client reconnects.
func (s *MarkerService) Rerender(ctx context.Context, sessionID string) error {
	if s.view == nil {
		return nil
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	return sess.Update(s.clock.Now(), func(tx domain.Tx) error {
		return s.render(ctx, sessionID, tx.Markers().All())
	})
}

// sync re-renders every marker and recenters on last. Publish failures are
// logged and counted but never undo a commit; the next render re-syncs.
func (s *MarkerService) sync(ctx context.Context, sessionID string, all []domain.GeoPoint, last domain.GeoPoint) {
	if s.view == nil {
		return
	}
	if err := s.render(ctx, sessionID, all); err != nil {
		slog.WarnContext(ctx, "render publish failed", "session_id", sessionID, "error", err)
	}

	ctx, span := s.tracer.Start(ctx, telemetry.SpanRecenter)
	defer span.End()
	start := time.Now()
	err := s.view.RecenterAndZoom(ctx, sessionID, last, s.markerZoom, true)
	metrics.RenderPublishDuration.WithLabelValues(domain.FrameView).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RenderPublishErrors.WithLabelValues(domain.FrameView).Inc()
		span.SetStatus(codes.Error, err.Error())
		slog.WarnContext(ctx, "recenter publish failed", "session_id", sessionID, "error", err)
	}
}

func (s *MarkerService) render(ctx context.Context, sessionID string, all []domain.GeoPoint) error {
	ctx, span := s.tracer.Start(ctx, telemetry.SpanRender, trace.WithAttributes(
		attribute.Int("markers.count", len(all)),
	))
	defer span.End()

	start := time.Now()
	err := s.view.RenderMarkers(ctx, sessionID, all)
	metrics.RenderPublishDuration.WithLabelValues(domain.FrameRender).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RenderPublishErrors.WithLabelValues(domain.FrameRender).Inc()
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
