package ports

import (
	"context"

	"github.com/samirrijal/geopin/internal/core/domain"
)

// MapView is the outbound half of the map collaborator.
type MapView interface {
	// RenderMarkers replaces every marker the session's map shows.
	RenderMarkers(ctx context.Context, sessionID string, points []domain.GeoPoint) error
	// RecenterAndZoom moves the session's viewport to point.
	RecenterAndZoom(ctx context.Context, sessionID string, point domain.GeoPoint, zoom float64, animated bool) error
}

// Projection converts between geographic and display coordinates.
type Projection interface {
	Project(lon, lat float64) domain.DisplayCoordinate
	Unproject(c domain.DisplayCoordinate) (lon, lat float64)
}

// FrameSubscriber delivers the frames published for one session.
type FrameSubscriber interface {
	SubscribeSession(ctx context.Context, sessionID string, handler func(frame []byte)) (unsubscribe func(), err error)
}
