package ports

import (
	"context"

	"github.com/samirrijal/geopin/internal/core/domain"
)

// SessionRepository keeps live sessions for the lifetime of the process.
type SessionRepository interface {
	// Create stores a new session. It returns domain.ErrSessionLimit when full.
	Create(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Session, error)
	Count(ctx context.Context) (int, error)
}
