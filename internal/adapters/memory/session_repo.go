package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/samirrijal/geopin/internal/core/domain"
)

// SessionRepo implements ports.SessionRepository in process memory.
// Sessions are never written anywhere else.
type SessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	max      int
}

// NewSessionRepo creates a repo holding at most max sessions (0 = unlimited).
func NewSessionRepo(max int) *SessionRepo {
	return &SessionRepo{sessions: make(map[string]*domain.Session), max: max}
}

func (r *SessionRepo) Create(ctx context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.max > 0 && len(r.sessions) >= r.max {
		return domain.ErrSessionLimit
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *SessionRepo) Get(ctx context.Context, id string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// List returns sessions oldest first.
func (r *SessionRepo) List(ctx context.Context) ([]*domain.Session, error) {
	r.mu.RLock()
	out := make([]*domain.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *SessionRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions), nil
}
