package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/geopin/internal/adapters/memory"
	"github.com/samirrijal/geopin/internal/core/domain"
)

func TestSessionRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSessionRepo(0)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, domain.NewSession("b", base.Add(time.Second))))
	require.NoError(t, repo.Create(ctx, domain.NewSession("a", base)))

	s, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", s.ID)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)

	require.NoError(t, repo.Delete(ctx, "a"))
	_, err = repo.Get(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "a"), domain.ErrSessionNotFound)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSessionRepo_Limit(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSessionRepo(1)

	require.NoError(t, repo.Create(ctx, domain.NewSession("a", time.Now())))
	err := repo.Create(ctx, domain.NewSession("b", time.Now()))
	assert.ErrorIs(t, err, domain.ErrSessionLimit)
}
