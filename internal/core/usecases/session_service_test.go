package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/geopin/internal/adapters/memory"
	"github.com/samirrijal/geopin/internal/core/domain"
	"github.com/samirrijal/geopin/internal/core/usecases"
	"github.com/samirrijal/geopin/internal/pkg/geospatial"
	"github.com/samirrijal/geopin/internal/pkg/metrics"
)

func TestSessionService_CreatePublishesInitialView(t *testing.T) {
	f := newFixture(t, domain.RangeAccept)
	st, err := f.sessions.Create(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, st.ID)
	assert.Empty(t, st.Markers)
	assert.False(t, st.ModalOpen)
	assert.Equal(t, domain.ModeDD, st.Form.Mode)

	require.Len(t, f.view.recenters, 1)
	assert.Equal(t, st.ID, f.view.recenters[0].sessionID)
	assert.Equal(t, domain.GeoPoint{}, f.view.recenters[0].point)
}

func TestSessionService_CreateWithoutMapView(t *testing.T) {
	repo := memory.NewSessionRepo(0)
	svc := usecases.NewSessionService(repo, nil, &mockProjection{}, nil, usecases.SessionOptions{IdleTTL: time.Minute})
	_, err := svc.Create(context.Background())
	require.NoError(t, err)
}

func TestSessionService_SessionLimit(t *testing.T) {
	repo := memory.NewSessionRepo(1)
	svc := usecases.NewSessionService(repo, nil, &mockProjection{}, nil, usecases.SessionOptions{IdleTTL: time.Minute})

	_, err := svc.Create(context.Background())
	require.NoError(t, err)
	_, err = svc.Create(context.Background())
	assert.ErrorIs(t, err, domain.ErrSessionLimit)
}

func TestSessionService_HandleMapClick(t *testing.T) {
	f := newFixture(t, domain.RangeAccept)
	f.sessions = usecases.NewSessionService(f.repo, f.view, &mockProjection{
		unprojectFn: func(c domain.DisplayCoordinate) (float64, float64) {
			return -77.0428, -12.0464
		},
	}, f.clock, usecases.SessionOptions{IdleTTL: time.Minute})
	ctx := context.Background()
	id := f.newSession(t)

	st, err := f.sessions.HandleMapClick(ctx, id, domain.DisplayCoordinate{X: 1, Y: 2})
	require.NoError(t, err)

	assert.True(t, st.ModalOpen)
	require.NotNil(t, st.ClickedCoordinate)
	assert.Equal(t, domain.GeoPoint{Lat: -12.0464, Lon: -77.0428}, *st.ClickedCoordinate)
	assert.Equal(t, "12.046400", st.Form.LatDD)
	assert.Equal(t, geospatial.South, st.Form.LatDirection)
	assert.Equal(t, geospatial.West, st.Form.LonDirection)

	// Submitting the prefilled form commits the clicked point.
	p, err := f.markers.Submit(ctx, id)
	require.NoError(t, err)
	assert.InDelta(t, -12.0464, p.Lat, 1e-9)
	assert.InDelta(t, -77.0428, p.Lon, 1e-9)

	st, err = f.sessions.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, st.ClickedCoordinate)
}

func TestSessionService_CloseModalClearsClick(t *testing.T) {
	f := newFixture(t, domain.RangeAccept)
	ctx := context.Background()
	id := f.newSession(t)

	_, err := f.sessions.ClickAt(ctx, id, domain.GeoPoint{Lat: 1, Lon: 2})
	require.NoError(t, err)

	st, err := f.sessions.SetModal(ctx, id, false)
	require.NoError(t, err)
	assert.False(t, st.ModalOpen)
	assert.Nil(t, st.ClickedCoordinate)
}

func TestSessionService_DispatchConvert(t *testing.T) {
	f := newFixture(t, domain.RangeAccept)
	ctx := context.Background()
	id := f.newSession(t)
	f.enterDD(t, id, "4.5709", "74.2973", "N", "W")

	st, converted, err := f.sessions.Dispatch(ctx, id, domain.FormAction{Kind: domain.ActionConvert})
	require.NoError(t, err)
	assert.True(t, converted)
	assert.Equal(t, domain.ModeDMS, st.Form.Mode)
	assert.Equal(t, "74", st.Form.LonDegrees)

	_, _, err = f.sessions.Dispatch(ctx, id, domain.FormAction{Kind: domain.ActionSetFields, Patch: domain.FormPatch{
		LatDirection: func() *string { s := "W"; return &s }(),
	}})
	assert.ErrorIs(t, err, domain.ErrInvalidDirection)
}

func TestSessionService_FillIsAllOrNothing(t *testing.T) {
	f := newFixture(t, domain.RangeAccept)
	ctx := context.Background()
	id := f.newSession(t)

	_, err := f.sessions.Fill(ctx, id,
		domain.FormAction{Kind: domain.ActionSetMode, Mode: domain.ModeDMS},
		domain.FormAction{Kind: domain.ActionSetFields, Patch: domain.FormPatch{LatDegrees: strp("10"), LonDirection: strp("N")}},
	)
	assert.ErrorIs(t, err, domain.ErrInvalidDirection)

	st, err := f.sessions.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeDD, st.Form.Mode)
	assert.Empty(t, st.Form.LatDegrees)

	st, err = f.sessions.Fill(ctx, id,
		domain.FormAction{Kind: domain.ActionSetMode, Mode: domain.ModeDMS},
		domain.FormAction{Kind: domain.ActionSetFields, Patch: domain.FormPatch{LatDegrees: strp("10")}},
	)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeDMS, st.Form.Mode)
	assert.Equal(t, "10", st.Form.LatDegrees)
}

func TestSessionService_End(t *testing.T) {
	f := newFixture(t, domain.RangeAccept)
	ctx := context.Background()
	id := f.newSession(t)

	require.NoError(t, f.sessions.End(ctx, id))
	_, err := f.sessions.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, f.sessions.End(ctx, id), domain.ErrSessionNotFound)
}

func TestSessionService_ExpireIdle(t *testing.T) {
	f := newFixture(t, domain.RangeAccept)
	ctx := context.Background()
	stale := f.newSession(t)

	f.clock.Advance(20 * time.Minute)
	fresh := f.newSession(t)

	f.clock.Advance(15 * time.Minute)
	n, err := f.sessions.ExpireIdle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = f.sessions.Get(ctx, stale)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = f.sessions.Get(ctx, fresh)
	assert.NoError(t, err)
}

func TestSessionService_ActiveGaugeFollowsRepository(t *testing.T) {
	f := newFixture(t, domain.RangeAccept)
	ctx := context.Background()

	a := f.newSession(t)
	f.newSession(t)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.ActiveSessions))

	require.NoError(t, f.sessions.End(ctx, a))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ActiveSessions))

	f.clock.Advance(time.Hour)
	_, err := f.sessions.ExpireIdle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.ActiveSessions))
}

func TestSessionService_ActivityKeepsSessionAlive(t *testing.T) {
	f := newFixture(t, domain.RangeAccept)
	ctx := context.Background()
	id := f.newSession(t)

	f.clock.Advance(25 * time.Minute)
	_, err := f.sessions.SetModal(ctx, id, true)
	require.NoError(t, err)

	f.clock.Advance(25 * time.Minute)
	n, err := f.sessions.ExpireIdle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSessionService_RunSweeper(t *testing.T) {
	f := newFixture(t, domain.RangeAccept)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	id := f.newSession(t)

	done := make(chan struct{})
	go func() {
		f.sessions.RunSweeper(ctx, time.Minute)
		close(done)
	}()

	require.NoError(t, f.clock.BlockUntilContext(ctx, 1))
	f.clock.Advance(31 * time.Minute)

	require.Eventually(t, func() bool {
		n, _ := f.repo.Count(context.Background())
		return n == 0
	}, time.Second, 5*time.Millisecond)

	_, err := f.sessions.Get(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	cancel()
	<-done
}
