package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/geopin/internal/core/domain"
	"github.com/samirrijal/geopin/internal/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load("geopin-test")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 2.0, cfg.Map.InitialZoom)
	assert.Equal(t, 12.0, cfg.Map.MarkerZoom)
	assert.Equal(t, time.Second, cfg.Map.Animation())
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)
	assert.Equal(t, domain.RangeAccept, cfg.RangePolicy())
	assert.Equal(t, "geopin-test", cfg.Telemetry.ServiceName)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GEOPIN_MAP_MARKER_ZOOM", "15")
	t.Setenv("GEOPIN_SESSION_IDLE_TTL", "5m")
	t.Setenv("GEOPIN_CONVERTER_RANGE_POLICY", "reject")

	cfg, err := config.Load("geopin-test")
	require.NoError(t, err)

	assert.Equal(t, 15.0, cfg.Map.MarkerZoom)
	assert.Equal(t, 5*time.Minute, cfg.Session.IdleTTL)
	assert.Equal(t, domain.RangeReject, cfg.RangePolicy())
}

func TestValidate_CollectsErrors(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GEOPIN_SERVER_PORT", "70000")
	t.Setenv("GEOPIN_CONVERTER_RANGE_POLICY", "clamp")

	_, err := config.Load("geopin-test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be 1-65535")
	assert.Contains(t, err.Error(), "converter.range_policy")
}
