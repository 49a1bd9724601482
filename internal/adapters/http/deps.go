package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/geopin/internal/adapters/valkey"
	"github.com/samirrijal/geopin/internal/core/ports"
	"github.com/samirrijal/geopin/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Converter *usecases.ConverterService
	Sessions  *usecases.SessionService
	Markers   *usecases.MarkerService

	// Frames feeds the WebSocket relay; nil disables /ws.
	Frames ports.FrameSubscriber
	NATS   *nats.Conn

	// Limiter backs the rate limiter; nil keeps counters in process memory.
	Limiter *valkey.Storage

	RateLimit RateLimit
}

// RateLimit configures the per-IP limiter.
type RateLimit struct {
	Max    int
	Window time.Duration
}

// limiterStorage returns nil (in-memory) when Valkey is not configured.
func (d *Dependencies) limiterStorage() fiber.Storage {
	if d.Limiter == nil {
		return nil
	}
	return d.Limiter
}
