package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/geopin/internal/adapters/http"
	"github.com/samirrijal/geopin/internal/adapters/memory"
	natsadapter "github.com/samirrijal/geopin/internal/adapters/nats"
	"github.com/samirrijal/geopin/internal/adapters/projection"
	"github.com/samirrijal/geopin/internal/adapters/valkey"
	"github.com/samirrijal/geopin/internal/core/domain"
	"github.com/samirrijal/geopin/internal/core/ports"
	"github.com/samirrijal/geopin/internal/core/usecases"
	"github.com/samirrijal/geopin/internal/pkg/config"
	"github.com/samirrijal/geopin/internal/pkg/logging"
	"github.com/samirrijal/geopin/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("geopin-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	proj := projection.NewWebMercator()

	// NATS: map frames out, WebSocket relay in
	var (
		view     ports.MapView
		frames   ports.FrameSubscriber
		natsConn *nats.Conn
	)
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL, proj, cfg.Map.Animation())
		if err != nil {
			slog.Warn("nats unavailable, map frames disabled", "error", err)
		} else {
			defer pub.Close()
			view = pub
			natsConn = pub.Conn()
			frames = natsadapter.NewSubscriber(natsConn)
		}
	}

	// Valkey: shared rate limit counters
	var limiter *valkey.Storage
	if cfg.Valkey.Enabled {
		limiter, err = valkey.New(cfg.Valkey.Addr, "geopin:limiter:")
		if err != nil {
			slog.Warn("valkey unavailable, rate limits kept in memory", "error", err)
			limiter = nil
		} else {
			defer limiter.Close()
		}
	}

	// Repos
	sessionRepo := memory.NewSessionRepo(cfg.Session.MaxSessions)

	// Use cases
	policy := cfg.RangePolicy()
	converterSvc := usecases.NewConverterService(policy)
	sessionSvc := usecases.NewSessionService(sessionRepo, view, proj, nil, usecases.SessionOptions{
		IdleTTL: cfg.Session.IdleTTL,
		InitialView: domain.Viewport{
			Center: domain.GeoPoint{Lat: cfg.Map.CenterLat, Lon: cfg.Map.CenterLon},
			Zoom:   cfg.Map.InitialZoom,
		},
	})
	markerSvc := usecases.NewMarkerService(sessionRepo, view, nil, policy, cfg.Map.MarkerZoom)

	go sessionSvc.RunSweeper(ctx, cfg.Session.SweepInterval)

	deps := &http.Dependencies{
		Converter: converterSvc,
		Sessions:  sessionSvc,
		Markers:   markerSvc,
		Frames:    frames,
		NATS:      natsConn,
		Limiter:   limiter,
		RateLimit: http.RateLimit{Max: cfg.RateLimit.Max, Window: cfg.RateLimit.Window},
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		AppName:      "GeoPin API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, If-None-Match",
		ExposeHeaders:    "Link, Location, ETag",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "range_policy", string(policy))
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())
	cancel()

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
