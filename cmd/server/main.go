package main

import (
	"context"
	"log"
	"log/slog"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/lostandfound/server/internal/application"
	"github.com/lostandfound/server/internal/httpapi"
	"github.com/lostandfound/server/internal/middleware"
	"github.com/lostandfound/server/internal/records"
	"github.com/lostandfound/server/internal/shared/config"
	"github.com/lostandfound/server/internal/shared/database"
	"github.com/lostandfound/server/internal/shared/logger"
	redisconn "github.com/lostandfound/server/internal/shared/redis"
	"github.com/lostandfound/server/internal/world"
)

func main() {
	if err := config.Init(); err != nil {
		log.Fatal("failed to load configuration:", err)
	}

	logger.Init()
	root := slog.With("component", "main")

	db, err := database.Connect()
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}
	defer db.Close()

	root.Info("running database migrations")
	if err := db.RunMigrations(); err != nil {
		log.Fatal("failed to run migrations:", err)
	}

	redisClient, err := redisconn.Connect()
	if err != nil {
		log.Fatal("failed to connect to redis:", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	w, err := world.LoadFile(config.GlobalConfig.World.ConfigPath, config.GlobalConfig.World.RandomizeSpawnPoints)
	if err != nil {
		log.Fatal("failed to load world configuration:", err)
	}
	w.DogRetirementSeconds = config.GlobalConfig.World.DogRetirementTime.Seconds()

	postgresSink := records.NewPostgresSink(db.DB, config.GlobalConfig.Records.PoolSize, slog.Default())
	var sink records.Sink = postgresSink
	if redisClient != nil {
		sink = records.NewCachedSink(postgresSink, redisClient.Client, config.GlobalConfig.Redis.TopTTL, slog.Default())
	}

	app := application.New(w, sink, rand.New(rand.NewSource(time.Now().UnixNano())), slog.Default())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go runTicker(ctx, app, config.GlobalConfig.World.TickPeriod)
	go runPendingRetryLoop(ctx, postgresSink)

	cors := middleware.NewCORS()
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: config.GlobalConfig.RateLimit.RequestsPerSecond,
		BurstSize:         config.GlobalConfig.RateLimit.BurstSize,
		Enabled:           config.GlobalConfig.RateLimit.Enabled,
		TrustProxy:        config.GlobalConfig.RateLimit.TrustProxy,
	})

	routes := httpapi.NewRoutes(db, app, cors, rateLimiter, slog.Default())

	server := &http.Server{
		Addr:         ":" + config.GlobalConfig.Server.Port,
		Handler:      routes.Setup(),
		ReadTimeout:  config.GlobalConfig.Server.ReadTimeout,
		WriteTimeout: config.GlobalConfig.Server.WriteTimeout,
		IdleTimeout:  config.GlobalConfig.Server.IdleTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			root.Error("server shutdown did not complete cleanly", "error", err)
		}
	}()

	root.Info("lost and found server starting", "port", config.GlobalConfig.Server.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server failed:", err)
	}
}

// runTicker invokes Tick on a fixed cadence until ctx is cancelled.
func runTicker(ctx context.Context, app *application.Application, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.Tick(ctx, period)
		}
	}
}

// runPendingRetryLoop periodically flushes records that failed to
// persist, per the sink-failure retry policy.
func runPendingRetryLoop(ctx context.Context, sink *records.PostgresSink) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sink.DrainPending(ctx)
		}
	}
}
