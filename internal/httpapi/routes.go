package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/lostandfound/server/internal/application"
	"github.com/lostandfound/server/internal/middleware"
	"github.com/lostandfound/server/internal/shared/database"
)

// Routes assembles the mux and the middleware chain wrapping it.
type Routes struct {
	db          *database.DB
	app         *application.Application
	cors        *middleware.CORSMiddleware
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

// NewRoutes wires the façade, database handle, and middleware into a
// routes builder.
func NewRoutes(db *database.DB, app *application.Application, cors *middleware.CORSMiddleware, rateLimiter *middleware.RateLimiter, logger *slog.Logger) *Routes {
	return &Routes{db: db, app: app, cors: cors, rateLimiter: rateLimiter, logger: logger}
}

// Setup builds the full handler chain: rate limiting, then CORS, then
// the routed mux.
func (r *Routes) Setup() http.Handler {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("setting up application routes")

	mux := http.NewServeMux()
	handlers := NewHandlers(r.app, r.logger)

	mux.Handle("/api/health", NewHealthHandler(r.db))
	mux.HandleFunc("/api/join", handlers.Join)
	mux.HandleFunc("/api/game/state", handlers.GameState)
	mux.HandleFunc("/api/action", handlers.Action)
	mux.HandleFunc("/api/records", handlers.Records)

	var handler http.Handler = mux
	handler = r.cors.Middleware(handler)
	handler = r.rateLimiter.Middleware(handler)
	return handler
}
