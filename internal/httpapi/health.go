package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/lostandfound/server/internal/shared/database"
	"github.com/lostandfound/server/internal/shared/response"
)

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
}

// HealthHandler reports process and database liveness.
type HealthHandler struct {
	db *database.DB
}

// NewHealthHandler wires the health endpoint to the database connection.
func NewHealthHandler(db *database.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	dbStatus := "disconnected"
	if err := h.db.Ping(); err == nil {
		dbStatus = "connected"
	} else {
		logger.Warn("database ping failed", "error", err)
	}

	resp := healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Database:  dbStatus,
	}

	response.Success(w, http.StatusOK, resp)
}
