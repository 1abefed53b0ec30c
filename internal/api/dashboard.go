package api

import (
	"context"
	"net/http"
	"time"
)

// Dashboard handles GET /api/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sum, err := h.repo.DashboardSummary(r.Context())
	if err != nil {
		writeStoreError(w, r, err, "Dados não encontrados")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// Health handles GET /health. The cache is reported but never fails the
// check, since requests keep working without it.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	db := "ok"
	if err := h.repo.Ping(ctx); err != nil {
		status, db, code = "degraded", "unavailable", http.StatusServiceUnavailable
	}

	redisState := "disabled"
	if h.cacheStore != nil {
		redisState = "disconnected"
		if h.cacheStore.Connected() {
			redisState = "connected"
		}
	}

	writeJSON(w, code, map[string]any{
		"status":   status,
		"database": db,
		"cache":    redisState,
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}
