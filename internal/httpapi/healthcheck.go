package httpapi

import (
	"atmos-server/internal/utils"
	"database/sql"
	"log/slog"
	"net/http"
)

type healthchecker interface {
	handleHealthz(w http.ResponseWriter, r *http.Request)
}

type healthcheckerImpl struct {
	db *sql.DB
}

func NewHealthchecker(db *sql.DB) healthchecker {
	return &healthcheckerImpl{db: db}
}

// handleHealthz reports readiness: the sounding log must be reachable and
// migrated, not merely opened.
func (h *healthcheckerImpl) handleHealthz(w http.ResponseWriter, r *http.Request) {
	var soundings int
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM soundings`).Scan(&soundings); err != nil {
		slog.Error("healthz: sounding log unreachable", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "sounding log unreachable")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func registerHealthcheck(mux *http.ServeMux, db *sql.DB) {
	healthchecker := NewHealthchecker(db)
	mux.HandleFunc("GET /healthz", healthchecker.handleHealthz)
}
