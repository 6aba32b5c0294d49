package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"atmos-server/internal/isa"
	"atmos-server/internal/modules/atmosphere/service"
	"atmos-server/internal/utils"
)

func (c *atmosphereControllerImpl) handleConditions(w http.ResponseWriter, r *http.Request) {
	altitude, err := parseAltitudeQuery(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	conditions, err := c.service.Conditions(altitude)
	if err != nil {
		writeEvaluationError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, conditions)
}

func (c *atmosphereControllerImpl) handleProfile(w http.ResponseWriter, r *http.Request) {
	from, to, step, err := parseProfileQuery(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := c.service.Profile(from, to, step)
	if err != nil {
		writeEvaluationError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, profile)
}

func (c *atmosphereControllerImpl) handleLayers(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, c.service.Layers())
}

func (c *atmosphereControllerImpl) handleSoundings(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimitQuery(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	soundings, err := c.service.RecentSoundings(limit)
	if err != nil {
		slog.Error("soundings: query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load soundings")
		return
	}
	utils.WriteJSON(w, http.StatusOK, soundings)
}

// writeEvaluationError maps evaluator errors to HTTP statuses: altitudes the
// model cannot place are 422, malformed requests 400, anything else 500.
func writeEvaluationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, isa.ErrAltitudeOutOfRange):
		utils.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, isa.ErrInvalidAltitude),
		errors.Is(err, isa.ErrInvalidRange),
		errors.Is(err, service.ErrTooManySamples):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("atmosphere evaluation failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "evaluation failed")
	}
}
