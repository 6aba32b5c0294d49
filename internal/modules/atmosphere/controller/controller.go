package controller

import (
	"net/http"

	"atmos-server/internal/modules/atmosphere/types"
)

// AtmosphereService is the module surface the HTTP layer consumes;
// satisfied by *service.Service.
type AtmosphereService interface {
	Conditions(altitude float64) (types.Conditions, error)
	Profile(from, to, step float64) ([]types.Conditions, error)
	Layers() []types.LayerInfo
	RecentSoundings(limit int) ([]types.Sounding, error)
}

type AtmosphereController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type atmosphereControllerImpl struct {
	service AtmosphereService
}

func NewAtmosphereController(service AtmosphereService) AtmosphereController {
	return &atmosphereControllerImpl{service: service}
}

func (c *atmosphereControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/atmosphere/conditions", c.handleConditions)
	mux.HandleFunc("GET /api/v1/atmosphere/profile", c.handleProfile)
	mux.HandleFunc("GET /api/v1/atmosphere/layers", c.handleLayers)
	mux.HandleFunc("GET /api/v1/soundings", c.handleSoundings)
}
