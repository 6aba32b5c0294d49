package atmosphere

import (
	"database/sql"
	"log/slog"
	"net/http"

	"atmos-server/internal/modules/atmosphere/controller"
	"atmos-server/internal/modules/atmosphere/repository"
	"atmos-server/internal/modules/atmosphere/service"
	"atmos-server/internal/mqtt"
)

// RegisterFeature wires repository, service and HTTP routes for the
// atmosphere module. publisher may be nil when MQTT is disabled.
func RegisterFeature(mux *http.ServeMux, db *sql.DB, publisher mqtt.SoundingPublisher, maxSamples int, logger *slog.Logger) {
	soundingRepository := repository.NewRepository(db)
	atmosphereService := service.NewService(soundingRepository, publisher, maxSamples, logger)
	atmosphereController := controller.NewAtmosphereController(atmosphereService)
	atmosphereController.RegisterRoutes(mux)
}
