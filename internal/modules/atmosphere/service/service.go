package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"atmos-server/internal/isa"
	"atmos-server/internal/modules/atmosphere/repository"
	"atmos-server/internal/modules/atmosphere/types"
	"atmos-server/internal/mqtt"
)

// ErrTooManySamples is returned when a profile request would evaluate more
// samples than the configured cap.
var ErrTooManySamples = errors.New("profile exceeds sample limit")

// Service evaluates the standard atmosphere, records each computed profile
// as a sounding, and optionally publishes a summary for simulation
// consumers.
type Service struct {
	repo       repository.SoundingRepository
	publisher  mqtt.SoundingPublisher
	maxSamples int
	logger     *slog.Logger
}

// NewService wires the atmosphere module. publisher may be nil when MQTT is
// disabled.
func NewService(repo repository.SoundingRepository, publisher mqtt.SoundingPublisher, maxSamples int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:       repo,
		publisher:  publisher,
		maxSamples: maxSamples,
		logger:     logger,
	}
}

// Conditions evaluates temperature, pressure and density at one altitude.
func (s *Service) Conditions(altitude float64) (types.Conditions, error) {
	sample, err := isa.At(altitude)
	if err != nil {
		return types.Conditions{}, err
	}
	return toConditions(sample), nil
}

// Profile evaluates the atmosphere over the from..to grid. The whole request
// fails on any out-of-range sample, so callers never receive a truncated
// profile.
func (s *Service) Profile(from, to, step float64) ([]types.Conditions, error) {
	grid, err := isa.SampleRange(from, to, step)
	if err != nil {
		return nil, err
	}
	if len(grid) > s.maxSamples {
		return nil, fmt.Errorf("%w: %d samples requested, cap is %d", ErrTooManySamples, len(grid), s.maxSamples)
	}

	samples, err := isa.Evaluate(grid)
	if err != nil {
		return nil, err
	}

	out := make([]types.Conditions, 0, len(samples))
	for _, sample := range samples {
		out = append(out, toConditions(sample))
	}

	s.recordSounding(from, to, step, len(out))
	return out, nil
}

// Layers returns the reference layer table.
func (s *Service) Layers() []types.LayerInfo {
	layers := isa.Layers()
	out := make([]types.LayerInfo, 0, len(layers))
	for _, l := range layers {
		out = append(out, types.LayerInfo{
			Name:             l.Name,
			BaseAltitudeM:    l.BaseAltitude,
			BaseTemperatureK: l.BaseTemperature,
			LapseRateKPerM:   l.LapseRate,
			BasePressurePa:   l.BasePressure,
			BaseDensityKgM3:  l.BaseDensity,
		})
	}
	return out
}

// RecentSoundings lists the latest recorded profile requests.
func (s *Service) RecentSoundings(limit int) ([]types.Sounding, error) {
	return s.repo.GetRecentSoundings(limit)
}

// recordSounding persists and publishes the profile request. The evaluation
// already succeeded, so failures here are logged rather than surfaced to the
// caller.
func (s *Service) recordSounding(from, to, step float64, samples int) {
	now := time.Now().UTC()
	if err := s.repo.InsertSounding(now, from, to, step, samples); err != nil {
		s.logger.Error("failed to record sounding",
			"from_m", from, "to_m", to, "step_m", step,
			"error", err,
		)
	}

	if s.publisher == nil || !s.publisher.IsConnected() {
		return
	}
	sounding := types.Sounding{
		RequestedAt: now,
		FromM:       from,
		ToM:         to,
		StepM:       step,
		Samples:     samples,
	}
	if err := s.publisher.Publish(sounding); err != nil {
		s.logger.Warn("failed to publish sounding", "error", err)
	}
}

func toConditions(s isa.Sample) types.Conditions {
	return types.Conditions{
		AltitudeM:    s.Altitude,
		TemperatureK: s.Temperature,
		PressurePa:   s.Pressure,
		DensityKgM3:  s.Density,
	}
}
