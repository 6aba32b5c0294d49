package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"atmos-server/internal/config"
	"atmos-server/internal/db"
	"atmos-server/internal/httpapi"
	"atmos-server/internal/modules/atmosphere"
	"atmos-server/internal/mqtt"
)

func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"dbDriver", cfg.Driver,
		"sqlitePath", cfg.Path,
		"profileMaxSamples", cfg.ProfileMaxSamples,
		"mqttEnabled", cfg.MQTTEnabled,
		"mqttBroker", cfg.MQTTBroker,
		"mqttTopic", cfg.MQTTTopic,
	)

	dbConn, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(dbConn); closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	if err := db.Migrate(dbConn); err != nil {
		return err
	}
	slog.Info("database ready")

	var publisher mqtt.SoundingPublisher
	var mqttPublisher *mqtt.Publisher
	if cfg.MQTTEnabled {
		mqttPublisher = mqtt.NewPublisher(cfg, slog.Default())
		// Short timeout for the initial connect so startup never blocks on
		// an unreachable broker; auto-reconnect keeps trying afterwards.
		connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
		err = mqttPublisher.Connect(connectCtx)
		connectCancel()
		if err != nil {
			slog.Warn("mqtt connection failed (continuing without mqtt)", "error", err)
		}
		publisher = mqttPublisher
	}

	mux := httpapi.NewMux(dbConn)
	atmosphere.RegisterFeature(mux, dbConn, publisher, cfg.ProfileMaxSamples, slog.Default())

	srv := httpapi.NewServer(cfg, mux)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if mqttPublisher != nil {
		slog.Info("mqtt disconnecting")
		mqttPublisher.Disconnect()
	}

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
