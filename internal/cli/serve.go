package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aetheris/internal/actuator"
	"aetheris/internal/advisory"
	"aetheris/internal/config"
	"aetheris/internal/handlers"
	"aetheris/internal/logger"
	"aetheris/internal/metrics"
	"aetheris/internal/repository"
	"aetheris/internal/repository/db"
	"aetheris/internal/server"
	"aetheris/internal/service"
	"aetheris/internal/signals"

	"github.com/spf13/cobra"
)

const (
	defaultPort     = "8080"
	shutdownTimeout = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API, evaluation stream and periodic sampler",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	log := logger.Get(cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	// open DB
	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("init sqlite: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	m := metrics.New()

	advisor, err := advisory.NewClient(cfg.Advisory)
	if err != nil {
		log.Warnw("advisory not configured, critical states will report it unavailable", "err", err)
		advisor = advisory.Disabled{}
	}

	provider := signals.NewProvider(
		signals.NewCPUSampler(cfg.Signals.CPUSampleInterval),
		signals.NewForecastCache(signals.NewOpenWeather(cfg.Weather), cfg.Weather.CacheTTL, nil),
		nil,
	)

	repos := repository.NewRepository(conn)
	recorder := service.NewRecorder(repos.Snapshots, repos.Evaluations,
		cfg.EventLog.QueueSize, cfg.EventLog.WriteTimeout, log, m)
	defer recorder.Close()

	actuators := openActuators(cfg.MQTT, log)
	defer actuators.Close()

	// wire dependencies
	services := service.NewService(service.Deps{
		Config:     cfg,
		Repos:      repos,
		Signals:    provider,
		Simulation: provider.Simulation(),
		Advisor:    advisor,
		Sink:       recorder,
		Actuators:  actuators,
		Metrics:    m,
		Log:        log,
	})
	apiHandler := handlers.NewHandler(services, log,
		handlers.WithMetrics(m),
		handlers.WithAuth(cfg.Auth.Enabled),
	)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Sampler.Enabled {
		go services.Sampler.Run(ctx, cfg.Sampler.Tick)
	}

	// start HTTP server
	srv := &server.Server{}
	port := cfg.Port
	if port == "" {
		port = defaultPort
	}
	errCh := runHTTPServer(srv, port, apiHandler)
	log.Infow("aetheris started", "port", port, "advisory", cfg.Advisory.Provider,
		"auth", cfg.Auth.Enabled, "mqtt", cfg.MQTT.Enabled, "sampler", cfg.Sampler.Enabled)

	// graceful shutdown
	return waitForShutdown(cancel, srv, errCh, log)
}

// openActuators connects the MQTT publisher, falling back to a no-op sink
// so a broker outage never blocks startup.
func openActuators(cfg config.MQTTConfig, log *logger.Logger) actuator.Sink {
	if !cfg.Enabled {
		return actuator.Nop{}
	}
	pub, err := actuator.Connect(cfg, log)
	if err != nil {
		log.Warnw("mqtt unavailable, actuator commands disabled", "broker", cfg.Broker, "err", err)
		return actuator.Nop{}
	}
	return pub
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(port, handler.InitRoutes())
	}()
	return errCh
}

// waitForShutdown blocks until a termination signal or a server failure,
// then stops background work and drains in-flight requests.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, errCh <-chan error, log *logger.Logger) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case err := <-errCh:
		cancel()
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
