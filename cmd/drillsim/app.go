package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/drillsim/drillsim/internal/config"
	"github.com/drillsim/drillsim/internal/dispatcher"
	"github.com/drillsim/drillsim/internal/influx"
	"github.com/drillsim/drillsim/internal/logging"
	"github.com/drillsim/drillsim/internal/monitor"
	intOtel "github.com/drillsim/drillsim/internal/otel"
	"github.com/drillsim/drillsim/internal/scenario"
	"github.com/drillsim/drillsim/internal/sim"
	"github.com/drillsim/drillsim/internal/worker"
	"github.com/drillsim/drillsim/pkg/core"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// app holds the services shared by every session of one process
type app struct {
	logger  zerolog.Logger
	engine  sim.Config
	catalog *scenario.Catalog

	logs      *logging.Manager
	logFile   *os.File
	otel      *intOtel.Provider
	otelFile  *os.File
	influx    *influx.Manager
	events    *dispatcher.Dispatcher
	telemetry *worker.Manager
	monitor   *monitor.Service
}

// newApp wires logging, metrics, telemetry and the scenario catalog from the
// loaded configuration. In play mode the console is owned by the terminal UI,
// so logs only go to the file.
func newApp(ctx context.Context, interactive bool) (*app, error) {
	a := &app{}
	start := time.Now()

	var err error
	a.logFile, err = logging.OpenFile(config.GetString("logsDir"), AppName, start)
	if err != nil {
		return nil, err
	}
	var console io.Writer = os.Stderr
	if interactive {
		console = nil
	}
	graylog := ""
	if config.GetBool("graylog.enabled") {
		graylog = config.GetString("graylog.address")
	}
	a.logs = logging.Setup(logging.Options{
		Level:   config.GetString("logLevel"),
		Console: console,
		File:    a.logFile,
		Graylog: graylog,
	})
	a.logger = a.logs.Logger

	if err := a.setupOTel(); err != nil {
		a.Close()
		return nil, err
	}

	a.engine, err = config.GetEngineConfig()
	if err != nil {
		a.Close()
		return nil, err
	}

	store, err := scenario.NewStore(config.GetStorageConfig(), config.GetDBConfig(), a.logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("opening scenario store: %w", err)
	}
	if err := store.Init(); err != nil {
		store.Close()
		a.Close()
		return nil, fmt.Errorf("initializing scenario store: %w", err)
	}
	a.catalog = scenario.NewCatalog(store, a.logger)

	if err := a.setupTelemetry(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) setupOTel() error {
	cfg := config.GetOTelConfig()
	otelCfg := intOtel.Config{
		Enabled:        cfg.Enabled,
		ServiceName:    cfg.ServiceName,
		ExportInterval: cfg.ExportInterval,
	}
	if cfg.Enabled {
		path := cfg.OutputPath
		if path == "" {
			path = logging.LogFilePath(config.GetString("logsDir"), AppName+".metrics", time.Now())
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("error opening metrics file: %w", err)
		}
		a.otelFile = f
		otelCfg.Writer = f
	}

	var err error
	a.otel, err = intOtel.New(otelCfg)
	if err != nil {
		return err
	}
	a.logger.Debug().Bool("enabled", a.otel.Enabled()).Msg("OTel provider ready")
	return nil
}

func (a *app) setupTelemetry(ctx context.Context) error {
	var sink worker.TelemetrySink
	if cfg := config.GetInfluxConfig(); cfg.Enabled {
		a.influx = influx.NewManager(a.logger, cfg)
		if err := a.influx.Connect(ctx); err != nil {
			a.logger.Warn().Err(err).Msg("Telemetry disabled")
			a.influx = nil
		} else {
			sink = a.influx
		}
	}

	var err error
	a.events, err = dispatcher.New(logging.NewKVLogger(a.logger.With().Str("component", "dispatcher").Logger()))
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}
	a.telemetry = worker.NewManager(worker.Dependencies{
		Sink:        sink,
		Logger:      a.logger,
		SampleEvery: config.GetInt("telemetry.sampleEvery"),
		BatchSize:   config.GetInt("telemetry.batchSize"),
	})
	a.telemetry.RegisterHandlers(a.events)

	if cfg := config.GetMonitorConfig(); cfg.Enabled {
		deps := monitor.Dependencies{
			Telemetry:  a.telemetry,
			Events:     a.events,
			StatusFile: cfg.StatusFile,
			Interval:   cfg.Interval,
			Logger:     a.logger,
		}
		if a.influx != nil {
			deps.Sink = a.influx
		}
		a.monitor = monitor.NewService(deps)
		a.monitor.Start()
	}
	return nil
}

// newSession starts a session wired to the telemetry handlers
func (a *app) newSession(sc core.Scenario) (*sim.Session, error) {
	id := uuid.New()
	return sim.New(a.engine, sc,
		sim.WithID(id),
		sim.WithLogger(a.logger),
		sim.WithFrameObserver(a.telemetry.Observer(a.events)),
		sim.WithOnComplete(a.telemetry.OnComplete(a.events, id.String(), sc)),
	)
}

// Close drains the dispatcher and shuts everything down in reverse order
func (a *app) Close() {
	if a.monitor != nil {
		a.monitor.Stop()
	}
	if a.events != nil {
		a.events.Close()
		if err := a.telemetry.Flush(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to flush telemetry")
		}
	}
	if a.monitor != nil {
		if _, err := a.monitor.Report(); err != nil {
			a.logger.Warn().Err(err).Msg("Final status report failed")
		}
	}
	if a.influx != nil {
		if err := a.influx.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close InfluxDB")
		}
	}
	if a.catalog != nil {
		hits, misses := a.catalog.Stats()
		a.logger.Debug().Int("hits", hits).Int("misses", misses).Msg("Scenario cache")
		if err := a.catalog.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close scenario store")
		}
	}
	if a.otel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otel.Shutdown(ctx); err != nil {
			a.logger.Error().Err(err).Msg("Failed to shut down OTel")
		}
		cancel()
	}
	if a.otelFile != nil {
		a.otelFile.Close()
	}
	if a.logs != nil {
		a.logger.Info().Msg("Shut down")
		a.logs.Close()
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}
