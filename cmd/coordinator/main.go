package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "cluster_fan/docs"
	"cluster_fan/internal/client"
	"cluster_fan/internal/config"
	"cluster_fan/internal/gpio"
	"cluster_fan/internal/handlers"
	"cluster_fan/internal/logger"
	"cluster_fan/internal/metrics"
	"cluster_fan/internal/models"
	"cluster_fan/internal/repository"
	"cluster_fan/internal/repository/db"
	"cluster_fan/internal/server"
	"cluster_fan/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title        Cluster fan coordinator API
// @version      1.0
// @description  Node temperatures, fan state and control events of the cluster cooling loop.
// @BasePath     /
func main() {
	configPath := flag.String("config", "configs/coordinator.yml", "path to coordinator config")
	flag.Parse()

	cfg, err := config.LoadCoordinator(*configPath)
	// init logger; level falls back to info when the config failed to load
	log := logger.Get(cfg.LogLevel)
	if err != nil {
		log.Fatalw("error reading config", "err", err, "path", *configPath)
	}

	// open DB
	conn, err := openDB(cfg.DB.Path, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	pwm, err := gpio.New(cfg.GPIO.Driver, cfg.Fan.GPIOPin, cfg.Fan.PWMFrequency)
	if err != nil {
		log.Fatalw("failed to init gpio", "err", err, "driver", cfg.GPIO.Driver)
	}
	defer func() {
		if cerr := pwm.Close(); cerr != nil {
			log.Errorw("failed to release gpio", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	m := metrics.New()
	fan := service.NewFanController(cfg.Fan, pwm, repos.FanStateRepo, repos.EventRepo, m, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poller := service.NewPoller(service.PollerConfig{
		Nodes:      cfg.Nodes,
		Interval:   cfg.Monitoring.Interval(),
		Fetcher:    client.NewNodeClient(cfg.Monitoring.Timeout(), cfg.Monitoring.Endpoint, log),
		Fan:        fan,
		Events:     repos.EventRepo,
		Metrics:    m,
		Log:        log,
		InitialFan: fan.Init(ctx, lastKnownFan(ctx, repos.FanStateRepo, log)),
	})
	services := service.NewService(repos, poller.Store(), cfg.Nodes, cfg.Fan)
	apiHandler := handlers.NewHandler(services, m.Handler(), log)

	log.Infow("coordinator starting",
		"addr", cfg.Server.Addr(),
		"nodes", len(models.EnabledNodes(cfg.Nodes)),
		"interval", cfg.Monitoring.Interval().String(),
		"timeout", cfg.Monitoring.Timeout().String(),
		"gpio_driver", cfg.GPIO.Driver,
	)

	// start the control loop
	pollerDone := make(chan struct{})
	go func() {
		defer close(pollerDone)
		poller.Run(ctx)
	}()

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Server.Addr(), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, pollerDone, srv, log)
}

// openDB initializes the SQLite database at path.
func openDB(path string, log *logger.Logger) (*sql.DB, error) {
	if path == "" {
		log.Infow("db.path not set in config; using default file", "default", "fanctl.db")
		path = "fanctl.db"
	}
	return db.InitDB(path)
}

// lastKnownFan returns the duty applied before the last shutdown, if any.
func lastKnownFan(ctx context.Context, repo repository.FanStateRepo, log *logger.Logger) *models.FanState {
	st, ok, err := repo.Load(ctx)
	if err != nil {
		log.Errorw("failed to load last fan state", "err", err)
		return nil
	}
	if !ok {
		return nil
	}
	return &st
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, addr string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(addr, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals, stops the control loop
// after its in-flight cycle and drains HTTP requests. GPIO and sqlite are
// released by main's defers only once pollerDone is closed.
func waitForShutdown(cancel context.CancelFunc, pollerDone <-chan struct{}, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down coordinator...")

	cancel()
	<-pollerDone

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
