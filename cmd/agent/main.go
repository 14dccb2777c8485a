package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cluster_fan/internal/config"
	"cluster_fan/internal/handlers"
	"cluster_fan/internal/logger"
	"cluster_fan/internal/sensor"
	"cluster_fan/internal/server"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "configs/agent.yml", "path to agent config")
	flag.Parse()

	cfg, err := config.LoadAgent(*configPath)
	log := logger.Get(cfg.LogLevel)
	if err != nil {
		log.Fatalw("error reading config", "err", err, "path", *configPath)
	}

	reader, err := sensor.New(cfg.Temperature)
	if err != nil {
		log.Fatalw("failed to init sensor", "err", err, "source", cfg.Temperature.Source)
	}
	if !reader.Available() {
		// keep serving: the coordinator treats our 500s as failed readings
		log.Warnw("sensor not available", "source", reader.Source())
	}

	h := handlers.NewAgentHandler(reader, log)

	log.Infow("agent starting", "addr", cfg.Server.Addr(), "source", reader.Source())

	srv := &server.Server{}
	go func() {
		if err := srv.Run(cfg.Server.Addr(), h.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down agent...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
