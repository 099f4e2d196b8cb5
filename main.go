package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"diabetesform/config"
	dhttp "diabetesform/http"
	"diabetesform/inference"
	"diabetesform/logging"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	// 1. Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// 2. Load artifacts; nothing is served without them
	artifacts, err := inference.LoadArtifacts(cfg.Artifacts.BaseDir)
	if err != nil {
		logger.Fatal("failed to load artifacts", zap.Error(err))
	}
	logger.Info("artifacts loaded", zap.String("base_dir", cfg.Artifacts.BaseDir))

	// 3. Start HTTP server
	downloads := dhttp.NewDownloadStore(cfg.Downloads.Capacity, cfg.Downloads.TTL)
	handlers, err := dhttp.NewHandlers(inference.NewPredictor(artifacts), downloads, logger, cfg.Http.MaxUploadBytes)
	if err != nil {
		logger.Fatal("failed to build handlers", zap.Error(err))
	}
	server := dhttp.NewServer(dhttp.ServerConfig{
		Port:    cfg.Http.Port,
		Timeout: cfg.Http.Timeout,
	}, handlers, logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 4. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if err := server.Stop(); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("exiting")
}
