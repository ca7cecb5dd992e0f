package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/memeforge/wojak"
	"github.com/memeforge/wojak/server"
)

func main() {
	cfg, err := server.LoadConfig()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	var logger *zap.Logger
	if cfg.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("could not initialize the logger: %v", err)
	}
	defer logger.Sync()

	registry, err := wojak.LoadTemplates(cfg.TemplateDir)
	if err != nil {
		logger.Fatal("could not load the templates", zap.Error(err))
	}

	detector, err := wojak.NewCascadeDetector(cfg.CascadeDir)
	if err != nil {
		logger.Fatal("could not initialize the face detector", zap.Error(err))
	}

	gen := wojak.NewGenerator(registry, detector)
	srv := server.New(cfg, gen, logger)

	if err := srv.Run(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
