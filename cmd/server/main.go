package main

import (
	"context"
	"fmt"

	"github.com/arenvest/crm/internal/auth"
	"github.com/arenvest/crm/internal/cache"
	"github.com/arenvest/crm/internal/config"
	handler "github.com/arenvest/crm/internal/handler/http"
	"github.com/arenvest/crm/internal/logger"
	"github.com/arenvest/crm/internal/server"
	"github.com/arenvest/crm/internal/service"
	"github.com/arenvest/crm/internal/store"
	"github.com/arenvest/crm/internal/workers"
	"github.com/arenvest/crm/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("crm-record-store")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	provider := auth.NewHTTPProvider(cfg.Auth, log)

	storages, err := store.NewStorages(cfg.Storage, provider.IDToken, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	services := service.NewServices(storages, provider, cache.New(), cfg.App, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workers.NewWorkers(ctx, services, log).Run()

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	handlers := handler.NewHandler(services, provider, buildInfo, log)

	srv, err := server.NewServer(handlers.Init(), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
