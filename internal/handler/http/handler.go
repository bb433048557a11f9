package http

import (
	"github.com/arenvest/crm/internal/auth"
	"github.com/arenvest/crm/internal/logger"
	"github.com/arenvest/crm/internal/service"
	"github.com/arenvest/crm/models"
)

type Handler struct {
	services  *service.Services
	provider  auth.Provider
	buildInfo models.AppBuildInfo

	logger *logger.Logger
}

func NewHandler(services *service.Services, provider auth.Provider, buildInfo models.AppBuildInfo, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:  services,
		provider:  provider,
		buildInfo: buildInfo,
		logger:    logger,
	}
}
