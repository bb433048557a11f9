package service

import (
	"github.com/arenvest/crm/internal/auth"
	"github.com/arenvest/crm/internal/cache"
	"github.com/arenvest/crm/internal/config"
	"github.com/arenvest/crm/internal/logger"
	"github.com/arenvest/crm/internal/store"
)

// Services groups all application business operations into a single value
// passed to the transport layer.
type Services struct {
	// Records is the tier-routed CRUD store over logical collections.
	Records RecordStore
}

// NewServices constructs the service layer over the supplied storages, auth
// provider, and shared collection cache.
func NewServices(storages *store.Storages, provider auth.Provider, c *cache.CollectionCache, cfg config.App, logger *logger.Logger) *Services {
	logger.Info().Msg("creating new services...")

	return &Services{
		Records: NewTieredStore(storages, provider, c, cfg, logger),
	}
}
