package workers

import (
	"context"

	"github.com/arenvest/crm/internal/logger"
	"github.com/arenvest/crm/internal/service"
)

type Workers struct {
	workers []Worker
}

// NewWorkers assembles the application's background workers: currently the
// single auth-watch worker that keeps cached collections fresh across auth
// state transitions.
func NewWorkers(ctx context.Context, services *service.Services, log *logger.Logger) *Workers {
	return &Workers{
		workers: []Worker{
			newAuthWatchWorker(ctx, services.Records, log),
		},
	}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}

// authWatchWorker runs the record store's auth-transition watcher on its own
// goroutine until ctx is cancelled.
type authWatchWorker struct {
	ctx     context.Context
	records service.RecordStore
	logger  *logger.Logger
}

func newAuthWatchWorker(ctx context.Context, records service.RecordStore, log *logger.Logger) *authWatchWorker {
	return &authWatchWorker{
		ctx:     ctx,
		records: records,
		logger:  log,
	}
}

func (w *authWatchWorker) Run() {
	w.logger.Info().Str("func", "*authWatchWorker.Run").Msg("starting auth watch worker")

	go func() {
		w.records.Watch(w.ctx)
		w.logger.Info().Str("func", "*authWatchWorker.Run").Msg("auth watch worker stopped")
	}()
}
