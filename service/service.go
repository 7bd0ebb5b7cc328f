package service

import (
	"log/slog"
	"sync"
	"time"

	"employeePortal/internal/logger"
	"employeePortal/repository"
)

// Service implements the portal's operations over the record store.
// Mutations are serialized; every collection write is read-modify-write.
type Service struct {
	store *repository.Store
	log   *slog.Logger
	now   func() time.Time
	mu    sync.Mutex
}

// New creates a Service. A nil logger discards output.
func New(store *repository.Store, log *slog.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{store: store, log: log, now: time.Now}
}
