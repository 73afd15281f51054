// Package archive keeps durable records of completed generations: an
// archival copy of the file in object storage plus a history row in
// Postgres. Failures here never surface to the caller; a generation that
// already reached the buyer should not be reported as failed because the
// bookkeeping behind it broke.
package archive

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/domain"
	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/repository"
	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/storage"
)

// Service copies generated files into storage and records them in the
// generation history. Either half may be absent; the other still runs.
type Service struct {
	storage storage.Storage // may be nil
	history historyInserter // may be nil
	logger  *slog.Logger
}

type historyInserter interface {
	InsertGeneration(ctx context.Context, params repository.InsertGenerationParams) (repository.GenerationRecord, error)
}

func NewService(store storage.Storage, history *repository.HistoryRepository, logger *slog.Logger) *Service {
	svc := &Service{
		storage: store,
		logger:  logger,
	}
	// A typed-nil *HistoryRepository must not end up as a non-nil interface.
	if history != nil {
		svc.history = history
	}
	return svc
}

// Archive stores a copy of the generated file and inserts a history row.
// Both steps are best effort.
func (s *Service) Archive(ctx context.Context, locationID string, req domain.GenerationRequest, outcome domain.DeliveryOutcome) {
	key := s.storeCopy(ctx, locationID, outcome)
	s.recordHistory(ctx, locationID, req, outcome, key)
}

func (s *Service) storeCopy(ctx context.Context, locationID string, outcome domain.DeliveryOutcome) string {
	if s.storage == nil {
		return ""
	}

	key := storage.LinesheetKey(locationID, outcome.Filename)
	err := s.storage.Put(ctx, key, bytes.NewReader(outcome.Bytes), storage.PutOptions{
		ContentType: outcome.ContentType(),
	})
	if err != nil {
		s.logger.Error("failed to store archival copy",
			"location_id", locationID,
			"key", key,
			"error", err,
		)
		return ""
	}

	s.logger.Debug("stored archival copy", "key", key, "bytes", len(outcome.Bytes))
	return key
}

func (s *Service) recordHistory(ctx context.Context, locationID string, req domain.GenerationRequest, outcome domain.DeliveryOutcome, storageKey string) {
	if s.history == nil {
		return
	}

	_, err := s.history.InsertGeneration(ctx, repository.InsertGenerationParams{
		LocationID:   locationID,
		CompanyName:  req.Company.Name,
		OutputType:   req.OutputType,
		CatalogCount: len(req.Catalogs),
		Filename:     outcome.Filename,
		IsArchive:    outcome.IsArchive,
		ByteSize:     int64(len(outcome.Bytes)),
		StorageKey:   storageKey,
	})
	if err != nil {
		s.logger.Error("failed to record generation history",
			"location_id", locationID,
			"error", err,
		)
	}
}
