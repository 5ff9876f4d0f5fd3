package csvfile

import (
	"context"
	"fmt"
	"log/slog"

	"CosmeticsWatch/internal/config"
	"CosmeticsWatch/internal/domain"
	"CosmeticsWatch/internal/ingest"
	"CosmeticsWatch/internal/ports"
)

// Source implements NotificationSource via registered dataset loaders.
type Source struct {
	registry *ingest.Registry
	datasets []config.DatasetConfig
	logger   *slog.Logger
}

var _ ports.NotificationSource = (*Source)(nil)

// NewSource wires the loader registry with config-defined datasets.
func NewSource(reg *ingest.Registry, datasets []config.DatasetConfig, log *slog.Logger) *Source {
	return &Source{
		registry: reg,
		datasets: datasets,
		logger:   log,
	}
}

// LoadAll iterates over configured datasets and executes their loaders.
func (s *Source) LoadAll(ctx context.Context) ([]domain.NotificationRecord, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("dataset registry is not configured")
	}

	s.debug("load datasets", "datasets", len(s.datasets))

	var aggregated []domain.NotificationRecord
	for _, dataset := range s.datasets {
		loader, err := s.registry.Resolve(dataset.Kind)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", dataset.Name, err)
		}

		records, err := loader.Load(ctx, ingest.Request{
			Name: dataset.Name,
			Path: dataset.Path,
		})
		if err != nil {
			return nil, fmt.Errorf("load dataset %s: %w", dataset.Name, err)
		}

		s.debug("dataset produced records", "dataset", dataset.Name, "count", len(records))
		aggregated = append(aggregated, records...)
	}

	s.debug("source done", "total_records", len(aggregated))
	return aggregated, nil
}

func (s *Source) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
