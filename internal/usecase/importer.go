package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"CosmeticsWatch/internal/ports"
)

// Importer loads regulatory source records and upserts them into the
// catalog. Companies are resolved by unique name; the vertical-integration
// flag is derived during the upsert, never stored in the source files.
type Importer struct {
	source ports.NotificationSource
	writer ports.NotificationWriter
	logger *slog.Logger
}

// NewImporter wires a source with the catalog writer.
func NewImporter(source ports.NotificationSource, writer ports.NotificationWriter, logger *slog.Logger) *Importer {
	return &Importer{source: source, writer: writer, logger: logger}
}

// Run ingests every configured dataset and returns the record count.
func (im *Importer) Run(ctx context.Context) (int, error) {
	if im.source == nil || im.writer == nil {
		return 0, nil
	}

	records, err := im.source.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load datasets: %w", err)
	}

	for _, record := range records {
		applicantID, err := im.writer.EnsureCompany(ctx, record.ApplicantName)
		if err != nil {
			return 0, fmt.Errorf("ensure applicant %q: %w", record.ApplicantName, err)
		}

		var manufacturerID *int64
		if record.ManufacturerName != "" {
			id, err := im.writer.EnsureCompany(ctx, record.ManufacturerName)
			if err != nil {
				return 0, fmt.Errorf("ensure manufacturer %q: %w", record.ManufacturerName, err)
			}
			manufacturerID = &id
		}

		if err := im.writer.UpsertProduct(ctx, record, applicantID, manufacturerID); err != nil {
			return 0, fmt.Errorf("upsert product %s: %w", record.NotificationNumber, err)
		}
	}

	if im.logger != nil {
		im.logger.Debug("ingest complete", "records", len(records))
	}
	return len(records), nil
}
