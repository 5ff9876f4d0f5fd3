package usecase

import (
	"context"
	"testing"
	"time"

	"CosmeticsWatch/internal/domain"
)

type fakeSource struct {
	records []domain.NotificationRecord
}

func (s *fakeSource) LoadAll(ctx context.Context) ([]domain.NotificationRecord, error) {
	return s.records, nil
}

type fakeWriter struct {
	companies map[string]int64
	nextID    int64
	upserts   []domain.NotificationRecord
	vertical  map[string]bool
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{
		companies: map[string]int64{},
		vertical:  map[string]bool{},
		nextID:    1,
	}
}

func (w *fakeWriter) EnsureCompany(ctx context.Context, name string) (int64, error) {
	if id, ok := w.companies[name]; ok {
		return id, nil
	}
	id := w.nextID
	w.nextID++
	w.companies[name] = id
	return id, nil
}

func (w *fakeWriter) UpsertProduct(ctx context.Context, record domain.NotificationRecord, applicantID int64, manufacturerID *int64) error {
	w.upserts = append(w.upserts, record)
	w.vertical[record.NotificationNumber] = record.VerticallyIntegrated()
	return nil
}

func TestImporterResolvesCompaniesOnce(t *testing.T) {
	t.Parallel()

	notified := time.Date(2021, time.April, 2, 0, 0, 0, 0, time.UTC)
	source := &fakeSource{records: []domain.NotificationRecord{
		{
			NotificationNumber: "NOT200100001",
			ProductName:        "Rose Lip Tint",
			Category:           "Lipstick",
			ApplicantName:      "Glow Labs",
			ManufacturerName:   "Glow Labs",
			NotifiedAt:         &notified,
			Status:             domain.StatusNotified,
		},
		{
			NotificationNumber: "NOT200100002",
			ProductName:        "Velvet Matte",
			Category:           "Lipstick",
			ApplicantName:      "Glow Labs",
			ManufacturerName:   "Shenline Manufacturing",
			Status:             domain.StatusNotified,
		},
	}}
	writer := newFakeWriter()

	importer := NewImporter(source, writer, nil)
	count, err := importer.Run(context.Background())
	if err != nil {
		t.Fatalf("importer failed: %v", err)
	}

	if count != 2 {
		t.Fatalf("expected 2 records, got %d", count)
	}
	if len(writer.companies) != 2 {
		t.Fatalf("expected 2 distinct companies, got %d", len(writer.companies))
	}
	if !writer.vertical["NOT200100001"] {
		t.Fatalf("same applicant/manufacturer must be vertically integrated")
	}
	if writer.vertical["NOT200100002"] {
		t.Fatalf("different manufacturer must not be vertically integrated")
	}
}

func TestVerticallyIntegratedRequiresManufacturer(t *testing.T) {
	t.Parallel()

	record := domain.NotificationRecord{ApplicantName: "Glow Labs"}
	if record.VerticallyIntegrated() {
		t.Fatalf("missing manufacturer must not count as vertically integrated")
	}
}
