package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"CosmeticsWatch/internal/domain"
	"CosmeticsWatch/internal/ingest"
)

const dateLayout = "2006-01-02"

// Column layout shared by the regulatory exports. The cancellation list
// appends a substance column.
const (
	colNotifNo = iota
	colProduct
	colCategory
	colCompany
	colManufacturer
	colDateNotif
	colSubstance // cancellations only

	notificationColumns = 6
	cancellationColumns = 7
)

// NotificationLoader parses the active-notification export.
type NotificationLoader struct{}

var _ ingest.Loader = (*NotificationLoader)(nil)

// NewNotificationLoader builds the loader for the "notifications" kind.
func NewNotificationLoader() *NotificationLoader {
	return &NotificationLoader{}
}

func (l *NotificationLoader) Kind() string {
	return "notifications"
}

// Load reads the CSV at req.Path into notified product records.
func (l *NotificationLoader) Load(ctx context.Context, req ingest.Request) ([]domain.NotificationRecord, error) {
	return loadFile(ctx, req, notificationColumns, func(row []string) (domain.NotificationRecord, error) {
		record, err := baseRecord(row)
		if err != nil {
			return domain.NotificationRecord{}, err
		}
		record.Status = domain.StatusNotified
		return record, nil
	})
}

// CancellationLoader parses the cancelled-product export.
type CancellationLoader struct{}

var _ ingest.Loader = (*CancellationLoader)(nil)

// NewCancellationLoader builds the loader for the "cancellations" kind.
func NewCancellationLoader() *CancellationLoader {
	return &CancellationLoader{}
}

func (l *CancellationLoader) Kind() string {
	return "cancellations"
}

// Load reads the CSV at req.Path into cancelled product records; the
// detected substance becomes the cancellation reason.
func (l *CancellationLoader) Load(ctx context.Context, req ingest.Request) ([]domain.NotificationRecord, error) {
	return loadFile(ctx, req, cancellationColumns, func(row []string) (domain.NotificationRecord, error) {
		record, err := baseRecord(row)
		if err != nil {
			return domain.NotificationRecord{}, err
		}
		record.Status = domain.StatusCancelled
		record.CancellationReason = strings.TrimSpace(row[colSubstance])
		return record, nil
	})
}

func loadFile(
	ctx context.Context,
	req ingest.Request,
	columns int,
	build func(row []string) (domain.NotificationRecord, error),
) ([]domain.NotificationRecord, error) {
	file, err := os.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", req.Name, err)
	}
	defer file.Close()

	records, err := parse(ctx, file, columns, build)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", req.Name, err)
	}
	return records, nil
}

func parse(
	ctx context.Context,
	r io.Reader,
	columns int,
	build func(row []string) (domain.NotificationRecord, error),
) ([]domain.NotificationRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = columns
	reader.TrimLeadingSpace = true

	// Header row is mandatory in the exports.
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	var records []domain.NotificationRecord
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		record, err := build(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, record)
	}

	return records, nil
}

func baseRecord(row []string) (domain.NotificationRecord, error) {
	notifNo := strings.TrimSpace(row[colNotifNo])
	if notifNo == "" {
		return domain.NotificationRecord{}, fmt.Errorf("empty notification number")
	}

	record := domain.NotificationRecord{
		NotificationNumber: notifNo,
		ProductName:        strings.TrimSpace(row[colProduct]),
		Category:           row[colCategory],
		ApplicantName:      strings.TrimSpace(row[colCompany]),
		ManufacturerName:   strings.TrimSpace(row[colManufacturer]),
	}

	if raw := strings.TrimSpace(row[colDateNotif]); raw != "" {
		notified, err := time.Parse(dateLayout, raw)
		if err != nil {
			return domain.NotificationRecord{}, fmt.Errorf("parse date %q: %w", raw, err)
		}
		record.NotifiedAt = &notified
	}

	return record, nil
}
