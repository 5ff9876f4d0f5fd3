package domain

import "time"

// ProductStatus enumerates the regulatory state of a notification.
type ProductStatus string

const (
	StatusNotified  ProductStatus = "notified"
	StatusCancelled ProductStatus = "cancelled"
)

// Product is one regulatory notification record.
type Product struct {
	ID                 int64
	NotificationNumber string
	Name               string
	Category           string
	Status             ProductStatus
	// NotifiedAt is nil for records ingested without a notification date.
	NotifiedAt         *time.Time
	CancellationReason string
	ApplicantID        int64
	// ManufacturerID is nil when no manufacturer company is linked.
	ManufacturerID       *int64
	VerticallyIntegrated bool
	// RecencyScore is category-relative in [0,1]; rewritten by every
	// normalizer run. Zero when never computed or unparseable in storage.
	RecencyScore float64
}

// Cancelled reports whether the notification was withdrawn.
func (p Product) Cancelled() bool {
	return p.Status == StatusCancelled
}

// Company is a regulatory applicant or manufacturer, unique by name.
type Company struct {
	ID   int64
	Name string
}
