package domain

import "time"

// NotificationRecord is one row parsed from a regulatory source file,
// before companies are resolved to ids.
type NotificationRecord struct {
	NotificationNumber string
	ProductName        string
	Category           string
	ApplicantName      string
	ManufacturerName   string
	NotifiedAt         *time.Time
	Status             ProductStatus
	CancellationReason string
}

// VerticallyIntegrated reports whether applicant and manufacturer are the
// same (non-empty) company.
func (r NotificationRecord) VerticallyIntegrated() bool {
	return r.ManufacturerName != "" && r.ApplicantName == r.ManufacturerName
}
