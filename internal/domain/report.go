package domain

import "time"

// RunReport summarizes one pipeline execution for the ops channel.
type RunReport struct {
	StartedAt         time.Time `json:"startedAt"`
	Duration          string    `json:"duration"`
	ProductsScored    int       `json:"productsScored"`
	CancelledCovered  int       `json:"cancelledCovered"`
	AlternativeRows   int       `json:"alternativeRows"`
	CompanyMetrics    int       `json:"companyMetrics,omitempty"`
	CategoryMetrics   int       `json:"categoryMetrics,omitempty"`
	IngestedRecords   int       `json:"ingestedRecords,omitempty"`
	MetricsRecomputed bool      `json:"metricsRecomputed"`
}
