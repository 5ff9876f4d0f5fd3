package domain

// RecommendedAlternative is one scored (cancelled product, candidate) pair.
// The full table is regenerated on every ranker run; no history is kept.
type RecommendedAlternative struct {
	CancelledProductID   int64
	RecommendedProductID int64
	BrandScore           float64
	ManufacturerScore    float64
	CategoryRiskScore    float64
	RecencyScore         float64
	VerticallyIntegrated bool
	RelevanceScore       float64
}

// RecencyUpdate carries one normalizer result back to storage.
type RecencyUpdate struct {
	ProductID int64
	Score     float64
}
