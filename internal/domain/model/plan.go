package model

// Plan is a display-only subscription tier. Payment processing lives in an
// external service; the gateway just renders the catalog.
type Plan struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	MonthlyCredits int64    `json:"monthly_credits"`
	PriceCents     int64    `json:"price_cents"`
	Features       []string `json:"features,omitempty"`
}
