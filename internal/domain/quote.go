package domain

import "time"

// Risk level tags per channel. Fixed by policy, not computed.
const (
	RiskMedium = "medium"
	RiskLow    = "low"
)

// CustomsServices is the white-channel customs line-item block.
type CustomsServices struct {
	CustomsClearance float64 `json:"customs_clearance"`
	Duty             float64 `json:"duty"`
	VAT              float64 `json:"vat"`
	Total            float64 `json:"total"`
}

// AdditionalServices is the line-item block common to both channels.
type AdditionalServices struct {
	Insurance     float64 `json:"insurance"`
	Packaging     float64 `json:"packaging"`
	Documentation float64 `json:"documentation"`
	Total         float64 `json:"total"`
}

// CostBreakdown is the per-channel result of a quote calculation.
// CustomsServices is nil for the cargo channel.
type CostBreakdown struct {
	TotalCost          float64            `json:"total_cost"`
	BaseCost           float64            `json:"base_cost"`
	ChargeableWeight   float64            `json:"chargeable_weight"`
	PricePerKg         float64            `json:"price_per_kg"`
	TransitTimeDays    int                `json:"transit_time_days"`
	RiskLevel          string             `json:"risk_level"`
	CustomsServices    *CustomsServices   `json:"customs_services,omitempty"`
	AdditionalServices AdditionalServices `json:"additional_services"`
}

// Quote is the full calculation result. Immutable once created; persisted
// best-effort after the caller already has it.
type Quote struct {
	ID              string          `json:"request_id"`
	UserID          string          `json:"user_id,omitempty"`
	CreatedAt       time.Time       `json:"calculation_date"`
	Request         ShipmentRequest `json:"request"`
	Cargo           CostBreakdown   `json:"cargo_delivery"`
	White           CostBreakdown   `json:"white_delivery"`
	Classification  *Classification `json:"classification,omitempty"`
	Recommendations []string        `json:"recommendations"`
}
