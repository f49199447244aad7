package domain

import "time"

// Tariff is a rate record for a route and channel. Multiple tariffs may exist
// per (route, channel); the engine picks the cheapest one.
type Tariff struct {
	ID              string     `json:"id,omitempty"`
	Route           string     `json:"route"`
	Channel         Channel    `json:"channel"`
	PricePerKg      float64    `json:"price_per_kg"`
	TransitTimeDays int        `json:"transit_time_days"`
	ValidFrom       *time.Time `json:"valid_from,omitempty"`
	ValidTo         *time.Time `json:"valid_to,omitempty"`
}
