package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"logihub/internal/apperr"
)

type (
	// Channel represents a delivery channel.
	Channel string
	// Category represents a cargo category.
	Category string
)

// Delivery channels. Cargo is the informal low-cost mode, white goes through
// formal customs clearance.
const (
	ChannelCargo Channel = "cargo"
	ChannelWhite Channel = "white"
)

// Cargo categories.
const (
	CategoryElectronics Category = "electronics"
	CategoryClothing    Category = "clothing"
	CategoryMachinery   Category = "machinery"
	CategoryChemicals   Category = "chemicals"
	CategoryFood        Category = "food"
	CategoryOther       Category = "other"
)

// Valid reports whether the channel is a known delivery channel.
func (c Channel) Valid() bool {
	return c == ChannelCargo || c == ChannelWhite
}

// Valid reports whether the category is a known cargo category.
func (c Category) Valid() bool {
	switch c {
	case CategoryElectronics, CategoryClothing, CategoryMachinery,
		CategoryChemicals, CategoryFood, CategoryOther:
		return true
	}
	return false
}

const (
	minPlaceLen       = 2
	maxPlaceLen       = 100
	maxDescriptionLen = 500
)

// ShipmentRequest describes a shipment to quote.
type ShipmentRequest struct {
	Weight      float64  `json:"weight"`
	Volume      float64  `json:"volume"`
	Category    Category `json:"category"`
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	Description string   `json:"description,omitempty"`
}

// Validate checks field-level constraints. It returns an error wrapping
// apperr.ErrInvalid that names the offending field.
func (r ShipmentRequest) Validate() error {
	if r.Weight <= 0 {
		return fmt.Errorf("%w: weight must be positive", apperr.ErrInvalid)
	}
	if r.Volume <= 0 {
		return fmt.Errorf("%w: volume must be positive", apperr.ErrInvalid)
	}
	if !r.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", apperr.ErrInvalid, r.Category)
	}
	if err := validatePlace("origin", r.Origin); err != nil {
		return err
	}
	if err := validatePlace("destination", r.Destination); err != nil {
		return err
	}
	if strings.EqualFold(strings.TrimSpace(r.Origin), strings.TrimSpace(r.Destination)) {
		return fmt.Errorf("%w: origin and destination must differ", apperr.ErrInvalid)
	}
	if utf8.RuneCountInString(r.Description) > maxDescriptionLen {
		return fmt.Errorf("%w: description longer than %d characters", apperr.ErrInvalid, maxDescriptionLen)
	}
	return nil
}

func validatePlace(field, value string) error {
	// Limits count characters, not bytes; city names are often Cyrillic.
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	if n < minPlaceLen || n > maxPlaceLen {
		return fmt.Errorf("%w: %s must be %d-%d characters", apperr.ErrInvalid, field, minPlaceLen, maxPlaceLen)
	}
	return nil
}

// RouteKey returns the normalized route key "{origin}-{destination}" in lowercase.
func (r ShipmentRequest) RouteKey() string {
	return RouteKey(r.Origin, r.Destination)
}

// RouteKey builds the normalized route key used by the tariff store.
func RouteKey(origin, destination string) string {
	return strings.ToLower(strings.TrimSpace(origin)) + "-" + strings.ToLower(strings.TrimSpace(destination))
}
