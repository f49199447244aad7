package quoterequests

import (
	"fmt"

	"logihub/internal/apperr"
	"logihub/internal/domain"
)

// Event is a quote request arriving from the messaging bus, typically
// produced by the chat-bot frontend.
type Event struct {
	UserID      string  `json:"user_id"`
	Weight      float64 `json:"weight"`
	Volume      float64 `json:"volume"`
	Category    string  `json:"category"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Description string  `json:"description,omitempty"`
}

// ToRequest converts the event to a domain request, validating it.
func (e Event) ToRequest() (domain.ShipmentRequest, error) {
	if e.UserID == "" {
		return domain.ShipmentRequest{}, fmt.Errorf("%w: user_id is required", apperr.ErrInvalid)
	}
	req := domain.ShipmentRequest{
		Weight:      e.Weight,
		Volume:      e.Volume,
		Category:    domain.Category(e.Category),
		Origin:      e.Origin,
		Destination: e.Destination,
		Description: e.Description,
	}
	if err := req.Validate(); err != nil {
		return domain.ShipmentRequest{}, err
	}
	return req, nil
}
