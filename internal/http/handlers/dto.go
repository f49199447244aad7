package handlers

import (
	"logihub/internal/domain"
	"logihub/internal/service/quote"
)

type calculateRequest struct {
	UserID      string  `json:"user_id,omitempty"`
	Weight      float64 `json:"weight"`
	Volume      float64 `json:"volume"`
	Category    string  `json:"category"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Description string  `json:"description,omitempty"`
}

func (r calculateRequest) toDomain() domain.ShipmentRequest {
	return domain.ShipmentRequest{
		Weight:      r.Weight,
		Volume:      r.Volume,
		Category:    domain.Category(r.Category),
		Origin:      r.Origin,
		Destination: r.Destination,
		Description: r.Description,
	}
}

func toDomainRequests(in []calculateRequest) []domain.ShipmentRequest {
	out := make([]domain.ShipmentRequest, len(in))
	for i, r := range in {
		out[i] = r.toDomain()
	}
	return out
}

type batchRequest struct {
	UserID    string             `json:"user_id,omitempty"`
	Shipments []calculateRequest `json:"shipments"`
}

type batchItemResponse struct {
	Quote *domain.Quote `json:"quote,omitempty"`
	Error string        `json:"error,omitempty"`
}

type batchResponse struct {
	Results []batchItemResponse `json:"results"`
}

func toBatchResponse(items []quote.BatchItem) batchResponse {
	out := batchResponse{Results: make([]batchItemResponse, len(items))}
	for i, item := range items {
		if item.Error != nil {
			out.Results[i] = batchItemResponse{Error: item.Error.Error()}
			continue
		}
		out.Results[i] = batchItemResponse{Quote: item.Quote}
	}
	return out
}

type historyResponse struct {
	UserID string         `json:"user_id"`
	Quotes []domain.Quote `json:"quotes"`
}

type tariffRequest struct {
	Route           string  `json:"route"`
	Channel         string  `json:"delivery_type"`
	PricePerKg      float64 `json:"price_per_kg"`
	TransitTimeDays int     `json:"delivery_time_days"`
}

func (r tariffRequest) toDomain() domain.Tariff {
	return domain.Tariff{
		Route:           r.Route,
		Channel:         domain.Channel(r.Channel),
		PricePerKg:      r.PricePerKg,
		TransitTimeDays: r.TransitTimeDays,
	}
}

type routesResponse struct {
	Routes []string `json:"routes"`
}

type classifyRequest struct {
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

type classifyResponse struct {
	Classification domain.Classification `json:"classification"`
	Candidates     []domain.Candidate    `json:"candidates,omitempty"`
}
