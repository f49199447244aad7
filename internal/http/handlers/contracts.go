package handlers

import (
	"context"

	"logihub/internal/domain"
	"logihub/internal/service/quote"
)

// QuoteService is the calculation surface exposed over HTTP.
type QuoteService interface {
	Calculate(ctx context.Context, req domain.ShipmentRequest, userID string) (domain.Quote, error)
	CalculateBatch(ctx context.Context, reqs []domain.ShipmentRequest, userID string) ([]quote.BatchItem, error)
	GetByID(ctx context.Context, id string) (domain.Quote, error)
	History(ctx context.Context, userID string, limit, offset int) ([]domain.Quote, error)
	Delete(ctx context.Context, id string) error
}

// TariffAdmin manages rate records in the tariff store.
type TariffAdmin interface {
	Tariffs(ctx context.Context, route string, channel domain.Channel) ([]domain.Tariff, error)
	AvailableRoutes(ctx context.Context) ([]string, error)
	CreateTariff(ctx context.Context, t domain.Tariff) (domain.Tariff, error)
	UpdateTariff(ctx context.Context, id string, t domain.Tariff) (domain.Tariff, error)
	DeleteTariff(ctx context.Context, id string) error
}

// ClassifyService exposes classification lookups.
type ClassifyService interface {
	Classify(ctx context.Context, description string, category domain.Category) (domain.Classification, error)
	Candidates(ctx context.Context, description string) ([]domain.Candidate, error)
}

// CacheClearer drops memoized classifications.
type CacheClearer interface {
	Clear()
}
