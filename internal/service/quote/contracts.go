package quote

import (
	"context"

	"logihub/internal/domain"
)

// TariffSource provides rate records for a route and channel. An empty slice
// means no rates are configured; an error means the source is unreachable.
type TariffSource interface {
	Tariffs(ctx context.Context, route string, channel domain.Channel) ([]domain.Tariff, error)
}

// Classifier enriches a quote with a customs classification.
type Classifier interface {
	Classify(ctx context.Context, description string, category domain.Category) (domain.Classification, error)
}

// Store persists and reads back calculation results.
type Store interface {
	Save(ctx context.Context, q domain.Quote) error
	GetByID(ctx context.Context, id string) (domain.Quote, error)
	History(ctx context.Context, userID string, limit, offset int) ([]domain.Quote, error)
	Delete(ctx context.Context, id string) error
}
