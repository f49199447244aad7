package classify

import (
	"context"

	"logihub/internal/domain"
)

// Classifier maps a free-text product description to a customs tariff code.
// Implementations return apperr.ErrUnavailable (wrapped) when the backing
// provider is down; callers treat that as missing enrichment, not a failure.
type Classifier interface {
	Classify(ctx context.Context, description string, category domain.Category) (domain.Classification, error)
	Candidates(ctx context.Context, description string) ([]domain.Candidate, error)
}

// CodeDirectory resolves tariff codes to their rates and paperwork.
type CodeDirectory interface {
	Lookup(ctx context.Context, code string) (domain.Classification, error)
}
