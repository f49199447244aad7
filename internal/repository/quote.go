package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"logihub/internal/apperr"
	"logihub/internal/domain"
)

// QuoteRepo persists calculation results in Postgres. Breakdown and
// classification payloads are stored as JSONB; only the columns used for
// lookups are relational.
type QuoteRepo struct {
	pool *pgxpool.Pool
}

// NewQuoteRepo builds the quote repository.
func NewQuoteRepo(pool *pgxpool.Pool) *QuoteRepo {
	return &QuoteRepo{pool: pool}
}

// Save inserts a quote. Quote ids are unique; a replay of the same id is a
// conflict.
func (r *QuoteRepo) Save(ctx context.Context, q domain.Quote) error {
	request, err := json.Marshal(q.Request)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	cargo, err := json.Marshal(q.Cargo)
	if err != nil {
		return fmt.Errorf("marshal cargo breakdown: %w", err)
	}
	white, err := json.Marshal(q.White)
	if err != nil {
		return fmt.Errorf("marshal white breakdown: %w", err)
	}
	var classification []byte
	if q.Classification != nil {
		if classification, err = json.Marshal(q.Classification); err != nil {
			return fmt.Errorf("marshal classification: %w", err)
		}
	}
	recommendations, err := json.Marshal(q.Recommendations)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO quotes (id, user_id, created_at, request, cargo, white, classification, recommendations)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		q.ID, q.UserID, q.CreatedAt, request, cargo, white, classification, recommendations,
	)
	if IsDuplicate(err) {
		return fmt.Errorf("%w: quote %s", apperr.ErrConflict, q.ID)
	}
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

// GetByID returns the quote with the given id.
func (r *QuoteRepo) GetByID(ctx context.Context, id string) (domain.Quote, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, created_at, request, cargo, white, classification, recommendations
		FROM quotes WHERE id = $1`, id)
	return scanQuote(row)
}

// History returns the user's quotes, newest first.
func (r *QuoteRepo) History(ctx context.Context, userID string, limit, offset int) ([]domain.Quote, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, created_at, request, cargo, white, classification, recommendations
		FROM quotes WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var quotes []domain.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return quotes, nil
}

// Delete removes the quote with the given id.
func (r *QuoteRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: quote %s", apperr.ErrNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuote(row rowScanner) (domain.Quote, error) {
	var (
		q                               domain.Quote
		request, cargo, white           []byte
		classification, recommendations []byte
	)
	err := row.Scan(&q.ID, &q.UserID, &q.CreatedAt, &request, &cargo, &white, &classification, &recommendations)
	if IsNotFound(err) {
		return domain.Quote{}, fmt.Errorf("%w: quote", apperr.ErrNotFound)
	}
	if err != nil {
		return domain.Quote{}, fmt.Errorf("scan quote: %w", err)
	}

	if err := json.Unmarshal(request, &q.Request); err != nil {
		return domain.Quote{}, fmt.Errorf("unmarshal request: %w", err)
	}
	if err := json.Unmarshal(cargo, &q.Cargo); err != nil {
		return domain.Quote{}, fmt.Errorf("unmarshal cargo breakdown: %w", err)
	}
	if err := json.Unmarshal(white, &q.White); err != nil {
		return domain.Quote{}, fmt.Errorf("unmarshal white breakdown: %w", err)
	}
	if len(classification) > 0 {
		q.Classification = &domain.Classification{}
		if err := json.Unmarshal(classification, q.Classification); err != nil {
			return domain.Quote{}, fmt.Errorf("unmarshal classification: %w", err)
		}
	}
	if len(recommendations) > 0 {
		if err := json.Unmarshal(recommendations, &q.Recommendations); err != nil {
			return domain.Quote{}, fmt.Errorf("unmarshal recommendations: %w", err)
		}
	}
	return q, nil
}
