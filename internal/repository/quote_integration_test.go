package repository

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"logihub/internal/apperr"
	"logihub/internal/domain"
)

var testRepo *QuoteRepo

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("logihub_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		log.Fatalf("start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("container dsn: %v", err)
	}

	pool, err := NewPool(ctx, dsn)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	if err := Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	testRepo = NewQuoteRepo(pool)

	code := m.Run()

	pool.Close()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func requireDB(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("requires docker")
	}
}

func sampleQuote(id, userID string) domain.Quote {
	duty := 5.0
	vat := 12.0
	return domain.Quote{
		ID:        id,
		UserID:    userID,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
		Request: domain.ShipmentRequest{
			Weight:      100,
			Volume:      0.4,
			Category:    domain.CategoryElectronics,
			Origin:      "Guangzhou",
			Destination: "Almaty",
		},
		Cargo: domain.CostBreakdown{
			TotalCost:        275,
			BaseCost:         250,
			ChargeableWeight: 100,
			PricePerKg:       2.5,
			TransitTimeDays:  10,
			RiskLevel:        domain.RiskMedium,
		},
		White: domain.CostBreakdown{
			TotalCost:        540,
			BaseCost:         450,
			ChargeableWeight: 100,
			PricePerKg:       4.5,
			TransitTimeDays:  20,
			RiskLevel:        domain.RiskLow,
			CustomsServices:  &domain.CustomsServices{CustomsClearance: 50, Duty: 5, VAT: 24.6, Total: 79.6},
		},
		Classification: &domain.Classification{
			Code:     "8539.31.000.0",
			DutyRate: &duty,
			VATRate:  &vat,
		},
		Recommendations: []string{"cargo channel is cheaper for this shipment"},
	}
}

func TestQuoteRepoSaveAndGet(t *testing.T) {
	requireDB(t)

	q := sampleQuote("calc_save01", "user-1")
	require.NoError(t, testRepo.Save(context.Background(), q))

	got, err := testRepo.GetByID(context.Background(), q.ID)
	require.NoError(t, err)
	require.Equal(t, q.ID, got.ID)
	require.Equal(t, q.Request, got.Request)
	require.Equal(t, q.Cargo, got.Cargo)
	require.Equal(t, q.White, got.White)
	require.NotNil(t, got.Classification)
	require.Equal(t, "8539.31.000.0", got.Classification.Code)
	require.Equal(t, q.Recommendations, got.Recommendations)
	require.WithinDuration(t, q.CreatedAt, got.CreatedAt, time.Millisecond)
}

func TestQuoteRepoDuplicateID(t *testing.T) {
	requireDB(t)

	q := sampleQuote("calc_dup01", "user-1")
	require.NoError(t, testRepo.Save(context.Background(), q))
	require.ErrorIs(t, testRepo.Save(context.Background(), q), apperr.ErrConflict)
}

func TestQuoteRepoGetMissing(t *testing.T) {
	requireDB(t)

	_, err := testRepo.GetByID(context.Background(), "calc_missing")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestQuoteRepoHistory(t *testing.T) {
	requireDB(t)

	base := time.Now().UTC().Truncate(time.Microsecond)
	for i := range 5 {
		q := sampleQuote(fmt.Sprintf("calc_hist%02d", i), "history-user")
		q.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, testRepo.Save(context.Background(), q))
	}

	page, err := testRepo.History(context.Background(), "history-user", 3, 0)
	require.NoError(t, err)
	require.Len(t, page, 3)
	require.Equal(t, "calc_hist04", page[0].ID)
	require.Equal(t, "calc_hist02", page[2].ID)

	page, err = testRepo.History(context.Background(), "history-user", 3, 3)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, "calc_hist01", page[0].ID)

	page, err = testRepo.History(context.Background(), "nobody", 10, 0)
	require.NoError(t, err)
	require.Empty(t, page)
}

func TestQuoteRepoDelete(t *testing.T) {
	requireDB(t)

	q := sampleQuote("calc_del01", "user-1")
	require.NoError(t, testRepo.Save(context.Background(), q))
	require.NoError(t, testRepo.Delete(context.Background(), q.ID))

	_, err := testRepo.GetByID(context.Background(), q.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.ErrorIs(t, testRepo.Delete(context.Background(), q.ID), apperr.ErrNotFound)
}

func TestQuoteRepoNilClassification(t *testing.T) {
	requireDB(t)

	q := sampleQuote("calc_nocls01", "user-2")
	q.Classification = nil
	require.NoError(t, testRepo.Save(context.Background(), q))

	got, err := testRepo.GetByID(context.Background(), q.ID)
	require.NoError(t, err)
	require.Nil(t, got.Classification)
}
