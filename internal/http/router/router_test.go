package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"logihub/internal/apperr"
	"logihub/internal/domain"
	"logihub/internal/http/handlers"
	"logihub/internal/http/middleware/ratelimit"
	"logihub/internal/logx"
	"logihub/internal/metrics"
	"logihub/internal/service/quote"
)

type stubQuotes struct {
	quotes map[string]domain.Quote
}

func (s *stubQuotes) Calculate(_ context.Context, req domain.ShipmentRequest, userID string) (domain.Quote, error) {
	if err := req.Validate(); err != nil {
		return domain.Quote{}, err
	}
	return domain.Quote{ID: "calc_deadbeef", UserID: userID, Request: req}, nil
}

func (s *stubQuotes) CalculateBatch(ctx context.Context, reqs []domain.ShipmentRequest, userID string) ([]quote.BatchItem, error) {
	if len(reqs) == 0 || len(reqs) > quote.MaxBatchSize {
		return nil, fmt.Errorf("%w: batch size", apperr.ErrInvalid)
	}
	items := make([]quote.BatchItem, len(reqs))
	for i, req := range reqs {
		q, err := s.Calculate(ctx, req, userID)
		if err != nil {
			items[i] = quote.BatchItem{Error: err}
			continue
		}
		items[i] = quote.BatchItem{Quote: &q}
	}
	return items, nil
}

func (s *stubQuotes) GetByID(_ context.Context, id string) (domain.Quote, error) {
	q, ok := s.quotes[id]
	if !ok {
		return domain.Quote{}, fmt.Errorf("%w: quote", apperr.ErrNotFound)
	}
	return q, nil
}

func (s *stubQuotes) History(_ context.Context, userID string, _, _ int) ([]domain.Quote, error) {
	var out []domain.Quote
	for _, q := range s.quotes {
		if q.UserID == userID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *stubQuotes) Delete(_ context.Context, id string) error {
	if _, ok := s.quotes[id]; !ok {
		return fmt.Errorf("%w: quote", apperr.ErrNotFound)
	}
	delete(s.quotes, id)
	return nil
}

type stubTariffs struct{}

func (stubTariffs) Tariffs(context.Context, string, domain.Channel) ([]domain.Tariff, error) {
	return []domain.Tariff{{Route: "guangzhou-almaty", Channel: domain.ChannelCargo, PricePerKg: 2.8, TransitTimeDays: 12}}, nil
}

func (stubTariffs) AvailableRoutes(context.Context) ([]string, error) {
	return []string{"guangzhou-almaty"}, nil
}

func (stubTariffs) CreateTariff(_ context.Context, t domain.Tariff) (domain.Tariff, error) {
	t.ID = "rec-new"
	return t, nil
}

func (stubTariffs) UpdateTariff(_ context.Context, id string, t domain.Tariff) (domain.Tariff, error) {
	t.ID = id
	return t, nil
}

func (stubTariffs) DeleteTariff(context.Context, string) error { return nil }

type stubClassify struct{}

func (stubClassify) Classify(context.Context, string, domain.Category) (domain.Classification, error) {
	return domain.Classification{Code: "8539.31.000.0"}, nil
}

func (stubClassify) Candidates(context.Context, string) ([]domain.Candidate, error) {
	return []domain.Candidate{{Code: "8539310000", Reason: "lamp"}}, nil
}

type stubCache struct{ cleared bool }

func (s *stubCache) Clear() { s.cleared = true }

func newTestServer(t *testing.T, limiter ratelimit.Limiter) (*httptest.Server, *stubQuotes, *stubCache) {
	t.Helper()

	quotes := &stubQuotes{quotes: map[string]domain.Quote{
		"calc_known001": {ID: "calc_known001", UserID: "u1"},
	}}
	cache := &stubCache{}

	reg := prometheus.NewRegistry()
	h := handlers.New(quotes, stubTariffs{}, stubClassify{}, cache, logx.Nop())
	srv := httptest.NewServer(New(Deps{
		Handlers: h,
		Limiter:  limiter,
		Metrics:  metrics.New(reg),
		Registry: reg,
		Log:      logx.Nop(),
	}))
	t.Cleanup(srv.Close)
	return srv, quotes, cache
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func TestPingAndHealth(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Head(srv.URL + "/healthcheck")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCalculateEndpoint(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t, nil)

	resp := postJSON(t, srv.URL+"/api/v1/calculations", map[string]any{
		"user_id":     "u1",
		"weight":      100,
		"volume":      0.4,
		"category":    "electronics",
		"origin":      "Guangzhou",
		"destination": "Almaty",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var q domain.Quote
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&q))
	require.Equal(t, "calc_deadbeef", q.ID)
}

func TestCalculateEndpointRejectsInvalid(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t, nil)

	resp := postJSON(t, srv.URL+"/api/v1/calculations", map[string]any{
		"weight": -1, "volume": 0.4, "category": "electronics",
		"origin": "Guangzhou", "destination": "Almaty",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBatchEndpoint(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t, nil)

	good := map[string]any{
		"weight": 10, "volume": 0.1, "category": "clothing",
		"origin": "Guangzhou", "destination": "Almaty",
	}
	bad := map[string]any{
		"weight": 0, "volume": 0.1, "category": "clothing",
		"origin": "Guangzhou", "destination": "Almaty",
	}

	resp := postJSON(t, srv.URL+"/api/v1/calculations/batch", map[string]any{
		"user_id":   "u1",
		"shipments": []any{good, bad},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Results []struct {
			Quote *domain.Quote `json:"quote"`
			Error string        `json:"error"`
		} `json:"results"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Results, 2)
	require.NotNil(t, out.Results[0].Quote)
	require.Empty(t, out.Results[0].Error)
	require.Nil(t, out.Results[1].Quote)
	require.NotEmpty(t, out.Results[1].Error)
}

func TestGetAndDeleteQuote(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/v1/calculations/calc_known001")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/v1/calculations/calc_missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/calculations/calc_known001", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestHistoryEndpoint(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/v1/calculations/history/u1?limit=5")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		UserID string         `json:"user_id"`
		Quotes []domain.Quote `json:"quotes"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, "u1", out.UserID)
	require.Len(t, out.Quotes, 1)
}

func TestTariffEndpoints(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/v1/tariffs?route=guangzhou-almaty&delivery_type=cargo")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/v1/tariffs?route=guangzhou-almaty&delivery_type=rainbow")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/v1/tariffs/routes")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/api/v1/tariffs", map[string]any{
		"route": "istanbul-almaty", "delivery_type": "white",
		"price_per_kg": 5.1, "delivery_time_days": 18,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/api/v1/tariffs", map[string]any{
		"route": "istanbul-almaty", "delivery_type": "white",
		"price_per_kg": -1, "delivery_time_days": 18,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestClassificationEndpoints(t *testing.T) {
	t.Parallel()

	srv, _, cache := newTestServer(t, nil)

	resp := postJSON(t, srv.URL+"/api/v1/classifications", map[string]any{
		"description": "LED desk lamp", "category": "electronics",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Classification domain.Classification `json:"classification"`
		Candidates     []domain.Candidate    `json:"candidates"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, "8539.31.000.0", out.Classification.Code)
	require.Len(t, out.Candidates, 1)

	resp = postJSON(t, srv.URL+"/api/v1/classifications/cache/clear", map[string]any{})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, cache.cleared)
}

func TestRateLimiting(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t, ratelimit.NewTokenBucketLimiter(1, 2))

	statuses := make(map[int]int)
	for range 5 {
		resp, err := http.Get(srv.URL + "/ping")
		require.NoError(t, err)
		resp.Body.Close()
		statuses[resp.StatusCode]++
	}
	require.Positive(t, statuses[http.StatusTooManyRequests])
	require.Positive(t, statuses[http.StatusOK])
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t, nil)

	// Generate one request first so counters exist.
	resp, err := http.Get(srv.URL + "/ping")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
