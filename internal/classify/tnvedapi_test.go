package classify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"logihub/internal/apperr"
	"logihub/internal/domain"
)

func TestTNVEDAPILookup(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/codes/8539310000", r.URL.Path)
		require.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"code":"8539.31.000.0","description":"lamps","duty_rate":7.5,"vat_rate":12,"documents":["certificate of conformity"]}`))
	}))
	defer srv.Close()

	api := NewTNVEDAPI(srv.Client(), srv.URL, "key")

	cl, err := api.Lookup(context.Background(), "8539310000")
	require.NoError(t, err)
	require.Equal(t, "8539.31.000.0", cl.Code)
	require.Equal(t, 7.5, *cl.DutyRate)
	require.Contains(t, cl.RequiredDocuments, "certificate of conformity")
}

func TestTNVEDAPILookupDefaultsMissingRates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":"9999.00.000.0","description":"misc"}`))
	}))
	defer srv.Close()

	api := NewTNVEDAPI(srv.Client(), srv.URL, "")

	cl, err := api.Lookup(context.Background(), "9999000000")
	require.NoError(t, err)
	require.Equal(t, defaultDutyRate, *cl.DutyRate)
	require.Equal(t, defaultVATRate, *cl.VATRate)
}

func TestTNVEDAPIClassifySearch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/search", r.URL.Path)
		require.Equal(t, "desk lamp", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"results":[{"code":"8539.31.000.0","description":"lamps"}]}`))
	}))
	defer srv.Close()

	api := NewTNVEDAPI(srv.Client(), srv.URL, "")

	cl, err := api.Classify(context.Background(), "desk lamp", domain.CategoryElectronics)
	require.NoError(t, err)
	require.Equal(t, "8539.31.000.0", cl.Code)
}

func TestTNVEDAPINotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	api := NewTNVEDAPI(srv.Client(), srv.URL, "")

	_, err := api.Lookup(context.Background(), "0000000000")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}
