package handlers

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"logihub/internal/apperr"
	"logihub/internal/logx"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: weight", apperr.ErrInvalid), 400},
		{fmt.Errorf("%w: quote", apperr.ErrNotFound), 404},
		{fmt.Errorf("%w: quote", apperr.ErrConflict), 409},
		{fmt.Errorf("%w: store", apperr.ErrUnavailable), 503},
		{errors.New("boom"), 500},
	}

	for _, tc := range tests {
		rec := httptest.NewRecorder()
		writeError(rec, logx.Nop(), tc.err)
		require.Equal(t, tc.status, rec.Code)
		require.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(rec, logx.Nop(), errors.New("password=hunter2"))
	require.NotContains(t, rec.Body.String(), "hunter2")
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"weight": 1, "bogus": true}`))
	_, err := decodeJSON[calculateRequest](r)
	require.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestDecodeJSONMalformed(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{`))
	_, err := decodeJSON[calculateRequest](r)
	require.ErrorIs(t, err, apperr.ErrInvalid)
}
