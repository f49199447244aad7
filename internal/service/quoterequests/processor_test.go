package quoterequests

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"logihub/internal/apperr"
	"logihub/internal/domain"
	"logihub/internal/logx"
)

type stubCalculator struct {
	calls int
	err   error
}

func (s *stubCalculator) Calculate(_ context.Context, _ domain.ShipmentRequest, userID string) (domain.Quote, error) {
	s.calls++
	if s.err != nil {
		return domain.Quote{}, s.err
	}
	return domain.Quote{ID: "calc_test0001", UserID: userID}, nil
}

func validEvent() Event {
	return Event{
		UserID:      "tg-12345",
		Weight:      50,
		Volume:      0.2,
		Category:    "clothing",
		Origin:      "Guangzhou",
		Destination: "Almaty",
	}
}

func TestProcessorHappyPath(t *testing.T) {
	t.Parallel()

	calc := &stubCalculator{}
	p := NewProcessor(calc, logx.Nop(), nil)

	require.NoError(t, p.Process(context.Background(), validEvent()))
	require.Equal(t, 1, calc.calls)
}

func TestProcessorDropsInvalidEvents(t *testing.T) {
	t.Parallel()

	calc := &stubCalculator{}
	p := NewProcessor(calc, logx.Nop(), nil)

	ev := validEvent()
	ev.Weight = 0
	require.NoError(t, p.Process(context.Background(), ev))

	ev = validEvent()
	ev.UserID = ""
	require.NoError(t, p.Process(context.Background(), ev))

	require.Zero(t, calc.calls)
}

func TestProcessorPropagatesInternalErrors(t *testing.T) {
	t.Parallel()

	calc := &stubCalculator{err: fmt.Errorf("%w: db", apperr.ErrUnavailable)}
	p := NewProcessor(calc, logx.Nop(), nil)

	require.Error(t, p.Process(context.Background(), validEvent()))
}

func TestEventToRequest(t *testing.T) {
	t.Parallel()

	req, err := validEvent().ToRequest()
	require.NoError(t, err)
	require.Equal(t, domain.CategoryClothing, req.Category)
	require.Equal(t, "guangzhou-almaty", req.RouteKey())
}
