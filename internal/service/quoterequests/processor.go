package quoterequests

import (
	"context"
	"errors"

	"logihub/internal/apperr"
	"logihub/internal/domain"
	"logihub/internal/logx"
	"logihub/internal/metrics"
)

// Calculator is the slice of the quote engine the processor needs.
type Calculator interface {
	Calculate(ctx context.Context, req domain.ShipmentRequest, userID string) (domain.Quote, error)
}

// Processor turns quote-request events into calculations. Results land in
// quote storage through the engine's own persistence; the processor only
// decides whether an event is worth retrying.
type Processor struct {
	calc    Calculator
	log     logx.Logger
	metrics *metrics.Metrics
}

// NewProcessor builds the event processor.
func NewProcessor(calc Calculator, log logx.Logger, m *metrics.Metrics) *Processor {
	if log == nil {
		log = logx.Nop()
	}
	return &Processor{calc: calc, log: log, metrics: m}
}

// Process handles one event. Invalid events are logged and dropped; only
// internal failures return an error, which the consumer treats as retryable.
func (p *Processor) Process(ctx context.Context, ev Event) error {
	req, err := ev.ToRequest()
	if err != nil {
		p.log.Warn("dropping invalid quote request event",
			logx.String("user_id", ev.UserID),
			logx.Any("error", err),
		)
		p.count("invalid")
		return nil
	}

	q, err := p.calc.Calculate(ctx, req, ev.UserID)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalid) {
			p.count("invalid")
			return nil
		}
		p.count("error")
		return err
	}

	p.log.Info("quote calculated from event",
		logx.String("id", q.ID),
		logx.String("user_id", ev.UserID),
		logx.Float64("cargo_total", q.Cargo.TotalCost),
		logx.Float64("white_total", q.White.TotalCost),
	)
	p.count("ok")
	return nil
}

func (p *Processor) count(outcome string) {
	if p.metrics != nil {
		p.metrics.QuoteRequestEvents.WithLabelValues(outcome).Inc()
	}
}
