package quote

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"logihub/internal/apperr"
	"logihub/internal/domain"
	"logihub/internal/logx"
	"logihub/internal/metrics"
)

// Pricing constants. Declared value is approximated as weight * 2 until the
// intake form collects it explicitly.
const (
	volumetricFactor = 167.0

	defaultCargoPricePerKg = 2.50
	defaultCargoDays       = 10
	defaultWhitePricePerKg = 4.50
	defaultWhiteDays       = 20

	declaredValuePerKg = 2.0

	customsClearanceFee = 50.0

	insuranceRate = 0.01

	packagingSmall     = 15.0
	packagingLarge     = 30.0
	packagingThreshold = 1.0

	documentationCargo = 10.0
	documentationWhite = 25.0
)

var categoryMultipliers = map[domain.Channel]map[domain.Category]float64{
	domain.ChannelCargo: {
		domain.CategoryElectronics: 1.1,
		domain.CategoryClothing:    0.9,
		domain.CategoryMachinery:   1.3,
		domain.CategoryChemicals:   1.5,
		domain.CategoryFood:        1.2,
		domain.CategoryOther:       1.0,
	},
	domain.ChannelWhite: {
		domain.CategoryElectronics: 1.2,
		domain.CategoryClothing:    1.0,
		domain.CategoryMachinery:   1.4,
		domain.CategoryChemicals:   1.6,
		domain.CategoryFood:        1.3,
		domain.CategoryOther:       1.1,
	},
}

// Engine computes delivery quotes over both channels. Tariffs and the customs
// classification are fetched concurrently; both degrade gracefully, so a
// calculation only fails on invalid input.
type Engine struct {
	tariffs    TariffSource
	classifier Classifier
	store      Store
	log        logx.Logger
	metrics    *metrics.Metrics

	// persistTimeout bounds the detached background save.
	persistTimeout time.Duration
}

// NewEngine builds the quote engine. classifier and store may be nil; the
// corresponding enrichment and persistence steps are then skipped.
func NewEngine(tariffs TariffSource, classifier Classifier, store Store, log logx.Logger, m *metrics.Metrics) *Engine {
	if log == nil {
		log = logx.Nop()
	}
	return &Engine{
		tariffs:        tariffs,
		classifier:     classifier,
		store:          store,
		log:            log,
		metrics:        m,
		persistTimeout: 5 * time.Second,
	}
}

// Calculate quotes a shipment over both channels. The result is returned
// before persistence completes; saving is best-effort in the background.
func (e *Engine) Calculate(ctx context.Context, req domain.ShipmentRequest, userID string) (domain.Quote, error) {
	if err := req.Validate(); err != nil {
		e.countCalculation("invalid")
		return domain.Quote{}, err
	}

	var (
		wg             sync.WaitGroup
		cargoTariff    domain.Tariff
		whiteTariff    domain.Tariff
		classification *domain.Classification
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		cargoTariff = e.selectTariff(ctx, req.RouteKey(), domain.ChannelCargo)
		whiteTariff = e.selectTariff(ctx, req.RouteKey(), domain.ChannelWhite)
	}()
	go func() {
		defer wg.Done()
		classification = e.classify(ctx, req)
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		e.countCalculation("canceled")
		return domain.Quote{}, err
	}

	chargeable := chargeableWeight(req.Weight, req.Volume)
	cargo := e.breakdown(req, domain.ChannelCargo, cargoTariff, chargeable, classification)
	white := e.breakdown(req, domain.ChannelWhite, whiteTariff, chargeable, classification)

	q := domain.Quote{
		ID:              newQuoteID(),
		UserID:          userID,
		CreatedAt:       time.Now().UTC(),
		Request:         req,
		Cargo:           cargo,
		White:           white,
		Classification:  classification,
		Recommendations: recommend(req, cargo, white, classification),
	}

	e.persistAsync(ctx, q)
	e.countCalculation("ok")
	return q, nil
}

// BatchItem is one outcome of a batch calculation. Exactly one of Quote and
// Error is set.
type BatchItem struct {
	Quote *domain.Quote
	Error error
}

// MaxBatchSize caps the number of shipments per batch request.
const MaxBatchSize = 10

// CalculateBatch quotes each shipment independently. A failing item never
// affects its siblings; results keep the input order.
func (e *Engine) CalculateBatch(ctx context.Context, reqs []domain.ShipmentRequest, userID string) ([]BatchItem, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: empty batch", apperr.ErrInvalid)
	}
	if len(reqs) > MaxBatchSize {
		return nil, fmt.Errorf("%w: batch larger than %d items", apperr.ErrInvalid, MaxBatchSize)
	}

	items := make([]BatchItem, len(reqs))
	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q, err := e.Calculate(ctx, req, userID)
			if err != nil {
				items[i] = BatchItem{Error: err}
				return
			}
			items[i] = BatchItem{Quote: &q}
		}()
	}
	wg.Wait()
	return items, nil
}

// GetByID returns a stored quote.
func (e *Engine) GetByID(ctx context.Context, id string) (domain.Quote, error) {
	if e.store == nil {
		return domain.Quote{}, fmt.Errorf("%w: quote storage disabled", apperr.ErrUnavailable)
	}
	return e.store.GetByID(ctx, id)
}

// History returns a user's stored quotes, newest first.
func (e *Engine) History(ctx context.Context, userID string, limit, offset int) ([]domain.Quote, error) {
	if e.store == nil {
		return nil, fmt.Errorf("%w: quote storage disabled", apperr.ErrUnavailable)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return e.store.History(ctx, userID, limit, offset)
}

// Delete removes a stored quote.
func (e *Engine) Delete(ctx context.Context, id string) error {
	if e.store == nil {
		return fmt.Errorf("%w: quote storage disabled", apperr.ErrUnavailable)
	}
	return e.store.Delete(ctx, id)
}

// selectTariff picks the cheapest rate for the route and channel, falling
// back to built-in defaults when the store is empty or unreachable.
func (e *Engine) selectTariff(ctx context.Context, route string, channel domain.Channel) domain.Tariff {
	if e.tariffs != nil {
		tariffs, err := e.tariffs.Tariffs(ctx, route, channel)
		if err != nil {
			e.log.Warn("tariff store unavailable, using defaults",
				logx.String("route", route),
				logx.String("channel", string(channel)),
				logx.Any("error", err),
			)
		} else if t, ok := cheapest(tariffs); ok {
			return t
		}
	}

	if e.metrics != nil {
		e.metrics.TariffFallbacks.Inc()
	}
	if channel == domain.ChannelWhite {
		return domain.Tariff{Route: route, Channel: channel, PricePerKg: defaultWhitePricePerKg, TransitTimeDays: defaultWhiteDays}
	}
	return domain.Tariff{Route: route, Channel: channel, PricePerKg: defaultCargoPricePerKg, TransitTimeDays: defaultCargoDays}
}

func cheapest(tariffs []domain.Tariff) (domain.Tariff, bool) {
	var best domain.Tariff
	found := false
	for _, t := range tariffs {
		if t.PricePerKg <= 0 {
			continue
		}
		if !found || t.PricePerKg < best.PricePerKg {
			best = t
			found = true
		}
	}
	return best, found
}

// classify runs the classifier when a description is present. Failures are
// logged and counted but never block the calculation.
func (e *Engine) classify(ctx context.Context, req domain.ShipmentRequest) *domain.Classification {
	if e.classifier == nil || strings.TrimSpace(req.Description) == "" {
		return nil
	}
	cl, err := e.classifier.Classify(ctx, req.Description, req.Category)
	if err != nil {
		e.log.Warn("classification skipped", logx.Any("error", err))
		if e.metrics != nil {
			e.metrics.ClassificationFailures.WithLabelValues("engine").Inc()
		}
		return nil
	}
	return &cl
}

func (e *Engine) breakdown(req domain.ShipmentRequest, channel domain.Channel, tariff domain.Tariff, chargeable float64, cl *domain.Classification) domain.CostBreakdown {
	baseCost := chargeable * tariff.PricePerKg
	adjustedCost := baseCost * categoryMultipliers[channel][req.Category]
	declaredValue := req.Weight * declaredValuePerKg

	additional := domain.AdditionalServices{
		Insurance:     insuranceRate * declaredValue,
		Documentation: documentationCargo,
	}
	if req.Volume > packagingThreshold {
		additional.Packaging = packagingLarge
	} else {
		additional.Packaging = packagingSmall
	}

	b := domain.CostBreakdown{
		BaseCost:         baseCost,
		ChargeableWeight: chargeable,
		PricePerKg:       tariff.PricePerKg,
		TransitTimeDays:  tariff.TransitTimeDays,
		RiskLevel:        domain.RiskMedium,
	}

	if channel == domain.ChannelWhite {
		additional.Documentation = documentationWhite
		b.RiskLevel = domain.RiskLow

		// Duty and VAT are charged only when the classification supplies
		// the rates; without them the block carries the clearance fee alone.
		customs := domain.CustomsServices{CustomsClearance: customsClearanceFee}
		if cl != nil {
			if cl.DutyRate != nil {
				customs.Duty = req.Weight * *cl.DutyRate / 100
			}
			if cl.VATRate != nil {
				customs.VAT = declaredValue * *cl.VATRate / 100
			}
		}
		customs.Total = customs.CustomsClearance + customs.Duty + customs.VAT
		b.CustomsServices = &customs
	}

	additional.Total = additional.Insurance + additional.Packaging + additional.Documentation
	b.AdditionalServices = additional

	b.TotalCost = adjustedCost + additional.Total
	if b.CustomsServices != nil {
		b.TotalCost += b.CustomsServices.Total
	}
	return b
}

// persistAsync saves the quote on a detached context so client disconnects do
// not abort the write. Failures are logged and swallowed.
func (e *Engine) persistAsync(ctx context.Context, q domain.Quote) {
	if e.store == nil {
		return
	}
	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.persistTimeout)
	go func() {
		defer cancel()
		if err := e.store.Save(bg, q); err != nil {
			e.log.Warn("quote not persisted", logx.String("id", q.ID), logx.Any("error", err))
		}
	}()
}

func (e *Engine) countCalculation(outcome string) {
	if e.metrics != nil {
		e.metrics.QuoteCalculations.WithLabelValues(outcome).Inc()
	}
}

// chargeableWeight is the greater of actual and volumetric weight.
func chargeableWeight(weight, volume float64) float64 {
	if v := volume * volumetricFactor; v > weight {
		return v
	}
	return weight
}

func newQuoteID() string {
	return "calc_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
