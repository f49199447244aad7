package tariffstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"logihub/internal/domain"
)

const tariffsTable = "Tariffs"

// Field names in the Tariffs table.
const (
	fieldRoute       = "route"
	fieldChannel     = "delivery_type"
	fieldPricePerKg  = "price_per_kg"
	fieldTransitDays = "delivery_time_days"
)

// Tariffs returns all tariff records for a route and channel. An empty slice
// with a nil error means the store is reachable but has no rates; the caller
// falls back to defaults.
func (c *Client) Tariffs(ctx context.Context, route string, channel domain.Channel) ([]domain.Tariff, error) {
	formula := fmt.Sprintf("AND({%s}='%s',{%s}='%s')",
		fieldRoute, escapeFormula(route), fieldChannel, string(channel))
	records, err := c.list(ctx, tariffsTable, formula)
	if err != nil {
		return nil, err
	}

	tariffs := make([]domain.Tariff, 0, len(records))
	for _, r := range records {
		t, ok := toTariff(r)
		if !ok {
			c.log.Warn("skipping malformed tariff record")
			continue
		}
		tariffs = append(tariffs, t)
	}
	return tariffs, nil
}

// AvailableRoutes lists the distinct routes present in the store, sorted.
func (c *Client) AvailableRoutes(ctx context.Context) ([]string, error) {
	records, err := c.list(ctx, tariffsTable, "")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, r := range records {
		if route, ok := r.Fields[fieldRoute].(string); ok && route != "" {
			seen[strings.ToLower(route)] = struct{}{}
		}
	}

	routes := make([]string, 0, len(seen))
	for route := range seen {
		routes = append(routes, route)
	}
	sort.Strings(routes)
	return routes, nil
}

// CreateTariff inserts a tariff record and returns it with the store id.
func (c *Client) CreateTariff(ctx context.Context, t domain.Tariff) (domain.Tariff, error) {
	rec, err := c.create(ctx, tariffsTable, tariffFields(t))
	if err != nil {
		return domain.Tariff{}, err
	}
	t.ID = rec.ID
	return t, nil
}

// UpdateTariff overwrites the record's tariff fields.
func (c *Client) UpdateTariff(ctx context.Context, id string, t domain.Tariff) (domain.Tariff, error) {
	rec, err := c.update(ctx, tariffsTable, id, tariffFields(t))
	if err != nil {
		return domain.Tariff{}, err
	}
	t.ID = rec.ID
	return t, nil
}

// DeleteTariff removes the record.
func (c *Client) DeleteTariff(ctx context.Context, id string) error {
	return c.delete(ctx, tariffsTable, id)
}

func tariffFields(t domain.Tariff) map[string]any {
	return map[string]any{
		fieldRoute:       strings.ToLower(t.Route),
		fieldChannel:     string(t.Channel),
		fieldPricePerKg:  t.PricePerKg,
		fieldTransitDays: t.TransitTimeDays,
	}
}

func toTariff(r record) (domain.Tariff, bool) {
	route, _ := r.Fields[fieldRoute].(string)
	channel, _ := r.Fields[fieldChannel].(string)
	price, priceOK := r.Fields[fieldPricePerKg].(float64)
	days, daysOK := r.Fields[fieldTransitDays].(float64)
	if route == "" || !priceOK || price <= 0 || !daysOK {
		return domain.Tariff{}, false
	}
	return domain.Tariff{
		ID:              r.ID,
		Route:           route,
		Channel:         domain.Channel(channel),
		PricePerKg:      price,
		TransitTimeDays: int(days),
	}, true
}

func escapeFormula(v string) string {
	return strings.ReplaceAll(v, "'", "\\'")
}
