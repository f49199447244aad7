package classify

import (
	"context"
	"strings"

	"logihub/internal/domain"
)

// Default rates applied when a code carries no specific figures.
const (
	defaultDutyRate = 5.0
	defaultVATRate  = 12.0
)

type codeEntry struct {
	code        string
	description string
	dutyRate    float64
	vatRate     float64
	keywords    []string
}

// The directory is a curated subset of the TN VED nomenclature, ordered by
// match priority. First keyword hit wins.
var codeDirectory = []codeEntry{
	{
		code:        "8539.31.000.0",
		description: "Discharge lamps, fluorescent, hot cathode",
		dutyRate:    5.0,
		vatRate:     12.0,
		keywords:    []string{"lamp", "lighting", "led", "bulb"},
	},
	{
		code:        "8517.12.000.0",
		description: "Telephones for cellular networks",
		dutyRate:    0.0,
		vatRate:     12.0,
		keywords:    []string{"phone", "smartphone", "mobile"},
	},
	{
		code:        "8471.30.000.0",
		description: "Portable automatic data processing machines",
		dutyRate:    0.0,
		vatRate:     12.0,
		keywords:    []string{"laptop", "notebook", "computer", "tablet"},
	},
	{
		code:        "6109.10.000.0",
		description: "T-shirts, singlets and other vests of cotton, knitted",
		dutyRate:    10.0,
		vatRate:     12.0,
		keywords:    []string{"t-shirt", "shirt", "clothing", "apparel", "garment"},
	},
	{
		code:        "6403.99.960.0",
		description: "Footwear with outer soles of rubber or plastics",
		dutyRate:    10.0,
		vatRate:     12.0,
		keywords:    []string{"shoe", "shoes", "footwear", "sneaker", "boot"},
	},
	{
		code:        "8481.80.990.0",
		description: "Taps, cocks, valves and similar appliances",
		dutyRate:    8.0,
		vatRate:     12.0,
		keywords:    []string{"valve", "pump", "machinery", "equipment", "machine"},
	},
	{
		code:        "3304.99.000.0",
		description: "Beauty or make-up preparations",
		dutyRate:    6.5,
		vatRate:     12.0,
		keywords:    []string{"cosmetic", "cream", "makeup", "lotion"},
	},
	{
		code:        "3808.94.900.0",
		description: "Disinfectants and similar products",
		dutyRate:    5.0,
		vatRate:     12.0,
		keywords:    []string{"chemical", "disinfectant", "detergent", "reagent"},
	},
	{
		code:        "2106.90.980.0",
		description: "Food preparations not elsewhere specified",
		dutyRate:    12.0,
		vatRate:     12.0,
		keywords:    []string{"food", "snack", "tea", "coffee", "candy"},
	},
	{
		code:        "9503.00.700.0",
		description: "Toys, put up in sets or outfits",
		dutyRate:    10.0,
		vatRate:     12.0,
		keywords:    []string{"toy", "toys", "game", "puzzle"},
	},
}

var fallbackByCategory = map[domain.Category]codeEntry{
	domain.CategoryElectronics: {
		code:        "8543.70.900.0",
		description: "Electrical machines and apparatus, not elsewhere specified",
		dutyRate:    5.0,
		vatRate:     12.0,
	},
	domain.CategoryClothing: {
		code:        "6211.43.900.0",
		description: "Garments of man-made fibres",
		dutyRate:    10.0,
		vatRate:     12.0,
	},
	domain.CategoryMachinery: {
		code:        "8479.89.970.0",
		description: "Machines and mechanical appliances, not elsewhere specified",
		dutyRate:    8.0,
		vatRate:     12.0,
	},
	domain.CategoryChemicals: {
		code:        "3824.99.960.0",
		description: "Chemical products and preparations, not elsewhere specified",
		dutyRate:    6.5,
		vatRate:     12.0,
	},
	domain.CategoryFood: {
		code:        "2106.90.980.0",
		description: "Food preparations not elsewhere specified",
		dutyRate:    12.0,
		vatRate:     12.0,
	},
	domain.CategoryOther: {
		code:        "9999.00.000.0",
		description: "Unclassified goods",
		dutyRate:    defaultDutyRate,
		vatRate:     defaultVATRate,
	},
}

var documentsByCategory = map[domain.Category][]string{
	domain.CategoryElectronics: {"certificate of conformity", "technical passport"},
	domain.CategoryClothing:    {"certificate of origin"},
	domain.CategoryMachinery:   {"certificate of conformity", "safety declaration"},
	domain.CategoryChemicals:   {"safety data sheet", "import license"},
	domain.CategoryFood:        {"sanitary certificate", "certificate of origin"},
	domain.CategoryOther:       {"invoice", "packing list"},
}

var restrictionsByCategory = map[domain.Category][]string{
	domain.CategoryChemicals: {"hazardous materials declaration required"},
}

// Keyword classifies by matching description tokens against a built-in code
// directory, falling back to a per-category default code. It never fails and
// needs no network.
type Keyword struct{}

// NewKeyword builds the offline keyword classifier.
func NewKeyword() *Keyword { return &Keyword{} }

// Classify implements Classifier.
func (k *Keyword) Classify(_ context.Context, description string, category domain.Category) (domain.Classification, error) {
	entry, ok := matchKeywords(description)
	if !ok {
		entry = fallbackByCategory[category]
		if entry.code == "" {
			entry = fallbackByCategory[domain.CategoryOther]
		}
	}
	return buildClassification(entry, category), nil
}

// Candidates implements Classifier. The keyword directory yields at most one
// confident candidate.
func (k *Keyword) Candidates(_ context.Context, description string) ([]domain.Candidate, error) {
	entry, ok := matchKeywords(description)
	if !ok {
		return nil, nil
	}
	return []domain.Candidate{{
		Code:   strings.ReplaceAll(entry.code, ".", ""),
		Reason: entry.description,
	}}, nil
}

func matchKeywords(description string) (codeEntry, bool) {
	desc := strings.ToLower(description)
	for _, entry := range codeDirectory {
		for _, kw := range entry.keywords {
			if strings.Contains(desc, kw) {
				return entry, true
			}
		}
	}
	return codeEntry{}, false
}

func buildClassification(entry codeEntry, category domain.Category) domain.Classification {
	duty, vat := entry.dutyRate, entry.vatRate
	return domain.Classification{
		Code:              entry.code,
		Description:       entry.description,
		DutyRate:          &duty,
		VATRate:           &vat,
		RequiredDocuments: documentsByCategory[category],
		Restrictions:      restrictionsByCategory[category],
	}
}
