package quote

import (
	"fmt"
	"strings"

	"logihub/internal/domain"
)

// whitePremiumFactor is how much more the white channel may cost before the
// cargo channel is recommended instead.
const whitePremiumFactor = 1.3

const bulkWeightThreshold = 1000.0

// recommend produces human-readable advice for the quote. Order is stable:
// channel choice first, then paperwork, then category and size notes.
func recommend(req domain.ShipmentRequest, cargo, white domain.CostBreakdown, cl *domain.Classification) []string {
	var out []string

	if white.TotalCost < cargo.TotalCost*whitePremiumFactor {
		out = append(out, fmt.Sprintf(
			"white channel recommended: official clearance for $%.2f extra reduces customs risk",
			white.TotalCost-cargo.TotalCost))
	} else {
		out = append(out, fmt.Sprintf(
			"cargo channel is significantly cheaper ($%.2f vs $%.2f), suitable if customs risk is acceptable",
			cargo.TotalCost, white.TotalCost))
	}

	if cl != nil && len(cl.RequiredDocuments) > 0 {
		docs := cl.RequiredDocuments
		if len(docs) > 3 {
			docs = docs[:3]
		}
		out = append(out, "prepare documents for white channel: "+strings.Join(docs, ", "))
	}

	switch req.Category {
	case domain.CategoryElectronics:
		out = append(out, "electronics may require a certificate of conformity on import")
	case domain.CategoryChemicals:
		out = append(out, "chemicals require a safety data sheet and may be restricted")
	}

	if req.Weight > bulkWeightThreshold {
		out = append(out, "bulk shipment: ask for a negotiated rate on consignments over 1000 kg")
	}

	return out
}
