package domain

// Classification is the result of classifying a product description against
// a customs tariff code scheme. Code format is provider-specific and treated
// as opaque here.
type Classification struct {
	Code              string   `json:"code"`
	Description       string   `json:"description"`
	DutyRate          *float64 `json:"duty_rate,omitempty"`
	VATRate           *float64 `json:"vat_rate,omitempty"`
	RequiredDocuments []string `json:"required_documents,omitempty"`
	Restrictions      []string `json:"restrictions,omitempty"`
}

// Candidate is one ranked classification candidate with a short justification.
type Candidate struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}
