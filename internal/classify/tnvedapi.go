package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"logihub/internal/apperr"
	"logihub/internal/domain"
)

// TNVEDAPI talks to a remote TN VED nomenclature service. It serves both as a
// Classifier (full-text search) and as a CodeDirectory (code lookup) for
// other classifiers.
type TNVEDAPI struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewTNVEDAPI builds the remote nomenclature client.
func NewTNVEDAPI(client *http.Client, baseURL, apiKey string) *TNVEDAPI {
	if client == nil {
		client = http.DefaultClient
	}
	return &TNVEDAPI{client: client, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}
}

type tnvedCode struct {
	Code         string   `json:"code"`
	Description  string   `json:"description"`
	DutyRate     *float64 `json:"duty_rate"`
	VATRate      *float64 `json:"vat_rate"`
	Documents    []string `json:"documents"`
	Restrictions []string `json:"restrictions"`
}

// Lookup implements CodeDirectory.
func (t *TNVEDAPI) Lookup(ctx context.Context, code string) (domain.Classification, error) {
	var out tnvedCode
	if err := t.get(ctx, "/v1/codes/"+url.PathEscape(code), &out); err != nil {
		return domain.Classification{}, err
	}
	return t.toDomain(out), nil
}

// Classify implements Classifier via the service's search endpoint.
func (t *TNVEDAPI) Classify(ctx context.Context, description string, _ domain.Category) (domain.Classification, error) {
	if err := validateDescription(description); err != nil {
		return domain.Classification{}, err
	}
	var out struct {
		Results []tnvedCode `json:"results"`
	}
	if err := t.get(ctx, "/v1/search?q="+url.QueryEscape(description), &out); err != nil {
		return domain.Classification{}, err
	}
	if len(out.Results) == 0 {
		return domain.Classification{}, fmt.Errorf("%w: tnved: no match", apperr.ErrNotFound)
	}
	return t.toDomain(out.Results[0]), nil
}

// Candidates implements Classifier.
func (t *TNVEDAPI) Candidates(ctx context.Context, description string) ([]domain.Candidate, error) {
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	var out struct {
		Results []tnvedCode `json:"results"`
	}
	if err := t.get(ctx, "/v1/search?q="+url.QueryEscape(description), &out); err != nil {
		return nil, err
	}
	candidates := make([]domain.Candidate, 0, maxCandidates)
	for _, r := range out.Results {
		candidates = append(candidates, domain.Candidate{
			Code:   strings.ReplaceAll(r.Code, ".", ""),
			Reason: r.Description,
		})
		if len(candidates) == maxCandidates {
			break
		}
	}
	return candidates, nil
}

func (t *TNVEDAPI) get(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: tnved: %v", apperr.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: tnved code", apperr.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: tnved status %d", apperr.ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: tnved: decode response: %v", apperr.ErrUnavailable, err)
	}
	return nil
}

func (t *TNVEDAPI) toDomain(c tnvedCode) domain.Classification {
	duty, vat := defaultDutyRate, defaultVATRate
	if c.DutyRate != nil {
		duty = *c.DutyRate
	}
	if c.VATRate != nil {
		vat = *c.VATRate
	}
	return domain.Classification{
		Code:              c.Code,
		Description:       c.Description,
		DutyRate:          &duty,
		VATRate:           &vat,
		RequiredDocuments: c.Documents,
		Restrictions:      c.Restrictions,
	}
}
