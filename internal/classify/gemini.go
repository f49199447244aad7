package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"logihub/internal/apperr"
	"logihub/internal/domain"
)

const (
	maxDescriptionInput = 1000
	maxCandidates       = 3
	maxReasonLen        = 200
)

// Patterns rejected before the description is sent anywhere.
var dangerousFragments = []string{"<script", "javascript:", "onerror="}

var (
	codePattern      = regexp.MustCompile(`^\d{10}$`)
	jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)
)

// Gemini asks a generative model for ranked tariff-code candidates and then
// resolves the best one through a CodeDirectory for rates and documents.
type Gemini struct {
	client  *http.Client
	baseURL string
	model   string
	apiKey  string
	dir     CodeDirectory
}

// NewGemini builds the model-backed classifier. dir may be nil; the
// classification then carries the candidate code without rates.
func NewGemini(client *http.Client, baseURL, model, apiKey string, dir CodeDirectory) *Gemini {
	if client == nil {
		client = http.DefaultClient
	}
	return &Gemini{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		dir:     dir,
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type rawCandidate struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// Classify implements Classifier.
func (g *Gemini) Classify(ctx context.Context, description string, category domain.Category) (domain.Classification, error) {
	candidates, err := g.Candidates(ctx, description)
	if err != nil {
		return domain.Classification{}, err
	}
	if len(candidates) == 0 {
		return domain.Classification{}, fmt.Errorf("%w: no candidates for description", apperr.ErrUnavailable)
	}

	best := candidates[0]
	if g.dir != nil {
		if cl, err := g.dir.Lookup(ctx, best.Code); err == nil {
			return cl, nil
		}
	}
	return domain.Classification{
		Code:              best.Code,
		Description:       best.Reason,
		RequiredDocuments: documentsByCategory[category],
	}, nil
}

// Candidates implements Classifier. It validates the description, queries the
// model and returns at most three ten-digit codes.
func (g *Gemini) Candidates(ctx context.Context, description string) ([]domain.Candidate, error) {
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(
		`You are a customs classification assistant. Given a product description, return a JSON array of up to 3 objects with fields "code" (a 10-digit TN VED code, digits only) and "reason" (one short sentence). Return only the JSON array.

Product description: %s`, description)

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini: %v", apperr.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: gemini status %d", apperr.ErrUnavailable, resp.StatusCode)
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: gemini: decode response: %v", apperr.ErrUnavailable, err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: gemini: empty response", apperr.ErrUnavailable)
	}

	return parseCandidates(out.Candidates[0].Content.Parts[0].Text)
}

func validateDescription(description string) error {
	d := strings.TrimSpace(description)
	if d == "" {
		return fmt.Errorf("%w: description is empty", apperr.ErrInvalid)
	}
	if utf8.RuneCountInString(d) > maxDescriptionInput {
		return fmt.Errorf("%w: description longer than %d characters", apperr.ErrInvalid, maxDescriptionInput)
	}
	lower := strings.ToLower(d)
	for _, frag := range dangerousFragments {
		if strings.Contains(lower, frag) {
			return fmt.Errorf("%w: description contains disallowed content", apperr.ErrInvalid)
		}
	}
	return nil
}

// parseCandidates extracts the JSON array from the model reply, tolerating
// markdown code fences and surrounding prose, and keeps only well-formed
// ten-digit codes.
func parseCandidates(text string) ([]domain.Candidate, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	arr := jsonArrayPattern.FindString(text)
	if arr == "" {
		return nil, fmt.Errorf("%w: gemini: no JSON array in reply", apperr.ErrUnavailable)
	}

	var raw []rawCandidate
	if err := json.Unmarshal([]byte(arr), &raw); err != nil {
		return nil, fmt.Errorf("%w: gemini: malformed JSON array: %v", apperr.ErrUnavailable, err)
	}

	out := make([]domain.Candidate, 0, maxCandidates)
	for _, c := range raw {
		code := strings.ReplaceAll(strings.TrimSpace(c.Code), ".", "")
		if !codePattern.MatchString(code) {
			continue
		}
		reason := strings.TrimSpace(c.Reason)
		if r := []rune(reason); len(r) > maxReasonLen {
			reason = string(r[:maxReasonLen])
		}
		out = append(out, domain.Candidate{Code: code, Reason: reason})
		if len(out) == maxCandidates {
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: gemini: no valid codes in reply", apperr.ErrUnavailable)
	}
	return out, nil
}
