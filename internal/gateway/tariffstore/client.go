package tariffstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"logihub/internal/apperr"
	"logihub/internal/logx"
)

// Client talks to the spreadsheet-backed tariff store over its REST API.
// Records live in named tables; each record is an id plus a flat field map.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	log     logx.Logger
}

// New builds a tariff store client. timeout bounds every request.
func New(baseURL, token string, timeout time.Duration, log logx.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = logx.Nop()
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		log:     log,
	}
}

type record struct {
	ID     string         `json:"id,omitempty"`
	Fields map[string]any `json:"fields"`
}

type recordList struct {
	Records []record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

// list fetches records from table, optionally filtered by a formula, following
// pagination until the store reports no further offset.
func (c *Client) list(ctx context.Context, table, formula string) ([]record, error) {
	var out []record
	offset := ""
	for {
		q := url.Values{}
		if formula != "" {
			q.Set("filterByFormula", formula)
		}
		if offset != "" {
			q.Set("offset", offset)
		}
		path := "/" + url.PathEscape(table)
		if len(q) > 0 {
			path += "?" + q.Encode()
		}

		var page recordList
		if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
			return nil, err
		}
		out = append(out, page.Records...)
		if page.Offset == "" {
			return out, nil
		}
		offset = page.Offset
	}
}

func (c *Client) create(ctx context.Context, table string, fields map[string]any) (record, error) {
	var out record
	err := c.do(ctx, http.MethodPost, "/"+url.PathEscape(table), record{Fields: fields}, &out)
	return out, err
}

func (c *Client) update(ctx context.Context, table, id string, fields map[string]any) (record, error) {
	var out record
	err := c.do(ctx, http.MethodPatch, "/"+url.PathEscape(table)+"/"+url.PathEscape(id), record{Fields: fields}, &out)
	return out, err
}

func (c *Client) delete(ctx context.Context, table, id string) error {
	return c.do(ctx, http.MethodDelete, "/"+url.PathEscape(table)+"/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, dst any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: tariff store: %v", apperr.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: tariff store record", apperr.ErrNotFound)
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: tariff store rejected payload", apperr.ErrInvalid)
	case resp.StatusCode >= 400:
		c.log.Warn("tariff store error", logx.Int("status", resp.StatusCode), logx.String("path", path))
		return fmt.Errorf("%w: tariff store status %d", apperr.ErrUnavailable, resp.StatusCode)
	}

	if dst == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: tariff store: decode response: %v", apperr.ErrUnavailable, err)
	}
	return nil
}
