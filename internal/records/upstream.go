package records

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ricevute/internal/core"
)

// UpstreamClient talks to the ingestion pipeline's HTTP gateway. All
// mutations go through the gateway's single action endpoint and are
// told apart by payload shape, which is how the pipeline routes them.
type UpstreamClient struct {
	baseURL string
	http    *http.Client
}

// NewUpstreamClient builds a client for the given gateway base URL.
// A nil httpClient falls back to a 15s-timeout default.
func NewUpstreamClient(baseURL string, httpClient *http.Client) *UpstreamClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &UpstreamClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// ListRecords fetches and decodes the full record set.
func (c *UpstreamClient) ListRecords(ctx context.Context) ([]core.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/invoices", nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list records: upstream status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, fmt.Errorf("read list response: %w", err)
	}
	return DecodeRecords(body)
}

// UpdateBudget posts a new ceiling for a user.
func (c *UpstreamClient) UpdateBudget(ctx context.Context, userID string, amount decimal.Decimal) error {
	return c.postAction(ctx, map[string]any{
		"user_id":       userID,
		"budget_amount": amount.String(),
	})
}

// ResolveRisk acknowledges a flagged record.
func (c *UpstreamClient) ResolveRisk(ctx context.Context, invoiceID string) error {
	return c.postAction(ctx, map[string]any{
		"action":     "resolve",
		"invoice_id": invoiceID,
	})
}

// RecordPayment marks a bill as paid.
func (c *UpstreamClient) RecordPayment(ctx context.Context, invoiceID string) error {
	return c.postAction(ctx, map[string]any{
		"invoice_id": invoiceID,
	})
}

func (c *UpstreamClient) postAction(ctx context.Context, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode action: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pay", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build action request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post action: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("post action: upstream status %d", resp.StatusCode)
	}
	return nil
}
