// internal/adapters/backend/client.go
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ammerola/franchise-reconcile/internal/core/domain"
	"github.com/ammerola/franchise-reconcile/internal/core/ports"
)

// ErrRejected is returned for 4xx responses other than 429
var ErrRejected = ports.ErrSubmissionRejected

// Config holds backend connection settings
type Config struct {
	BaseURL string
	// Token is sent as a static bearer token when SigningSecret is empty
	Token         string
	SigningSecret string
	Issuer        string
	Timeout       time.Duration
}

// Client submits finished documents to the upstream backend
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

var _ ports.DocumentSubmitter = (*Client)(nil)

// NewClient creates a backend client. A nil httpClient gets one with cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:    cfg,
		http:   httpClient,
		logger: logger.With(slog.String("client", "backend")),
	}
}

// Endpoint returns the backend path a document kind is posted to
func Endpoint(kind domain.DocumentKind) (string, error) {
	switch kind {
	case domain.KindSupplierBill:
		return "/supplier-bills", nil
	case domain.KindFranchiseBill:
		return "/bills", nil
	case domain.KindSale:
		return "/sales", nil
	case domain.KindBrokenItems:
		return "/broken-items", nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidDocumentKind, kind)
}

type submitRequest struct {
	LocationID  int64               `json:"location_id"`
	FranchiseID *int64              `json:"franchise_id,omitempty"`
	Items       interface{}         `json:"items"`
	Reference   string              `json:"reference"`
	Kind        domain.DocumentKind `json:"kind"`
}

func requestBody(sub domain.Submission) submitRequest {
	req := submitRequest{
		LocationID:  sub.LocationID,
		FranchiseID: sub.FranchiseID,
		Reference:   sub.DraftID.String(),
		Kind:        sub.Kind,
	}
	switch sub.Kind {
	case domain.KindSale:
		req.Items = sub.SaleItems
	case domain.KindBrokenItems:
		req.Items = sub.BrokenItems
	default:
		req.Items = sub.BillItems
	}
	return req
}

// Submit posts a submission. The draft id travels as an idempotency key.
func (c *Client) Submit(ctx context.Context, sub domain.Submission) error {
	path, err := Endpoint(sub.Kind)
	if err != nil {
		return err
	}

	body, err := json.Marshal(requestBody(sub))
	if err != nil {
		return fmt.Errorf("failed to encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Idempotency-Key", sub.DraftID.String())

	token, err := c.bearerToken()
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.InfoContext(ctx, "document submitted",
			slog.String("draft_id", sub.DraftID.String()),
			slog.String("kind", string(sub.Kind)),
			slog.Int("status", resp.StatusCode),
			slog.Duration("duration", time.Since(start)))
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
		return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return fmt.Errorf("backend returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
}

// bearerToken signs a short-lived service token, or falls back to the static one
func (c *Client) bearerToken() (string, error) {
	if c.cfg.SigningSecret == "" {
		return c.cfg.Token, nil
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    c.cfg.Issuer,
		Subject:   "franchise-reconcile",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(c.cfg.SigningSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign service token: %w", err)
	}
	return signed, nil
}
