package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	domainErrors "github.com/altmarket/storefront/internal/domain/errors"
	"github.com/altmarket/storefront/internal/domain/model"
)

// CreateIntentRequest carries the parameters for a new remote payment intent.
type CreateIntentRequest struct {
	Amount      float64
	Currency    string
	Description string
	Metadata    map[string]string
}

// Client is the capability interface around an external payment provider.
// It is the single source of truth for whether money moved; everything else
// in the system only reacts to what it reports.
type Client interface {
	CreateIntent(ctx context.Context, req CreateIntentRequest) (*model.RemoteIntent, error)
	RetrieveIntent(ctx context.Context, providerID string) (*model.RemoteIntent, error)
}

// StripeClient implements Client against a Stripe-shaped HTTP API.
type StripeClient struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// intentResponse mirrors the provider's payment intent payload.
type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	LatestCharge string `json:"latest_charge"`
	LastError    *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"last_payment_error"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewStripeClient creates the provider client with default timeout.
func NewStripeClient(baseURL, apiKey string, logger *slog.Logger) (*StripeClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	return &StripeClient{
		baseURL: parsed,
		apiKey:  apiKey,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// CreateIntent registers a payment intent with the provider. Amount is sent
// in the provider's minor-unit integer convention.
func (c *StripeClient) CreateIntent(ctx context.Context, req CreateIntentRequest) (*model.RemoteIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(minorUnits(req.Amount), 10))
	form.Set("currency", req.Currency)
	if req.Description != "" {
		form.Set("description", req.Description)
	}
	for k, v := range req.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("payment_intents"), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	return c.do(httpReq)
}

// RetrieveIntent fetches the current state of a payment intent.
func (c *StripeClient) RetrieveIntent(ctx context.Context, providerID string) (*model.RemoteIntent, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("payment_intents", providerID), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	return c.do(httpReq)
}

func (c *StripeClient) endpoint(parts ...string) string {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(append([]string{endpoint.Path, "v1"}, parts...)...)
	return endpoint.String()
}

func (c *StripeClient) do(req *http.Request) (*model.RemoteIntent, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domainErrors.ErrGatewayUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		var data intentResponse
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, fmt.Errorf("decode gateway response: %w", err)
		}
		return toRemoteIntent(data), nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, domainErrors.ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		c.logger.Warn("gateway transient failure", slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrGatewayUnavailable, resp.Status)
	default:
		var data errorResponse
		_ = json.Unmarshal(body, &data)
		c.logger.Error("gateway rejected request",
			slog.Int("status", resp.StatusCode),
			slog.String("code", data.Error.Code),
			slog.String("message", data.Error.Message),
		)
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrInvalidAmount, data.Error.Message)
	}
}

func toRemoteIntent(data intentResponse) *model.RemoteIntent {
	return &model.RemoteIntent{
		ProviderID:    data.ID,
		ClientSecret:  data.ClientSecret,
		Status:        mapStatus(data),
		TransactionID: data.LatestCharge,
	}
}

// mapStatus folds provider status strings into the four states the rest of
// the system understands. A declined attempt surfaces as requires_payment_method
// with last_payment_error set, which is a FAILED outcome for us.
func mapStatus(data intentResponse) model.RemoteStatus {
	if data.LastError != nil {
		return model.RemoteStatusFailed
	}
	switch data.Status {
	case "succeeded":
		return model.RemoteStatusSucceeded
	case "canceled":
		return model.RemoteStatusCanceled
	case "processing", "requires_payment_method", "requires_confirmation", "requires_action", "requires_capture":
		return model.RemoteStatusRequiresAction
	default:
		return model.RemoteStatusFailed
	}
}

func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
