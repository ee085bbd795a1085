// Package ga implements a client for the Google Analytics Data API v1beta.
package ga

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	gadomain "github.com/niaga-platform/service-analytics/internal/domain/ga"
)

const (
	// DefaultBaseURL is the production Analytics Data API endpoint.
	DefaultBaseURL = "https://analyticsdata.googleapis.com"

	// ReadonlyScope is the OAuth scope required for report queries.
	ReadonlyScope = "https://www.googleapis.com/auth/analytics.readonly"
)

// Client is the Analytics Data API client with service-account
// authentication and automatic retry on transient failures.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	logger      *zap.Logger
	retryPolicy *gadomain.RetryPolicy
}

// ClientConfig holds configuration for the analytics client.
type ClientConfig struct {
	// CredentialsJSON is a Google service-account key payload.
	CredentialsJSON []byte
	BaseURL         string
	Logger          *zap.Logger
	RetryPolicy     *gadomain.RetryPolicy
	RequestTimeout  time.Duration

	// HTTPClient overrides the OAuth transport when set.
	HTTPClient *http.Client
}

// NewClient creates a new Analytics Data API client. The service-account
// credentials are exchanged for bearer tokens lazily on first request.
func NewClient(cfg *ClientConfig) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	retryPolicy := cfg.RetryPolicy
	if retryPolicy == nil {
		retryPolicy = gadomain.DefaultRetryPolicy()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// A caller-supplied client is used as-is; only the internally built
	// OAuth client gets the request timeout.
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		if len(cfg.CredentialsJSON) == 0 {
			return nil, gadomain.ErrNotConfigured
		}
		jwtConfig, err := google.JWTConfigFromJSON(cfg.CredentialsJSON, ReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("invalid service account credentials: %w", err)
		}
		httpClient = oauth2.NewClient(context.Background(), jwtConfig.TokenSource(context.Background()))
		httpClient.Timeout = timeout
	}

	return &Client{
		baseURL:     baseURL,
		httpClient:  httpClient,
		logger:      logger,
		retryPolicy: retryPolicy,
	}, nil
}

// RunReport executes a historical report query against the given property.
func (c *Client) RunReport(ctx context.Context, property string, req *RunReportRequest) (*ReportResponse, error) {
	path := fmt.Sprintf("/v1beta/%s:runReport", normalizeProperty(property))
	var resp ReportResponse
	if err := c.do(ctx, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RunRealtimeReport executes a realtime report query against the given property.
func (c *Client) RunRealtimeReport(ctx context.Context, property string, req *RunRealtimeReportRequest) (*ReportResponse, error) {
	path := fmt.Sprintf("/v1beta/%s:runRealtimeReport", normalizeProperty(property))
	var resp ReportResponse
	if err := c.do(ctx, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do performs an HTTP request with automatic retry on retryable errors.
func (c *Client) do(ctx context.Context, path string, body interface{}, result interface{}) error {
	executor := gadomain.NewExecutor(c.retryPolicy)

	retryResult := executor.Execute(ctx, func() error {
		return c.doRequest(ctx, path, body, result)
	})

	if retryResult.LastError != nil {
		c.logger.Error("analytics API request failed after retries",
			zap.String("path", path),
			zap.Int("attempts", retryResult.Attempts),
			zap.Duration("duration", retryResult.Duration),
			zap.Error(retryResult.LastError),
		)
		return retryResult.LastError
	}

	return nil
}

// doRequest performs a single HTTP request without retry.
func (c *Client) doRequest(ctx context.Context, path string, body interface{}, result interface{}) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("analytics API request completed",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(startTime)),
	)

	if resp.StatusCode >= 400 {
		apiErr := parseAPIError(respBody, resp.StatusCode)
		c.logger.Warn("analytics API error",
			zap.String("path", path),
			zap.String("status", apiErr.Status.String()),
			zap.String("category", string(apiErr.Category())),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// parseAPIError maps a Google API error payload to a domain APIError.
func parseAPIError(body []byte, httpStatus int) *gadomain.APIError {
	var payload struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Status != "" {
		return gadomain.NewAPIError(
			gadomain.ParseStatus(payload.Error.Status),
			payload.Error.Message,
			httpStatus,
		)
	}
	return gadomain.NewAPIError(
		gadomain.StatusUnknown,
		fmt.Sprintf("HTTP error: %d", httpStatus),
		httpStatus,
	)
}

// normalizeProperty accepts either a bare numeric property ID or a full
// "properties/123" resource name.
func normalizeProperty(property string) string {
	if strings.HasPrefix(property, "properties/") {
		return property
	}
	return "properties/" + property
}
