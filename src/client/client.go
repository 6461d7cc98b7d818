// Package client talks to a running journal API on behalf of one user.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"

	"tradejournal/src/auth"
	"tradejournal/src/performance"
)

type Client struct {
	http *resty.Client
}

// APIError is a non-2xx answer from the journal API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

func isRetryableResp(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}

	if r == nil {
		return false
	}

	code := r.StatusCode()

	if code >= 500 && code <= 599 {
		return true
	}
	if code == http.StatusTooManyRequests {
		return true
	}
	if code == http.StatusRequestTimeout {
		return true
	}
	return false
}

func New(config Config, userID string) *Client {
	retryCount := config.RetryAttempts - 1
	if retryCount < 0 {
		retryCount = 0
	}

	httpClient := resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(config.Timeout).
		SetRetryCount(retryCount).
		SetRetryWaitTime(config.RetryBaseDelay).
		SetRetryMaxWaitTime(config.RetryMaxBackoff).
		AddRetryCondition(isRetryableResp).
		SetHeader(auth.HeaderUserID, userID).
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient}
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}

	raw := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		msg := string(raw)
		if json.Unmarshal(raw, &body) == nil && body.Error != "" {
			msg = body.Error
		}
		logger.WithFields(map[string]interface{}{
			"path":   path,
			"status": resp.StatusCode(),
		}).Warn("journal API returned an error")
		return &APIError{StatusCode: resp.StatusCode(), Message: msg}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) Performance(ctx context.Context) (*performance.Summary, error) {
	var summary performance.Summary
	if err := c.get(ctx, "/api/trades/performance", &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) Stats(ctx context.Context) (*performance.QuickStats, error) {
	var stats performance.QuickStats
	if err := c.get(ctx, "/api/trades/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
