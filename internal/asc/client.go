// Package asc is a minimal App Store Connect client covering the
// matchmaking rule set test endpoint.
package asc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gamecenter-tools/matchrules/internal/errors"
	"github.com/gamecenter-tools/matchrules/internal/models"
)

// DefaultTimeout guards the single rule set test call.
const DefaultTimeout = 30 * time.Second

// APIError is a non-success answer from the App Store Connect API. Payload
// holds the raw response body so the caller can print it verbatim.
type APIError struct {
	StatusCode int
	Errors     []models.ErrorDetail
	Payload    []byte
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		first := e.Errors[0]
		return fmt.Sprintf("rule set test failed with status %d: %s (%s)", e.StatusCode, first.Title, first.Code)
	}
	return fmt.Sprintf("rule set test failed with status %d", e.StatusCode)
}

// Client calls the gameCenterMatchmakingRuleSetTests endpoint.
type Client struct {
	url string
	hc  *http.Client
}

// NewClient creates a client for the given endpoint URL. A non-positive
// timeout falls back to DefaultTimeout.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url: url,
		hc:  &http.Client{Timeout: timeout},
	}
}

// TestRuleSet POSTs body and returns the raw matchmakingResults fragment of
// the response, byte order untouched. An answer carrying an errors array
// comes back as *APIError with the raw payload attached; transport failures
// and non-JSON responses are wrapped as request errors. The call is made
// once, no retries.
func (c *Client) TestRuleSet(ctx context.Context, token string, body *models.RuleSetTestRequest) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.NewRequestError("failed to encode request body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.NewRequestError("failed to build request", err)
	}
	req.Header.Set("Authorization", authBearer(token))
	req.Header.Set("Content-Type", "application/json")

	logrus.Debugf("POST %s", c.url)
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, errors.NewRequestError(fmt.Sprintf("POST %s failed", c.url), err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewRequestError("failed to read response body", err)
	}
	logrus.Debugf("response status %s", resp.Status)
	logrus.Debugf("response body %s", raw)

	var parsed models.RuleSetTestResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, errors.NewRequestError(
			fmt.Sprintf("response is not valid JSON (status %d)", resp.StatusCode),
			err,
		)
	}

	if len(parsed.Errors) > 0 {
		return nil, &APIError{StatusCode: resp.StatusCode, Errors: parsed.Errors, Payload: raw}
	}
	if resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Payload: raw}
	}
	if parsed.Data == nil || len(parsed.Data.Attributes.MatchmakingResults) == 0 {
		return nil, errors.NewRequestError("response carries no matchmakingResults", nil)
	}
	return parsed.Data.Attributes.MatchmakingResults, nil
}

// authBearer turns a raw token into an Authorization header value. A value
// already carrying the Bearer prefix passes through unchanged.
func authBearer(token string) string {
	if strings.HasPrefix(token, "Bearer ") {
		return token
	}
	return "Bearer " + token
}
