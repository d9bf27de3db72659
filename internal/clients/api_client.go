package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"admin_console/internal/domain"
	"admin_console/pkg/requestid"

	"github.com/sirupsen/logrus"
)

// Request describes one call to the remote API. Path is relative to the
// client's base URL.
type Request struct {
	Method       string
	Path         string
	Body         io.Reader
	ContentType  string
	AuthRequired bool
	Credentials  domain.Credentials
}

// APIClient is the only component that talks HTTP to the remote API.
// It never retries.
type APIClient struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger
}

func NewAPIClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		log: logger,
	}
}

func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// Call sends req and returns the raw JSON body of a 2xx answer (nil when
// the body is empty). Failures wrap domain.ErrNetwork or domain.ErrParse,
// or are a *domain.HTTPStatusError.
func (c *APIClient) Call(ctx context.Context, req Request) (json.RawMessage, error) {
	url := c.baseURL + req.Path
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, req.Body)
	if err != nil {
		c.log.Errorf("APIClient: Failed to create %s request for %s: %v", req.Method, url, err)
		return nil, fmt.Errorf("%w: failed to create request: %w", domain.ErrNetwork, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	if rid := requestid.FromContext(ctx); rid != "" {
		httpReq.Header.Set(requestid.Header, rid)
	}

	token := ""
	if req.Credentials != nil {
		token = req.Credentials.BearerToken()
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	} else if req.AuthRequired {
		c.log.Warnf("APIClient: No bearer token for authenticated call %s %s, sending without credentials", req.Method, req.Path)
	}

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.log.Errorf("APIClient: Failed to execute %s %s: %v", req.Method, req.Path, err)
		return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrNetwork, req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Errorf("APIClient: Failed to read response body of %s %s: %v", req.Method, req.Path, err)
		return nil, fmt.Errorf("%w: reading response: %w", domain.ErrNetwork, err)
	}

	entry := c.log.WithFields(logrus.Fields{
		"method":      req.Method,
		"path":        req.Path,
		"status_code": resp.StatusCode,
		"latency_ms":  time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &domain.HTTPStatusError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
		if resp.StatusCode >= 500 {
			entry.Errorf("APIClient: Remote API failed: %s", statusErr.Message)
		} else {
			entry.Warnf("APIClient: Remote API rejected request: %s", statusErr.Message)
		}
		return nil, statusErr
	}
	entry.Debug("APIClient: Call completed")

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	if !json.Valid(body) {
		c.log.Errorf("APIClient: Response of %s %s is not valid JSON", req.Method, req.Path)
		return nil, fmt.Errorf("%w: %s %s returned non-JSON body", domain.ErrParse, req.Method, req.Path)
	}
	return json.RawMessage(body), nil
}

// errorMessage pulls a human readable message out of an error body.
// Servers answer with {"error": ...}, {"message": ...} or {"Message": ...}.
func errorMessage(body []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		msg := strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return msg
	}
	for _, key := range []string{"error", "message", "Message", "msg"} {
		if s, ok := payload[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
