package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/hjmartin/autobidder/internal/model"
)

// doRequest performs one HTTP round trip and classifies failures. There
// is deliberately no retry loop here: every failure is surfaced exactly
// once so the scheduler can count it.
func (c *HTTPClient) doRequest(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.platform != "" {
		req.Header.Set("X-Platform", c.platform)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: model.ErrTransient, Reason: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: model.ErrTransient, Reason: fmt.Sprintf("read response: %v", err)}
	}

	if resp.StatusCode >= 400 {
		reason := http.StatusText(resp.StatusCode)
		var errBody struct {
			Reason string `json:"reason"`
		}
		if json.Unmarshal(data, &errBody) == nil && errBody.Reason != "" {
			reason = errBody.Reason
		}
		return nil, &Error{
			Kind:   classifyStatus(resp.StatusCode),
			Reason: reason,
			Code:   resp.StatusCode,
		}
	}

	return data, nil
}

// get performs a GET request and decodes the JSON response.
func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, result any) error {
	data, err := c.doRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, result); err != nil {
		return &Error{Kind: model.ErrTransient, Reason: fmt.Sprintf("unmarshal response: %v", err)}
	}
	return nil
}
