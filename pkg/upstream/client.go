// Package upstream calls the hosted model endpoints that perform the actual
// media generation.
package upstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"

	"github.com/morezero/media-bridge/pkg/catalog"
)

const logPrefix = "upstream:client"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// longBudgetMultiplier scales the base timeout for long-running media jobs
// (video, audio, 3D).
const longBudgetMultiplier = 5

// requestIDHeader carries the upstream request identifier; used for logging
// only.
const requestIDHeader = "X-Fal-Request-Id"

// maxResponseBytes caps how much of a response body is read. Model endpoints
// return small JSON payloads; artifacts are fetched separately by URL.
const maxResponseBytes = 8 << 20

// Response is the opaque structured payload of one upstream call.
type Response struct {
	// Raw is the response body; its shape varies per backend and is only
	// interpreted by the extract package.
	Raw []byte
	// RequestID identifies the upstream job, when the backend reports one.
	RequestID string
}

// ClientParams holds parameters for NewClient.
type ClientParams struct {
	BaseURL     string
	APIKey      string
	BaseTimeout time.Duration
	// HTTPClient overrides the transport; nil uses a plain client. The
	// per-call deadline comes from the invocation context, not the client.
	HTTPClient *http.Client
}

// Client issues one synchronous call per invocation to a model endpoint.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	baseTimeout time.Duration
}

// NewClient creates a new upstream Client.
func NewClient(params ClientParams) *Client {
	hc := params.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		httpClient:  hc,
		baseURL:     params.BaseURL,
		apiKey:      params.APIKey,
		baseTimeout: params.BaseTimeout,
	}
}

// Budget returns the timeout budget for a latency class.
func (c *Client) Budget(class catalog.LatencyClass) time.Duration {
	if class == catalog.LatencyLong {
		return c.baseTimeout * longBudgetMultiplier
	}
	return c.baseTimeout
}

// Invoke posts the validated argument record to the operation's model
// endpoint, racing the round trip against the latency-class budget. The
// deadline tears the call down; a late upstream result is never read.
func (c *Client) Invoke(ctx context.Context, op *catalog.Operation, args map[string]interface{}) (*Response, error) {
	body, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("%s - encode request for %s: %w", logPrefix, op.Name, err)
	}

	budget := c.Budget(op.Latency)
	callCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	url := c.baseURL + "/" + op.Model
	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s - build request for %s: %w", logPrefix, op.Name, err)
	}
	req.Header.Set("Authorization", "Key "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if callCtx.Err() != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			slog.Warn(fmt.Sprintf("%s - %s abandoned after %s budget", logPrefix, op.Name, budget))
			return nil, &TimeoutError{Tool: op.Name, Budget: budget}
		}
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if callCtx.Err() != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return nil, &TimeoutError{Tool: op.Name, Budget: budget}
		}
		return nil, fmt.Errorf("%s - read response for %s: %w", logPrefix, op.Name, err)
	}

	requestID := resp.Header.Get(requestIDHeader)
	slog.Debug(fmt.Sprintf("%s - %s -> %s in %s (request %s)",
		logPrefix, op.Name, resp.Status, time.Since(started).Round(time.Millisecond), requestID))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Code:   resp.StatusCode,
			Status: resp.Status,
			Detail: extractDetail(raw),
		}
	}

	return &Response{Raw: raw, RequestID: requestID}, nil
}

// extractDetail pulls a human-readable message out of an error body. Backends
// report either a "detail" string or a list of field errors with "msg"
// entries.
func extractDetail(raw []byte) string {
	if d := gjson.GetBytes(raw, "detail"); d.Exists() {
		if d.Type == gjson.String {
			return d.String()
		}
		if d.IsArray() {
			if msg := d.Get("0.msg"); msg.Exists() {
				return msg.String()
			}
			return d.Raw
		}
	}
	if m := gjson.GetBytes(raw, "message"); m.Type == gjson.String {
		return m.String()
	}
	return ""
}
