// Package watson submits record summaries to an IBM Watson Assistant style
// message endpoint and interprets the reply as a confirmation.
package watson

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GiovaTC/HEXA-IBM/apperr"
	"github.com/GiovaTC/HEXA-IBM/config"
)

// DefaultTimeout bounds one confirmation call.
const DefaultTimeout = 10 * time.Second

const maxResponseBytes = 1 << 20

type MessageRequest struct {
	Input MessageInput `json:"input"`
}

type MessageInput struct {
	Text string `json:"text"`
}

// Summary is the natural-language description of a record sent for confirmation.
type Summary struct {
	RecordID int64
	HexInput string
	Sin      float64
	Cos      float64
}

func (s Summary) Text() string {
	return fmt.Sprintf("Confirm trig record %d: hex input %q, sine %.6f, cosine %.6f.",
		s.RecordID, s.HexInput, s.Sin, s.Cos)
}

// Reply is a successfully decoded service response.
type Reply struct {
	Body   json.RawMessage
	Truthy bool
}

type Client struct {
	apiKey     string
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

func New(cfg config.WatsonConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		url:        strings.TrimSpace(cfg.URL),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("watson"),
	}
}

// Validate fails when the API key or endpoint URL is missing. It never touches the network.
func (c *Client) Validate() error {
	if c == nil || c.apiKey == "" || c.url == "" {
		return apperr.New(apperr.KindInvalidConfiguration, "watson", "api key and endpoint url are required for confirmation")
	}
	return nil
}

// Confirm posts the summary and decodes the JSON reply. Any transport,
// status or decoding failure is reported as KindConfirmationService.
func (c *Client) Confirm(ctx context.Context, summary Summary) (*Reply, error) {
	const op = "watson confirm"
	if err := c.Validate(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(MessageRequest{Input: MessageInput{Text: summary.Text()}})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConfirmationService, op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConfirmationService, op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	// IBM Cloud accepts the API key as basic auth with the literal user "apikey".
	req.SetBasicAuth("apikey", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConfirmationService, op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConfirmationService, op, err)
	}
	c.logger.Debug("Watson responded",
		zap.Int64("record_id", summary.RecordID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.Newf(apperr.KindConfirmationService, op, "status %d: %s", resp.StatusCode, truncate(string(body), 256))
	}

	var decoded any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&decoded); err != nil {
		return nil, apperr.Wrap(apperr.KindConfirmationService, op, fmt.Errorf("malformed json: %w", err))
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, apperr.New(apperr.KindConfirmationService, op, "malformed json: trailing data")
	}

	return &Reply{Body: json.RawMessage(bytes.TrimSpace(body)), Truthy: truthy(decoded)}, nil
}

// truthy treats null, false, zero, "" and empty containers as a negative answer.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	case string:
		return x != ""
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	}
	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
