package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/rs/zerolog"

	"github.com/sodafoundation/delfin-sub001/pkg/logger"
	"github.com/sodafoundation/delfin-sub001/pkg/models"
)

var (
	errWebhookDisabled   = fmt.Errorf("webhook sink is disabled")
	errInvalidJSON       = fmt.Errorf("invalid JSON generated")
	errWebhookStatus     = fmt.Errorf("webhook returned non-200 status")
	errTemplateParse     = fmt.Errorf("template parsing failed")
	errTemplateExecution = fmt.Errorf("template execution failed")
)

// WebhookConfig configures the webhook alert sink.
type WebhookConfig struct {
	Enabled  bool          `json:"enabled"`
	URL      string        `json:"url"`
	Headers  []Header      `json:"headers,omitempty"`  // Custom headers
	Template string        `json:"template,omitempty"` // Optional JSON template
	Cooldown time.Duration `json:"cooldown,omitempty"`
}

type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (w *WebhookConfig) UnmarshalJSON(data []byte) error {
	type Alias WebhookConfig

	aux := &struct {
		Cooldown string `json:"cooldown"`
		*Alias
	}{
		Alias: (*Alias)(w),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.Cooldown != "" {
		duration, err := time.ParseDuration(aux.Cooldown)
		if err != nil {
			return fmt.Errorf("invalid cooldown format: %w", err)
		}

		w.Cooldown = duration
	}

	return nil
}

// WebhookSink POSTs each alert batch as JSON to a configured endpoint.
// An optional cooldown suppresses repeated deliveries of the same match key.
type WebhookSink struct {
	config        WebhookConfig
	client        *http.Client
	lastSentTimes map[string]time.Time
	mu            sync.Mutex
	bufferPool    *sync.Pool
	log           zerolog.Logger
}

func NewWebhookSink(config WebhookConfig) *WebhookSink {
	return &WebhookSink{
		config: config,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		lastSentTimes: make(map[string]time.Time),
		bufferPool: &sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
		log: logger.Component("webhook-sink"),
	}
}

func (*WebhookSink) Name() string { return "webhook" }

func (w *WebhookSink) Dispatch(ctx context.Context, batch []models.CanonicalAlert) error {
	if !w.config.Enabled {
		return errWebhookDisabled
	}

	deliverable := w.filterCooldown(batch)
	if len(deliverable) == 0 {
		return nil
	}

	payload, err := w.preparePayload(deliverable)
	if err != nil {
		return fmt.Errorf("failed to prepare payload: %w", err)
	}

	return w.sendRequest(ctx, payload)
}

// filterCooldown drops alerts whose match key was delivered within the
// cooldown window. Fault alerts are never filtered.
func (w *WebhookSink) filterCooldown(batch []models.CanonicalAlert) []models.CanonicalAlert {
	if w.config.Cooldown <= 0 {
		return batch
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]models.CanonicalAlert, 0, len(batch))

	for _, alert := range batch {
		if alert.Category != models.CategoryFault {
			last, seen := w.lastSentTimes[alert.MatchKey]
			if seen && time.Since(last) < w.config.Cooldown {
				w.log.Debug().Str("match_key", alert.MatchKey).Msg("alert within cooldown, skipping")
				continue
			}
		}

		w.lastSentTimes[alert.MatchKey] = time.Now()
		out = append(out, alert)
	}

	return out
}

func (w *WebhookSink) preparePayload(batch []models.CanonicalAlert) ([]byte, error) {
	if w.config.Template == "" {
		buf := w.bufferPool.Get().(*bytes.Buffer)
		buf.Reset()
		defer w.bufferPool.Put(buf)

		enc := json.NewEncoder(buf)
		if err := enc.Encode(batch); err != nil {
			return nil, fmt.Errorf("failed to marshal batch: %w", err)
		}

		return append([]byte(nil), buf.Bytes()...), nil
	}

	return w.executeTemplate(batch)
}

func (w *WebhookSink) executeTemplate(batch []models.CanonicalAlert) ([]byte, error) {
	tmpl, err := template.New("webhook").
		Funcs(w.getTemplateFuncs()).
		Parse(w.config.Template)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errTemplateParse, err)
	}

	buf := w.bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer w.bufferPool.Put(buf)

	if err := tmpl.Execute(buf, map[string]interface{}{
		"alerts": batch,
	}); err != nil {
		return nil, fmt.Errorf("%w: %w", errTemplateExecution, err)
	}

	if !json.Valid(buf.Bytes()) {
		return nil, errInvalidJSON
	}

	return append([]byte(nil), buf.Bytes()...), nil
}

func (w *WebhookSink) getTemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"json": func(v interface{}) (string, error) {
			buf := w.bufferPool.Get().(*bytes.Buffer)
			buf.Reset()
			defer w.bufferPool.Put(buf)

			enc := json.NewEncoder(buf)
			if err := enc.Encode(v); err != nil {
				return "", fmt.Errorf("JSON marshaling failed: %w", err)
			}

			return buf.String(), nil
		},
	}
}

func (w *WebhookSink) sendRequest(ctx context.Context, payload []byte) error {
	buf := w.bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer w.bufferPool.Put(buf)

	buf.Write(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.config.URL, buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	w.setHeaders(req)

	resp, err := w.client.Do(req) //nolint:bodyclose // Response body is closed later
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			w.log.Warn().Err(err).Msg("failed to close response body")
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBuf := w.bufferPool.Get().(*bytes.Buffer)
		errBuf.Reset()
		defer w.bufferPool.Put(errBuf)

		_, _ = io.Copy(errBuf, resp.Body)

		return fmt.Errorf("%w: status=%d body=%s", errWebhookStatus, resp.StatusCode, errBuf.String())
	}

	return nil
}

func (w *WebhookSink) setHeaders(req *http.Request) {
	hasContentType := false

	for _, header := range w.config.Headers {
		if strings.EqualFold(header.Key, "content-type") {
			hasContentType = true
		}

		req.Header.Set(header.Key, header.Value)
	}

	if !hasContentType {
		req.Header.Set("Content-Type", "application/json")
	}
}
