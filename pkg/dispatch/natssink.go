package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/sodafoundation/delfin-sub001/pkg/models"
)

const (
	defaultAlertSubject  = "delfin.alerts"
	defaultMetricSubject = "delfin.metrics"
)

// NatsConfig configures the NATS event sinks.
type NatsConfig struct {
	Enabled       bool   `json:"enabled"`
	AlertSubject  string `json:"alert_subject,omitempty"`
	MetricSubject string `json:"metric_subject,omitempty"`
}

// alertEvent is the envelope published per batch, CloudEvents-flavoured so
// downstream consumers can route on type without decoding the payload.
type alertEvent struct {
	SpecVersion     string                  `json:"specversion"`
	ID              string                  `json:"id"`
	Source          string                  `json:"source"`
	Type            string                  `json:"type"`
	DataContentType string                  `json:"datacontenttype"`
	Time            time.Time               `json:"time"`
	Data            []models.CanonicalAlert `json:"data"`
}

type metricEvent struct {
	SpecVersion     string               `json:"specversion"`
	ID              string               `json:"id"`
	Source          string               `json:"source"`
	Type            string               `json:"type"`
	DataContentType string               `json:"datacontenttype"`
	Time            time.Time            `json:"time"`
	Data            []models.MetricPoint `json:"data"`
}

// NatsAlertSink publishes alert batches as JSON events. Publishing is
// fire-and-forget on the client's internal buffer, so the trap loop is not
// held up by a slow broker.
type NatsAlertSink struct {
	nc      *nats.Conn
	subject string
}

func NewNatsAlertSink(nc *nats.Conn, cfg NatsConfig) *NatsAlertSink {
	subject := cfg.AlertSubject
	if subject == "" {
		subject = defaultAlertSubject
	}

	return &NatsAlertSink{nc: nc, subject: subject}
}

func (*NatsAlertSink) Name() string { return "nats" }

func (s *NatsAlertSink) Dispatch(_ context.Context, batch []models.CanonicalAlert) error {
	event := alertEvent{
		SpecVersion:     "1.0",
		ID:              uuid.New().String(),
		Source:          "delfin/alert-pipeline",
		Type:            "org.sodafoundation.delfin.alert",
		DataContentType: "application/json",
		Time:            time.Now().UTC(),
		Data:            batch,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}

	if err := s.nc.Publish(s.subject, payload); err != nil {
		return fmt.Errorf("failed to publish alert event: %w", err)
	}

	return nil
}

// NatsMetricSink publishes probe metric batches as JSON events.
type NatsMetricSink struct {
	nc      *nats.Conn
	subject string
}

func NewNatsMetricSink(nc *nats.Conn, cfg NatsConfig) *NatsMetricSink {
	subject := cfg.MetricSubject
	if subject == "" {
		subject = defaultMetricSubject
	}

	return &NatsMetricSink{nc: nc, subject: subject}
}

func (*NatsMetricSink) Name() string { return "nats" }

func (s *NatsMetricSink) Dispatch(_ context.Context, batch []models.MetricPoint) error {
	event := metricEvent{
		SpecVersion:     "1.0",
		ID:              uuid.New().String(),
		Source:          "delfin/alert-pipeline",
		Type:            "org.sodafoundation.delfin.metric",
		DataContentType: "application/json",
		Time:            time.Now().UTC(),
		Data:            batch,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal metric event: %w", err)
	}

	if err := s.nc.Publish(s.subject, payload); err != nil {
		return fmt.Errorf("failed to publish metric event: %w", err)
	}

	return nil
}
