package dispatch

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sodafoundation/delfin-sub001/pkg/logger"
	"github.com/sodafoundation/delfin-sub001/pkg/models"
)

// LogAlertSink writes every alert as a structured log record. Mostly useful
// for development and as a delivery channel of last resort.
type LogAlertSink struct {
	log zerolog.Logger
}

func NewLogAlertSink() *LogAlertSink {
	return &LogAlertSink{log: logger.Component("alert-log")}
}

func (*LogAlertSink) Name() string { return "log" }

func (s *LogAlertSink) Dispatch(_ context.Context, batch []models.CanonicalAlert) error {
	for i := range batch {
		alert := &batch[i]

		s.log.Info().
			Str("storage_id", alert.StorageID).
			Str("alert_id", alert.AlertID).
			Str("severity", string(alert.Severity)).
			Str("category", string(alert.Category)).
			Str("match_key", alert.MatchKey).
			Int64("occur_time", alert.OccurTime).
			Msg(alert.AlertName)
	}

	return nil
}

// LogMetricSink mirrors LogAlertSink for the metric channel.
type LogMetricSink struct {
	log zerolog.Logger
}

func NewLogMetricSink() *LogMetricSink {
	return &LogMetricSink{log: logger.Component("metric-log")}
}

func (*LogMetricSink) Name() string { return "log" }

func (s *LogMetricSink) Dispatch(_ context.Context, batch []models.MetricPoint) error {
	for i := range batch {
		point := &batch[i]

		s.log.Debug().
			Str("storage_id", point.StorageID).
			Int64("response_time_us", point.ResponseTime).
			Bool("success", point.Success).
			Time("timestamp", point.Timestamp).
			Msg("probe sample")
	}

	return nil
}
