// Package events publishes analytics telemetry events over NATS.
package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Event subjects
const (
	SubjectReportFetched  = "analytics.report.fetched"
	SubjectFallbackServed = "analytics.fallback.served"
)

// ReportFetchedEvent is emitted after a genuine (non-fallback) report fetch.
type ReportFetchedEvent struct {
	ReportType string    `json:"report_type"`
	StartDate  string    `json:"start_date,omitempty"`
	EndDate    string    `json:"end_date,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// FallbackServedEvent is emitted when a request is answered with
// placeholder data, so ops can alert on sustained degradation.
type FallbackServedEvent struct {
	ReportType string    `json:"report_type"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher publishes analytics events to NATS. A nil Publisher is safe to
// call and publishes nothing, matching the optional NATS wiring in main.
type Publisher struct {
	nc     *nats.Conn
	logger *zap.Logger
}

// NewPublisher creates a new event publisher.
func NewPublisher(nc *nats.Conn, logger *zap.Logger) *Publisher {
	return &Publisher{
		nc:     nc,
		logger: logger,
	}
}

// ReportFetched publishes a report fetched event.
func (p *Publisher) ReportFetched(reportType, startDate, endDate string) {
	p.publish(SubjectReportFetched, ReportFetchedEvent{
		ReportType: reportType,
		StartDate:  startDate,
		EndDate:    endDate,
		Timestamp:  time.Now(),
	})
}

// FallbackServed publishes a fallback served event.
func (p *Publisher) FallbackServed(reportType string) {
	p.publish(SubjectFallbackServed, FallbackServedEvent{
		ReportType: reportType,
		Timestamp:  time.Now(),
	})
}

func (p *Publisher) publish(subject string, event interface{}) {
	if p == nil || p.nc == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("failed to marshal event", zap.Error(err), zap.String("subject", subject))
		return
	}

	if err := p.nc.Publish(subject, data); err != nil {
		p.logger.Warn("failed to publish event", zap.Error(err), zap.String("subject", subject))
		return
	}

	p.logger.Debug("published event", zap.String("subject", subject))
}
