package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/Checker-Finance/market-snapshot/internal/metrics"
	"github.com/Checker-Finance/market-snapshot/pkg/logger"
	"github.com/Checker-Finance/market-snapshot/pkg/model"
)

const eventType = "market.snapshot.v1"

// Publisher wraps a NATS connection and publishes canonical snapshot events.
type Publisher struct {
	nc      *nats.Conn
	js      nats.JetStreamContext
	subject string
	service string
}

// New creates a new Publisher with JetStream enabled if available.
func New(nc *nats.Conn, subject, service string) (*Publisher, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}
	return &Publisher{
		nc:      nc,
		js:      js,
		subject: subject,
		service: service,
	}, nil
}

// PublishSnapshot serializes and publishes a reconciled snapshot. Cache hits
// are not republished; callers only invoke this for fresh reconciliations.
func (p *Publisher) PublishSnapshot(_ context.Context, snap *model.MarketSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		logger.S().Errorw("publisher.marshal_failed",
			"subject", p.subject,
			"instrument_id", snap.InstrumentID,
			"error", err,
		)
		return err
	}

	msg := &nats.Msg{
		Subject: p.subject,
		Data:    data,
		Header: nats.Header{
			"event_type":     []string{eventType},
			"correlation_id": []string{uuid.NewString()},
			"service":        []string{p.service},
			"content_type":   []string{"application/json"},
			"venue":          []string{snap.Source},
			"instrument_id":  []string{snap.InstrumentID},
		},
	}

	start := time.Now()
	_, err = p.js.PublishMsg(msg)
	metrics.ObserveDuration(metrics.NATSMessageLatency, start, p.subject)

	if err != nil {
		logger.S().Errorw("publisher.publish_failed",
			"subject", p.subject,
			"instrument_id", snap.InstrumentID,
			"error", err,
		)
		metrics.NATSPublishErrors.WithLabelValues(p.subject).Inc()
		return err
	}

	return nil
}
