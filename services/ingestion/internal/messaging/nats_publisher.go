package messaging

import (
	"context"
	"encoding/json"
	"time"

	"dsjobs/common/dataset"
	"dsjobs/common/errors"
	"dsjobs/common/telemetry"
	"dsjobs/services/ingestion/internal/config"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("dsjobs/ingestion/messaging")

type Publisher interface {
	PublishRawPosting(ctx context.Context, posting dataset.RawPosting) error
	Close()
}

type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

type natsPublisher struct {
	conn    conn
	subject string
	logger  *zap.Logger
}

func NewPublisher(logger *zap.Logger, config *config.Config) (Publisher, error) {
	opts := []nats.Option{
		nats.Timeout(config.NATSConnTimeout),
		nats.Name("ingestion-service"),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	}

	nc, err := nats.Connect(config.NATSURL, opts...)
	if err != nil {
		return nil, errors.Unavailable("connecting to NATS", err)
	}

	return &natsPublisher{
		conn:    nc,
		subject: config.RawSubject,
		logger:  logger,
	}, nil
}

func (p *natsPublisher) PublishRawPosting(ctx context.Context, posting dataset.RawPosting) error {
	_, span := tracer.Start(ctx, "PublishRawPosting")
	defer span.End()

	data, err := json.Marshal(posting)
	if err != nil {
		span.RecordError(err)
		return errors.Internal("marshaling raw posting", err)
	}

	span.SetAttributes(
		telemetry.String("nats.subject", p.subject),
		telemetry.String("record.id", posting.Index),
		telemetry.Int("message.size", len(data)),
	)

	if err := p.conn.Publish(p.subject, data); err != nil {
		span.RecordError(err)
		p.logger.Error("failed to publish raw posting",
			zap.String("record_id", posting.Index),
			zap.Error(err))
		return errors.Unavailable("publishing to NATS", err)
	}

	p.logger.Debug("published raw posting",
		zap.String("record_id", posting.Index),
		zap.String("subject", p.subject))
	return nil
}

// Close flushes buffered messages before closing, so a one-shot load does not
// lose its tail.
func (p *natsPublisher) Close() {
	if p.conn == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := p.conn.FlushWithContext(ctx); err != nil {
		p.logger.Warn("failed to flush NATS connection", zap.Error(err))
	}
	p.conn.Close()
}
