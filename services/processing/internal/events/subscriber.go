package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dsjobs/common/dataset"
	"dsjobs/common/metrics"
	"dsjobs/common/telemetry"
	"dsjobs/services/processing/internal/config"
	"dsjobs/services/processing/internal/processor"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// FieldMessage labels failure counts for messages that are not a raw posting.
const FieldMessage = "message"

type batchProcessor interface {
	ProcessBatch(ctx context.Context, raws []dataset.RawPosting) (processor.BatchReport, error)
}

// Handler consumes raw postings from NATS and hands them to the processor in
// batches of up to BatchSize, flushing early after BatchWait of silence.
type Handler struct {
	logger    *zap.Logger
	nc        *nats.Conn
	tracer    trace.Tracer
	processor batchProcessor
	metrics   *metrics.Pipeline

	subject    string
	queueGroup string
	batchSize  int
	batchWait  time.Duration
	timeout    time.Duration

	sub    *nats.Subscription
	cancel context.CancelFunc
	done   chan struct{}
}

func NewHandler(logger *zap.Logger, nc *nats.Conn, tracer trace.Tracer, jobProcessor *processor.JobProcessor, m *metrics.Pipeline, cfg *config.Config) *Handler {
	return newHandler(logger, nc, tracer, jobProcessor, m, cfg)
}

func newHandler(logger *zap.Logger, nc *nats.Conn, tracer trace.Tracer, p batchProcessor, m *metrics.Pipeline, cfg *config.Config) *Handler {
	return &Handler{
		logger:     logger,
		nc:         nc,
		tracer:     tracer,
		processor:  p,
		metrics:    m,
		subject:    cfg.RawSubject,
		queueGroup: cfg.QueueGroup,
		batchSize:  cfg.BatchSize,
		batchWait:  cfg.BatchWait,
		timeout:    cfg.ProcessingTimeout,
		done:       make(chan struct{}),
	}
}

func (h *Handler) RegisterSubscriptions(lc fx.Lifecycle) error {
	msgs := make(chan *nats.Msg, h.batchSize*2)
	sub, err := h.nc.ChanQueueSubscribe(h.subject, h.queueGroup, msgs)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", h.subject, err)
	}

	h.sub = sub
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go h.run(ctx, msgs)

	h.logger.Info("Registered NATS subscriptions",
		zap.String("subject", h.subject),
		zap.String("queue_group", h.queueGroup),
		zap.Int("batch_size", h.batchSize))

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			err := h.sub.Unsubscribe()
			h.cancel()
			select {
			case <-h.done:
			case <-ctx.Done():
				return ctx.Err()
			}
			return err
		},
	})

	return nil
}

func (h *Handler) run(ctx context.Context, msgs <-chan *nats.Msg) {
	defer close(h.done)
	for {
		batch, more := h.collect(ctx, msgs)
		if len(batch) > 0 {
			h.flush(batch)
		}
		if !more {
			return
		}
	}
}

// collect blocks for the first message, then gathers more until the batch is
// full or batchWait passes. more is false once ctx is done or msgs is closed.
func (h *Handler) collect(ctx context.Context, msgs <-chan *nats.Msg) (batch []*nats.Msg, more bool) {
	select {
	case <-ctx.Done():
		return nil, false
	case m, ok := <-msgs:
		if !ok {
			return nil, false
		}
		batch = append(batch, m)
	}

	timer := time.NewTimer(h.batchWait)
	defer timer.Stop()

	for len(batch) < h.batchSize {
		select {
		case m, ok := <-msgs:
			if !ok {
				return batch, false
			}
			batch = append(batch, m)
		case <-timer.C:
			return batch, true
		case <-ctx.Done():
			return batch, false
		}
	}
	return batch, true
}

// flush runs on its own deadline so a batch collected before shutdown still lands.
func (h *Handler) flush(batch []*nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	ctx, span := h.tracer.Start(ctx, "handleJobPostings")
	defer span.End()
	span.SetAttributes(telemetry.Int("messages", len(batch)))

	raws := h.decode(batch)
	if len(raws) == 0 {
		return
	}

	report, err := h.processor.ProcessBatch(ctx, raws)
	if err != nil {
		span.RecordError(err)
		h.logger.Error("Failed to process job postings",
			zap.Error(err),
			zap.Int("batch_size", len(raws)))
		return
	}

	h.logger.Info("Processed job postings",
		zap.Int("cleaned", report.Cleaned),
		zap.Int("rejected", report.Rejected),
		zap.Int("skipped", report.Skipped),
		zap.Int("stored", report.Stored))
}

func (h *Handler) decode(batch []*nats.Msg) []dataset.RawPosting {
	raws := make([]dataset.RawPosting, 0, len(batch))
	for _, msg := range batch {
		h.metrics.Inc(metrics.StageRead)

		var raw dataset.RawPosting
		if err := json.Unmarshal(msg.Data, &raw); err != nil {
			h.metrics.FieldFailed(FieldMessage)
			h.logger.Warn("Dropping undecodable message",
				zap.String("subject", msg.Subject),
				zap.Error(err))
			continue
		}
		raws = append(raws, raw)
	}
	return raws
}
