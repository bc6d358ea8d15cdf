package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"dsjobs/common/dataset"
	domainerrors "dsjobs/common/errors"
	"dsjobs/common/metrics"
	"dsjobs/common/telemetry"
	"dsjobs/services/ingestion/internal/messaging"

	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("dsjobs/ingestion/loader")

// Stats counts one Load.
type Stats struct {
	Read      int32
	Published int32
	Failed    int32
}

type Loader struct {
	publisher     messaging.Publisher
	logger        *zap.Logger
	metrics       *metrics.Pipeline
	workerManager *workerManager
	workers       int

	mutex    sync.Mutex
	isActive bool
}

func NewLoader(publisher messaging.Publisher, logger *zap.Logger, m *metrics.Pipeline, workers int) *Loader {
	if workers < 1 {
		workers = 1
	}
	l := &Loader{
		publisher: publisher,
		logger:    logger,
		metrics:   m,
		workers:   workers,
	}
	l.workerManager = newWorkerManager(l, logger)
	return l
}

// Load reads every row of r and publishes it. Publish failures are counted and
// logged; only read errors and cancellation stop the load.
func (l *Loader) Load(ctx context.Context, r io.Reader) (*Stats, error) {
	ctx, span := tracer.Start(ctx, "Loader.Load")
	defer span.End()

	l.mutex.Lock()
	if l.isActive {
		l.mutex.Unlock()
		return nil, domainerrors.Rejected("load already in progress", nil)
	}
	l.isActive = true
	l.mutex.Unlock()
	defer func() {
		l.mutex.Lock()
		l.isActive = false
		l.mutex.Unlock()
	}()

	reader, err := dataset.NewReader(r)
	if err != nil {
		span.RecordError(err)
		return nil, domainerrors.InvalidInput("reading CSV header", err)
	}

	stats := &Stats{}
	rows := make(chan dataset.RawPosting, l.workers)
	wg := l.workerManager.startWorkers(ctx, l.workers, stats, rows)

	readErr := l.feedRows(ctx, reader, stats, rows)
	close(rows)
	wg.Wait()

	span.SetAttributes(
		telemetry.Int("rows.read", int(stats.Read)),
		telemetry.Int("rows.published", int(stats.Published)),
		telemetry.Int("rows.failed", int(stats.Failed)),
	)
	l.logger.Info("completed loading raw postings",
		zap.Int32("read", stats.Read),
		zap.Int32("published", stats.Published),
		zap.Int32("failed", stats.Failed))

	if readErr != nil {
		span.RecordError(readErr)
		return stats, readErr
	}
	return stats, nil
}

func (l *Loader) feedRows(ctx context.Context, reader *dataset.Reader, stats *Stats, rows chan<- dataset.RawPosting) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return domainerrors.InvalidInput(fmt.Sprintf("reading row %d", stats.Read+1), err)
		}
		atomic.AddInt32(&stats.Read, 1)
		l.metrics.Inc(metrics.StageRead)

		select {
		case rows <- raw:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Loader) publishRow(ctx context.Context, raw dataset.RawPosting) error {
	if err := l.publisher.PublishRawPosting(ctx, raw); err != nil {
		return err
	}
	l.metrics.Inc(metrics.StagePublished)
	return nil
}
