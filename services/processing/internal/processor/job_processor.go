package processor

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"dsjobs/common/cache"
	"dsjobs/common/dataset"
	domainerrors "dsjobs/common/errors"
	"dsjobs/common/metrics"
	"dsjobs/common/telemetry"
	"dsjobs/services/processing/internal/cleaner"
	"dsjobs/services/processing/internal/config"
	"dsjobs/services/processing/internal/models"

	"github.com/zeebo/xxh3"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Store persists cleaned postings and the rejections produced while cleaning them.
type Store interface {
	InsertPostings(ctx context.Context, postings []models.CleanPosting) error
	InsertRejections(ctx context.Context, rejections []models.Rejection) error
}

// Rejector announces rejections to downstream consumers.
type Rejector interface {
	PublishRejections(ctx context.Context, rejections []models.Rejection) error
}

// BatchReport summarizes one ProcessBatch call.
type BatchReport struct {
	Total      int
	Cleaned    int
	Stored     int
	Rejected   int
	Skipped    int
	Rejections []models.Rejection
}

type JobProcessor struct {
	logger   *zap.Logger
	store    Store
	cache    cache.Cache
	rejector Rejector
	cleaner  *cleaner.Cleaner
	metrics  *metrics.Pipeline
	tracer   trace.Tracer

	policy      config.FailurePolicy
	workers     int
	cacheTTL    time.Duration
	currentYear int
	now         func() time.Time
}

type Options struct {
	Policy      config.FailurePolicy
	Workers     int
	CacheTTL    time.Duration
	CurrentYear int
}

// NewJobProcessor wires a processor. c and rejector may be nil: without a cache
// every record is cleaned, without a rejector rejections are only stored.
func NewJobProcessor(logger *zap.Logger, store Store, c cache.Cache, rejector Rejector, cl *cleaner.Cleaner, m *metrics.Pipeline, opts Options) *JobProcessor {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Policy == "" {
		opts.Policy = config.PolicySkip
	}
	return &JobProcessor{
		logger:      logger,
		store:       store,
		cache:       c,
		rejector:    rejector,
		cleaner:     cl,
		metrics:     m,
		tracer:      telemetry.GetTracer("dsjobs/processing/processor"),
		policy:      opts.Policy,
		workers:     opts.Workers,
		cacheTTL:    opts.CacheTTL,
		currentYear: opts.CurrentYear,
		now:         time.Now,
	}
}

type outcome struct {
	posting     models.CleanPosting
	keep        bool
	skipped     bool
	rejections  []models.Rejection
	fingerprint string
}

// ProcessBatch cleans raws with at most the configured number of goroutines and
// stores the survivors in one write. Record-level failures never abort the batch;
// only storage failures and cancellation are returned as errors.
func (p *JobProcessor) ProcessBatch(ctx context.Context, raws []dataset.RawPosting) (BatchReport, error) {
	ctx, span := p.tracer.Start(ctx, "ProcessBatch")
	defer span.End()
	span.SetAttributes(telemetry.Int("batch.size", len(raws)))

	start := time.Now()
	defer func() { p.metrics.BatchDuration.Observe(time.Since(start).Seconds()) }()

	report := BatchReport{Total: len(raws)}
	outcomes := make([]outcome, len(raws))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := range raws {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			outcomes[i] = p.processOne(gctx, raws[i])
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		return report, err
	}

	var postings []models.CleanPosting
	var processed []string
	for _, o := range outcomes {
		switch {
		case o.skipped:
			report.Skipped++
			continue
		case len(o.rejections) > 0:
			report.Rejected++
			report.Rejections = append(report.Rejections, o.rejections...)
		default:
			report.Cleaned++
		}
		if o.keep {
			postings = append(postings, o.posting)
		}
		processed = append(processed, o.fingerprint)
	}

	if len(postings) > 0 {
		if err := p.store.InsertPostings(ctx, postings); err != nil {
			span.RecordError(err)
			return report, domainerrors.Unavailable("storing cleaned postings", err)
		}
		report.Stored = len(postings)
	}

	if len(report.Rejections) > 0 {
		if err := p.store.InsertRejections(ctx, report.Rejections); err != nil {
			span.RecordError(err)
			return report, domainerrors.Unavailable("storing rejections", err)
		}
		if p.rejector != nil {
			if err := p.rejector.PublishRejections(ctx, report.Rejections); err != nil {
				p.logger.Warn("failed to publish rejections",
					zap.Int("count", len(report.Rejections)),
					zap.Error(err))
			}
		}
	}

	p.remember(ctx, processed)

	p.metrics.Add(metrics.StageCleaned, report.Cleaned)
	p.metrics.Add(metrics.StageRejected, report.Rejected)
	p.metrics.Add(metrics.StageSkipped, report.Skipped)
	p.metrics.Add(metrics.StageStored, report.Stored)

	span.SetAttributes(
		telemetry.Int("batch.cleaned", report.Cleaned),
		telemetry.Int("batch.rejected", report.Rejected),
		telemetry.Int("batch.skipped", report.Skipped),
	)
	p.logger.Debug("processed batch",
		zap.Int("total", report.Total),
		zap.Int("cleaned", report.Cleaned),
		zap.Int("rejected", report.Rejected),
		zap.Int("skipped", report.Skipped),
		zap.Int("stored", report.Stored))

	return report, nil
}

// ProcessJobPosting cleans a single JSON-encoded raw posting.
func (p *JobProcessor) ProcessJobPosting(ctx context.Context, data []byte) (BatchReport, error) {
	var raw dataset.RawPosting
	if err := json.Unmarshal(data, &raw); err != nil {
		return BatchReport{}, domainerrors.InvalidInput("decoding raw posting", err)
	}
	return p.ProcessBatch(ctx, []dataset.RawPosting{raw})
}

func (p *JobProcessor) processOne(ctx context.Context, raw dataset.RawPosting) outcome {
	o := outcome{fingerprint: p.fingerprint(raw)}

	if p.cache != nil {
		seen, err := p.cache.Exists(ctx, o.fingerprint)
		if err != nil {
			p.logger.Warn("fingerprint lookup failed", zap.String("record_id", raw.Index), zap.Error(err))
		} else if seen {
			o.skipped = true
			return o
		}
	}

	posting, err := p.cleaner.Clean(raw)
	posting.ProcessedAt = p.now().UTC()
	o.posting = posting
	if err == nil {
		o.keep = true
		return o
	}

	o.rejections = p.rejectionsFor(raw, posting, err)
	o.keep = p.policy == config.PolicyNullFill
	return o
}

func (p *JobProcessor) rejectionsFor(raw dataset.RawPosting, posting models.CleanPosting, err error) []models.Rejection {
	var recErr *cleaner.RecordError
	if !errors.As(err, &recErr) {
		recErr = &cleaner.RecordError{
			RecordID: raw.Index,
			Failures: []*cleaner.FieldError{{Field: "record", Err: err}},
		}
	}

	rejections := make([]models.Rejection, 0, len(recErr.Failures))
	for _, f := range recErr.Failures {
		p.metrics.FieldFailed(f.Field)
		p.logger.Warn("record field rejected",
			zap.String("record_id", raw.Index),
			zap.String("field", f.Field),
			zap.String("raw", f.Raw),
			zap.Error(f.Err),
			zap.String("policy", string(p.policy)))

		rejections = append(rejections, models.Rejection{
			RecordID:   raw.Index,
			PostingID:  posting.ID,
			Field:      f.Field,
			Raw:        f.Raw,
			Reason:     f.Err.Error(),
			RejectedAt: posting.ProcessedAt,
		})
	}
	return rejections
}

// fingerprint keys the processed-record cache on the full raw row plus the
// processing year, so a new year re-derives company ages.
func (p *JobProcessor) fingerprint(raw dataset.RawPosting) string {
	fields := []string{
		raw.Index, raw.JobTitle, raw.SalaryEstimate, raw.JobDescription,
		strconv.FormatFloat(raw.Rating, 'g', -1, 64), raw.CompanyName, raw.Location,
		raw.Headquarters, raw.Size, raw.Founded, raw.TypeOfOwnership, raw.Industry,
		raw.Sector, raw.Revenue, raw.Competitors, strconv.Itoa(p.currentYear),
	}
	sum := xxh3.HashString128(strings.Join(fields, "\x1f")).Bytes()
	return "cleaned:" + hex.EncodeToString(sum[:])
}

func (p *JobProcessor) remember(ctx context.Context, fingerprints []string) {
	if p.cache == nil {
		return
	}
	for _, fp := range fingerprints {
		if err := p.cache.Set(ctx, fp, "1", p.cacheTTL); err != nil {
			p.logger.Warn("failed to cache fingerprint", zap.String("key", fp), zap.Error(err))
			return
		}
	}
}
