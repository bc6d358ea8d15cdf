package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"dsjobs/common/dataset"
	"dsjobs/common/metrics"
	"dsjobs/services/processing/internal/cleaner"
	"dsjobs/services/processing/internal/config"
	"dsjobs/services/processing/internal/processor"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func cleanAction(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd.Bool("debug"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	policy, err := config.ParseFailurePolicy(cmd.String("policy"))
	if err != nil {
		return err
	}

	year := int(cmd.Int("current-year"))
	if year == 0 {
		year = time.Now().Year()
	}

	cleanerCfg, err := cleaner.ApplyRulesFile(cmd.String("rules"), cleaner.DefaultConfig(year))
	if err != nil {
		return err
	}
	cl, err := cleaner.New(cleanerCfg)
	if err != nil {
		return err
	}

	in, err := os.Open(cmd.String("input"))
	if err != nil {
		return err
	}
	defer in.Close()

	out, closeOut, err := openOutput(cmd.String("output"))
	if err != nil {
		return err
	}
	defer closeOut()

	var rejects io.Writer
	if path := cmd.String("rejects"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		rejects = f
	}

	m, err := metrics.NewPipeline(prometheus.NewRegistry(), "dsclean")
	if err != nil {
		return err
	}

	proc := processor.NewJobProcessor(logger, processor.NewJSONLinesStore(out, rejects), nil, nil, cl, m, processor.Options{
		Policy:      policy,
		Workers:     int(cmd.Int("workers")),
		CurrentYear: year,
	})

	reader, err := dataset.NewReader(in)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.String("input"), err)
	}

	batchSize := int(cmd.Int("batch-size"))
	if batchSize < 1 {
		batchSize = 1
	}

	start := time.Now()
	total, err := cleanAll(ctx, reader, proc, batchSize)
	if err != nil {
		return err
	}

	logger.Info("cleaned postings",
		zap.Int("read", total.Total),
		zap.Int("cleaned", total.Cleaned),
		zap.Int("rejected", total.Rejected),
		zap.Int("written", total.Stored),
		zap.Int("rejected_fields", len(total.Rejections)),
		zap.String("policy", string(policy)),
		zap.Int("current_year", year),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// cleanAll streams the reader through proc one batch at a time and sums the reports.
func cleanAll(ctx context.Context, reader *dataset.Reader, proc *processor.JobProcessor, batchSize int) (processor.BatchReport, error) {
	var total processor.BatchReport
	batch := make([]dataset.RawPosting, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		report, err := proc.ProcessBatch(ctx, batch)
		if err != nil {
			return err
		}
		total.Total += report.Total
		total.Cleaned += report.Cleaned
		total.Rejected += report.Rejected
		total.Stored += report.Stored
		total.Rejections = append(total.Rejections, report.Rejections...)
		batch = batch[:0]
		return nil
	}

	for {
		raw, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return total, err
		}
		batch = append(batch, raw)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	return total, flush()
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
