package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Stages counted by Pipeline.Records.
const (
	StageRead      = "read"
	StagePublished = "published"
	StageCleaned   = "cleaned"
	StageRejected  = "rejected"
	StageSkipped   = "skipped"
	StageStored    = "stored"
)

type Pipeline struct {
	Records       *prometheus.CounterVec
	FieldFailures *prometheus.CounterVec
	BatchDuration prometheus.Histogram
}

// NewPipeline builds the collectors and registers them with reg.
func NewPipeline(reg prometheus.Registerer, service string) (*Pipeline, error) {
	labels := prometheus.Labels{"service": service}

	p := &Pipeline{
		Records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "dsjobs_records_total",
				Help:        "Job posting records by pipeline stage",
				ConstLabels: labels,
			},
			[]string{"stage"},
		),
		FieldFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "dsjobs_record_failures_total",
				Help:        "Field derivation failures by field",
				ConstLabels: labels,
			},
			[]string{"field"},
		),
		BatchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:        "dsjobs_batch_duration_seconds",
				Help:        "Time spent cleaning and storing one batch",
				ConstLabels: labels,
				Buckets:     prometheus.DefBuckets,
			},
		),
	}

	for _, c := range []prometheus.Collector{p.Records, p.FieldFailures, p.BatchDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Pipeline) Inc(stage string) {
	p.Records.WithLabelValues(stage).Inc()
}

func (p *Pipeline) Add(stage string, n int) {
	p.Records.WithLabelValues(stage).Add(float64(n))
}

func (p *Pipeline) FieldFailed(field string) {
	p.FieldFailures.WithLabelValues(field).Inc()
}
