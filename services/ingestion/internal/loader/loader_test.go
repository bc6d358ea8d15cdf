package loader

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dsjobs/common/dataset"
	domainerrors "dsjobs/common/errors"
	"dsjobs/common/metrics"
)

const header = "index,Job Title,Salary Estimate,Job Description,Rating,Company Name,Location,Headquarters,Size,Founded,Type of ownership,Industry,Sector,Revenue,Competitors\n"

func csvRows(n int) string {
	var b strings.Builder
	b.WriteString(header)
	for i := 0; i < n; i++ {
		b.WriteString(",Data Scientist,$75K-$131K (Glassdoor est.),Spark,3.5,\"Acme\n3.5\",Remote,,,2001,,,,,-1\n")
	}
	return b.String()
}

type fakePublisher struct {
	mu        sync.Mutex
	published []dataset.RawPosting
	failOn    string
}

func (p *fakePublisher) PublishRawPosting(_ context.Context, posting dataset.RawPosting) error {
	if posting.Index == p.failOn {
		return errors.New("publish failed")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, posting)
	return nil
}

func (p *fakePublisher) Close() {}

func newTestLoader(t *testing.T, pub *fakePublisher, workers int) (*Loader, *metrics.Pipeline) {
	t.Helper()
	m, err := metrics.NewPipeline(prometheus.NewRegistry(), "test")
	require.NoError(t, err)
	return NewLoader(pub, zap.NewNop(), m, workers), m
}

func TestLoadPublishesEveryRow(t *testing.T) {
	pub := &fakePublisher{}
	l, m := newTestLoader(t, pub, 4)

	stats, err := l.Load(context.Background(), strings.NewReader(csvRows(25)))
	require.NoError(t, err)

	assert.Equal(t, int32(25), stats.Read)
	assert.Equal(t, int32(25), stats.Published)
	assert.Equal(t, int32(0), stats.Failed)
	assert.Equal(t, 25.0, testutil.ToFloat64(m.Records.WithLabelValues(metrics.StagePublished)))

	var ids []string
	for _, p := range pub.published {
		ids = append(ids, p.Index)
	}
	sort.Strings(ids)
	assert.Len(t, ids, 25)
	assert.Equal(t, "0", ids[0])
}

func TestLoadCountsPublishFailures(t *testing.T) {
	pub := &fakePublisher{failOn: "3"}
	l, _ := newTestLoader(t, pub, 2)

	stats, err := l.Load(context.Background(), strings.NewReader(csvRows(5)))
	require.NoError(t, err)
	assert.Equal(t, int32(5), stats.Read)
	assert.Equal(t, int32(4), stats.Published)
	assert.Equal(t, int32(1), stats.Failed)
}

func TestLoadRejectsBadHeader(t *testing.T) {
	l, _ := newTestLoader(t, &fakePublisher{}, 1)

	_, err := l.Load(context.Background(), strings.NewReader("a,b,c\n1,2,3\n"))
	assert.True(t, domainerrors.IsType(err, domainerrors.ErrTypeInvalidInput))
}

func TestLoadCancelled(t *testing.T) {
	pub := &fakePublisher{}
	l, _ := newTestLoader(t, pub, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := l.Load(ctx, strings.NewReader(csvRows(10)))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, stats.Read, stats.Published+stats.Failed)
}
