package loader

import (
	"context"
	"sync"
	"sync/atomic"

	"dsjobs/common/dataset"

	"go.uber.org/zap"
)

type workerManager struct {
	loader *Loader
	logger *zap.Logger
}

func newWorkerManager(loader *Loader, logger *zap.Logger) *workerManager {
	return &workerManager{
		loader: loader,
		logger: logger,
	}
}

// startWorkers drains rows with n publishers. Workers keep draining after ctx is
// cancelled so the feeder never blocks; they just stop publishing.
func (w *workerManager) startWorkers(ctx context.Context, n int, stats *Stats, rows <-chan dataset.RawPosting) *sync.WaitGroup {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for raw := range rows {
				if ctx.Err() != nil {
					atomic.AddInt32(&stats.Failed, 1)
					continue
				}
				if err := w.loader.publishRow(ctx, raw); err != nil {
					w.logger.Error("failed to publish raw posting",
						zap.String("record_id", raw.Index),
						zap.Error(err))
					atomic.AddInt32(&stats.Failed, 1)
					continue
				}
				atomic.AddInt32(&stats.Published, 1)
			}
		}()
	}
	return &wg
}
