package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-pipeline/internal/service"
)

// Runner периодически прогоняет полный цикл конвейера в фоне.
// Одна горутина: структуры оркестратора остаются однопоточными,
// сериализацию с HTTP-запросами обеспечивает мьютекс сервиса.
type Runner struct {
	service  *service.PipelineService
	logger   *zap.Logger
	interval time.Duration
	wg       sync.WaitGroup
	stop     chan struct{}
}

func NewRunner(svc *service.PipelineService, logger *zap.Logger, interval time.Duration) *Runner {
	return &Runner{
		service:  svc,
		logger:   logger,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (r *Runner) Start(ctx context.Context) {
	r.logger.Info("Starting pipeline runner", zap.Duration("interval", r.interval))

	r.wg.Add(1)
	go r.run(ctx)
}

func (r *Runner) Stop() {
	r.logger.Info("Stopping pipeline runner...")
	close(r.stop)
	r.wg.Wait()
	r.logger.Info("Pipeline runner stopped")
}

func (r *Runner) run(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			res, err := r.service.RunCycle(ctx)
			if err != nil {
				r.logger.Error("pipeline cycle failed", zap.Error(err))
				continue
			}
			// Пустые циклы не журналируем
			if res.Persisted > 0 || res.Loaded > 0 || res.Executed > 0 {
				r.logger.Info("pipeline cycle finished",
					zap.Int("persisted", res.Persisted),
					zap.Int("loaded", res.Loaded),
					zap.Int("executed", res.Executed),
				)
			}
		}
	}
}
