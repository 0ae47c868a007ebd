package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job периодическая фоновая задача
type Job struct {
	Name     string
	Interval time.Duration
	// RunAtStart запускает задачу сразу при старте, не дожидаясь первого тика
	RunAtStart bool
	Run        func(ctx context.Context) error
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	jobs     []Job
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewScheduler создаёт новый планировщик
func NewScheduler(logger *zap.Logger, jobs ...Job) *Scheduler {
	return &Scheduler{
		jobs:     jobs,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Int("jobs", len(s.jobs)))

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runJob(ctx, job)
	}
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	defer s.wg.Done()

	if job.RunAtStart {
		s.runOnce(ctx, job)
	}

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runOnce(ctx, job)
		case <-s.stopChan:
			s.logger.Debug("Background job stopped", zap.String("job", job.Name))
			return
		case <-ctx.Done():
			s.logger.Debug("Background job cancelled", zap.String("job", job.Name))
			return
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, job Job) {
	if err := job.Run(ctx); err != nil {
		s.logger.Error("Background job failed", zap.String("job", job.Name), zap.Error(err))
	}
}
