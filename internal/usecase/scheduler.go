package usecase

import (
	"context"
	"fmt"
	"time"

	applogger "XSPMonitor/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the analysis on a cron schedule and publishes each result.
type Scheduler struct {
	analyzer *Analyzer
	cron     *cron.Cron
	capital  float64
	timeout  time.Duration
	log      *applogger.Logger
}

// NewScheduler creates a scheduler evaluating capital in loc's wall clock.
func NewScheduler(analyzer *Analyzer, capital float64, loc *time.Location, l *applogger.Logger) *Scheduler {
	if l == nil {
		l = applogger.Nop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		analyzer: analyzer,
		cron:     cron.New(cron.WithLocation(loc)),
		capital:  capital,
		timeout:  time.Minute,
		log:      l.Component("scheduler"),
	}
}

// Start registers spec (five-field cron) and begins running.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return fmt.Errorf("schedule %q: %w", spec, err)
	}
	s.cron.Start()
	s.log.Info("scheduler started", applogger.String("spec", spec))
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
	}
	s.log.Info("scheduler stopped")
}

// RunOnce performs one scheduled run.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	a, err := s.analyzer.Analyze(ctx, AnalyzeRequest{
		Capital:    s.capital,
		NewsPolicy: NewsPolicyConfig,
		Publish:    true,
	})
	if err != nil {
		s.log.Error("scheduled analysis failed", applogger.Error(err))
		return
	}
	s.log.Info("scheduled analysis",
		applogger.String("kind", string(a.Recommendation.Kind())),
		applogger.Float64("capital", s.capital))
}
