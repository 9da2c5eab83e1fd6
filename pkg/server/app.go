package server

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"XSPMonitor/internal/domain/repository"
	"XSPMonitor/pkg/config"
	xhttp "XSPMonitor/pkg/http"
	applogger "XSPMonitor/pkg/logger"
)

// Scheduler is the periodic analysis job.
type Scheduler interface {
	Start(spec string) error
	Stop(ctx context.Context)
}

// Runner is a background feed (a streaming quote source) that runs until ctx ends.
type Runner interface {
	Run(ctx context.Context) error
}

type unwrapper interface {
	Unwrap() repository.QuoteSource
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handler    xhttp.Handler
	scheduler  Scheduler
	feed       Runner
	httpServer *xhttp.Server
	wg         sync.WaitGroup
}

// New creates a new App. source is started in the background when it
// (or the source it wraps) implements Runner.
func New(cfg *config.Config, l *applogger.Logger, handler xhttp.Handler, scheduler Scheduler, source repository.QuoteSource) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{
		cfg:       cfg,
		log:       l.Component("app"),
		handler:   handler,
		scheduler: scheduler,
		feed:      FindRunner(source),
	}
}

// FindRunner returns the Runner behind src, following Unwrap chains.
func FindRunner(src repository.QuoteSource) Runner {
	for src != nil {
		if r, ok := src.(Runner); ok {
			return r
		}
		u, ok := src.(unwrapper)
		if !ok {
			return nil
		}
		src = u.Unwrap()
	}
	return nil
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts every component and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.feed != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			if err := a.feed.Run(ctx); err != nil && ctx.Err() == nil {
				a.log.Error("quote feed stopped", applogger.Error(err))
			}
		}()
		a.log.Info("quote feed started")
	}

	if a.cfg.Scheduler.Enabled && a.scheduler != nil {
		if err := a.scheduler.Start(a.cfg.Scheduler.Spec); err != nil {
			return err
		}
	}

	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(a.log),
	)
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("xsp monitor running",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("quotes", a.cfg.Quotes.Source),
		applogger.Bool("scheduler", a.cfg.Scheduler.Enabled))

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.cfg.Scheduler.Enabled && a.scheduler != nil {
		a.scheduler.Stop(ctx)
	}

	var err error
	if a.httpServer != nil {
		if err = a.httpServer.Stop(ctx); err != nil {
			a.log.Error("http shutdown error", applogger.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		a.log.Warn("quote feed did not stop in time")
	}

	a.log.Info("shutdown complete")
	return err
}
