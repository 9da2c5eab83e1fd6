package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"XSPMonitor/internal/domain/models"
	drepo "XSPMonitor/internal/domain/repository"
	"XSPMonitor/internal/engine"
	applogger "XSPMonitor/pkg/logger"
)

// ErrQuotesUnavailable wraps a quote source failure that left nothing to analyse.
var ErrQuotesUnavailable = errors.New("quotes unavailable")

// NewsPolicy overrides how a failed calendar check is treated for one run.
type NewsPolicy string

const (
	NewsPolicyConfig NewsPolicy = "config" // use the configured rule
	NewsPolicyOpen   NewsPolicy = "open"   // trade through a failed check
	NewsPolicyClosed NewsPolicy = "closed" // refuse to trade on a failed check
)

// ParseNewsPolicy accepts config, open or closed; empty means config.
func ParseNewsPolicy(s string) (NewsPolicy, error) {
	switch p := NewsPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", NewsPolicyConfig:
		return NewsPolicyConfig, nil
	case NewsPolicyOpen, NewsPolicyClosed:
		return p, nil
	default:
		return "", fmt.Errorf("%w: news policy %q", engine.ErrInvalidInput, s)
	}
}

// AnalyzeRequest parameterises one run.
type AnalyzeRequest struct {
	Capital    float64
	NewsPolicy NewsPolicy
	Publish    bool
}

// Analyzer resolves quotes and calendar concurrently, runs the engine and
// reports the outcome.
type Analyzer struct {
	engines   map[NewsPolicy]*engine.Engine
	quotes    drepo.QuoteSource
	calendar  drepo.CalendarSource
	publisher drepo.AnalysisPublisher
	metrics   drepo.Metrics
	log       *applogger.Logger
	timeout   time.Duration
	now       func() time.Time
}

// NewAnalyzer builds an analyzer around eng. fetchTimeout bounds each upstream call.
func NewAnalyzer(
	eng *engine.Engine,
	quotes drepo.QuoteSource,
	calendar drepo.CalendarSource,
	publisher drepo.AnalysisPublisher,
	metrics drepo.Metrics,
	l *applogger.Logger,
	fetchTimeout time.Duration,
) (*Analyzer, error) {
	if l == nil {
		l = applogger.Nop()
	}
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}
	open, err := engine.New(eng.Rules().WithFailClosedNews(false))
	if err != nil {
		return nil, err
	}
	closed, err := engine.New(eng.Rules().WithFailClosedNews(true))
	if err != nil {
		return nil, err
	}
	return &Analyzer{
		engines: map[NewsPolicy]*engine.Engine{
			NewsPolicyConfig: eng,
			NewsPolicyOpen:   open,
			NewsPolicyClosed: closed,
		},
		quotes:    quotes,
		calendar:  calendar,
		publisher: publisher,
		metrics:   metrics,
		log:       l.Component("analyzer"),
		timeout:   fetchTimeout,
		now:       time.Now,
	}, nil
}

// Analyze runs the full decision once.
func (a *Analyzer) Analyze(ctx context.Context, req AnalyzeRequest) (models.Analysis, error) {
	start := time.Now()
	eng, ok := a.engines[req.NewsPolicy]
	if !ok {
		eng = a.engines[NewsPolicyConfig]
	}
	now := a.now().In(eng.Rules().Location)

	var (
		wg        sync.WaitGroup
		snap      models.MarketSnapshot
		quotesErr error
		events    []models.EconomicEvent
		eventsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		snap, quotesErr = a.fetchQuotes(ctx)
	}()
	go func() {
		defer wg.Done()
		events, eventsErr = a.fetchEvents(ctx, now)
	}()
	wg.Wait()

	if quotesErr != nil {
		a.metrics.RecordError("quotes")
		a.log.Error("quote fetch failed",
			applogger.String("source", a.quotes.Name()),
			applogger.Error(quotesErr))
		return models.Analysis{}, fmt.Errorf("%w: %v", ErrQuotesUnavailable, quotesErr)
	}
	a.recordSnapshot(snap)

	if eventsErr != nil {
		a.metrics.RecordError("calendar")
		a.log.Warn("calendar unavailable, news check failed",
			applogger.Error(eventsErr),
			applogger.Bool("fail_closed", eng.Rules().FailClosedOnNews))
	}

	analysis, err := eng.Evaluate(engine.Inputs{
		Snapshot:  snap,
		Events:    events,
		EventsErr: eventsErr,
		Now:       now,
		Capital:   req.Capital,
	})
	if err != nil {
		a.metrics.RecordError("evaluate")
		return models.Analysis{}, err
	}

	a.metrics.RecordNewsCheck(string(analysis.News.Status), analysis.News.Blocked)
	a.metrics.RecordAnalysis(string(analysis.Recommendation.Kind()))
	a.metrics.RecordLatency("analyze", time.Since(start).Seconds())

	a.log.Info("analysis complete",
		applogger.String("kind", string(analysis.Recommendation.Kind())),
		applogger.String("window", string(analysis.News.Window)),
		applogger.String("news_status", string(analysis.News.Status)),
		applogger.Float64("price", analysis.Metrics.Price),
		applogger.Float64("range_ratio", analysis.Metrics.RangeRatio),
		applogger.Duration("took", time.Since(start)))

	if req.Publish && a.publisher != nil {
		if err := a.publisher.Publish(ctx, analysis); err != nil {
			a.metrics.RecordError("publish")
			a.log.Error("publish analysis failed", applogger.Error(err))
		}
	}
	return analysis, nil
}

// News runs only the calendar check for the current moment.
func (a *Analyzer) News(ctx context.Context) models.NewsWindowState {
	eng := a.engines[NewsPolicyConfig]
	now := a.now().In(eng.Rules().Location)

	events, err := a.fetchEvents(ctx, now)
	if err != nil {
		a.metrics.RecordError("calendar")
		a.log.Warn("calendar unavailable", applogger.Error(err))
	}
	state := eng.ClassifyNews(events, err, now)
	a.metrics.RecordNewsCheck(string(state.Status), state.Blocked)
	return state
}

// Quotes returns the configured quote source.
func (a *Analyzer) Quotes() drepo.QuoteSource { return a.quotes }

// Levels builds a strike set without touching any collaborator.
func (a *Analyzer) Levels(price, vol float64, tier models.Tier) (models.LevelSet, error) {
	return a.engines[NewsPolicyConfig].Levels(price, vol, tier)
}

func (a *Analyzer) fetchQuotes(ctx context.Context) (models.MarketSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	snap, err := a.quotes.Snapshot(ctx, models.Instruments)
	a.metrics.RecordLatency("quotes", time.Since(start).Seconds())
	return snap, err
}

func (a *Analyzer) fetchEvents(ctx context.Context, now time.Time) ([]models.EconomicEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	events, err := a.calendar.Events(ctx, now)
	a.metrics.RecordLatency("calendar", time.Since(start).Seconds())
	return events, err
}

func (a *Analyzer) recordSnapshot(snap models.MarketSnapshot) {
	for _, sym := range models.Instruments {
		if q, ok := snap.Quotes[sym]; ok && q.Price > 0 {
			a.metrics.RecordQuote(sym, q.Price)
		}
	}
	for _, sym := range snap.Missing {
		a.metrics.RecordMissingQuote(sym)
	}
	if len(snap.Missing) > 0 {
		a.log.Warn("quotes missing",
			applogger.String("source", snap.Source),
			applogger.Strings("symbols", snap.Missing))
	}
}
