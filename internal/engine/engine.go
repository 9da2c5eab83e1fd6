package engine

import (
	"fmt"
	"time"

	"XSPMonitor/internal/domain/models"
)

// Inputs are the resolved collaborator values for one run.
type Inputs struct {
	Snapshot  models.MarketSnapshot
	Events    []models.EconomicEvent
	EventsErr error // non-nil when the calendar could not be read
	Now       time.Time
	Capital   float64
}

// Engine composes classifier, metrics and selector over one Rules value.
// It is safe for concurrent use.
type Engine struct {
	rules    Rules
	news     *NewsClassifier
	selector *Selector
}

// New validates r and builds an Engine.
func New(r Rules) (*Engine, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("engine rules: %w", err)
	}
	return &Engine{rules: r, news: NewNewsClassifier(r), selector: NewSelector(r)}, nil
}

// Rules returns the engine's rules.
func (e *Engine) Rules() Rules { return e.rules }

// ClassifyNews runs only the news check.
func (e *Engine) ClassifyNews(events []models.EconomicEvent, eventsErr error, now time.Time) models.NewsWindowState {
	if eventsErr != nil {
		return FailedState(eventsErr)
	}
	return e.news.Classify(events, now)
}

// Levels exposes BuildLevels on the engine's rules.
func (e *Engine) Levels(price, vol float64, tier models.Tier) (models.LevelSet, error) {
	if price <= 0 || vol <= 0 {
		return models.LevelSet{}, fmt.Errorf("%w: price and vol must be positive", ErrInvalidInput)
	}
	return BuildLevels(price, vol, tier, e.rules), nil
}

// Evaluate runs the whole decision for one snapshot.
func (e *Engine) Evaluate(in Inputs) (models.Analysis, error) {
	if in.Capital < 0 {
		return models.Analysis{}, fmt.Errorf("%w: capital %.2f is negative", ErrInvalidInput, in.Capital)
	}
	und := in.Snapshot.Get(models.SymbolXSP)
	if und.Price <= 0 {
		return models.Analysis{}, fmt.Errorf("%w: no %s price", ErrDataUnavailable, models.SymbolXSP)
	}

	longVol := in.Snapshot.Price(models.SymbolVIX)
	shortVol := in.Snapshot.Price(models.SymbolVIX1D)
	if shortVol <= 0 {
		shortVol = longVol
	}
	term := TermStructure{Short: shortVol, Medium: in.Snapshot.Price(models.SymbolVIX9D), Long: longVol}
	vvix := in.Snapshot.Price(models.SymbolVVIX)

	news := e.ClassifyNews(in.Events, in.EventsErr, in.Now)
	metrics := ComputeMetrics(und.Price, und.Open, shortVol, longVol, e.rules)
	rec := e.selector.Select(SelectionInput{
		Metrics: metrics,
		News:    news,
		Term:    term,
		VVIX:    vvix,
		Capital: in.Capital,
	})

	return models.Analysis{
		Timestamp:      in.Now,
		Capital:        in.Capital,
		Recommendation: rec,
		Metrics:        metrics,
		News:           news,
		Snapshot:       in.Snapshot,
		VVIX:           vvix,
		TermStructure:  [3]float64{term.Short, term.Medium, term.Long},
	}, nil
}
