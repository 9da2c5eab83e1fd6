//go:build wireinject
// +build wireinject

package di

import (
	"XSPMonitor/internal/usecase"
	"XSPMonitor/pkg/config"
	"XSPMonitor/pkg/server"

	"github.com/google/wire"
)

var analyzerSet = wire.NewSet(
	// Ambient
	ProvideLogger,
	ProvideMetrics,
	ProvideCache,

	// Engine
	ProvideRules,
	ProvideEngine,

	// Collaborators
	ProvideQuoteSource,
	ProvideCalendar,
	ProvidePublisher,

	// Use cases
	ProvideAnalyzer,
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		analyzerSet,
		ProvideScheduler,
		ProvideHandler,
		ProvideApp,
	)
	return nil, nil, nil
}

// InitializeAnalyzer wires the analyzer alone for one-shot CLI runs.
func InitializeAnalyzer(cfg *config.Config) (*usecase.Analyzer, func(), error) {
	wire.Build(analyzerSet)
	return nil, nil, nil
}
