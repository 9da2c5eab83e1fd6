package di

import (
	"fmt"
	"time"

	"XSPMonitor/internal/domain/repository"
	"XSPMonitor/internal/engine"
	"XSPMonitor/internal/handler/api"
	internalrepo "XSPMonitor/internal/repository"
	"XSPMonitor/internal/service/finnhub"
	"XSPMonitor/internal/service/ratelimit"
	"XSPMonitor/internal/service/yahoo"
	"XSPMonitor/internal/usecase"
	"XSPMonitor/pkg/cache"
	pkgch "XSPMonitor/pkg/clickhouse"
	"XSPMonitor/pkg/config"
	pkgkafka "XSPMonitor/pkg/kafka"
	applogger "XSPMonitor/pkg/logger"
	"XSPMonitor/pkg/metrics"
	"XSPMonitor/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideRules overlays the configured thresholds on the defaults.
func ProvideRules(cfg *config.Config) (engine.Rules, error) {
	r := engine.DefaultRules()

	loc, err := time.LoadLocation(cfg.Engine.Timezone)
	if err != nil {
		return engine.Rules{}, fmt.Errorf("engine timezone: %w", err)
	}
	pre, err := engine.ParseClock(cfg.Engine.PreMarketCutoff)
	if err != nil {
		return engine.Rules{}, fmt.Errorf("pre-market cutoff: %w", err)
	}
	post, err := engine.ParseClock(cfg.Engine.PostEventCutoff)
	if err != nil {
		return engine.Rules{}, fmt.Errorf("post-event cutoff: %w", err)
	}

	r.Location = loc
	r.PreMarketCutoff = pre
	r.PostEventCutoff = post
	r.FailClosedOnNews = cfg.Engine.FailClosedOnNews
	if cfg.Engine.Country != "" {
		r.Country = cfg.Engine.Country
	}
	if len(cfg.Engine.RestrictedKeywords) > 0 {
		r.RestrictedKeywords = cfg.Engine.RestrictedKeywords
	}
	r.VVIXVeto = cfg.Engine.VVIXVeto
	r.VVIXMax = cfg.Engine.VVIXMax
	r.LongVolMax = cfg.Engine.LongVolMax
	r.RangeRatioMax = cfg.Engine.RangeRatioMax
	r.NarrowMultiplier = cfg.Engine.NarrowMultiplier
	r.WideMultiplier = cfg.Engine.WideMultiplier
	r.StructureWidth = cfg.Engine.StructureWidth
	r.RiskFraction = cfg.Engine.RiskFraction

	if err := r.Validate(); err != nil {
		return engine.Rules{}, err
	}
	return r, nil
}

// ProvideEngine builds the decision engine.
func ProvideEngine(r engine.Rules) (*engine.Engine, error) {
	return engine.New(r)
}

// ProvideMetrics creates a Prometheus recorder, or a no-op one when metrics are off.
func ProvideMetrics(cfg *config.Config) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return metrics.Nop{}
	}
	return metrics.New(prometheus.DefaultRegisterer)
}

// ProvideCache creates the shared cache: memory in front of Redis when Redis
// is enabled, memory only otherwise.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (cache.Service, func(), error) {
	if !cfg.Redis.Enabled {
		mc := cache.NewMemoryCache(cache.WithMemoryMaxSize(512), cache.WithMemoryCleanup(time.Minute))
		return mc, func() { _ = mc.Close() }, nil
	}

	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	lc := cache.NewLayeredCache(rc, cache.WithLayeredMemorySize(256), cache.WithLayeredMemoryTTL(30*time.Second))
	l.Info("redis cache connected",
		applogger.String("host", cfg.Redis.Host),
		applogger.Int("port", cfg.Redis.Port))
	return lc, func() {
		if err := lc.Close(); err != nil {
			l.Warn("cache close error", applogger.Error(err))
		}
	}, nil
}

// ProvideCalendar creates the Finnhub calendar behind the cache.
func ProvideCalendar(cfg *config.Config, c cache.Service, l *applogger.Logger) repository.CalendarSource {
	cal := finnhub.NewCalendar(finnhubConfig(cfg), l)
	return internalrepo.NewCachedCalendar(cal, c, cfg.Calendar.CacheTTL, l)
}

// ProvideQuoteSource creates the configured quote source.
func ProvideQuoteSource(cfg *config.Config, c cache.Service, l *applogger.Logger) (repository.QuoteSource, func(), error) {
	session, err := time.LoadLocation(cfg.Quotes.SessionTimezone)
	if err != nil {
		return nil, nil, fmt.Errorf("quotes session timezone: %w", err)
	}

	var (
		src     repository.QuoteSource
		cleanup = func() {}
	)
	switch cfg.Quotes.Source {
	case "yahoo":
		src = yahoo.NewQuoteSource(yahoo.Config{BaseURL: cfg.Quotes.BaseURL, Timeout: cfg.Quotes.Timeout}, cfg.Instruments, l)
	case "finnhub":
		src = finnhub.NewQuoteStream(finnhubConfig(cfg), cfg.Instruments, session, l)
	case "clickhouse":
		client, err := ProvideClickHouseClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		src = internalrepo.NewClickHouseQuoteSource(client.DB(), cfg.Quotes.Table, cfg.Instruments, session, l)
		cleanup = func() {
			if err := client.Close(); err != nil {
				l.Warn("clickhouse close error", applogger.Error(err))
			}
		}
	default:
		return nil, nil, fmt.Errorf("unknown quote source %q", cfg.Quotes.Source)
	}

	l.Info("quote source ready", applogger.String("source", src.Name()))
	return internalrepo.NewCachedQuoteSource(src, c, cfg.Quotes.CacheTTL, l), cleanup, nil
}

// ProvideClickHouseClient creates a read-only ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecution),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvidePublisher creates the Kafka publisher, or a no-op one when Kafka is off.
func ProvidePublisher(cfg *config.Config, l *applogger.Logger) (repository.AnalysisPublisher, func(), error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NoopPublisher{}, func() {}, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithTopic(cfg.Kafka.Topic),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	pub := internalrepo.NewKafkaPublisher(producer, l)
	return pub, func() {
		if err := pub.Close(); err != nil {
			l.Warn("kafka producer close error", applogger.Error(err))
		}
	}, nil
}

// ProvideAnalyzer creates the analysis use case.
func ProvideAnalyzer(
	cfg *config.Config,
	eng *engine.Engine,
	quotes repository.QuoteSource,
	calendar repository.CalendarSource,
	publisher repository.AnalysisPublisher,
	m repository.Metrics,
	l *applogger.Logger,
) (*usecase.Analyzer, error) {
	return usecase.NewAnalyzer(eng, quotes, calendar, publisher, m, l, cfg.Quotes.Timeout)
}

// ProvideScheduler creates the cron scheduler in the engine's local zone.
func ProvideScheduler(cfg *config.Config, analyzer *usecase.Analyzer, r engine.Rules, l *applogger.Logger) *usecase.Scheduler {
	return usecase.NewScheduler(analyzer, cfg.Scheduler.Capital, r.Location, l)
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(cfg *config.Config, analyzer *usecase.Analyzer, l *applogger.Logger) *api.AnalysisHandler {
	var limiter *ratelimit.Limiter
	if cfg.Server.RateLimit.RPS > 0 {
		limiter = ratelimit.New(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst)
	}
	return api.NewAnalysisHandler(l, analyzer, limiter, cfg.Scheduler.Capital)
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler *api.AnalysisHandler,
	scheduler *usecase.Scheduler,
	quotes repository.QuoteSource,
) *server.App {
	return server.New(cfg, l, handler, scheduler, quotes)
}

func finnhubConfig(cfg *config.Config) finnhub.Config {
	return finnhub.Config{
		APIKey:         cfg.Finnhub.APIKey,
		BaseURL:        cfg.Finnhub.BaseURL,
		WebSocketURL:   cfg.Finnhub.WebSocketURL,
		Timeout:        cfg.Finnhub.Timeout,
		ReconnectDelay: cfg.Finnhub.ReconnectDelay,
		PingInterval:   cfg.Finnhub.PingInterval,
	}
}
