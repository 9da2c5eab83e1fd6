package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		RateLimit       struct {
			RPS   float64 `yaml:"rps" default:"2"`
			Burst int     `yaml:"burst" default:"5"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Engine struct {
		Timezone           string   `yaml:"timezone" default:"Europe/Madrid"`
		Country            string   `yaml:"country" default:"US"`
		RestrictedKeywords []string `yaml:"restricted_keywords"`
		PreMarketCutoff    string   `yaml:"pre_market_cutoff" default:"15:30"`
		PostEventCutoff    string   `yaml:"post_event_cutoff" default:"19:30"`
		FailClosedOnNews   bool     `yaml:"fail_closed_on_news_error"`
		VVIXVeto           float64  `yaml:"vvix_veto" default:"125"`
		VVIXMax            float64  `yaml:"vvix_max" default:"95"`
		LongVolMax         float64  `yaml:"long_vol_max" default:"18"`
		RangeRatioMax      float64  `yaml:"range_ratio_max" default:"0.45"`
		NarrowMultiplier   float64  `yaml:"narrow_multiplier" default:"1.15"`
		WideMultiplier     float64  `yaml:"wide_multiplier" default:"1.30"`
		StructureWidth     float64  `yaml:"structure_width" default:"2"`
		RiskFraction       float64  `yaml:"risk_fraction" default:"0.02"`
	} `yaml:"engine"`
	// Instruments maps engine symbols (XSP, VIX, ...) to the source's tickers.
	Instruments map[string]string `yaml:"instruments"`
	Quotes      struct {
		Source   string        `yaml:"source" default:"yahoo"` // yahoo | clickhouse | finnhub
		BaseURL  string        `yaml:"base_url" default:"https://query1.finance.yahoo.com"`
		Timeout  time.Duration `yaml:"timeout" default:"8s"`
		CacheTTL time.Duration `yaml:"cache_ttl" default:"0s"`
		Table    string        `yaml:"table" default:"rt_ticks_raw"` // clickhouse source
		// SessionTimezone decides when the session open resets for streamed and stored ticks.
		SessionTimezone string `yaml:"session_timezone" default:"America/New_York"`
	} `yaml:"quotes"`
	Finnhub struct {
		APIKey         string        `yaml:"api_key"`
		BaseURL        string        `yaml:"base_url" default:"https://finnhub.io/api/v1"`
		WebSocketURL   string        `yaml:"websocket_url" default:"wss://ws.finnhub.io"`
		Timeout        time.Duration `yaml:"timeout" default:"8s"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay" default:"5s"`
		PingInterval   time.Duration `yaml:"ping_interval" default:"20s"`
	} `yaml:"finnhub"`
	Calendar struct {
		CacheTTL time.Duration `yaml:"cache_ttl" default:"5m"`
	} `yaml:"calendar"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host" default:"localhost"`
		Port     int    `yaml:"port" default:"6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix" default:"xsp"`
	} `yaml:"redis"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"xsp.analysis"`
		RequiredAcks int           `yaml:"required_acks" default:"-1"`
		Compression  string        `yaml:"compression" default:"gzip"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host         string        `yaml:"host" default:"localhost"`
		Port         int           `yaml:"port" default:"9000"`
		Database     string        `yaml:"database" default:"market"`
		User         string        `yaml:"user" default:"default"`
		Password     string        `yaml:"password"`
		UseHTTP      bool          `yaml:"use_http"`
		DialTimeout  time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
		MaxExecution time.Duration `yaml:"max_execution_time" default:"10s"`
	} `yaml:"clickhouse"`
	Scheduler struct {
		Enabled bool    `yaml:"enabled"`
		Spec    string  `yaml:"spec" default:"*/15 15-21 * * 1-5"`
		Capital float64 `yaml:"capital" default:"10000"`
	} `yaml:"scheduler"`
}

// DefaultInstruments maps engine symbols to Yahoo tickers.
func DefaultInstruments() map[string]string {
	return map[string]string{
		"XSP":   "^XSP",
		"VIX":   "^VIX",
		"VIX9D": "^VIX9D",
		"VIX1D": "^VIX1D",
		"VVIX":  "^VVIX",
	}
}

// Default returns a config with every default applied and no file read.
func Default() (*Config, error) {
	var c Config
	if err := applyDefaults(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := applyDefaults(&c); err != nil {
		return nil, err
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// A missing file falls back to defaults so the CLI runs without one.
func LoadWithEnv(path string) (*Config, error) {
	var (
		c   *Config
		err error
	)
	if _, statErr := os.Stat(path); statErr == nil {
		c, err = Load(path)
	} else {
		c, err = Default()
	}
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		c.Finnhub.APIKey = v
	}
	if v := os.Getenv("QUOTE_SOURCE"); v != "" {
		c.Quotes.Source = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, ok := strings.Cut(v, ":")
		c.Redis.Enabled = true
		c.Redis.Host = host
		if ok {
			fmt.Sscanf(port, "%d", &c.Redis.Port)
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Enabled = true
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func applyDefaults(c *Config) error {
	if err := defaults.Set(c); err != nil {
		return fmt.Errorf("config defaults: %w", err)
	}
	if len(c.Engine.RestrictedKeywords) == 0 {
		c.Engine.RestrictedKeywords = []string{"CPI", "FED", "FOMC", "NFP", "POWELL", "PPI", "INTEREST RATE", "JOBLESS"}
	}
	if len(c.Instruments) == 0 {
		c.Instruments = DefaultInstruments()
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.Quotes.Source {
	case "yahoo", "clickhouse", "finnhub":
	default:
		return fmt.Errorf("quotes.source must be 'yahoo', 'clickhouse' or 'finnhub', got '%s'", c.Quotes.Source)
	}
	if c.Quotes.Source == "finnhub" && c.Finnhub.APIKey == "" {
		return fmt.Errorf("finnhub.api_key is required for the finnhub quote source")
	}
	for _, sym := range []string{"XSP", "VIX", "VIX9D", "VIX1D", "VVIX"} {
		if c.Instruments[sym] == "" {
			return fmt.Errorf("instruments.%s is required", sym)
		}
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Scheduler.Enabled && c.Scheduler.Capital < 0 {
		return fmt.Errorf("scheduler.capital cannot be negative")
	}
	return nil
}
