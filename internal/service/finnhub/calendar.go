package finnhub

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"XSPMonitor/internal/domain/models"
	apphttp "XSPMonitor/pkg/http"
	applogger "XSPMonitor/pkg/logger"
	"XSPMonitor/pkg/util"

	"golang.org/x/time/rate"
)

// ErrMissingAPIKey is returned when the calendar is queried without a token.
var ErrMissingAPIKey = errors.New("finnhub: api key not configured")

type calendarResponse struct {
	EconomicCalendar []calendarItem `json:"economicCalendar"`
}

type calendarItem struct {
	Country string `json:"country"`
	Event   string `json:"event"`
	Impact  string `json:"impact"`
	Time    string `json:"time"`
}

// Calendar lists scheduled macro releases from the economic calendar endpoint.
type Calendar struct {
	cfg     Config
	client  *apphttp.BreakerClient
	limiter *rate.Limiter
	log     *applogger.Logger
}

// NewCalendar builds a calendar client.
func NewCalendar(cfg Config, l *applogger.Logger) *Calendar {
	cfg.setDefaults()
	if l == nil {
		l = applogger.Nop()
	}
	l = l.Component("finnhub-calendar")
	httpc := apphttp.NewClient(apphttp.WithTimeout(cfg.Timeout))
	return &Calendar{
		cfg:     cfg,
		client:  apphttp.NewBreakerClient("finnhub-calendar", httpc, 3, 30*time.Second, l),
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
		log:     l,
	}
}

// Events returns every event scheduled on the UTC calendar date of day.
func (c *Calendar) Events(ctx context.Context, day time.Time) ([]models.EconomicEvent, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("finnhub calendar: %w", err)
	}

	d := day.UTC().Format(util.DayLayout)
	var resp calendarResponse
	err := c.client.SendAndParse(ctx, &apphttp.RequestOptions{
		Method: apphttp.MethodGet,
		URL:    strings.TrimRight(c.cfg.BaseURL, "/") + "/calendar/economic",
		QueryParams: map[string][]string{
			"from":  {d},
			"to":    {d},
			"token": {c.cfg.APIKey},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("finnhub calendar %s: %w", d, err)
	}

	events := make([]models.EconomicEvent, 0, len(resp.EconomicCalendar))
	for _, it := range resp.EconomicCalendar {
		ts, ok := util.ParseTime(it.Time)
		if !ok {
			return nil, fmt.Errorf("finnhub calendar %s: unparsable time %q for %q", d, it.Time, it.Event)
		}
		events = append(events, models.EconomicEvent{
			Country: strings.ToUpper(strings.TrimSpace(it.Country)),
			Impact:  models.Impact(strings.ToLower(strings.TrimSpace(it.Impact))),
			Name:    strings.TrimSpace(it.Event),
			Time:    ts.UTC(),
		})
	}

	c.log.Debug("calendar fetched",
		applogger.String("day", d),
		applogger.Int("events", len(events)))
	return events, nil
}
