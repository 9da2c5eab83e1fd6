package models

import (
	"fmt"
	"time"
)

// WindowType classifies the trading session against scheduled news.
type WindowType string

const (
	WindowNormal    WindowType = "NORMAL"
	WindowPreMarket WindowType = "PRE_MARKET"
	WindowPostEvent WindowType = "POST_EVENT"
)

// CheckStatus tells a clean calendar check apart from one that could not run.
type CheckStatus string

const (
	CheckChecked CheckStatus = "CHECKED"
	CheckFailed  CheckStatus = "CHECK_FAILED"
)

// MatchedEvent is a restricted event found in today's calendar.
type MatchedEvent struct {
	Name      string     `json:"name"`
	LocalTime time.Time  `json:"local_time"`
	Window    WindowType `json:"window"`
	Blocking  bool       `json:"blocking"`
}

// Description renders the event the way operators read it: "CPI MoM (14:30)".
func (e MatchedEvent) Description() string {
	return fmt.Sprintf("%s (%s)", e.Name, e.LocalTime.Format("15:04"))
}

// NewsWindowState is the outcome of one news check. It is never mutated after it is built.
type NewsWindowState struct {
	Blocked bool           `json:"blocked"`
	Window  WindowType     `json:"window"`
	Events  []MatchedEvent `json:"events"`
	Status  CheckStatus    `json:"status"`
	Err     string         `json:"error,omitempty"`
}

// Checked reports whether the calendar was actually consulted.
func (s NewsWindowState) Checked() bool { return s.Status == CheckChecked }

// Descriptions returns the matched events as display strings, in feed order.
func (s NewsWindowState) Descriptions() []string {
	out := make([]string, 0, len(s.Events))
	for _, e := range s.Events {
		out = append(out, e.Description())
	}
	return out
}
