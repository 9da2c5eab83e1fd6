package engine

import (
	"strings"
	"time"

	"XSPMonitor/internal/domain/models"
)

// NewsClassifier decides whether today's restricted US releases make the
// trading window unsafe.
type NewsClassifier struct {
	country  string
	keywords []string
	loc      *time.Location
	preCut   time.Duration
	postCut  time.Duration
}

// NewNewsClassifier builds a classifier from validated rules.
func NewNewsClassifier(r Rules) *NewsClassifier {
	return &NewsClassifier{
		country:  r.Country,
		keywords: normalizeKeywords(r.RestrictedKeywords),
		loc:      r.Location,
		preCut:   r.PreMarketCutoff,
		postCut:  r.PostEventCutoff,
	}
}

// Classify evaluates events in feed order against the day of now.
//
// Window classification is last-write-wins: each matched event outside the
// trading window overwrites Window, and an event inside it sets Blocked
// without touching Window. Reordering the feed can change Window, never Blocked.
func (c *NewsClassifier) Classify(events []models.EconomicEvent, now time.Time) models.NewsWindowState {
	state := models.NewsWindowState{
		Window: models.WindowNormal,
		Events: []models.MatchedEvent{},
		Status: models.CheckChecked,
	}
	for _, ev := range events {
		if !c.restricted(ev) || !sameUTCDay(ev.Time, now) {
			continue
		}
		local := ev.Time.In(c.loc)
		m := models.MatchedEvent{Name: ev.Name, LocalTime: local}
		switch clock := sinceMidnight(local); {
		case clock < c.preCut:
			state.Window = models.WindowPreMarket
			m.Window = models.WindowPreMarket
		case clock > c.postCut:
			state.Window = models.WindowPostEvent
			m.Window = models.WindowPostEvent
		default:
			state.Blocked = true
			m.Blocking = true
			m.Window = state.Window
		}
		state.Events = append(state.Events, m)
	}
	return state
}

// FailedState is the safe default when the calendar could not be fetched or
// parsed: nothing blocks, but Status says the check never happened.
func FailedState(err error) models.NewsWindowState {
	s := models.NewsWindowState{
		Window: models.WindowNormal,
		Events: []models.MatchedEvent{},
		Status: models.CheckFailed,
	}
	if err != nil {
		s.Err = err.Error()
	}
	return s
}

func (c *NewsClassifier) restricted(ev models.EconomicEvent) bool {
	if ev.Country != c.country || ev.Impact != models.ImpactHigh {
		return false
	}
	name := strings.ToUpper(ev.Name)
	for _, k := range c.keywords {
		if strings.Contains(name, k) {
			return true
		}
	}
	return false
}

func sameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func sinceMidnight(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second + time.Duration(t.Nanosecond())
}
