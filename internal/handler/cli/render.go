// Package cli renders analyses for the terminal.
package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"XSPMonitor/internal/domain/models"
)

// RenderAnalysis writes the market table, the news section and the
// recommended structure, in that order.
func RenderAnalysis(w io.Writer, a models.Analysis) error {
	m := a.Metrics
	p := &printer{w: w}

	p.line("XSP 0DTE tactical monitor  %s  (quotes: %s)", a.Timestamp.Format("2006-01-02 15:04 MST"), a.Snapshot.Source)
	p.line("")
	p.line("MARKET")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"XSP", fmt.Sprintf("%.2f (%.2f%%)", m.Price, m.RangeRatio)},
		{"VIX1D / VVIX", fmt.Sprintf("%.2f / %.2f", m.ShortVol, a.VVIX)},
		{"Term (1D / 9D / 30D)", fmt.Sprintf("%.2f / %.2f / %.2f", a.TermStructure[0], a.TermStructure[1], a.TermStructure[2])},
		{"Gamma flip", fmt.Sprintf("%.2f", m.GammaFlip)},
		{"Zero GEX", fmt.Sprintf("%.2f", m.ZeroGEX)},
		{"GEX status", gammaLabel(m.GammaSign)},
		{"EM range (1 SD)", fmt.Sprintf("%.2f - %.2f", m.EMLower, m.EMUpper)},
		{"Call / Put wall", fmt.Sprintf("%.2f / %.2f", m.CallWall, m.PutWall)},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "  %s\t%s\n", r[0], r[1])
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(a.Snapshot.Missing) > 0 {
		p.line("  missing quotes: %s", strings.Join(a.Snapshot.Missing, ", "))
	}

	p.line("")
	p.line("NEWS")
	switch {
	case !a.News.Checked():
		p.line("  ! calendar check failed: %s", a.News.Err)
	case len(a.News.Events) == 0:
		p.line("  no high impact news today")
	default:
		for _, d := range a.News.Descriptions() {
			p.line("  * %s", d)
		}
	}
	if a.News.Blocked {
		p.line("  BLACKOUT: restricted release inside the session. DO NOT TRADE.")
	}

	p.line("")
	p.line("STRATEGY")
	switch r := a.Recommendation.(type) {
	case models.NoTrade:
		p.line("  NO TRADE: %s", r.Reason)
	case models.FourLegStructure:
		lv := r.Levels
		p.line("  IRON CONDOR (aggressive, %s)", strings.ToLower(string(lv.Tier)))
		p.line("  CALL: sell %.0f / buy %.0f | PUT: sell %.0f / buy %.0f", lv.ShortCall, lv.LongCall, lv.ShortPut, lv.LongPut)
		p.line("  %d contract(s) | width %.0f pts", r.Contracts, lv.Width)
	case models.TwoLegStructure:
		p.line("  VERTICAL SPREAD (%s)", spreadLabel(r.Direction))
		p.line("  sell %.0f / buy %.0f", r.ShortStrike, r.LongStrike)
		p.line("  %d contract(s) | width %.0f pts", r.Contracts, r.Width)
	default:
		p.line("  no recommendation")
	}
	return p.err
}

// RenderLevels writes one strike set.
func RenderLevels(w io.Writer, lv models.LevelSet) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "tier\t%s\n", lv.Tier)
	fmt.Fprintf(tw, "call\tsell %.0f / buy %.0f\n", lv.ShortCall, lv.LongCall)
	fmt.Fprintf(tw, "put\tsell %.0f / buy %.0f\n", lv.ShortPut, lv.LongPut)
	fmt.Fprintf(tw, "width\t%.0f pts\n", lv.Width)
	return tw.Flush()
}

func gammaLabel(s models.GammaSign) string {
	if s == models.GammaPositive {
		return "POSITIVE (stability)"
	}
	return "NEGATIVE (volatility)"
}

func spreadLabel(d models.Direction) string {
	if d == models.Bullish {
		return "BULL PUT, bullish"
	}
	return "BEAR CALL, bearish"
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}
