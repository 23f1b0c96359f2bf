package cli

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/raphaelgruber/commnet/internal/analysis"
	"github.com/raphaelgruber/commnet/internal/metrics"
	"github.com/raphaelgruber/commnet/internal/models"
	"github.com/raphaelgruber/commnet/internal/session"
)

// Report is the printable result of one settled analysis.
type Report struct {
	MatchID    int64              `json:"matchId" yaml:"match_id"`
	MatchCode  string             `json:"matchCode" yaml:"match_code"`
	Duration   string             `json:"duration" yaml:"duration"`
	Pattern    analysis.Pattern   `json:"pattern" yaml:"pattern"`
	Window     WindowReport       `json:"window" yaml:"window"`
	Density    float64            `json:"density" yaml:"density"`
	State      string             `json:"state" yaml:"state"`
	Out        map[string]float64 `json:"outCentrality" yaml:"out_centrality"`
	In         map[string]float64 `json:"inCentrality" yaml:"in_centrality"`
	Matched    int                `json:"matchedCount" yaml:"matched_count"`
	Utterances []UtteranceLine    `json:"utterances" yaml:"utterances"`
	Events     []EventLine        `json:"events" yaml:"events"`
	Errors     []string           `json:"errors,omitempty" yaml:"errors,omitempty"`
	Stats      *metrics.Snapshot  `json:"stats,omitempty" yaml:"stats,omitempty"`
}

// WindowReport is the analysis window in clock and millisecond form.
type WindowReport struct {
	From    string `json:"from" yaml:"from"`
	To      string `json:"to" yaml:"to"`
	StartMs int64  `json:"startMs" yaml:"start_ms"`
	EndMs   int64  `json:"endMs" yaml:"end_ms"`
}

// UtteranceLine is one matched utterance.
type UtteranceLine struct {
	Time string `json:"time" yaml:"time"`
	Role string `json:"role" yaml:"role"`
	Act  string `json:"act" yaml:"act"`
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
}

// EventLine is one game event inside the window.
type EventLine struct {
	Time string `json:"time" yaml:"time"`
	Name string `json:"name" yaml:"name"`
	Kind string `json:"kind" yaml:"kind"`
	Side string `json:"side" yaml:"side"`
}

// buildReport flattens a snapshot. At most limit utterances are listed;
// limit <= 0 lists all of them.
func buildReport(snap session.Snapshot, limit int) Report {
	res := snap.Result
	w := res.Window
	end := w.End
	if w.Open {
		end = snap.Duration
	}

	r := Report{
		MatchID:   snap.State.MatchID,
		MatchCode: snap.MatchCode,
		Duration:  models.FormatClock(snap.Duration),
		Pattern:   res.Pattern,
		Window: WindowReport{
			From:    models.FormatClock(w.Start),
			To:      models.FormatClock(end),
			StartMs: w.Start,
			EndMs:   end,
		},
		Density: res.Density,
		State:   res.State,
		Out:     roleMap(res.Out),
		In:      roleMap(res.In),
		Matched: len(res.MatchedLogs),
		Errors:  snap.Errors(),
	}

	logs := res.MatchedLogs
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	r.Utterances = make([]UtteranceLine, 0, len(logs))
	for _, u := range logs {
		r.Utterances = append(r.Utterances, UtteranceLine{
			Time: models.FormatClock(u.StartTime),
			Role: models.CanonicalRole(u.Speaker()),
			Act:  u.Act().String(),
			Text: u.Text,
		})
	}

	events := snap.EventsInWindow()
	r.Events = make([]EventLine, 0, len(events))
	for _, e := range events {
		r.Events = append(r.Events, EventLine{
			Time: models.FormatClock(e.Time),
			Name: e.Name,
			Kind: e.Kind(),
			Side: e.Side(),
		})
	}
	return r
}

func roleMap(v analysis.RoleVector) map[string]float64 {
	m := make(map[string]float64, models.RoleCount)
	for _, role := range models.Roles {
		m[role.String()] = v[role]
	}
	return m
}

// renderText writes the human-readable report.
func renderText(out io.Writer, r Report, theme Theme, width int) {
	h := theme.headerStyle()

	fmt.Fprintf(out, "%s #%d %s (duration %s)\n", h.Render("Match"), r.MatchID, r.MatchCode, r.Duration)
	fmt.Fprintf(out, "%s  %s\n", h.Render("Pattern"), r.Pattern.Label)
	fmt.Fprintf(out, "%s   %s - %s\n", h.Render("Window"), r.Window.From, r.Window.To)
	fmt.Fprintf(out, "%s  %.4f %s\n", h.Render("Density"), r.Density,
		theme.densityStyle(r.State).Render(r.State))

	for _, e := range r.Errors {
		fmt.Fprintln(out, theme.errorStyle().Render("✗ "+e))
	}

	// Two bar columns share what is left after the labels.
	barWidth := (width - 24) / 2
	barWidth = max(4, min(barWidth, 30))
	peak := 0.0
	for _, v := range r.Out {
		peak = math.Max(peak, v)
	}
	for _, v := range r.In {
		peak = math.Max(peak, v)
	}

	fmt.Fprintf(out, "\n%s\n", h.Render("Centrality"))
	fmt.Fprintf(out, "  %-4s %-*s %s\n", "", barWidth+6, "out", "in")
	for _, role := range models.Roles {
		tag := role.String()
		fmt.Fprintf(out, "  %-4s %s %5.1f %s %5.1f\n", tag,
			theme.statusStyle().Render(bar(r.Out[tag], peak, barWidth)), r.Out[tag],
			theme.completedStyle().Render(bar(r.In[tag], peak, barWidth)), r.In[tag])
	}

	fmt.Fprintf(out, "\n%s (%d", h.Render("Matched utterances"), r.Matched)
	if len(r.Utterances) < r.Matched {
		fmt.Fprintf(out, ", showing %d", len(r.Utterances))
	}
	fmt.Fprintln(out, "):")
	for _, u := range r.Utterances {
		fmt.Fprintf(out, "  %5s  %-3s  %s  %s\n", u.Time, u.Role, u.Act, u.Text)
	}

	if len(r.Events) > 0 {
		fmt.Fprintf(out, "\n%s (%d):\n", h.Render("Events"), len(r.Events))
		for _, e := range r.Events {
			fmt.Fprintf(out, "  %5s  %s\n", e.Time,
				theme.sideStyle(e.Side).Render(fmt.Sprintf("%s [%s]", e.Name, e.Kind)))
		}
	}

	if r.Stats != nil {
		fmt.Fprintln(out)
		printSessionStats(out, *r.Stats)
	}
}

// bar renders v as a block bar scaled against peak.
func bar(v, peak float64, width int) string {
	n := 0
	if peak > 0 {
		n = int(math.Round(v / peak * float64(width)))
	}
	n = max(0, min(n, width))
	return strings.Repeat("█", n) + strings.Repeat(" ", width-n)
}

// printSessionStats displays fetch statistics for the session.
func printSessionStats(out io.Writer, s metrics.Snapshot) {
	fmt.Fprintf(out, "Session Statistics\n")
	fmt.Fprintf(out, "══════════════════\n")
	fmt.Fprintf(out, "Uptime: %.1f seconds\n", s.UptimeSeconds)

	if s.MatchLoad != nil {
		fmt.Fprintf(out, "\nMatch load:\n")
		printOpStats(out, s.MatchLoad)
	}
	if s.PatternSummary != nil {
		fmt.Fprintf(out, "\nPattern summary:\n")
		printOpStats(out, s.PatternSummary)
	}
	if s.PreciseDensity != nil {
		fmt.Fprintf(out, "\nPrecise density:\n")
		printOpStats(out, s.PreciseDensity)
	}

	fmt.Fprintf(out, "\nStale responses dropped: %d\n", s.StaleResponses)
	fmt.Fprintf(out, "Debounced resets:        %d\n", s.DebouncedResets)
	fmt.Fprintf(out, "Skipped windows:         %d\n", s.SkippedWindows)
	fmt.Fprintf(out, "Cancelled fetches:       %d\n", s.CancelledFetches)
}

// printOpStats displays timing statistics for an operation.
func printOpStats(out io.Writer, op *metrics.OperationSnapshot) {
	fmt.Fprintf(out, "  Calls: %d (%d failed), Total: %dms\n", op.Count, op.Failures, op.TotalTimeMs)
	fmt.Fprintf(out, "  Time: avg %.1fms, min %dms, max %dms\n",
		op.AvgTimeMs, op.MinTimeMs, op.MaxTimeMs)
}
