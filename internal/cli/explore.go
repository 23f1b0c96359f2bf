package cli

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"github.com/raphaelgruber/commnet/internal/analysis"
	"github.com/raphaelgruber/commnet/internal/models"
	"github.com/raphaelgruber/commnet/internal/session"
	"github.com/spf13/cobra"
)

// windowStep is how far one key press moves or resizes the window.
const windowStep = 10 * 1000

// minWindow is the narrowest window the explorer allows.
const minWindow = 10 * 1000

var explorePattern string

var exploreCmd = &cobra.Command{
	Use:   "explore <matchID>",
	Short: "Explore a match interactively",
	Long: `Open a full-screen view of one match. Moving the window or switching the
pattern re-runs the analysis live; the precise density is fetched once the
window stops moving.

Keys:
  ←/→        move the window by 10s
  [/]        shrink/grow the window end by 10s
  tab        next pattern (shift+tab: previous)
  f          reset to the full match
  r          reload match and summary
  q          quit`,
	Args: cobra.ExactArgs(1),
	RunE: runExplore,
}

func init() {
	exploreCmd.Flags().StringVarP(&explorePattern, "pattern", "p", "", "initial pattern key or label")
}

// snapshotMsg carries a published session snapshot.
type snapshotMsg session.Snapshot

// sessionClosedMsg signals that the update stream ended.
type sessionClosedMsg struct{}

// intentErrMsg carries a rejected intent.
type intentErrMsg struct{ err error }

// exploreModel is the bubbletea model for the match explorer.
type exploreModel struct {
	sess     *session.Controller
	snap     session.Snapshot
	patterns []analysis.Pattern
	progress progress.Model
	theme    Theme
	err      error
	quitting bool
}

func newExploreModel(sess *session.Controller) exploreModel {
	prog := progress.New(
		progress.WithDefaultBlend(),
		progress.WithWidth(40),
	)
	return exploreModel{
		sess:     sess,
		snap:     sess.Snapshot(),
		patterns: analysis.Patterns(),
		progress: prog,
		theme:    defaultTheme,
	}
}

// Init starts listening for snapshots.
func (m exploreModel) Init() tea.Cmd {
	return tea.Batch(
		waitForSnapshot(m.sess.Updates()),
		m.progress.Init(),
	)
}

// Update handles messages and returns the updated model.
func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg.String())

	case snapshotMsg:
		m.snap = session.Snapshot(msg)
		return m, waitForSnapshot(m.sess.Updates())

	case sessionClosedMsg:
		return m, tea.Quit

	case intentErrMsg:
		m.err = msg.err
		return m, nil

	case progress.FrameMsg:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m exploreModel) handleKey(key string) (tea.Model, tea.Cmd) {
	m.err = nil
	duration := m.snap.Duration
	w := m.snap.State.Window

	switch key {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "left":
		return m, m.setWindow(shiftWindow(w, -windowStep, duration))
	case "right":
		return m, m.setWindow(shiftWindow(w, windowStep, duration))
	case "[":
		return m, m.setWindow(resizeWindow(w, -windowStep, duration))
	case "]":
		return m, m.setWindow(resizeWindow(w, windowStep, duration))
	case "f":
		if duration > 0 {
			return m, m.setWindow(models.Window(0, duration))
		}
	case "tab":
		return m, m.selectPattern(1)
	case "shift+tab":
		return m, m.selectPattern(-1)
	case "r":
		return m, intent(m.sess.Reload)
	}
	return m, nil
}

func (m exploreModel) setWindow(w models.TimeWindow) tea.Cmd {
	if w == m.snap.State.Window {
		return nil
	}
	return intent(func() error { return m.sess.SetWindow(w) })
}

func (m exploreModel) selectPattern(delta int) tea.Cmd {
	next := nextPattern(m.patterns, m.snap.State.Pattern.Key, delta)
	return intent(func() error { return m.sess.SelectPattern(next) })
}

// intent runs a session intent off the update loop.
func intent(fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return intentErrMsg{err: err}
		}
		return nil
	}
}

// waitForSnapshot blocks until the session publishes again.
func waitForSnapshot(ch <-chan session.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return sessionClosedMsg{}
		}
		return snapshotMsg(snap)
	}
}

// View renders the explorer.
func (m exploreModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m exploreModel) renderContent() string {
	if m.quitting {
		return ""
	}

	s := m.snap
	var b strings.Builder
	h := m.theme.headerStyle()

	if s.Match == nil {
		if s.MatchLoading {
			return m.theme.statusStyle().Render("Loading match...") + "\n"
		}
		for _, e := range s.Errors() {
			b.WriteString(m.theme.errorStyle().Render("✗ "+e) + "\n")
		}
		b.WriteString(m.theme.hintStyle().Render("r: retry  q: quit") + "\n")
		return b.String()
	}

	res := s.Result
	fmt.Fprintf(&b, "%s #%d %s  %s\n", h.Render("Match"), s.State.MatchID, s.MatchCode,
		m.theme.hintStyle().Render("duration "+models.FormatClock(s.Duration)))
	fmt.Fprintf(&b, "%s  %s\n", h.Render("Pattern"), res.Pattern.Label)
	fmt.Fprintf(&b, "%s   %s\n", h.Render("Window"), res.Window)

	status := res.State
	switch {
	case s.DensityPending:
		status = "waiting"
	case s.DensityLoading:
		status = "fetching"
	}
	fmt.Fprintf(&b, "%s  %s %.4f %s\n\n", h.Render("Density"),
		m.progress.ViewAs(min(max(res.Density, 0), 1)), res.Density,
		m.theme.densityStyle(res.State).Render("["+status+"]"))

	fmt.Fprintf(&b, "  %-4s %6s %6s\n", "", "out", "in")
	for _, role := range models.Roles {
		fmt.Fprintf(&b, "  %-4s %6.1f %6.1f\n", role, res.Out[role], res.In[role])
	}

	fmt.Fprintf(&b, "\n%s (%d)\n", h.Render("Matched utterances"), len(res.MatchedLogs))
	logs := res.MatchedLogs
	if len(logs) > 8 {
		logs = logs[len(logs)-8:]
	}
	for _, u := range logs {
		fmt.Fprintf(&b, "  %5s  %-3s  %s  %s\n", models.FormatClock(u.StartTime),
			models.CanonicalRole(u.Speaker()), u.Act(), u.Text)
	}

	if events := s.EventsInWindow(); len(events) > 0 {
		fmt.Fprintf(&b, "\n%s (%d)\n", h.Render("Events"), len(events))
		for _, e := range events {
			fmt.Fprintf(&b, "  %5s  %s\n", models.FormatClock(e.Time),
				m.theme.sideStyle(e.Side()).Render(e.Name))
		}
	}

	for _, e := range s.Errors() {
		b.WriteString("\n" + m.theme.errorStyle().Render("✗ "+e))
	}
	if m.err != nil {
		b.WriteString("\n" + m.theme.errorStyle().Render("✗ "+m.err.Error()))
	}

	b.WriteString("\n" + m.theme.hintStyle().Render("←/→ move  [/] resize  tab pattern  f full  r reload  q quit") + "\n")
	return b.String()
}

// shiftWindow moves w by delta, keeping its width and the match bounds.
// An open window is treated as the full match.
func shiftWindow(w models.TimeWindow, delta, duration int64) models.TimeWindow {
	if duration <= 0 {
		return w
	}
	start, end := w.Start, w.End
	if w.Open {
		end = duration
	}
	width := end - start
	start = max(0, min(start+delta, duration-width))
	return models.Window(start, start+width)
}

// resizeWindow moves the end of w by delta, keeping at least minWindow.
func resizeWindow(w models.TimeWindow, delta, duration int64) models.TimeWindow {
	if duration <= 0 {
		return w
	}
	end := w.End
	if w.Open {
		end = duration
	}
	end = max(w.Start+minWindow, min(end+delta, duration))
	return models.Window(w.Start, end)
}

// nextPattern cycles through patterns starting from key.
func nextPattern(patterns []analysis.Pattern, key string, delta int) analysis.Pattern {
	idx := 0
	for i, p := range patterns {
		if p.Key == key {
			idx = i
			break
		}
	}
	n := len(patterns)
	return patterns[((idx+delta)%n+n)%n]
}

func runExplore(cmd *cobra.Command, args []string) error {
	matchID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || matchID <= 0 {
		return fmt.Errorf("invalid match id %q", args[0])
	}
	pattern, err := resolvePattern(explorePattern)
	if err != nil {
		return err
	}

	sess := newSession(pattern)
	defer sess.Close()
	if err := sess.SelectMatch(matchID); err != nil {
		return err
	}

	p := tea.NewProgram(newExploreModel(sess))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("explorer UI error: %w", err)
	}
	return nil
}
