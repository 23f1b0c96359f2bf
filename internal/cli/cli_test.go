package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/raphaelgruber/commnet/internal/analysis"
	"github.com/raphaelgruber/commnet/internal/models"
	"github.com/raphaelgruber/commnet/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const matchJSON = `{
  "matchId": 3,
  "matchCode": "T1 vs GEN",
  "duration": 940000,
  "voiceLogs": [
    {"logId": 1, "startTime": 0, "endTime": 900, "actCode": 0, "position": "MID", "textKor": "mid missing"},
    {"logId": 2, "startTime": 5000, "endTime": 5600, "actCode": 1, "position": "JUG", "textKor": "where?"},
    {"logId": 3, "startTime": 7000, "endTime": 7400, "actCode": 0, "position": "SUPPORT", "textKor": "bot lane"}
  ],
  "gameEvents": [
    {"eventName": "ChampionKill", "eventTime": 120000, "killerId": 7, "victimId": 2},
    {"eventName": "BaronKill", "eventTime": 600000, "killerId": 2}
  ]
}`

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/matches/3", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, matchJSON)
	})
	mux.HandleFunc("/api/matches/3/metrics", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"timeIndex":0,"count":2,"density":0.2,"positionDaCounts":"JUG:1","positionReceiveCounts":"SUP:1"}]`)
	})
	mux.HandleFunc("/api/matches/3/analysis", func(w http.ResponseWriter, r *http.Request) {
		// The full match is busier than the first two minutes.
		if r.URL.Query().Get("start") == "0" && r.URL.Query().Get("end") == "120" {
			io.WriteString(w, `{"density":0.12}`)
			return
		}
		io.WriteString(w, `{"density":0.5}`)
	})
	mux.HandleFunc("/api/matches/list", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":3,"matchCode":"T1 vs GEN"}]`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("COMMNET_CONFIG", "")
	t.Setenv("COMMNET_LOG_FILE", filepath.Join(t.TempDir(), "commnet.log"))
	t.Setenv("COMMNET_DENSITY_DEBOUNCE", "10ms")

	analyzePattern, analyzeFrom, analyzeTo = "", "", ""
	analyzeFormat, analyzeLimit, analyzeStats = "text", 20, false
	patternsFormat = "text"

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAnalyzeCommandJSON(t *testing.T) {
	srv := newUpstream(t)

	out, err := runCLI(t, "analyze", "3", "--api", srv.URL, "--from", "0:00", "--to", "2:00", "--format", "json", "--stats")
	require.NoError(t, err)

	var r Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "T1 vs GEN", r.MatchCode)
	assert.Equal(t, "15:40", r.Duration)
	assert.Equal(t, "Q-I", r.Pattern.Key)
	assert.Equal(t, WindowReport{From: "0:00", To: "2:00", StartMs: 0, EndMs: 120000}, r.Window)
	assert.Equal(t, 0.12, r.Density)
	assert.Equal(t, analysis.StateNormal, r.State)
	assert.Equal(t, 2, r.Matched)
	require.Len(t, r.Utterances, 2)
	assert.Equal(t, "SUP", r.Utterances[1].Role)
	assert.Equal(t, 1.0, r.Out["JUG"])
	assert.Equal(t, 1.0, r.In["SUP"])
	require.Len(t, r.Events, 1)
	assert.Equal(t, "red", r.Events[0].Side)
	require.NotNil(t, r.Stats)
	assert.NotNil(t, r.Stats.MatchLoad)
}

func TestAnalyzeCommandText(t *testing.T) {
	srv := newUpstream(t)

	out, err := runCLI(t, "analyze", "3", "--api", srv.URL, "--to", "2:00")
	require.NoError(t, err)

	assert.Contains(t, out, "Match #3 T1 vs GEN")
	assert.Contains(t, out, "Question(Q) ➡ Inform(I)")
	assert.Contains(t, out, "0.1200 Normal")
	assert.Contains(t, out, "Matched utterances (2):")
	assert.Contains(t, out, "ChampionKill [champion]")
}

func TestAnalyzeCommandErrors(t *testing.T) {
	srv := newUpstream(t)

	_, err := runCLI(t, "analyze", "abc", "--api", srv.URL)
	assert.ErrorContains(t, err, "invalid match id")

	_, err = runCLI(t, "analyze", "3", "--api", srv.URL, "--pattern", "X-Y")
	assert.ErrorContains(t, err, "unknown pattern")

	_, err = runCLI(t, "analyze", "404", "--api", srv.URL)
	assert.ErrorContains(t, err, "load match 404")

	_, err = runCLI(t, "analyze", "3", "--api", srv.URL, "--from", "5:00", "--to", "1:00")
	assert.ErrorContains(t, err, "empty or inverted")
}

func TestMatchesCommand(t *testing.T) {
	srv := newUpstream(t)

	out, err := runCLI(t, "matches", "--api", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Matches (1):")
	assert.Contains(t, out, "- #3 T1 vs GEN")
}

func TestPatternsCommandYAML(t *testing.T) {
	out, err := runCLI(t, "patterns", "--format", "yaml")
	require.NoError(t, err)

	var patterns []analysis.Pattern
	require.NoError(t, yaml.Unmarshal([]byte(out), &patterns))
	require.Len(t, patterns, 7)
	assert.Equal(t, "ALL", patterns[0].Key)
}

func TestWindowFromFlags(t *testing.T) {
	w, err := windowFromFlags("1:30", "", 600000)
	require.NoError(t, err)
	assert.Equal(t, models.Window(90000, 600000), w)

	w, err = windowFromFlags("", "45", 600000)
	require.NoError(t, err)
	assert.Equal(t, models.Window(0, 45000), w)

	_, err = windowFromFlags("x", "", 600000)
	assert.ErrorContains(t, err, "--from")
}

func TestShiftWindow(t *testing.T) {
	const duration = 100000

	assert.Equal(t, models.Window(10000, 40000), shiftWindow(models.Window(0, 30000), 10000, duration))
	assert.Equal(t, models.Window(0, 30000), shiftWindow(models.Window(5000, 35000), -10000, duration))
	assert.Equal(t, models.Window(70000, 100000), shiftWindow(models.Window(65000, 95000), 10000, duration))
	assert.Equal(t, models.Window(0, 100000), shiftWindow(models.FullMatch(), 10000, duration))

	open := models.FullMatch()
	assert.Equal(t, open, shiftWindow(open, 10000, 0), "unknown duration leaves the window alone")
}

func TestResizeWindow(t *testing.T) {
	const duration = 100000

	assert.Equal(t, models.Window(0, 40000), resizeWindow(models.Window(0, 30000), 10000, duration))
	assert.Equal(t, models.Window(0, 100000), resizeWindow(models.Window(0, 95000), 10000, duration))
	assert.Equal(t, models.Window(20000, 30000), resizeWindow(models.Window(20000, 35000), -10000, duration))
	assert.Equal(t, models.Window(0, 90000), resizeWindow(models.FullMatch(), -10000, duration))
}

func TestNextPattern(t *testing.T) {
	patterns := analysis.Patterns()

	assert.Equal(t, "D-C", nextPattern(patterns, "Q-I", 1).Key)
	assert.Equal(t, "ALL", nextPattern(patterns, "Q-I", -1).Key)
	assert.Equal(t, "C-I", nextPattern(patterns, "ALL", -1).Key)
	assert.Equal(t, "Q-I", nextPattern(patterns, "nope", 1).Key)
}

func TestBuildReportLimit(t *testing.T) {
	logs := []models.Utterance{
		{StartTime: 1000, ActLabel: "Q", Position: "TOP"},
		{StartTime: 2000, ActLabel: "I", Position: "MID"},
	}
	snap := session.Snapshot{
		State:    session.State{MatchID: 1, Pattern: analysis.Default(), Window: models.FullMatch()},
		Duration: 60000,
		Result: analysis.Analyze(analysis.Input{
			Logs:    logs,
			Pattern: analysis.Default(),
			Window:  models.FullMatch(),
		}),
	}

	r := buildReport(snap, 1)
	assert.Equal(t, 2, r.Matched)
	require.Len(t, r.Utterances, 1)
	assert.Equal(t, "1:00", r.Window.To)
	assert.Equal(t, analysis.StateSilent, r.State)

	var out bytes.Buffer
	renderText(&out, r, plainTheme, 80)
	assert.Contains(t, out.String(), "Matched utterances (2, showing 1):")
}

func TestBar(t *testing.T) {
	assert.Equal(t, "████      ", bar(2, 5, 10))
	assert.Equal(t, "          ", bar(0, 0, 10))
	assert.Equal(t, "██████████", bar(9, 5, 10))
}
