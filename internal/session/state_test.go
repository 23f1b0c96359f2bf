package session

import (
	"testing"

	"github.com/raphaelgruber/commnet/internal/analysis"
	"github.com/raphaelgruber/commnet/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestPlan(t *testing.T) {
	qi := analysis.Default()
	dc, _ := analysis.Lookup("D-C")
	base := State{MatchID: 7, Pattern: qi, Window: models.Window(0, 60000)}

	with := func(f func(*State)) State {
		s := base
		f(&s)
		return s
	}

	tests := []struct {
		name          string
		prev, next    State
		durationKnown bool
		want          Triggers
	}{
		{
			name:          "no change",
			prev:          base,
			next:          base,
			durationKnown: true,
			want:          Triggers{},
		},
		{
			name:          "match change",
			prev:          base,
			next:          with(func(s *State) { s.MatchID = 8 }),
			durationKnown: false,
			want:          Triggers{LoadMatch: true, LoadSummary: true},
		},
		{
			name:          "pattern change",
			prev:          base,
			next:          with(func(s *State) { s.Pattern = dc }),
			durationKnown: true,
			want:          Triggers{LoadSummary: true, ScheduleDensity: true},
		},
		{
			name:          "pattern change before duration known",
			prev:          base,
			next:          with(func(s *State) { s.Pattern = dc }),
			durationKnown: false,
			want:          Triggers{LoadSummary: true},
		},
		{
			name:          "window change",
			prev:          base,
			next:          with(func(s *State) { s.Window = models.Window(0, 30000) }),
			durationKnown: true,
			want:          Triggers{ScheduleDensity: true},
		},
		{
			name:          "window change before duration known",
			prev:          base,
			next:          with(func(s *State) { s.Window = models.Window(0, 30000) }),
			durationKnown: false,
			want:          Triggers{},
		},
		{
			name:          "unselect",
			prev:          base,
			next:          with(func(s *State) { s.MatchID = Unselected; s.Pattern = dc }),
			durationKnown: true,
			want:          Triggers{LoadMatch: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Plan(tt.prev, tt.next, tt.durationKnown)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want != Triggers{}, got.Any())
		})
	}
}

func TestSnapshotSettled(t *testing.T) {
	assert.True(t, Snapshot{}.Settled())
	assert.False(t, Snapshot{MatchLoading: true}.Settled())
	assert.False(t, Snapshot{DensityPending: true}.Settled())
	assert.False(t, Snapshot{DensityLoading: true}.Settled())
}

func TestSnapshotEventsInWindow(t *testing.T) {
	s := Snapshot{
		State: State{Window: models.Window(1000, 5000)},
		Match: &models.Match{GameEvents: []models.GameEvent{
			{Name: "BLUE_KILL", Time: 500},
			{Name: "RED_DRAGON", Time: 1000},
			{Name: "BLUE_TOWER", Time: 5001},
		}},
	}

	got := s.EventsInWindow()
	if assert.Len(t, got, 1) {
		assert.Equal(t, "RED_DRAGON", got[0].Name)
	}
	assert.Nil(t, Snapshot{}.EventsInWindow())
}
