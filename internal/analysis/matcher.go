package analysis

import (
	"slices"

	"github.com/raphaelgruber/commnet/internal/models"
)

// FilterWindow keeps the utterances whose start time falls inside w.
// An open window disables filtering and returns a copy of logs.
func FilterWindow(logs []models.Utterance, w models.TimeWindow) []models.Utterance {
	if w.Open {
		return slices.Clone(logs)
	}
	out := make([]models.Utterance, 0, len(logs))
	for _, u := range logs {
		if u.StartTime >= w.Start && u.StartTime <= w.End {
			out = append(out, u)
		}
	}
	return out
}

// Match returns the utterances taking part in an adjacent pair that fits p,
// restricted to w and sorted by start time.
//
// Logs are expected in time order. A pair (u[i], u[i+1]) qualifies when the
// acts match the pattern and the speakers differ. Utterances are tracked by
// position in the filtered sequence, so one shared by two overlapping pairs
// is returned once while equal-valued records stay distinct.
func Match(logs []models.Utterance, p Pattern, w models.TimeWindow) []models.Utterance {
	filtered := FilterWindow(logs, w)
	if p.Wildcard() {
		sortByStart(filtered)
		return filtered
	}

	matched := make([]bool, len(filtered))
	for i := 0; i+1 < len(filtered); i++ {
		cur, next := filtered[i], filtered[i+1]
		if cur.Act() != p.Source || next.Act() != p.Target {
			continue
		}
		if models.SameSpeaker(cur, next) {
			continue
		}
		matched[i] = true
		matched[i+1] = true
	}

	out := make([]models.Utterance, 0)
	for i, ok := range matched {
		if ok {
			out = append(out, filtered[i])
		}
	}
	sortByStart(out)
	return out
}

func sortByStart(logs []models.Utterance) {
	slices.SortStableFunc(logs, func(a, b models.Utterance) int {
		switch {
		case a.StartTime < b.StartTime:
			return -1
		case a.StartTime > b.StartTime:
			return 1
		default:
			return 0
		}
	})
}
