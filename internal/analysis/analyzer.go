package analysis

import "github.com/raphaelgruber/commnet/internal/models"

// Input is everything a Result is derived from.
type Input struct {
	Logs    []models.Utterance
	Buckets []models.SummaryBucket
	Pattern Pattern
	Window  models.TimeWindow
	Density float64
}

// Result is the derived view of one analysis state. It is rebuilt, never
// mutated, whenever an input changes.
type Result struct {
	Pattern     Pattern            `json:"pattern" yaml:"pattern"`
	Window      models.TimeWindow  `json:"window" yaml:"window"`
	MatchedLogs []models.Utterance `json:"matchedLogs" yaml:"matched_logs"`
	Out         RoleVector         `json:"outVector" yaml:"out_vector"`
	In          RoleVector         `json:"inVector" yaml:"in_vector"`
	Density     float64            `json:"density" yaml:"density"`
	State       string             `json:"stateLabel" yaml:"state_label"`
}

// Analyze computes a Result from in.
func Analyze(in Input) Result {
	out, inVec := Centrality(in.Buckets, in.Window)
	return Result{
		Pattern:     in.Pattern,
		Window:      in.Window,
		MatchedLogs: Match(in.Logs, in.Pattern, in.Window),
		Out:         out,
		In:          inVec,
		Density:     in.Density,
		State:       Classify(in.Density),
	}
}
