// Package analysis implements the conversational-network computations over
// speech-act annotated logs: adjacency pattern matching, per-role centrality
// and density classification.
package analysis

import (
	"fmt"

	"github.com/raphaelgruber/commnet/internal/models"
)

// Pattern is a selectable source→target speech-act pair.
type Pattern struct {
	Key    string     `json:"key" yaml:"key"`
	Label  string     `json:"label" yaml:"label"`
	Source models.Act `json:"sourceAct" yaml:"source_act"`
	Target models.Act `json:"targetAct" yaml:"target_act"`
}

// Wildcard reports whether the pattern is the "all" pattern.
func (p Pattern) Wildcard() bool {
	return p.Source == models.ActWildcard && p.Target == models.ActWildcard
}

func (p Pattern) String() string {
	return p.Key
}

// DefaultPatternKey is selected when nothing else is requested.
const DefaultPatternKey = "Q-I"

// WildcardKey selects the full time-filtered log.
const WildcardKey = "ALL"

var registry = []Pattern{
	{Key: WildcardKey, Label: "All (ALL)", Source: models.ActWildcard, Target: models.ActWildcard},
	newPattern(models.ActQuestion, models.ActInform),
	newPattern(models.ActDirective, models.ActCommitment),
	newPattern(models.ActInform, models.ActInform),
	newPattern(models.ActInform, models.ActQuestion),
	newPattern(models.ActInform, models.ActDirective),
	newPattern(models.ActCommitment, models.ActInform),
}

func newPattern(src, dst models.Act) Pattern {
	return Pattern{
		Key:    src.String() + "-" + dst.String(),
		Label:  fmt.Sprintf("%s(%s) ➡ %s(%s)", src.Name(), src, dst.Name(), dst),
		Source: src,
		Target: dst,
	}
}

// Patterns returns the registry in display order.
func Patterns() []Pattern {
	out := make([]Pattern, len(registry))
	copy(out, registry)
	return out
}

// Lookup finds a pattern by key or label.
func Lookup(selector string) (Pattern, bool) {
	for _, p := range registry {
		if p.Key == selector || p.Label == selector {
			return p, true
		}
	}
	return Pattern{}, false
}

// Resolve is Lookup with a fallback to the default pattern.
func Resolve(selector string) Pattern {
	if p, ok := Lookup(selector); ok {
		return p
	}
	p, _ := Lookup(DefaultPatternKey)
	return p
}

// Default returns the default pattern (Question → Inform).
func Default() Pattern {
	return Resolve(DefaultPatternKey)
}
