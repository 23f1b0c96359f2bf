package models

import "strings"

// Utterance is a single speech-act annotated voice log entry.
// StartTime and EndTime are milliseconds from the start of the match.
type Utterance struct {
	ID          int64  `json:"logId"`
	StartTime   int64  `json:"startTime"`
	EndTime     int64  `json:"endTime"`
	ActCode     *int   `json:"actCode,omitempty"`
	ActLabel    string `json:"actLabel,omitempty"`
	Position    string `json:"position,omitempty"`
	SpeakerName string `json:"speakerName,omitempty"`
	Text        string `json:"textKor,omitempty"`
}

// Act normalizes the utterance's speech act, preferring the numeric code
// over the label when both are present.
func (u Utterance) Act() Act {
	if u.ActCode != nil {
		return ActFromCode(*u.ActCode)
	}
	return ActFromLabel(u.ActLabel)
}

// Speaker returns the identity used to detect self-addressed pairs:
// the position tag when present, the speaker name otherwise.
func (u Utterance) Speaker() string {
	if u.Position != "" {
		return u.Position
	}
	return u.SpeakerName
}

// SameSpeaker reports whether a and b were said by the same identity.
// Utterances without any identity are never considered the same speaker.
func SameSpeaker(a, b Utterance) bool {
	sa, sb := a.Speaker(), b.Speaker()
	if sa == "" || sb == "" {
		return false
	}
	return sa == sb
}

// GameEvent is an in-game event on the match timeline.
type GameEvent struct {
	Name     string `json:"eventName"`
	Time     int64  `json:"eventTime"`
	KillerID *int64 `json:"killerId,omitempty"`
	VictimID *int64 `json:"victimId,omitempty"`
}

// Team sides reported by GameEvent.Side.
const (
	SideBlue    = "blue"
	SideRed     = "red"
	SideNeutral = "neutral"
)

// Side attributes the event to the team of its killer.
func (e GameEvent) Side() string {
	if e.KillerID == nil {
		return SideNeutral
	}
	switch id := *e.KillerID; {
	case id >= 1 && id <= 5, id == 100:
		return SideBlue
	case id >= 6 && id <= 10, id == 200:
		return SideRed
	default:
		return SideNeutral
	}
}

// Kind classifies the event by its name.
func (e GameEvent) Kind() string {
	name := strings.ToLower(e.Name)
	for _, k := range eventKinds {
		if strings.Contains(name, k.needle) {
			return k.kind
		}
	}
	return "other"
}

var eventKinds = []struct{ needle, kind string }{
	{"champion", "champion"},
	{"horde", "horde"},
	{"herald", "herald"},
	{"dragon", "dragon"},
	{"atakhan", "atakhan"},
	{"baron", "baron"},
	{"turret", "turret"},
	{"inhib", "inhibitor"},
}

// Player is a participant of a match.
type Player struct {
	InGameID     int    `json:"inGameId"`
	SummonerName string `json:"summonerName"`
	Team         string `json:"team"`
	Position     string `json:"position"`
}

// Match is the full payload of a single game session.
type Match struct {
	ID         int64       `json:"matchId"`
	Code       string      `json:"matchCode"`
	Duration   int64       `json:"duration"`
	VoiceLogs  []Utterance `json:"voiceLogs"`
	Players    []Player    `json:"players,omitempty"`
	GameEvents []GameEvent `json:"gameEvents"`
}

// MatchSummary is a list entry for an uploaded match.
type MatchSummary struct {
	ID   int64  `json:"id"`
	Code string `json:"matchCode"`
}
