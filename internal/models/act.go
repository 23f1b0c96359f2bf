package models

import "strconv"

// Act is the canonical speech-act enumeration.
type Act int

const (
	ActInform     Act = 0
	ActQuestion   Act = 1
	ActDirective  Act = 2
	ActCommitment Act = 3

	// ActUnknown marks an utterance whose act could not be recognized.
	// No pattern uses it, so such utterances never take part in an adjacency.
	ActUnknown Act = -99

	// ActWildcard is the wire encoding of the "all" pattern.
	ActWildcard Act = -1
)

// String returns the single-letter label of the act.
func (a Act) String() string {
	switch a {
	case ActInform:
		return "I"
	case ActQuestion:
		return "Q"
	case ActDirective:
		return "D"
	case ActCommitment:
		return "C"
	case ActWildcard:
		return "*"
	default:
		return "UNK"
	}
}

// Name returns the long form of the act label.
func (a Act) Name() string {
	switch a {
	case ActInform:
		return "Inform"
	case ActQuestion:
		return "Question"
	case ActDirective:
		return "Directive"
	case ActCommitment:
		return "Commitment"
	case ActWildcard:
		return "All"
	default:
		return "Unknown"
	}
}

// ActFromCode maps a numeric act code to an Act.
// Codes outside the canonical range map to ActUnknown.
func ActFromCode(code int) Act {
	switch a := Act(code); a {
	case ActInform, ActQuestion, ActDirective, ActCommitment:
		return a
	default:
		return ActUnknown
	}
}

// ActFromLabel maps a letter or word label to an Act.
// A label holding a bare canonical code ("0".."3") is accepted too.
func ActFromLabel(label string) Act {
	switch label {
	case "I", "Info":
		return ActInform
	case "Q", "Question":
		return ActQuestion
	case "D", "Directive":
		return ActDirective
	case "C", "Commitment":
		return ActCommitment
	}
	if n, err := strconv.Atoi(label); err == nil {
		return ActFromCode(n)
	}
	return ActUnknown
}
