package othello

import "fmt"

// GamePhase classifies a board by the number of discs on it.
type GamePhase int

const (
	PhaseEarly GamePhase = iota
	PhaseMid
	PhaseLate
)

const (
	// MidPhaseMinDiscs is the lowest disc count of the middle game.
	MidPhaseMinDiscs = 20

	// MidPhaseMaxDiscs is the highest disc count of the middle game.
	MidPhaseMaxDiscs = 45
)

// PhaseForDiscs returns the game phase for a total disc count.
func PhaseForDiscs(discs int) GamePhase {
	switch {
	case discs < MidPhaseMinDiscs:
		return PhaseEarly
	case discs <= MidPhaseMaxDiscs:
		return PhaseMid
	default:
		return PhaseLate
	}
}

func (p GamePhase) String() string {
	switch p {
	case PhaseEarly:
		return "early"
	case PhaseMid:
		return "mid"
	default:
		return "late"
	}
}

// MarshalText encodes the phase by name.
func (p GamePhase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase encoded by MarshalText.
func (p *GamePhase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "early":
		*p = PhaseEarly
	case "mid":
		*p = PhaseMid
	case "late":
		*p = PhaseLate
	default:
		return fmt.Errorf("invalid game phase: %q", text)
	}
	return nil
}
