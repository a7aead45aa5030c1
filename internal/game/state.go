package game

import (
	"encoding/json"
	"strings"
)

// MissionPhase is the state of the delivery state machine.
type MissionPhase int

const (
	PhaseIdle MissionPhase = iota
	PhaseActive
	PhaseDelivered
	PhaseExpired
	PhaseAllComplete
	PhaseGameOver
)

func (p MissionPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseActive:
		return "active"
	case PhaseDelivered:
		return "delivered"
	case PhaseExpired:
		return "expired"
	case PhaseAllComplete:
		return "all_complete"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes MissionPhase as a string.
func (p MissionPhase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON deserializes MissionPhase from a string.
func (p *MissionPhase) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "active":
		*p = PhaseActive
	case "delivered":
		*p = PhaseDelivered
	case "expired":
		*p = PhaseExpired
	case "all_complete":
		*p = PhaseAllComplete
	case "game_over":
		*p = PhaseGameOver
	default:
		*p = PhaseIdle
	}
	return nil
}

// Terminal reports whether no further transitions are possible.
func (p MissionPhase) Terminal() bool {
	return p == PhaseAllComplete || p == PhaseGameOver
}

// RunMode decides whether delivered destinations are retired.
type RunMode int

const (
	// ModeFinite retires a destination once delivered; the run ends when
	// the pool is exhausted.
	ModeFinite RunMode = iota
	// ModeEndless keeps every destination re-selectable.
	ModeEndless
)

func (m RunMode) String() string {
	switch m {
	case ModeEndless:
		return "endless"
	default:
		return "finite"
	}
}

// ParseRunMode maps a config string to a RunMode, defaulting to finite.
func ParseRunMode(s string) RunMode {
	if strings.EqualFold(strings.TrimSpace(s), "endless") {
		return ModeEndless
	}
	return ModeFinite
}

// MinimapOrientation selects how the minimap is rotated.
type MinimapOrientation int

const (
	NorthLocked MinimapOrientation = iota
	HeadingLocked
)

func (o MinimapOrientation) String() string {
	switch o {
	case HeadingLocked:
		return "heading"
	default:
		return "north"
	}
}

// MarshalJSON serializes MinimapOrientation as a string.
func (o MinimapOrientation) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON deserializes MinimapOrientation from a string.
func (o *MinimapOrientation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*o = ParseMinimapOrientation(s)
	return nil
}

// ParseMinimapOrientation maps a config string to an orientation, defaulting
// to north-locked.
func ParseMinimapOrientation(s string) MinimapOrientation {
	if strings.EqualFold(strings.TrimSpace(s), "heading") {
		return HeadingLocked
	}
	return NorthLocked
}
