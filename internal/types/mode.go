package types

// Mode selects which view the renderer draws. The ordinal order is fixed;
// automatic rotation advances the ordinal with wraparound.
type Mode int

const (
	ModeOverview Mode = iota
	ModeLevels
	ModeVisual
	ModeNotes
	ModeDiagnostic

	// ModeCount is the number of display modes.
	ModeCount
)

// Valid reports whether m is a defined display mode.
func (m Mode) Valid() bool {
	return m >= 0 && m < ModeCount
}

// Next returns the mode after m, wrapping around to the first mode.
func (m Mode) Next() Mode {
	return (m + 1) % ModeCount
}

// String returns the mode name used in logs and configuration.
func (m Mode) String() string {
	switch m {
	case ModeOverview:
		return "overview"
	case ModeLevels:
		return "levels"
	case ModeVisual:
		return "visual"
	case ModeNotes:
		return "notes"
	case ModeDiagnostic:
		return "diagnostic"
	default:
		return "unknown"
	}
}
