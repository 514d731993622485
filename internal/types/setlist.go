package types

// Song is one entry of the set list. The set list is loaded once at startup
// and is read-only for the rest of the run.
type Song struct {
	Title     string  `json:"title"`
	Key       string  `json:"key,omitempty"`
	Bpm       float64 `json:"bpm,omitempty"`
	DurationS int     `json:"duration_s,omitempty"`
	Notes     string  `json:"notes,omitempty"`
}
