package state

import "github.com/grinchdubs/performance-companion/internal/types"

// Snapshot is an internally consistent copy of the aggregate taken at one
// instant. It shares no mutable data with the store and is safe to read
// from any goroutine without synchronization.
type Snapshot struct {
	Bpm         float64
	Scene       string
	Playing     bool
	TimeSeconds float64

	TrackVolumes map[int]float64

	Fps         float64
	Composition string
	Parameters  map[string]any
	// ParamOrder lists parameter names in first-seen order; the renderer
	// uses it for a stable display order.
	ParamOrder []string

	Notes   []Note
	Setlist []types.Song
	Mode    types.Mode

	EventsApplied uint64
	EventsDropped uint64
}

// Snapshot returns a defensive copy of the entire state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	volumes := make(map[int]float64, len(s.trackVolumes))
	for k, v := range s.trackVolumes {
		volumes[k] = v
	}

	params := make(map[string]any, len(s.parameters))
	for k, v := range s.parameters {
		params[k] = v
	}

	return Snapshot{
		Bpm:           s.bpm,
		Scene:         s.scene,
		Playing:       s.playing,
		TimeSeconds:   s.timeSeconds,
		TrackVolumes:  volumes,
		Fps:           s.fps,
		Composition:   s.composition,
		Parameters:    params,
		ParamOrder:    append([]string(nil), s.paramOrder...),
		Notes:         append([]Note(nil), s.notes...),
		Setlist:       s.setlist,
		Mode:          s.mode,
		EventsApplied: s.applied,
		EventsDropped: s.dropped,
	}
}
