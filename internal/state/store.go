package state

import (
	"log/slog"
	"sync"
	"time"

	"github.com/grinchdubs/performance-companion/internal/types"
)

const (
	// maxNotes bounds the note buffer; the oldest note is evicted first.
	maxNotes = 10
	// maxTracks and maxParameters cap the ad hoc maps so a misbehaving
	// producer cannot grow them without limit. The oldest-inserted key is
	// evicted beyond the cap.
	maxTracks     = 32
	maxParameters = 64
)

// Note is one timestamped free-text note.
type Note struct {
	At   time.Time
	Text string
}

// Store is the single shared aggregate for all producer state. All mutation
// goes through Apply; Snapshot returns a defensive copy safe to read without
// further synchronization. Both are safe under arbitrary concurrent callers.
// The store never performs I/O and never triggers rendering itself.
type Store struct {
	mu sync.Mutex

	bpm         float64
	scene       string
	playing     bool
	timeSeconds float64

	trackVolumes map[int]float64
	trackOrder   []int

	fps         float64
	composition string
	parameters  map[string]any
	paramOrder  []string

	notes   []Note
	setlist []types.Song
	mode    types.Mode

	applied uint64
	dropped uint64

	now func() time.Time
}

// New creates a store with the given initial display mode.
func New(defaultMode types.Mode) *Store {
	if !defaultMode.Valid() {
		defaultMode = types.ModeOverview
	}
	return &Store{
		bpm:          120.0,
		scene:        "No Scene",
		composition:  "No Composition",
		trackVolumes: make(map[int]float64),
		parameters:   make(map[string]any),
		mode:         defaultMode,
		now:          time.Now,
	}
}

// SetSetlist installs the startup set list. Called once before listeners
// start; the list is read-only afterwards.
func (s *Store) SetSetlist(songs []types.Song) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setlist = songs
}

// Apply applies one event to the aggregate with last-write-wins semantics
// and reports whether state changed. Unrecognized events and events that
// fail validation are dropped and return false.
func (s *Store) Apply(ev types.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Kind {
	case types.EventTempo:
		s.bpm = ev.Num
	case types.EventScene:
		s.scene = ev.Text
	case types.EventPlaying:
		s.playing = ev.On
	case types.EventTime:
		s.timeSeconds = ev.Num
	case types.EventTrackVolume:
		s.setTrackVolume(ev.Index, clamp01(ev.Num))
	case types.EventFps:
		s.fps = ev.Num
	case types.EventComposition:
		s.composition = ev.Text
	case types.EventParameter:
		s.setParameter(ev.Text, ev.Value)
	case types.EventModeChange:
		mode := types.Mode(ev.Index)
		if !mode.Valid() {
			slog.Warn("mode change out of range, dropping",
				"index", ev.Index,
				"mode_count", int(types.ModeCount),
			)
			s.dropped++
			return false
		}
		s.mode = mode
	case types.EventNote:
		s.notes = append(s.notes, Note{At: s.now(), Text: ev.Text})
		if len(s.notes) > maxNotes {
			s.notes = s.notes[len(s.notes)-maxNotes:]
		}
	default:
		s.dropped++
		return false
	}

	s.applied++
	return true
}

// Advance moves the display mode to its successor with wraparound. It is
// the rotation timer's producer path and funnels through the same Apply
// logic as an explicit mode change.
func (s *Store) Advance() bool {
	s.mu.Lock()
	next := s.mode.Next()
	s.mu.Unlock()
	return s.Apply(types.ModeChange(int(next)))
}

// Mode returns the currently active display mode.
func (s *Store) Mode() types.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Counters returns the applied and dropped event counts.
func (s *Store) Counters() (applied, dropped uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied, s.dropped
}

func (s *Store) setTrackVolume(index int, volume float64) {
	if _, ok := s.trackVolumes[index]; !ok {
		if len(s.trackOrder) >= maxTracks {
			oldest := s.trackOrder[0]
			s.trackOrder = s.trackOrder[1:]
			delete(s.trackVolumes, oldest)
			slog.Warn("track volume cap reached, evicting oldest track",
				"evicted", oldest,
				"cap", maxTracks,
			)
		}
		s.trackOrder = append(s.trackOrder, index)
	}
	s.trackVolumes[index] = volume
}

func (s *Store) setParameter(name string, value any) {
	if _, ok := s.parameters[name]; !ok {
		if len(s.paramOrder) >= maxParameters {
			oldest := s.paramOrder[0]
			s.paramOrder = s.paramOrder[1:]
			delete(s.parameters, oldest)
			slog.Warn("parameter cap reached, evicting oldest parameter",
				"evicted", oldest,
				"cap", maxParameters,
			)
		}
		s.paramOrder = append(s.paramOrder, name)
	}
	s.parameters[name] = value
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
