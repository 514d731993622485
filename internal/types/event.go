package types

// EventKind discriminates the variants of Event.
type EventKind int

const (
	EventUnrecognized EventKind = iota
	EventTempo
	EventScene
	EventPlaying
	EventTime
	EventTrackVolume
	EventFps
	EventComposition
	EventParameter
	EventModeChange
	EventNote
)

// String returns the event kind name used in logs.
func (k EventKind) String() string {
	switch k {
	case EventTempo:
		return "tempo"
	case EventScene:
		return "scene"
	case EventPlaying:
		return "playing"
	case EventTime:
		return "time"
	case EventTrackVolume:
		return "track_volume"
	case EventFps:
		return "fps"
	case EventComposition:
		return "composition"
	case EventParameter:
		return "parameter"
	case EventModeChange:
		return "mode_change"
	case EventNote:
		return "note"
	default:
		return "unrecognized"
	}
}

// Event is a single decoded ingestion message. A listener creates one Event
// per inbound message; the state store consumes it exactly once. Which
// payload fields are meaningful depends on Kind.
type Event struct {
	Kind EventKind

	// Num carries the numeric payload: bpm, transport seconds, fps or a
	// track volume.
	Num float64
	// Text carries scene names, composition names, parameter names and
	// note text.
	Text string
	// Index carries a track index or a target mode ordinal.
	Index int
	// Value carries a parameter value (float64 or string).
	Value any
	// On carries the transport playing flag.
	On bool
}

func TempoUpdate(bpm float64) Event {
	return Event{Kind: EventTempo, Num: bpm}
}

func SceneUpdate(name string) Event {
	return Event{Kind: EventScene, Text: name}
}

func PlayingUpdate(on bool) Event {
	return Event{Kind: EventPlaying, On: on}
}

func TimeUpdate(seconds float64) Event {
	return Event{Kind: EventTime, Num: seconds}
}

func TrackVolumeUpdate(index int, volume float64) Event {
	return Event{Kind: EventTrackVolume, Index: index, Num: volume}
}

func FpsUpdate(fps float64) Event {
	return Event{Kind: EventFps, Num: fps}
}

func CompositionUpdate(name string) Event {
	return Event{Kind: EventComposition, Text: name}
}

func ParameterUpdate(name string, value any) Event {
	return Event{Kind: EventParameter, Text: name, Value: value}
}

func ModeChange(index int) Event {
	return Event{Kind: EventModeChange, Index: index}
}

func NoteAdded(text string) Event {
	return Event{Kind: EventNote, Text: text}
}

func Unrecognized() Event {
	return Event{Kind: EventUnrecognized}
}
