package ingest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/grinchdubs/performance-companion/internal/types"
)

// payload is the JSON envelope carried by topic-addressed messages.
type payload struct {
	Value any `json:"value"`
}

// DecodeTopic maps one topic-addressed message to an event. Topic tails
// mirror the pattern-addressed surface:
//
//	performance/tempo              {"value": <bpm>}
//	performance/scene              {"value": "<name>"}
//	performance/playing            {"value": true|false|0|1}
//	performance/time               {"value": <seconds>}
//	performance/track/<n>/volume   {"value": <volume>}
//	performance/fps                {"value": <fps>}
//	performance/composition        {"value": "<name>"}
//	performance/param/<name>       {"value": <float or string>}
//	performance/mode               {"value": <ordinal>}
//	performance/note               {"value": "<text>"}
//
// The first segment is the subscription namespace and is not interpreted,
// so any prefix the broker side chooses works. A malformed payload is a
// decode error; an unknown topic decodes to an Unrecognized event with no
// error.
func DecodeTopic(topic string, data []byte) (types.Event, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return types.Unrecognized(), fmt.Errorf("malformed payload on %s: %w", topic, err)
	}
	args := []any{p.Value}

	segs := strings.Split(topic, "/")
	if len(segs) < 2 {
		return types.Unrecognized(), nil
	}
	tail := segs[1:]

	switch tail[0] {
	case "tempo":
		return types.TempoUpdate(floatArg(args)), nil
	case "scene":
		return types.SceneUpdate(stringArg(args)), nil
	case "playing":
		return types.PlayingUpdate(boolArg(args)), nil
	case "time":
		return types.TimeUpdate(floatArg(args)), nil
	case "fps":
		return types.FpsUpdate(floatArg(args)), nil
	case "composition":
		return types.CompositionUpdate(stringArg(args)), nil
	case "mode":
		return types.ModeChange(intArg(args)), nil
	case "note":
		return types.NoteAdded(stringArg(args)), nil
	case "track":
		if len(tail) == 3 && tail[2] == "volume" {
			index, err := strconv.Atoi(tail[1])
			if err != nil {
				return types.Unrecognized(), nil
			}
			return types.TrackVolumeUpdate(index, floatArg(args)), nil
		}
	case "param":
		if len(tail) == 2 && tail[1] != "" {
			return types.ParameterUpdate(tail[1], paramArg(args)), nil
		}
	}

	return types.Unrecognized(), nil
}
