package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/grinchdubs/performance-companion/internal/types"
)

// DecodeAddress maps one pattern-addressed message to an event. The address
// table mirrors the wire surface of the controller integrations:
//
//	/live/tempo            float bpm
//	/live/scene            string scene name
//	/live/playing          bool/int playing flag
//	/live/time             float transport seconds
//	/live/track/<n>/volume float volume, <n> captured as track index
//	/td/fps                float frame rate
//	/td/composition        string composition name
//	/td/param/<name>       float or string, <name> captured as parameter name
//	/companion/mode        int mode ordinal
//	/companion/note        string note text
//
// Anything else decodes to an Unrecognized event.
func DecodeAddress(addr string, args []any) types.Event {
	switch addr {
	case "/live/tempo":
		return types.TempoUpdate(floatArg(args))
	case "/live/scene":
		return types.SceneUpdate(stringArg(args))
	case "/live/playing":
		return types.PlayingUpdate(boolArg(args))
	case "/live/time":
		return types.TimeUpdate(floatArg(args))
	case "/td/fps":
		return types.FpsUpdate(floatArg(args))
	case "/td/composition":
		return types.CompositionUpdate(stringArg(args))
	case "/companion/mode":
		return types.ModeChange(intArg(args))
	case "/companion/note":
		return types.NoteAdded(stringArg(args))
	}

	segs := strings.Split(strings.TrimPrefix(addr, "/"), "/")
	switch {
	case len(segs) == 4 && segs[0] == "live" && segs[1] == "track" && segs[3] == "volume":
		index, err := strconv.Atoi(segs[2])
		if err != nil {
			return types.Unrecognized()
		}
		return types.TrackVolumeUpdate(index, floatArg(args))

	case len(segs) == 3 && segs[0] == "td" && segs[1] == "param" && segs[2] != "":
		return types.ParameterUpdate(segs[2], paramArg(args))
	}

	return types.Unrecognized()
}

// floatArg coerces the first argument to float64. OSC carries numbers as
// int32, float32 or float64 depending on the sender.
func floatArg(args []any) float64 {
	if len(args) == 0 {
		return 0
	}
	switch v := args[0].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

func intArg(args []any) int {
	return int(floatArg(args))
}

func boolArg(args []any) bool {
	if len(args) == 0 {
		return false
	}
	switch v := args[0].(type) {
	case bool:
		return v
	default:
		return floatArg(args) != 0
	}
}

func stringArg(args []any) string {
	if len(args) == 0 {
		return ""
	}
	if s, ok := args[0].(string); ok {
		return s
	}
	return fmt.Sprint(args[0])
}

// paramArg keeps a parameter value as float64 when numeric and string
// otherwise; the renderer formats the two differently.
func paramArg(args []any) any {
	if len(args) == 0 {
		return ""
	}
	switch args[0].(type) {
	case float64, float32, int32, int64, int:
		return floatArg(args)
	default:
		return stringArg(args)
	}
}
