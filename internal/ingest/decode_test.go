package ingest

import (
	"testing"

	"github.com/grinchdubs/performance-companion/internal/types"
)

// TestDecodeFixedAddresses verifies the literal entries of the address
// table.
func TestDecodeFixedAddresses(t *testing.T) {
	ev := DecodeAddress("/live/tempo", []any{float32(128.5)})
	if ev.Kind != types.EventTempo || ev.Num != 128.5 {
		t.Errorf("tempo: got kind=%v num=%f", ev.Kind, ev.Num)
	}

	ev = DecodeAddress("/live/scene", []any{"Drop A"})
	if ev.Kind != types.EventScene || ev.Text != "Drop A" {
		t.Errorf("scene: got kind=%v text=%q", ev.Kind, ev.Text)
	}

	ev = DecodeAddress("/live/playing", []any{int32(1)})
	if ev.Kind != types.EventPlaying || !ev.On {
		t.Errorf("playing: got kind=%v on=%v", ev.Kind, ev.On)
	}

	ev = DecodeAddress("/live/time", []any{float32(95.25)})
	if ev.Kind != types.EventTime || ev.Num != 95.25 {
		t.Errorf("time: got kind=%v num=%f", ev.Kind, ev.Num)
	}

	ev = DecodeAddress("/td/fps", []any{float32(60)})
	if ev.Kind != types.EventFps || ev.Num != 60 {
		t.Errorf("fps: got kind=%v num=%f", ev.Kind, ev.Num)
	}

	ev = DecodeAddress("/td/composition", []any{"nebula"})
	if ev.Kind != types.EventComposition || ev.Text != "nebula" {
		t.Errorf("composition: got kind=%v text=%q", ev.Kind, ev.Text)
	}

	ev = DecodeAddress("/companion/mode", []any{int32(3)})
	if ev.Kind != types.EventModeChange || ev.Index != 3 {
		t.Errorf("mode: got kind=%v index=%d", ev.Kind, ev.Index)
	}

	ev = DecodeAddress("/companion/note", []any{"check monitors"})
	if ev.Kind != types.EventNote || ev.Text != "check monitors" {
		t.Errorf("note: got kind=%v text=%q", ev.Kind, ev.Text)
	}
}

// TestDecodeTrackVolumeWildcard verifies the wildcard segment binds the
// track index.
func TestDecodeTrackVolumeWildcard(t *testing.T) {
	ev := DecodeAddress("/live/track/3/volume", []any{float32(0.75)})
	if ev.Kind != types.EventTrackVolume {
		t.Fatalf("Expected track volume event, got %v", ev.Kind)
	}
	if ev.Index != 3 {
		t.Errorf("Expected track index 3, got %d", ev.Index)
	}
	if ev.Num != 0.75 {
		t.Errorf("Expected volume 0.75, got %f", ev.Num)
	}

	// A non-numeric index segment does not match.
	ev = DecodeAddress("/live/track/kick/volume", []any{float32(0.5)})
	if ev.Kind != types.EventUnrecognized {
		t.Errorf("Expected unrecognized for non-numeric index, got %v", ev.Kind)
	}
}

// TestDecodeParamWildcard verifies the parameter name capture and value
// typing.
func TestDecodeParamWildcard(t *testing.T) {
	ev := DecodeAddress("/td/param/feedback", []any{float32(0.42)})
	if ev.Kind != types.EventParameter || ev.Text != "feedback" {
		t.Fatalf("Expected parameter feedback, got kind=%v text=%q", ev.Kind, ev.Text)
	}
	if v, ok := ev.Value.(float64); !ok || v != float64(float32(0.42)) {
		t.Errorf("Expected float64 value, got %T %v", ev.Value, ev.Value)
	}

	ev = DecodeAddress("/td/param/source", []any{"webcam"})
	if v, ok := ev.Value.(string); !ok || v != "webcam" {
		t.Errorf("Expected string value webcam, got %T %v", ev.Value, ev.Value)
	}
}

// TestDecodeUnmatched verifies unknown addresses decode to Unrecognized.
func TestDecodeUnmatched(t *testing.T) {
	for _, addr := range []string{
		"/live/unknown",
		"/td/param",
		"/live/track/3",
		"/live/track/3/pan",
		"/something/else",
		"/",
	} {
		if ev := DecodeAddress(addr, []any{float32(1)}); ev.Kind != types.EventUnrecognized {
			t.Errorf("%s: expected unrecognized, got %v", addr, ev.Kind)
		}
	}
}

// TestArgumentCoercion verifies the numeric and boolean coercions senders
// actually produce.
func TestArgumentCoercion(t *testing.T) {
	if v := floatArg([]any{int32(7)}); v != 7 {
		t.Errorf("int32: got %f", v)
	}
	if v := floatArg([]any{float64(1.5)}); v != 1.5 {
		t.Errorf("float64: got %f", v)
	}
	if v := floatArg(nil); v != 0 {
		t.Errorf("empty args: got %f", v)
	}
	if boolArg([]any{float32(0)}) {
		t.Error("0.0 should coerce to false")
	}
	if !boolArg([]any{true}) {
		t.Error("true should stay true")
	}
	if s := stringArg([]any{int32(4)}); s != "4" {
		t.Errorf("int to string: got %q", s)
	}
}
