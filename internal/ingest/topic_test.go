package ingest

import (
	"testing"

	"github.com/grinchdubs/performance-companion/internal/types"
)

// TestDecodeTopicSurface verifies the topic tails mirror the pattern
// surface.
func TestDecodeTopicSurface(t *testing.T) {
	ev, err := DecodeTopic("performance/tempo", []byte(`{"value": 126.5}`))
	if err != nil {
		t.Fatalf("tempo: %v", err)
	}
	if ev.Kind != types.EventTempo || ev.Num != 126.5 {
		t.Errorf("tempo: got kind=%v num=%f", ev.Kind, ev.Num)
	}

	ev, _ = DecodeTopic("performance/track/4/volume", []byte(`{"value": 0.6}`))
	if ev.Kind != types.EventTrackVolume || ev.Index != 4 || ev.Num != 0.6 {
		t.Errorf("track volume: got kind=%v index=%d num=%f", ev.Kind, ev.Index, ev.Num)
	}

	ev, _ = DecodeTopic("performance/param/strobe", []byte(`{"value": "fast"}`))
	if ev.Kind != types.EventParameter || ev.Text != "strobe" {
		t.Errorf("param: got kind=%v text=%q", ev.Kind, ev.Text)
	}
	if v, ok := ev.Value.(string); !ok || v != "fast" {
		t.Errorf("param value: got %T %v", ev.Value, ev.Value)
	}

	ev, _ = DecodeTopic("performance/playing", []byte(`{"value": true}`))
	if ev.Kind != types.EventPlaying || !ev.On {
		t.Errorf("playing: got kind=%v on=%v", ev.Kind, ev.On)
	}

	ev, _ = DecodeTopic("performance/note", []byte(`{"value": "tune the 303"}`))
	if ev.Kind != types.EventNote || ev.Text != "tune the 303" {
		t.Errorf("note: got kind=%v text=%q", ev.Kind, ev.Text)
	}

	ev, _ = DecodeTopic("performance/mode", []byte(`{"value": 2}`))
	if ev.Kind != types.EventModeChange || ev.Index != 2 {
		t.Errorf("mode: got kind=%v index=%d", ev.Kind, ev.Index)
	}
}

// TestDecodeTopicMalformed verifies a malformed payload is an error, not a
// panic or a silent event.
func TestDecodeTopicMalformed(t *testing.T) {
	_, err := DecodeTopic("performance/tempo", []byte(`{not json`))
	if err == nil {
		t.Fatal("Expected error for malformed payload")
	}

	_, err = DecodeTopic("performance/tempo", []byte(``))
	if err == nil {
		t.Fatal("Expected error for empty payload")
	}
}

// TestDecodeTopicUnknown verifies unknown topics decode to Unrecognized
// without error.
func TestDecodeTopicUnknown(t *testing.T) {
	for _, topic := range []string{
		"performance/unknown",
		"performance/track/4/pan",
		"performance/track/x/volume",
		"performance",
	} {
		ev, err := DecodeTopic(topic, []byte(`{"value": 1}`))
		if err != nil {
			t.Errorf("%s: unexpected error %v", topic, err)
		}
		if ev.Kind != types.EventUnrecognized {
			t.Errorf("%s: expected unrecognized, got %v", topic, ev.Kind)
		}
	}
}
