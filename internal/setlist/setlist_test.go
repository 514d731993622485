package setlist

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadMissingFile verifies a missing set list yields an empty list, not
// an error.
func TestLoadMissingFile(t *testing.T) {
	songs, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Expected no error for a missing file, got: %v", err)
	}
	if len(songs) != 0 {
		t.Errorf("Expected an empty list, got %d songs", len(songs))
	}
}

// TestLoadValidFile verifies the document format parses in order.
func TestLoadValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setlist.json")
	doc := `{"set_list": [
		{"title": "Opener", "key": "Am", "bpm": 120, "duration_s": 240, "notes": "slow build"},
		{"title": "Peak", "key": "F#m", "bpm": 140, "duration_s": 300}
	]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	songs, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load set list: %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("Expected 2 songs, got %d", len(songs))
	}
	if songs[0].Title != "Opener" || songs[0].Bpm != 120 {
		t.Errorf("Unexpected first song: %+v", songs[0])
	}
	if songs[1].Key != "F#m" || songs[1].Notes != "" {
		t.Errorf("Unexpected second song: %+v", songs[1])
	}
}

// TestLoadMalformedFile verifies broken JSON is reported rather than
// silently ignored.
func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setlist.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected an error for malformed JSON")
	}
}
