package render

import (
	"fmt"
	"image"
	"sort"

	"github.com/grinchdubs/performance-companion/internal/state"
	"github.com/grinchdubs/performance-companion/internal/types"
)

const (
	lineHeight = 13 // basicfont.Face7x13 height
	ascent     = 11

	maxLevelTracks = 6
	maxParams      = 4
	maxNoteLines   = 5

	barHeight = 8
)

// Render maps a snapshot and a display mode to a frame. It is pure: two
// calls with the same snapshot and mode produce byte-identical frames, and
// no wall-clock time is read beyond values already in the snapshot.
func Render(snap state.Snapshot, mode types.Mode, width, height int) *Frame {
	f := NewFrame(width, height)

	y := 0
	f.DrawString(0, y+ascent, title(mode))
	y += lineHeight + 2
	f.HLine(0, width, y)
	y += 4

	switch mode {
	case types.ModeLevels:
		drawLevels(f, snap, y)
	case types.ModeVisual:
		drawVisual(f, snap, y)
	case types.ModeNotes:
		drawNotes(f, snap, y)
	case types.ModeDiagnostic:
		drawDiagnostic(f, snap, y)
	default:
		drawOverview(f, snap, y)
	}

	return f
}

func title(mode types.Mode) string {
	switch mode {
	case types.ModeLevels:
		return "Audio Levels"
	case types.ModeVisual:
		return "Visual Engine"
	case types.ModeNotes:
		return "Performance Notes"
	case types.ModeDiagnostic:
		return "Diagnostics"
	default:
		return "Overview"
	}
}

// textLine draws one line of text at y and returns the next y. A line that
// would cross the bottom edge is silently omitted.
func textLine(f *Frame, y int, s string) int {
	if y+lineHeight > f.Height() {
		return y
	}
	f.DrawString(0, y+ascent, s)
	return y + lineHeight
}

func drawOverview(f *Frame, snap state.Snapshot, y int) {
	y = textLine(f, y, fmt.Sprintf("BPM: %.1f", snap.Bpm))
	y = textLine(f, y, "Scene: "+ellipsize(snap.Scene, 25))

	status := "STOPPED"
	if snap.Playing {
		status = "PLAYING"
	}
	y = textLine(f, y, "Status: "+status)

	minutes := int(snap.TimeSeconds) / 60
	seconds := int(snap.TimeSeconds) % 60
	textLine(f, y, fmt.Sprintf("Time: %d:%02d", minutes, seconds))
}

func drawLevels(f *Frame, snap state.Snapshot, y int) {
	tracks := make([]int, 0, len(snap.TrackVolumes))
	for index := range snap.TrackVolumes {
		tracks = append(tracks, index)
	}
	sort.Ints(tracks)
	if len(tracks) > maxLevelTracks {
		tracks = tracks[:maxLevelTracks]
	}

	barX := 30
	barWidth := f.Width() - 60

	for _, index := range tracks {
		if y+barHeight+2 >= f.Height() {
			return
		}
		f.DrawString(0, y+barHeight, fmt.Sprintf("T%d:", index))

		f.Rect(image.Rect(barX, y, barX+barWidth, y+barHeight))
		filled := int(float64(barWidth) * snap.TrackVolumes[index])
		if filled > 0 {
			f.FillRect(image.Rect(barX, y, barX+filled, y+barHeight))
		}

		y += barHeight + 3
	}
}

func drawVisual(f *Frame, snap state.Snapshot, y int) {
	y = textLine(f, y, fmt.Sprintf("FPS: %.1f", snap.Fps))
	y = textLine(f, y, "Comp: "+ellipsize(snap.Composition, 25))
	y += 4

	names := snap.ParamOrder
	if len(names) > maxParams {
		names = names[:maxParams]
	}
	for _, name := range names {
		y = textLine(f, y, truncate(name, 15)+": "+paramString(snap.Parameters[name]))
	}
}

func drawNotes(f *Frame, snap state.Snapshot, y int) {
	notes := snap.Notes
	if len(notes) > maxNoteLines {
		notes = notes[len(notes)-maxNoteLines:]
	}

	if len(notes) == 0 {
		textLine(f, y, "No notes")
		return
	}

	for _, note := range notes {
		y = textLine(f, y, note.At.Format("15:04")+": "+truncate(note.Text, 25))
	}
}

func drawDiagnostic(f *Frame, snap state.Snapshot, y int) {
	y = textLine(f, y, fmt.Sprintf("Events: %d", snap.EventsApplied))
	y = textLine(f, y, fmt.Sprintf("Dropped: %d", snap.EventsDropped))
	y = textLine(f, y, fmt.Sprintf("Tracks: %d", len(snap.TrackVolumes)))
	y = textLine(f, y, fmt.Sprintf("Params: %d", len(snap.Parameters)))
	y = textLine(f, y, fmt.Sprintf("Notes: %d", len(snap.Notes)))
	textLine(f, y, fmt.Sprintf("Songs: %d", len(snap.Setlist)))
}

func paramString(v any) string {
	switch n := v.(type) {
	case float64:
		return fmt.Sprintf("%.2f", n)
	default:
		return truncate(fmt.Sprint(v), 10)
	}
}

// ellipsize shortens s to 22 characters plus an ellipsis when it exceeds
// max characters. Cuts land on rune boundaries so multi-byte names stay
// valid UTF-8.
func ellipsize(s string, max int) string {
	r := []rune(s)
	if len(r) > max {
		return string(r[:22]) + "..."
	}
	return s
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) > max {
		return string(r[:max])
	}
	return s
}
