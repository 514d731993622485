// Package setlist loads the startup set list document.
package setlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/grinchdubs/performance-companion/internal/types"
)

type document struct {
	SetList []types.Song `json:"set_list"`
}

// Load reads the set list from a JSON file. A missing file is not an error;
// an empty list is returned. A malformed file is a configuration error.
func Load(path string) ([]types.Song, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no set list file found", "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read set list: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse set list: %w", err)
	}

	slog.Info("set list loaded", "path", path, "songs", len(doc.SetList))
	return doc.SetList, nil
}
