package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/quadra/internal/store"
)

type jsonExport struct {
	ExportedAt string          `json:"exported_at"`
	Version    int             `json:"version"`
	State      json.RawMessage `json:"state"`
}

// ToJSON writes the whole document wrapped with export metadata. The state
// is encoded exactly as it is persisted.
func ToJSON(state store.UserState, path string) error {
	doc, err := store.Encode(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Version:    store.SchemaVersion,
		State:      doc,
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
