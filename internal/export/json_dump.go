package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spacesedan/commentflow/internal/models"
)

// JSONDumper overwrites a single file with the response body of the most
// recent analysis.
type JSONDumper struct {
	path string
	mu   sync.Mutex
}

func NewJSONDumper(path string) *JSONDumper {
	return &JSONDumper{path: path}
}

func (d *JSONDumper) Dump(result models.AnalysisResult) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result.Payload()); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(d.path), ".json_dump-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", d.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", d.path, err)
	}
	if err := os.Rename(tmp.Name(), d.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", d.path, err)
	}
	return nil
}
