package fish

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fish-morphology/pkg/morphology"
)

// Scale is the pixel-to-unit ratio read from specimen metadata. It is passed
// through to the outputs untouched by the pipeline.
type Scale struct {
	Value morphology.Value
	Unit  string
}

type metadataFile struct {
	Ruler *struct {
		Scale *float64 `json:"scale"`
		Unit  string   `json:"unit"`
	} `json:"ruler"`
}

// ParseScale extracts the ruler scale from a metadata document. A document
// without a ruler gives an unavailable scale and no unit.
func ParseScale(data []byte) (Scale, error) {
	var md metadataFile
	if err := json.Unmarshal(data, &md); err != nil {
		return Scale{}, fmt.Errorf("parse metadata: %w", err)
	}
	if md.Ruler == nil || md.Ruler.Scale == nil {
		return Scale{}, nil
	}
	return Scale{Value: morphology.Of(*md.Ruler.Scale).RoundTo(3), Unit: md.Ruler.Unit}, nil
}

// ReadScale reads the ruler scale from a metadata file.
func ReadScale(path string) (Scale, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scale{}, fmt.Errorf("read metadata: %w", err)
	}
	return ParseScale(data)
}

// BaseName is the specimen name of a segmented image file: its file name up
// to the last underscore, e.g. "INHS_FISH_1234" for
// "INHS_FISH_1234_segmented.png".
func BaseName(path string) string {
	name := filepath.Base(path)
	if i := strings.LastIndex(name, "_"); i >= 0 {
		return name[:i]
	}
	return name
}

// WriteJSON writes v as indented JSON to path.
func WriteJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
