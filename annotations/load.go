package annotations

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/juruen/slideview/log"
	"github.com/juruen/slideview/model"
)

type feature struct {
	ID         json.RawMessage        `json:"id"`
	Properties map[string]interface{} `json:"properties"`
	Geometry   model.Geometry         `json:"geometry"`
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

// LoadFile reads annotations from a JSON file.
func LoadFile(path string) ([]model.Annotation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	annotations, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "can't load %s", path)
	}
	log.Trace.Printf("loaded %d annotations from %s", len(annotations), path)
	return annotations, nil
}

// Decode accepts either a JSON array of annotations or a GeoJSON
// FeatureCollection.
func Decode(r io.Reader) ([]model.Annotation, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, nil
	}

	if b[0] == '[' {
		var annotations []model.Annotation
		if err := json.Unmarshal(b, &annotations); err != nil {
			return nil, errors.Wrap(err, "invalid annotation list")
		}
		return annotations, nil
	}

	var fc featureCollection
	if err := json.Unmarshal(b, &fc); err != nil {
		return nil, errors.Wrap(err, "invalid feature collection")
	}
	if fc.Type != "FeatureCollection" {
		return nil, errors.Errorf("unsupported document type %q", fc.Type)
	}

	annotations := make([]model.Annotation, len(fc.Features))
	for i, f := range fc.Features {
		annotations[i] = model.Annotation{
			ID:       featureID(f.ID, i),
			Name:     stringProperty(f.Properties, "name"),
			Geometry: f.Geometry,
		}
	}
	return annotations, nil
}

func featureID(raw json.RawMessage, index int) string {
	if len(raw) == 0 || string(raw) == "null" {
		return strconv.Itoa(index)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func stringProperty(props map[string]interface{}, key string) string {
	if s, ok := props[key].(string); ok {
		return s
	}
	return ""
}
