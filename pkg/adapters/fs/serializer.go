package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aretw0/cellar/pkg/core"
	"gopkg.in/yaml.v3"
)

// Serializer defines how an index file is encoded on disk.
type Serializer interface {
	// Name identifies the format (e.g. "json").
	Name() string
	// Encode converts the ordered records to bytes.
	Encode(records []core.Record) ([]byte, error)
	// Decode parses bytes produced by Encode.
	Decode(data []byte) ([]core.Record, error)
}

// DefaultSerializers returns the standard set of serializers, keyed by name.
func DefaultSerializers(strict bool) map[string]Serializer {
	return map[string]Serializer{
		"json": NewJSONSerializer(strict),
		"yaml": NewYAMLSerializer(strict),
	}
}

// --- JSON Serializer ---

// JSONSerializer encodes the index as a JSON array of objects.
type JSONSerializer struct {
	// Strict enables strict number parsing (as json.Number) to avoid precision loss.
	Strict bool
}

// NewJSONSerializer creates a new JSON serializer.
// Optional strict mode prevents float64 conversion for large integers.
func NewJSONSerializer(strict bool) *JSONSerializer {
	return &JSONSerializer{Strict: strict}
}

func (s *JSONSerializer) Name() string { return "json" }

func (s *JSONSerializer) Encode(records []core.Record) ([]byte, error) {
	if records == nil {
		records = []core.Record{}
	}
	return json.MarshalIndent(records, "", "  ")
}

func (s *JSONSerializer) Decode(data []byte) ([]core.Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var payload []map[string]interface{}
	decoder := json.NewDecoder(bytes.NewReader(data))
	if s.Strict {
		decoder.UseNumber()
	}
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("invalid json: trailing data after index")
	}

	return toRecords(payload)
}

// --- YAML Serializer ---

// YAMLSerializer encodes the index as a YAML sequence of mappings.
type YAMLSerializer struct {
	// Strict enables strict number parsing (as json.Number) to avoid precision loss.
	Strict bool
}

// NewYAMLSerializer creates a new YAML serializer.
// Optional strict mode normalizes numbers to json.Number, matching JSON strict mode.
func NewYAMLSerializer(strict bool) *YAMLSerializer {
	return &YAMLSerializer{Strict: strict}
}

func (s *YAMLSerializer) Name() string { return "yaml" }

func (s *YAMLSerializer) Encode(records []core.Record) ([]byte, error) {
	payload := make([]interface{}, len(records))
	for i, rec := range records {
		payload[i] = plainNumbers(rec)
	}
	return yaml.Marshal(payload)
}

func (s *YAMLSerializer) Decode(data []byte) ([]core.Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var payload []map[string]interface{}
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	records, err := toRecords(payload)
	if err != nil {
		return nil, err
	}
	if s.Strict {
		for i, rec := range records {
			records[i] = recursiveNormalize(rec).(core.Record)
		}
	}
	return records, nil
}

// --- Helpers ---

func toRecords(payload []map[string]interface{}) ([]core.Record, error) {
	records := make([]core.Record, 0, len(payload))
	for i, m := range payload {
		if m == nil {
			return nil, fmt.Errorf("record %d is not an object", i)
		}
		records = append(records, core.Record(m))
	}
	return records, nil
}

// recursiveNormalize traverses the map/slice and converts numeric types to json.Number.
// This ensures consistency with JSON Strict mode.
func recursiveNormalize(val interface{}) interface{} {
	switch v := val.(type) {
	case core.Record:
		m := make(core.Record, len(v))
		for k, val := range v {
			m[k] = recursiveNormalize(val)
		}
		return m
	case map[string]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, val := range v {
			m[k] = recursiveNormalize(val)
		}
		return m
	case []interface{}:
		l := make([]interface{}, len(v))
		for i, val := range v {
			l[i] = recursiveNormalize(val)
		}
		return l
	case int:
		return json.Number(strconv.Itoa(v))
	case int64:
		return json.Number(strconv.FormatInt(v, 10))
	case uint64:
		return json.Number(strconv.FormatUint(v, 10))
	case float64:
		return json.Number(strconv.FormatFloat(v, 'f', -1, 64))
	default:
		return v
	}
}

// plainNumbers is the inverse of recursiveNormalize: json.Number values are
// turned back into int64/float64 so YAML emits them as numbers, not strings.
func plainNumbers(val interface{}) interface{} {
	switch v := val.(type) {
	case core.Record:
		m := make(map[string]interface{}, len(v))
		for k, val := range v {
			m[k] = plainNumbers(val)
		}
		return m
	case map[string]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, val := range v {
			m[k] = plainNumbers(val)
		}
		return m
	case []interface{}:
		l := make([]interface{}, len(v))
		for i, val := range v {
			l[i] = plainNumbers(val)
		}
		return l
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	default:
		return v
	}
}
