package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bobarin/voicescript/internal/models"
)

// ErrUnstructuredOutput means the model answered but no JSON object could be
// read from its text.
var ErrUnstructuredOutput = errors.New("model output is not valid JSON")

// BestEffortExtract reads a ScriptResult out of free model text. It first
// parses the whole trimmed text; failing that, it parses the span between the
// first '{' and the last '}'. Only a JSON object counts as success. Field
// types are not checked: string values are kept, other values are carried as
// their JSON text.
func BestEffortExtract(raw string) (*models.ScriptResult, error) {
	trimmed := strings.TrimSpace(raw)

	obj, strictErr := decodeObject(trimmed)
	if strictErr == nil {
		return scriptFromObject(obj), nil
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object found (%v)", ErrUnstructuredOutput, strictErr)
	}

	obj, err := decodeObject(trimmed[start : end+1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnstructuredOutput, err)
	}

	return scriptFromObject(obj), nil
}

func decodeObject(s string) (map[string]interface{}, error) {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, err
	}
	// "null" decodes without error into a nil map
	if obj == nil {
		return nil, errors.New("top-level value is not an object")
	}
	return obj, nil
}

func scriptFromObject(obj map[string]interface{}) *models.ScriptResult {
	return &models.ScriptResult{
		Title:       fieldText(obj["title"]),
		Description: fieldText(obj["description"]),
		Script:      fieldText(obj["script"]),
		ShortScript: fieldText(obj["short_script"]),
	}
}

func fieldText(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
