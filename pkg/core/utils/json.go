package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// RepairJSON fixes the usual defects of model-written JSON (single quotes,
// unquoted keys, trailing commas, unclosed brackets, fenced code blocks).
func RepairJSON(malformedJSON string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(CleanMarkdown(malformedJSON))
	if err != nil {
		return "", fmt.Errorf("JSON_REPAIR_FAILED: %v", err)
	}
	if !json.Valid([]byte(repaired)) {
		return "", fmt.Errorf("JSON_REPAIR_FAILED: output is not valid JSON")
	}
	return repaired, nil
}

// ParseHJSONToStruct parses Hjson (comments, unquoted keys and strings,
// optional commas, multiline strings) into target.
//
// hjson decodes into maps first, so the result is re-encoded as JSON and
// unmarshalled to honour target's json tags and types.
func ParseHJSONToStruct(hjsonData []byte, target any) error {
	var generic any
	if err := hjson.Unmarshal(hjsonData, &generic); err != nil {
		return fmt.Errorf("HJSON_PARSE_ERROR: %v", err)
	}
	jsonBytes, err := json.Marshal(generic)
	if err != nil {
		return fmt.Errorf("JSON_MARSHAL_ERROR: %v", err)
	}
	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("HJSON_UNMARSHAL_ERROR: %v", err)
	}
	return nil
}
