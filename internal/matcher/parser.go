package matcher

import (
	"encoding/json"
	"errors"
	"fmt"
)

// classification is the provider's answer as written; nothing in it is trusted.
type classification struct {
	MatchedIndustry     string
	Confidence          string
	Reasoning           string
	AlternateIndustries []string
}

// parseResult is either parsedOK or parsedInvalid.
type parseResult interface {
	isParseResult()
}

type parsedOK struct {
	fields classification
}

type parsedInvalid struct {
	err error
}

func (parsedOK) isParseResult()      {}
func (parsedInvalid) isParseResult() {}

var errNotObject = errors.New("classification is not a JSON object")

// parseClassification decodes text as one JSON object. Surrounding prose, code
// fences or any top-level value other than an object make it invalid. Fields
// of the wrong type read as absent and are left for repair.
func parseClassification(text string) parseResult {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return parsedInvalid{err: fmt.Errorf("invalid classification JSON: %w", err)}
	}
	if raw == nil {
		return parsedInvalid{err: errNotObject}
	}

	return parsedOK{fields: classification{
		MatchedIndustry:     stringField(raw["matchedIndustry"]),
		Confidence:          stringField(raw["confidence"]),
		Reasoning:           stringField(raw["reasoning"]),
		AlternateIndustries: stringsField(raw["alternateIndustries"]),
	}}
}

func stringField(v json.RawMessage) string {
	var s string
	if len(v) == 0 || json.Unmarshal(v, &s) != nil {
		return ""
	}
	return s
}

// stringsField reads an array, keeping only its string elements.
func stringsField(v json.RawMessage) []string {
	var items []json.RawMessage
	if len(v) == 0 || json.Unmarshal(v, &items) != nil {
		return nil
	}
	var out []string
	for _, item := range items {
		var s string
		if json.Unmarshal(item, &s) == nil {
			out = append(out, s)
		}
	}
	return out
}
