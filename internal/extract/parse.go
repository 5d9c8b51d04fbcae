package extract

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// stripFences removes a surrounding markdown code fence (```json or ```).
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 && !strings.ContainsAny(text[:nl], "{[") {
		// Drop the language tag on the opening line.
		text = text[nl+1:]
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// objectSpan returns the text between the first '{' and the last '}'.
func objectSpan(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// parseObject decodes a model response into a JSON object. It tolerates code
// fences and prose around the object.
func parseObject(raw string) (map[string]any, error) {
	text := stripFences(raw)
	if text == "" {
		return nil, eris.New("extract: empty response")
	}

	var doc map[string]any
	err := json.Unmarshal([]byte(text), &doc)
	if err == nil && doc != nil {
		return doc, nil
	}

	span, ok := objectSpan(text)
	if !ok {
		if err == nil {
			err = eris.New("response is not a JSON object")
		}
		return nil, eris.Wrap(err, "extract: parse response")
	}
	doc = nil
	if err := json.Unmarshal([]byte(span), &doc); err != nil {
		return nil, eris.Wrap(err, "extract: parse response")
	}
	if doc == nil {
		return nil, eris.New("extract: response is not a JSON object")
	}
	return doc, nil
}
