package agent

import (
	"encoding/json"
	"strings"
)

// decodeEmbeddedJSON unmarshals the first JSON object embedded in free text
// into v. The decoder is anchored at the first '{' and consumes exactly one
// JSON value, so nested braces inside string values do not break extraction.
// Returns false when no object is present or the value cannot be decoded.
func decodeEmbeddedJSON(text string, v interface{}) bool {
	start := strings.Index(text, "{")
	if start == -1 {
		return false
	}

	dec := json.NewDecoder(strings.NewReader(text[start:]))
	return dec.Decode(v) == nil
}
