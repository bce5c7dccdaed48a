package completion

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrNoJSON is returned when a response holds no JSON object at all.
var ErrNoJSON = eris.New("completion: no json object in response")

var fenceRe = regexp.MustCompile("(?m)^\\s*```[a-zA-Z]*\\s*$")

// ExtractJSONObject returns the first balanced {...} block in text. Markdown
// fences and surrounding prose are ignored. An unbalanced object falls back to
// the span from the first '{' to the last '}'.
func ExtractJSONObject(text string) (string, error) {
	s := fenceRe.ReplaceAllString(text, "")
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", ErrNoJSON
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}

	end := strings.LastIndexByte(s, '}')
	if end <= start {
		return "", ErrNoJSON
	}
	return s[start : end+1], nil
}

// DecodeJSON extracts the first object from text and unmarshals it into v.
func DecodeJSON(text string, v any) error {
	obj, err := ExtractJSONObject(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(obj), v); err != nil {
		return eris.Wrap(err, "completion: decode json")
	}
	return nil
}
