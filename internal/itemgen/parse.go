package itemgen

import (
	"encoding/json"
	"errors"
	"regexp"
	"sort"
	"strings"
)

var (
	thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)
	codeFence  = regexp.MustCompile("```[A-Za-z]*")
)

// ParseResponse decodes raw model text as JSON. Strict decoding is tried
// first; on failure, reasoning blocks and code fences are stripped and the
// outermost brace-delimited span is decoded instead (bracket-delimited
// when the text opens with an array).
func ParseResponse(raw string) (any, error) {
	var v any
	err := json.Unmarshal([]byte(raw), &v)
	if err == nil {
		return v, nil
	}

	cleaned := thinkBlock.ReplaceAllString(raw, "")
	cleaned = strings.TrimSpace(codeFence.ReplaceAllString(cleaned, ""))
	if json.Unmarshal([]byte(cleaned), &v) == nil {
		return v, nil
	}

	delims := [][2]byte{{'{', '}'}, {'[', ']'}}
	if arr := strings.IndexByte(cleaned, '['); arr >= 0 && arr < strings.IndexByte(cleaned, '{') {
		delims[0], delims[1] = delims[1], delims[0]
	}
	for _, d := range delims {
		if span, ok := outermost(cleaned, d[0], d[1]); ok {
			if json.Unmarshal([]byte(span), &v) == nil {
				return v, nil
			}
		}
	}

	if strings.TrimSpace(raw) == "" {
		err = errors.New("empty response")
	}
	return nil, &ParseError{Raw: raw, Err: err}
}

func outermost(s string, open, close byte) (string, bool) {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// ExtractArray locates the record array in a parsed response: v[key] when
// present, v itself when it is already an array, else the first array
// among the object's values in sorted key order.
func ExtractArray(v any, key string) ([]any, error) {
	switch t := v.(type) {
	case []any:
		return t, nil
	case map[string]any:
		if arr, ok := t[key].([]any); ok {
			return arr, nil
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if arr, ok := t[k].([]any); ok {
				return arr, nil
			}
		}
	}
	return nil, &ExtractionError{Key: key}
}
