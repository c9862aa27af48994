package classifier

import (
	"errors"
	"strings"
)

// ErrMalformedOutput means the oracle responded but its output contained
// no parseable JSON object. Callers surface it as a generic
// "couldn't understand" outcome rather than a system fault.
var ErrMalformedOutput = errors.New("malformed oracle output")

// extractJSON returns the substring between the first '{' and the last
// '}' of s. The oracle routinely wraps its JSON in prose despite prompt
// instructions, so this trimming is part of the parsing contract, not a
// cleanup shortcut.
func extractJSON(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}
