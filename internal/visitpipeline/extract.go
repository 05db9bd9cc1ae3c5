package visitpipeline

import (
	"regexp"
	"strings"
)

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractJSONObject returns the best candidate JSON object substring from
// free-form model text. It prefers the body of a fenced code block, then
// the span between the first '{' and the last '}'. When no braces exist it
// returns the trimmed input unchanged and leaves failure to the decoder.
func ExtractJSONObject(raw string) string {
	s := strings.TrimSpace(raw)
	if m := fencedBlock.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
