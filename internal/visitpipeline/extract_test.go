package visitpipeline

import "testing"

func TestExtractJSONObject(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
		want string
	}{
		{name: "bare object", in: `{"a":1}`, want: `{"a":1}`},
		{name: "fenced json block", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "fenced without language", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "prose around object", in: `Here is the result: {"a":1} hope that helps`, want: `{"a":1}`},
		{name: "nested braces", in: `preamble {"a":{"b":2}} trailing`, want: `{"a":{"b":2}}`},
		{name: "multiple objects keeps outer span", in: `{"a":1} and {"b":2}`, want: `{"a":1} and {"b":2}`},
		{name: "no braces returns trimmed input", in: "  plain prose, no JSON here  ", want: "plain prose, no JSON here"},
		{name: "empty input", in: "", want: ""},
		{name: "only open brace", in: "{ not closed", want: "{ not closed"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractJSONObject(tc.in); got != tc.want {
				t.Fatalf("ExtractJSONObject(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
