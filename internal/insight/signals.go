package insight

import (
	"strings"

	pipeline "github.com/carebridge/visit-insights/internal/visitpipeline"
)

// ContributingSignals links a risk flag back to the concern and observation
// strings that mention any of its keywords. Keywords are lower-cased words
// longer than three characters drawn from the flag's name and reason. When
// nothing matches, the flag's own reason stands in as the signal.
func ContributingSignals(flag pipeline.RiskFlag, concerns, observations []string) []string {
	tokens := signalTokens(flag.Risk + " " + flag.Reason)

	matched := []string{}
	for _, candidate := range append(append([]string{}, concerns...), observations...) {
		lower := strings.ToLower(candidate)
		for _, token := range tokens {
			if strings.Contains(lower, token) {
				matched = append(matched, candidate)
				break
			}
		}
	}
	if len(matched) == 0 {
		return []string{flag.Reason}
	}
	return matched
}

func signalTokens(text string) []string {
	var tokens []string
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?()\"'")
		if len(word) > 3 {
			tokens = append(tokens, word)
		}
	}
	return tokens
}
