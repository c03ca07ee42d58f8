package store

import (
	"regexp"
	"strings"
)

// tokenRegex matches word sequences, keeping hyphenated color terms
// like "tri-color" together for the synonym layer upstream.
var tokenRegex = regexp.MustCompile(`[a-zA-Z0-9]+(?:-[a-zA-Z0-9]+)*`)

// TokenizeText splits free text into lowercase word tokens, dropping
// tokens shorter than minLen.
func TokenizeText(text string, minLen int) []string {
	if minLen <= 0 {
		minLen = 1
	}
	var tokens []string
	for _, w := range tokenRegex.FindAllString(text, -1) {
		lower := strings.ToLower(w)
		if len(lower) >= minLen {
			tokens = append(tokens, lower)
		}
	}
	return tokens
}

// FilterStopWords removes stop words from a token list.
func FilterStopWords(tokens []string, stopWords map[string]struct{}) []string {
	result := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, isStop := stopWords[strings.ToLower(token)]; !isStop {
			result = append(result, token)
		}
	}
	return result
}

// BuildStopWordMap converts a stop word list to a lookup map.
func BuildStopWordMap(stopWords []string) map[string]struct{} {
	m := make(map[string]struct{}, len(stopWords))
	for _, word := range stopWords {
		m[strings.ToLower(word)] = struct{}{}
	}
	return m
}
