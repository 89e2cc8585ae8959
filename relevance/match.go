package relevance

import (
	"strings"
	"unicode/utf8"

	"github.com/jonwraymond/uslegal/record"
)

// Scorer scores records with a fixed set of weights.
type Scorer struct {
	weights Weights
}

// NewScorer creates a Scorer. Invalid weights fall back to DefaultWeights.
func NewScorer(w Weights) Scorer {
	if w.Validate() != nil {
		w = DefaultWeights()
	}
	return Scorer{weights: w}
}

var defaultScorer = NewScorer(DefaultWeights())

// Default returns the Scorer using DefaultWeights.
func Default() Scorer { return defaultScorer }

// Weights returns the scorer's weights.
func (s Scorer) Weights() Weights { return s.weights }

// Tokens returns the lowercased query tokens that take part in scoring.
func (s Scorer) Tokens(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= s.weights.MinTokenLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Match scores text against query. See the package documentation for the
// formula.
func (s Scorer) Match(text, query string) float64 {
	if text == "" || query == "" {
		return 0
	}
	return s.match(strings.ToLower(text), strings.ToLower(query), s.Tokens(query))
}

// match scores an already-lowercased text. tokens must come from Tokens.
func (s Scorer) match(lowerText, lowerQuery string, tokens []string) float64 {
	if lowerText == "" || len(tokens) == 0 {
		return 0
	}

	var score float64
	if strings.Contains(lowerText, lowerQuery) {
		score += s.weights.ExactPhrase
	}

	matched := 0
	for _, token := range tokens {
		n := strings.Count(lowerText, token)
		if n == 0 {
			continue
		}
		matched++
		score += float64(min(n, s.weights.OccurrenceCap))
	}

	if matched == len(tokens) {
		score += s.weights.Coverage
	}
	return score
}

// containsAny reports whether lowerText contains at least one token.
func containsAny(lowerText string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(lowerText, token) {
			return true
		}
	}
	return false
}

// Tokens returns the query tokens under DefaultWeights.
func Tokens(query string) []string { return defaultScorer.Tokens(query) }

// MatchScore scores text against query under DefaultWeights.
func MatchScore(text, query string) float64 { return defaultScorer.Match(text, query) }

// ScoreBill scores a bill under DefaultWeights.
func ScoreBill(b record.Bill, query string) float64 { return defaultScorer.Bill(b, query) }

// ScoreDocument scores a Federal Register document under DefaultWeights.
func ScoreDocument(d record.Document, query string) float64 { return defaultScorer.Document(d, query) }
