// Package scoring computes the text metrics stored next to every recording.
package scoring

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

type Complexity string

const (
	ComplexitySimple  Complexity = "Simple"
	ComplexityMedium  Complexity = "Medium"
	ComplexityComplex Complexity = "Complex"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

// UnknownLanguage is reported when no language keyword matched.
const UnknownLanguage = "Unknown"

// MaxConfidence - верхняя граница confidence.
const MaxConfidence = 95

// Metrics is the result of scoring one transcript.
type Metrics struct {
	Complexity        Complexity `json:"complexity"`
	Sentiment         Sentiment  `json:"sentiment"`
	Confidence        int        `json:"confidence"`
	PredictedLanguage string     `json:"predicted_language"`
	TextLength        int        `json:"text_length"`
	WordCount         int        `json:"word_count"`
}

// Scorer maps a transcript to metrics. Implementations must be pure.
type Scorer interface {
	Score(text string) Metrics
}

var (
	positiveWords = []string{"good", "great", "excellent", "amazing", "wonderful", "love", "like", "happy", "best", "beautiful", "fantastic"}
	negativeWords = []string{"bad", "terrible", "awful", "hate", "dislike", "sad", "worst", "horrible", "angry", "disappointed"}

	// порядок важен: при равенстве побеждает первый
	languagePatterns = []struct {
		name  string
		words []string
	}{
		{"English", []string{"the", "and", "is", "to", "a"}},
		{"Hindi", []string{"है", "का", "में", "को", "से"}},
		{"Bhojpuri", []string{"बा", "हऽ", "करे", "के", "से"}},
		{"Spanish", []string{"el", "la", "de", "que", "y"}},
		{"French", []string{"le", "de", "et", "à", "un"}},
	}

	punctuation = regexp.MustCompile(`[.!?]`)
)

// Heuristic is the keyword and length based Scorer.
type Heuristic struct{}

func NewHeuristic() Heuristic { return Heuristic{} }

func (Heuristic) Score(text string) Metrics {
	return Metrics{
		Complexity:        AnalyzeComplexity(text),
		Sentiment:         DetectSentiment(text),
		Confidence:        Confidence(text),
		PredictedLanguage: PredictLanguage(text),
		TextLength:        utf8.RuneCountInString(text),
		WordCount:         len(strings.Fields(text)),
	}
}

func AnalyzeComplexity(text string) Complexity {
	words := len(strings.Fields(text))
	chars := utf8.RuneCountInString(text)
	switch {
	case words > 10 && chars > 50:
		return ComplexityComplex
	case words > 5:
		return ComplexityMedium
	default:
		return ComplexitySimple
	}
}

// DetectSentiment counts keywords as substrings of the lower-cased text,
// so "unlike" still counts as "like".
func DetectSentiment(text string) Sentiment {
	lower := strings.ToLower(text)
	pos := countContained(lower, positiveWords)
	neg := countContained(lower, negativeWords)
	switch {
	case pos > neg:
		return SentimentPositive
	case neg > pos:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func Confidence(text string) int {
	score := min(len(strings.Fields(text))*8, 85)
	if punctuation.MatchString(text) {
		score += 5
	}
	if utf8.RuneCountInString(text) > 20 {
		score += 5
	}
	return min(score, MaxConfidence)
}

func PredictLanguage(text string) string {
	lower := strings.ToLower(text)
	best, bestScore := "", 0
	for _, p := range languagePatterns {
		if s := countContained(lower, p.words); s > bestScore {
			best, bestScore = p.name, s
		}
	}
	if bestScore == 0 {
		return UnknownLanguage
	}
	return best
}

func countContained(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}
