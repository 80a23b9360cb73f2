package scoring

import "testing"

func TestDetectSentiment(t *testing.T) {
	tests := []struct {
		text string
		want Sentiment
	}{
		{"I love this amazing translator", SentimentPositive},
		{"This is the worst, I hate it", SentimentNegative},
		{"The train leaves at noon", SentimentNeutral},
		{"good but sad", SentimentNeutral},
	}
	for _, tt := range tests {
		if got := DetectSentiment(tt.text); got != tt.want {
			t.Errorf("DetectSentiment(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestAnalyzeComplexity(t *testing.T) {
	complex := "one two three four five six seven eight nine ten eleven words here"
	if got := AnalyzeComplexity(complex); got != ComplexityComplex {
		t.Errorf("complex text: got %s", got)
	}
	// больше 10 слов, но не больше 50 символов
	if got := AnalyzeComplexity("a b c d e f g h i j k"); got != ComplexityMedium {
		t.Errorf("short many-word text: got %s, want Medium", got)
	}
	if got := AnalyzeComplexity("hello there my good old friend"); got != ComplexityMedium {
		t.Errorf("six words: got %s, want Medium", got)
	}
	if got := AnalyzeComplexity("hello world"); got != ComplexitySimple {
		t.Errorf("two words: got %s, want Simple", got)
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"hello", 8},
		{"hello.", 13},
		{"hello world, how are you today?", 58},
		{"one two three four five six seven eight nine ten eleven twelve!", 95},
	}
	for _, tt := range tests {
		if got := Confidence(tt.text); got != tt.want {
			t.Errorf("Confidence(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestPredictLanguage(t *testing.T) {
	if got := PredictLanguage("the cat and the dog"); got != "English" {
		t.Errorf("english text: got %s", got)
	}
	if got := PredictLanguage("यह मेरा घर है"); got != "Hindi" {
		t.Errorf("hindi text: got %s", got)
	}
	if got := PredictLanguage("qqq"); got != UnknownLanguage {
		t.Errorf("no keywords: got %s", got)
	}
	// ключевые слова ищутся как подстроки: "y" внутри "xyz"
	if got := PredictLanguage("xyz"); got != "Spanish" {
		t.Errorf("substring match: got %s, want Spanish", got)
	}
}

func TestHeuristicScore(t *testing.T) {
	var s Scorer = NewHeuristic()
	m := s.Score("I love this amazing translator")
	if m.Sentiment != SentimentPositive {
		t.Errorf("Sentiment = %s", m.Sentiment)
	}
	if m.WordCount != 5 {
		t.Errorf("WordCount = %d, want 5", m.WordCount)
	}
	if m.TextLength != 30 {
		t.Errorf("TextLength = %d, want 30", m.TextLength)
	}
	if m.Complexity != ComplexitySimple {
		t.Errorf("Complexity = %s", m.Complexity)
	}

	// длина в символах, не в байтах
	if got := s.Score("नमस्ते").TextLength; got != 6 {
		t.Errorf("rune length = %d, want 6", got)
	}
}
