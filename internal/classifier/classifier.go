package classifier

import (
	"strings"

	"github.com/pbaille/moodlog/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Result holds the classification output
type Result struct {
	Emotion       domain.Emotion `json:"emotion"`
	Advice        string         `json:"advice"`
	PositiveCount int            `json:"positive_count"`
	NegativeCount int            `json:"negative_count"`
}

// Classifier scores text against a fixed lexicon. It holds no mutable
// state and is safe for concurrent use.
type Classifier struct {
	tag      language.Tag
	positive []string
	negative []string
}

// New creates a Classifier for the given lexicon. The language tag selects
// the lowercasing rules applied to both markers and input text.
func New(lex Lexicon, tag language.Tag) *Classifier {
	c := &Classifier{tag: tag}
	c.positive = normalizeMarkers(lex.Positive, c.lower)
	c.negative = normalizeMarkers(lex.Negative, c.lower)
	return c
}

// Default creates a Classifier with the built-in Russian lexicon
func Default() *Classifier {
	return New(DefaultLexicon(), language.Russian)
}

// cases.Caser is stateful and not shareable across goroutines
func (c *Classifier) lower(s string) string {
	return cases.Lower(c.tag).String(s)
}

// Classify counts the distinct markers of each polarity found in text.
// More positive markers wins positive, more negative wins negative, and
// any tie (including no markers at all) is neutral.
func (c *Classifier) Classify(text string) Result {
	lowered := c.lower(text)
	res := Result{
		PositiveCount: countMarkers(lowered, c.positive),
		NegativeCount: countMarkers(lowered, c.negative),
	}

	switch {
	case res.PositiveCount > res.NegativeCount:
		res.Emotion = domain.Positive
	case res.NegativeCount > res.PositiveCount:
		res.Emotion = domain.Negative
	default:
		res.Emotion = domain.Neutral
	}
	res.Advice = res.Emotion.Advice()
	return res
}

func countMarkers(text string, markers []string) int {
	n := 0
	for _, m := range markers {
		if strings.Contains(text, m) {
			n++
		}
	}
	return n
}

var defaultClassifier = Default()

// Classify runs the built-in classifier and returns the emotion and its advice
func Classify(text string) (domain.Emotion, string) {
	res := defaultClassifier.Classify(text)
	return res.Emotion, res.Advice
}
