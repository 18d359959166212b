package classifier

import "strings"

// Lexicon holds the marker substrings for each polarity
type Lexicon struct {
	Positive []string `yaml:"positive" json:"positive"`
	Negative []string `yaml:"negative" json:"negative"`
}

// Markers are word stems, so "отличн" matches "отлично" and "отличный" alike.
var (
	positiveMarkers = []string{
		"хорошо", "отличн", "радост", "счастлив", "весел",
		"классно", "круто", "люблю", "прекрасно",
	}
	negativeMarkers = []string{
		"плохо", "грустно", "устал", "тяжело", "болит",
		"печаль", "одинок", "страшно", "больно",
	}
)

// DefaultLexicon returns a copy of the built-in Russian lexicon.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Positive: append([]string(nil), positiveMarkers...),
		Negative: append([]string(nil), negativeMarkers...),
	}
}

// normalizeMarkers lowercases, trims and dedupes markers, dropping blanks.
// A blank marker would match every text.
func normalizeMarkers(markers []string, lower func(string) string) []string {
	seen := make(map[string]bool, len(markers))
	out := make([]string, 0, len(markers))
	for _, m := range markers {
		m = lower(strings.TrimSpace(m))
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}
