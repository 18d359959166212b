package trend

import (
	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/locale"
)

// DefaultWindow is the number of most recent entries charted
const DefaultWindow = 10

// Point is one chart sample
type Point struct {
	Label string `json:"date"`
	Value int    `json:"mood"`
}

// Emotion maps the point's value back to the emotion it was scored from
func (p Point) Emotion() domain.Emotion {
	return domain.EmotionFromScore(float64(p.Value))
}

// Source yields entries newest first. Store satisfies it.
type Source interface {
	List() ([]domain.Entry, error)
}

// Aggregator derives chart series from the diary
type Aggregator struct {
	window int
	format locale.Formatter
}

// New creates an Aggregator charting at most window entries.
// A non-positive window falls back to DefaultWindow.
func New(window int, format locale.Formatter) *Aggregator {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Aggregator{window: window, format: format}
}

// Window returns the number of entries charted
func (a *Aggregator) Window() int {
	return a.window
}

// Series returns the most recent entries in chronological order. An empty
// series means there is not enough data to chart.
func (a *Aggregator) Series(src Source) ([]Point, error) {
	entries, err := src.List()
	if err != nil {
		return nil, err
	}
	return a.FromEntries(entries), nil
}

// FromEntries is Series over an already loaded newest-first slice
func (a *Aggregator) FromEntries(entries []domain.Entry) []Point {
	if len(entries) > a.window {
		entries = entries[:a.window]
	}

	points := make([]Point, len(entries))
	for i, e := range entries {
		points[len(entries)-1-i] = Point{
			Label: a.format.DayMonth(e.Timestamp),
			Value: e.Emotion.Score(),
		}
	}
	return points
}
