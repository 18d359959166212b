package domain

import (
	"fmt"
	"time"
)

// Emotion is the polarity assigned to a diary entry
type Emotion string

const (
	Positive Emotion = "positive"
	Neutral  Emotion = "neutral"
	Negative Emotion = "negative"
)

type emotionInfo struct {
	score  int
	label  string
	emoji  string
	advice string
}

var emotionConfig = map[Emotion]emotionInfo{
	Positive: {
		score:  1,
		label:  "Позитивное",
		emoji:  "😊",
		advice: "Кажется, у тебя отличное настроение! Запиши, что сделало этот день таким классным.",
	},
	Neutral: {
		score:  0,
		label:  "Нейтральное",
		emoji:  "😐",
		advice: "Спокойный день — тоже хорошо. Может, стоит попробовать сделать что-то приятное для себя?",
	},
	Negative: {
		score:  -1,
		label:  "Негативное",
		emoji:  "😔",
		advice: "Ты звучишь немного грустно. Попробуй глубоко вдохнуть. Что именно тебя расстроило? Можешь рассказать мне.",
	},
}

// Emotions returns all emotions from most to least positive
func Emotions() []Emotion {
	return []Emotion{Positive, Neutral, Negative}
}

// Valid reports whether e is one of the three known emotions
func (e Emotion) Valid() bool {
	_, ok := emotionConfig[e]
	return ok
}

// Score is the chart polarity: +1, 0 or -1
func (e Emotion) Score() int {
	return emotionConfig[e].score
}

// Label is the display name of the emotion
func (e Emotion) Label() string {
	return emotionConfig[e].label
}

// Emoji is the display glyph of the emotion
func (e Emotion) Emoji() string {
	return emotionConfig[e].emoji
}

// Advice is the canned advice stored with entries of this emotion
func (e Emotion) Advice() string {
	return emotionConfig[e].advice
}

// EmotionFromScore maps a chart value back to an emotion.
// Only valid while exactly three emotions with scores +1/0/-1 exist.
func EmotionFromScore(v float64) Emotion {
	switch {
	case v > 0:
		return Positive
	case v < 0:
		return Negative
	default:
		return Neutral
	}
}

// ParseEmotion converts a stored or user-supplied name into an Emotion
func ParseEmotion(s string) (Emotion, error) {
	e := Emotion(s)
	if !e.Valid() {
		return "", fmt.Errorf("unknown emotion %q (valid: positive, neutral, negative)", s)
	}
	return e, nil
}

// UnmarshalText rejects unknown emotions when decoding persisted entries
func (e *Emotion) UnmarshalText(b []byte) error {
	parsed, err := ParseEmotion(string(b))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Entry is one diary record. Entries are never modified after creation.
type Entry struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Emotion   Emotion   `json:"emotion"`
	Advice    string    `json:"advice"`
	Timestamp time.Time `json:"timestamp"`
}
