// Package diary drives one user's analyze-then-save flow.
package diary

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/pbaille/moodlog/internal/capture"
	"github.com/pbaille/moodlog/internal/classifier"
	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/logging"
	"github.com/pbaille/moodlog/internal/speech"
)

var (
	// ErrEmptyInput rejects blank text before it reaches the classifier
	ErrEmptyInput = errors.New("text is empty")
	// ErrNotClassified rejects saving before the text was analyzed
	ErrNotClassified = errors.New("text has not been analyzed yet")
)

// Appender persists a classified entry. *store.Store satisfies it.
type Appender interface {
	Append(text string, emotion domain.Emotion, advice string) (*domain.Entry, error)
}

// Analysis is a classified text awaiting confirmation
type Analysis struct {
	Text    string         `json:"text"`
	Emotion domain.Emotion `json:"emotion"`
	Advice  string         `json:"advice"`
}

// Session holds at most one pending analysis
type Session struct {
	entries    Appender
	classifier *classifier.Classifier
	speaker    speech.Speaker
	capturer   capture.Capturer
	log        *logging.Logger

	mu            sync.Mutex
	pending       *Analysis
	typedFallback bool
}

// Option configures a Session
type Option func(*Session)

// WithSpeaker reads advice aloud after each analysis
func WithSpeaker(s speech.Speaker) Option {
	return func(sess *Session) { sess.speaker = s }
}

// WithCapturer sets the recorder used by Record
func WithCapturer(c capture.Capturer) Option {
	return func(sess *Session) { sess.capturer = c }
}

// WithLogger sets the session logger
func WithLogger(l *logging.Logger) Option {
	return func(sess *Session) { sess.log = l }
}

// NewSession creates a Session saving into entries
func NewSession(entries Appender, clf *classifier.Classifier, opts ...Option) *Session {
	s := &Session{
		entries:    entries,
		classifier: clf,
		speaker:    speech.Nop{},
		capturer:   capture.Unsupported{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze classifies text and keeps it pending until Save or Discard.
// A new analysis replaces any pending one.
func (s *Session) Analyze(text string) (Analysis, error) {
	if strings.TrimSpace(text) == "" {
		return Analysis{}, ErrEmptyInput
	}

	res := s.classifier.Classify(text)
	a := Analysis{Text: text, Emotion: res.Emotion, Advice: res.Advice}

	s.mu.Lock()
	s.pending = &a
	s.mu.Unlock()

	s.log.Debugf("analyzed: %s (+%d/-%d)", res.Emotion, res.PositiveCount, res.NegativeCount)
	s.speaker.Speak(a.Advice)
	return a, nil
}

// Record runs one capture session and analyzes its transcript. When
// capture is unsupported or denied the session switches to typed input.
func (s *Session) Record(ctx context.Context) (Analysis, error) {
	text, err := s.capturer.Capture(ctx)
	if err != nil {
		if capture.NeedsTypedFallback(err) {
			s.mu.Lock()
			s.typedFallback = true
			s.mu.Unlock()
		}
		s.log.Warnf("capture: %v", err)
		return Analysis{}, err
	}
	return s.Analyze(text)
}

// TypedFallback reports whether speech capture was found unusable
func (s *Session) TypedFallback() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typedFallback
}

// Pending returns the analysis awaiting Save, if any
func (s *Session) Pending() (Analysis, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return Analysis{}, false
	}
	return *s.pending, true
}

// Discard drops the pending analysis
func (s *Session) Discard() {
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
}

// Save appends the pending analysis to the diary. The analysis stays
// pending if the append fails, so the user can retry.
func (s *Session) Save() (*domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return nil, ErrNotClassified
	}

	entry, err := s.entries.Append(s.pending.Text, s.pending.Emotion, s.pending.Advice)
	if err != nil {
		return nil, err
	}
	s.pending = nil
	return entry, nil
}
