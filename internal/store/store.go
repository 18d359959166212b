package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/kv"
	"github.com/pbaille/moodlog/internal/logging"
)

// EntriesKey is the blob key holding the serialized entry collection
const EntriesKey = "mood-diary-entries"

var (
	// ErrInconsistentAdvice is returned when advice is not the canonical
	// advice of the entry's emotion
	ErrInconsistentAdvice = errors.New("advice does not match emotion")
	// ErrNotFound is returned by Find when no entry matches
	ErrNotFound = errors.New("entry not found")
	// ErrAmbiguousID is returned by Find when a prefix matches several entries
	ErrAmbiguousID = errors.New("ambiguous entry id")
)

// Store owns the diary entries, newest first, and rewrites the whole
// collection into its blob on every mutation.
type Store struct {
	mu      sync.Mutex
	blob    kv.Blob
	entries []domain.Entry
	loaded  bool

	now   func() time.Time
	newID func() string
	log   *logging.Logger
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDFunc overrides entry id generation
func WithIDFunc(f func() string) Option {
	return func(s *Store) { s.newID = f }
}

// WithLogger sets the store logger
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New creates a Store backed by blob. Nothing is read until Load or the
// first operation.
func New(blob kv.Blob, opts ...Option) *Store {
	s := &Store{
		blob:  blob,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load restores the persisted collection. When nothing has ever been
// persisted it seeds three example entries and persists them.
func (s *Store) Load() ([]domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, err
	}
	return s.snapshot(), nil
}

func (s *Store) loadLocked() error {
	if s.loaded {
		return nil
	}

	data, err := s.blob.Get(EntriesKey)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		seed := s.seedEntries()
		if err := s.persist(seed); err != nil {
			return err
		}
		s.entries = seed
		s.log.Infof("seeded %d example entries", len(seed))
	case err != nil:
		return fmt.Errorf("load entries: %w", err)
	default:
		var entries []domain.Entry
		if err := json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("decode entries: %w", err)
		}
		s.entries = entries
		s.log.Debugf("loaded %d entries", len(entries))
	}

	s.loaded = true
	return nil
}

func (s *Store) seedEntries() []domain.Entry {
	now := s.now()
	day := 24 * time.Hour
	mk := func(text string, e domain.Emotion, at time.Time) domain.Entry {
		return domain.Entry{ID: s.newID(), Text: text, Emotion: e, Advice: e.Advice(), Timestamp: at}
	}
	return []domain.Entry{
		mk("Я устал сегодня в школе, было тяжело. Много домашних заданий.", domain.Negative, now),
		mk("Работал весь день, ничего особенного не произошло. Обычный рабочий день.", domain.Neutral, now.Add(-1*day)),
		mk("Сегодня был отличный день! Встретился с друзьями, мы много смеялись и гуляли в парке.", domain.Positive, now.Add(-2*day)),
	}
}

// persist writes entries as one blob; the caller commits them to memory
// only after this succeeds
func (s *Store) persist(entries []domain.Entry) error {
	if entries == nil {
		entries = []domain.Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode entries: %w", err)
	}
	if err := s.blob.Put(EntriesKey, data); err != nil {
		return fmt.Errorf("persist entries: %w", err)
	}
	return nil
}

func (s *Store) snapshot() []domain.Entry {
	out := make([]domain.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Append creates a new entry at the front of the diary and returns it.
// An empty advice is filled with the emotion's canonical advice. If the
// collection cannot be persisted the entry is not added.
func (s *Store) Append(text string, emotion domain.Emotion, advice string) (*domain.Entry, error) {
	if !emotion.Valid() {
		return nil, fmt.Errorf("append entry: unknown emotion %q", emotion)
	}
	if advice == "" {
		advice = emotion.Advice()
	}
	if advice != emotion.Advice() {
		return nil, fmt.Errorf("append entry: %w", ErrInconsistentAdvice)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, err
	}

	entry := domain.Entry{
		ID:        s.newID(),
		Text:      text,
		Emotion:   emotion,
		Advice:    advice,
		Timestamp: s.now(),
	}

	updated := make([]domain.Entry, 0, len(s.entries)+1)
	updated = append(updated, entry)
	updated = append(updated, s.entries...)

	if err := s.persist(updated); err != nil {
		s.log.Errorf("append %s failed: %v", entry.ID, err)
		return nil, err
	}
	s.entries = updated
	s.log.Infof("appended %s (%s)", entry.ID, entry.Emotion)

	return &entry, nil
}

// List returns a newest-first copy of all entries
func (s *Store) List() ([]domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, err
	}
	return s.snapshot(), nil
}

// Recent returns at most n newest entries
func (s *Store) Recent(n int) ([]domain.Entry, error) {
	entries, err := s.List()
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

// Find returns the entry whose id equals or starts with idPrefix
func (s *Store) Find(idPrefix string) (*domain.Entry, error) {
	entries, err := s.List()
	if err != nil {
		return nil, err
	}
	if idPrefix == "" {
		return nil, ErrNotFound
	}

	var found *domain.Entry
	for i := range entries {
		e := &entries[i]
		if e.ID == idPrefix {
			return e, nil
		}
		if strings.HasPrefix(e.ID, idPrefix) {
			if found != nil {
				return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, idPrefix)
			}
			found = e
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

// Delete removes the entry with the given id and reports whether it
// existed. Deleting an unknown id changes nothing.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return false, err
	}

	idx := -1
	for i, e := range s.entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	updated := make([]domain.Entry, 0, len(s.entries)-1)
	updated = append(updated, s.entries[:idx]...)
	updated = append(updated, s.entries[idx+1:]...)

	if err := s.persist(updated); err != nil {
		s.log.Errorf("delete %s failed: %v", id, err)
		return false, err
	}
	s.entries = updated
	s.log.Infof("deleted %s", id)

	return true, nil
}

// Len returns the number of entries
func (s *Store) Len() (int, error) {
	entries, err := s.List()
	return len(entries), err
}
