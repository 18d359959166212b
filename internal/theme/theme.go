// Package theme persists the light/dark display preference.
package theme

import (
	"errors"
	"fmt"

	"github.com/pbaille/moodlog/internal/kv"
)

// Key is the blob key holding the preference
const Key = "mood-diary-theme"

// Mode is a display theme
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// Parse validates a mode name
func Parse(s string) (Mode, error) {
	switch Mode(s) {
	case Light, Dark:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown theme %q (valid: light, dark)", s)
}

// Get returns the stored mode; Light when nothing (or garbage) is stored
func Get(b kv.Blob) (Mode, error) {
	data, err := b.Get(Key)
	if errors.Is(err, kv.ErrNotFound) {
		return Light, nil
	}
	if err != nil {
		return Light, fmt.Errorf("read theme: %w", err)
	}
	if Mode(data) == Dark {
		return Dark, nil
	}
	return Light, nil
}

// Set stores mode
func Set(b kv.Blob, mode Mode) error {
	if _, err := Parse(string(mode)); err != nil {
		return err
	}
	if err := b.Put(Key, []byte(mode)); err != nil {
		return fmt.Errorf("write theme: %w", err)
	}
	return nil
}

// Toggle flips and stores the mode, returning the new one
func Toggle(b kv.Blob) (Mode, error) {
	cur, err := Get(b)
	if err != nil {
		return cur, err
	}
	next := Dark
	if cur == Dark {
		next = Light
	}
	if err := Set(b, next); err != nil {
		return cur, err
	}
	return next, nil
}
