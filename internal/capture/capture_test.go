package capture

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedReadsOneLinePerSession(t *testing.T) {
	var prompt bytes.Buffer
	c := NewTyped(strings.NewReader("первая строка\nвторая\n"), &prompt, "> ")

	first, err := c.Capture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "первая строка", first)

	second, err := c.Capture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "вторая", second)

	assert.Equal(t, "> > ", prompt.String())
}

func TestTypedLastLineWithoutNewline(t *testing.T) {
	c := NewTyped(strings.NewReader("без перевода"), nil, "")
	got, err := c.Capture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "без перевода", got)
}

func TestTypedBlankIsFailure(t *testing.T) {
	c := NewTyped(strings.NewReader("   \n"), nil, "")
	_, err := c.Capture(context.Background())
	assert.ErrorIs(t, err, ErrFailed)

	_, err = c.Capture(context.Background())
	assert.ErrorIs(t, err, ErrFailed, "EOF with no text")
}

func TestUnsupported(t *testing.T) {
	_, err := Unsupported{}.Capture(context.Background())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestNeedsTypedFallback(t *testing.T) {
	assert.True(t, NeedsTypedFallback(ErrUnsupported))
	assert.True(t, NeedsTypedFallback(fmt.Errorf("record: %w", ErrPermissionDenied)))
	assert.False(t, NeedsTypedFallback(ErrFailed))
	assert.False(t, NeedsTypedFallback(nil))
}
