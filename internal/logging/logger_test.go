package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInDirWritesSessionFile(t *testing.T) {
	dir := t.TempDir()
	l, err := NewInDir(dir, "store")
	require.NoError(t, err)

	l.Infof("loaded %d entries", 3)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close(), "second close must be a no-op")

	assert.Equal(t, filepath.Join(dir, l.SessionID()+"-moodlog.log"), l.Path())

	data, err := os.ReadFile(l.Path())
	require.NoError(t, err)
	line := string(data)
	assert.Contains(t, line, "[store] [INFO] loaded 3 entries")
}

func TestLevelsAndComponents(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "api")

	l.Debugf("d")
	l.Warnf("w")
	l.With("session").Errorf("e %s", "x")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "[api] [DEBUG] d")
	assert.Contains(t, lines[1], "[api] [WARN] w")
	assert.Contains(t, lines[2], "[session] [ERROR] e x")
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Infof("ignored")
	assert.Nil(t, l.With("x"))
	assert.Equal(t, "", l.Path())
	assert.NoError(t, l.Close())
}

func TestFallbackWhenDirUnusable(t *testing.T) {
	// a regular file where the directory should be
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	l, err := NewInDir(filepath.Join(blocker, "logs"), "cli")
	assert.Error(t, err)
	require.NotNil(t, l)
	assert.Equal(t, "", l.Path())
}
