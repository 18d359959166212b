// Package capture turns user speech or typing into one transcript per session.
package capture

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrUnsupported means the platform has no speech capture
	ErrUnsupported = errors.New("speech capture is not supported here")
	// ErrPermissionDenied means the user declined microphone access
	ErrPermissionDenied = errors.New("microphone access denied")
	// ErrFailed means recognition produced no usable text
	ErrFailed = errors.New("speech was not recognized")
)

// Capturer runs one recording session and returns its transcript.
// Failures are one of the errors above.
type Capturer interface {
	Capture(ctx context.Context) (string, error)
}

// NeedsTypedFallback reports whether err means the user should switch to
// typed input instead of retrying speech.
func NeedsTypedFallback(err error) bool {
	return errors.Is(err, ErrUnsupported) || errors.Is(err, ErrPermissionDenied)
}

// Unsupported is the Capturer for platforms without a speech stack
type Unsupported struct{}

func (Unsupported) Capture(context.Context) (string, error) {
	return "", ErrUnsupported
}

// Typed reads one line of typed text per session
type Typed struct {
	in     *bufio.Reader
	prompt io.Writer
	label  string
}

// NewTyped reads from in, writing label to prompt (if non-nil) before each session
func NewTyped(in io.Reader, prompt io.Writer, label string) *Typed {
	return &Typed{in: bufio.NewReader(in), prompt: prompt, label: label}
}

// Capture reads the next line. A blank line or EOF is ErrFailed.
func (t *Typed) Capture(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if t.prompt != nil && t.label != "" {
		fmt.Fprint(t.prompt, t.label)
	}

	line, err := t.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: %v", ErrFailed, err)
	}
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return "", ErrFailed
	}
	return line, nil
}
