// Package speech reads advice aloud. Playback is best effort and never
// blocks the caller.
package speech

import (
	"os/exec"
	"strings"

	"github.com/pbaille/moodlog/internal/logging"
)

// Speaker plays text. Implementations must return immediately.
type Speaker interface {
	Speak(text string)
}

// Nop is the Speaker for platforms without speech synthesis
type Nop struct{}

func (Nop) Speak(string) {}

// Command speaks by running an external TTS program with the text as its
// last argument, e.g. "espeak-ng -v ru -s 150".
type Command struct {
	path string
	args []string
	log  *logging.Logger
}

// NewCommand resolves cmdline on PATH. It returns Nop when the program is
// missing so callers need no special case.
func NewCommand(cmdline string, log *logging.Logger) Speaker {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return Nop{}
	}
	path, err := exec.LookPath(fields[0])
	if err != nil {
		log.Debugf("speech disabled: %v", err)
		return Nop{}
	}
	return &Command{path: path, args: fields[1:], log: log}
}

// Speak starts the program and reaps it in the background
func (c *Command) Speak(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	args := append(append([]string(nil), c.args...), text)
	cmd := exec.Command(c.path, args...)
	if err := cmd.Start(); err != nil {
		c.log.Warnf("speak: %v", err)
		return
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			c.log.Debugf("speak: %v", err)
		}
	}()
}
