// Package speech pronounces text through an external synthesis program.
package speech

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrUnavailable is returned when none of the configured programs is installed.
var ErrUnavailable = errors.New("no speech synthesis program found")

// DefaultPrograms are tried in order: macOS say, then espeak.
var DefaultPrograms = []string{"say", "espeak"}

// Speaker runs the first available program with the text as its last argument.
type Speaker struct {
	programs [][]string
	lookPath func(string) (string, error)
}

// New builds a Speaker from command lines such as "espeak -v en".
func New(programs []string) *Speaker {
	parsed := make([][]string, 0, len(programs))
	for _, p := range programs {
		parts := strings.Fields(p)
		if len(parts) == 0 {
			continue
		}
		parsed = append(parsed, parts)
	}
	return &Speaker{programs: parsed, lookPath: exec.LookPath}
}

// Speak blocks until the program exits.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	for _, parts := range s.programs {
		path, err := s.lookPath(parts[0])
		if err != nil {
			continue
		}
		args := append(append([]string(nil), parts[1:]...), text)
		out, err := exec.CommandContext(ctx, path, args...).CombinedOutput()
		if err != nil {
			msg := strings.TrimSpace(string(out))
			if msg == "" {
				return fmt.Errorf("failed to run %s: %w", parts[0], err)
			}
			return fmt.Errorf("failed to run %s: %w: %s", parts[0], err, msg)
		}
		return nil
	}
	return fmt.Errorf("%w (tried: %s)", ErrUnavailable, strings.Join(s.names(), ", "))
}

func (s *Speaker) names() []string {
	names := make([]string, 0, len(s.programs))
	for _, parts := range s.programs {
		names = append(names, parts[0])
	}
	return names
}

// Nop is a Speaker that stays silent.
type Nop struct{}

// Speak does nothing.
func (Nop) Speak(context.Context, string) error { return nil }
