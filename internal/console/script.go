package console

import (
	"strings"
	"sync"
)

// Script is a scripted Prompter for tests. Each prompt consumes the
// next line; an exhausted script answers with an empty line.
type Script struct {
	mu      sync.Mutex
	lines   []string
	prompts []string
}

// NewScript creates a Script that answers prompts with the given lines
// in order.
func NewScript(lines ...string) *Script {
	return &Script{lines: append([]string(nil), lines...)}
}

// Confirm implements Prompter.
func (s *Script) Confirm(prompt string) bool {
	return strings.EqualFold(s.ReadLine(prompt), "yes")
}

// ReadLine implements Prompter.
func (s *Script) ReadLine(prompt string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return ""
	}
	line := strings.TrimSpace(s.lines[0])
	s.lines = s.lines[1:]
	return line
}

// Prompts returns the prompts issued so far, in order.
func (s *Script) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}
