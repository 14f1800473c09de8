package console

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a concurrency-safe bytes.Buffer for capturing prompts
// written from another goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestConsole_PromptReceivesLine(t *testing.T) {
	pr, pw := io.Pipe()
	out := &syncBuffer{}

	c := NewWithIO(pr, out)
	c.Start()

	got := make(chan string, 1)
	go func() {
		got <- c.ReadLine("Enter instance ID: ")
	}()

	// Wait for the prompt to appear; once printed, the prompt is
	// registered and the next line is routed to it.
	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), "Enter instance ID: ") {
		if time.Now().After(deadline) {
			t.Fatal("prompt never printed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if _, err := pw.Write([]byte("  i-0abc123  \n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case line := <-got:
		if line != "i-0abc123" {
			t.Errorf("ReadLine() = %q, want %q", line, "i-0abc123")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ReadLine did not return")
	}

	pw.Close()
}

func TestConsole_QuitLine(t *testing.T) {
	c := NewWithIO(strings.NewReader("q\n"), io.Discard)
	c.Start()

	select {
	case <-c.Quit():
	case <-time.After(2 * time.Second):
		t.Fatal("quit channel never closed after a q line")
	}
}

func TestConsole_NonQuitLinesIgnored(t *testing.T) {
	c := NewWithIO(strings.NewReader("hello\nquit\nqq\n"), io.Discard)
	c.Start()

	select {
	case <-c.Quit():
		t.Fatal("quit closed for a line that is not a lone q")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestConsole_EOFCancelsPrompt(t *testing.T) {
	c := NewWithIO(strings.NewReader(""), io.Discard)
	c.Start()

	// Stdin is already exhausted; the prompt must decline, not hang.
	done := make(chan string, 1)
	go func() {
		done <- c.ReadLine("Type 'yes' to confirm: ")
	}()

	select {
	case line := <-done:
		if line != "" {
			t.Errorf("ReadLine() after EOF = %q, want empty", line)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ReadLine hung after stdin closed")
	}
}

func TestScript_ConfirmRules(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"yes", true},
		{"YES", true},
		{"Yes", true},
		{"  yes  ", true},
		{"y", false},
		{"", false},
		{"no", false},
		{"yess", false},
	}

	for _, tc := range cases {
		s := NewScript(tc.input)
		if got := s.Confirm("confirm: "); got != tc.want {
			t.Errorf("Confirm with input %q = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestScript_ExhaustedAnswersEmpty(t *testing.T) {
	s := NewScript("one")

	if got := s.ReadLine("first: "); got != "one" {
		t.Errorf("first ReadLine = %q, want %q", got, "one")
	}
	if got := s.ReadLine("second: "); got != "" {
		t.Errorf("exhausted ReadLine = %q, want empty", got)
	}

	prompts := s.Prompts()
	if len(prompts) != 2 || prompts[0] != "first: " || prompts[1] != "second: " {
		t.Errorf("prompts = %v", prompts)
	}
}
