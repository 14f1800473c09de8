// Package console owns interactive terminal input for the capture
// session: confirmation prompts, parameter entry, and the quit line.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Prompter gathers typed input from the operator. Implementations block
// until a line arrives; they are called from action worker goroutines,
// never from the frame loop.
type Prompter interface {
	// Confirm prints the prompt and reads one line. Only the literal
	// "yes", trimmed and case-insensitive, confirms; any other input,
	// including a read failure, declines.
	Confirm(prompt string) bool

	// ReadLine prints the prompt and returns one trimmed line. An
	// empty result means the operator declined to supply a value.
	ReadLine(prompt string) string
}

// Console is the stdin-backed Prompter for the run command. A single
// reader goroutine owns stdin: while a prompt is pending, the next line
// answers it; otherwise a lone "q" requests shutdown. Keeping one
// reader on the descriptor lets prompts and the quit line share stdin
// no matter how many workers ask questions.
type Console struct {
	in          io.Reader
	out         io.Writer
	interactive bool

	lines    chan string
	quit     chan struct{}
	quitOnce sync.Once
	eof      chan struct{}

	promptMu sync.Mutex // serializes whole prompts across workers

	mu      sync.Mutex
	started bool
	pending int
}

// New creates a Console over stdin and stdout.
func New() *Console {
	c := newConsole(os.Stdin, os.Stdout)
	c.interactive = term.IsTerminal(int(os.Stdin.Fd()))
	return c
}

// NewWithIO creates a Console over the given reader and writer. Tests
// use it to script stdin.
func NewWithIO(in io.Reader, out io.Writer) *Console {
	return newConsole(in, out)
}

func newConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:    in,
		out:   out,
		lines: make(chan string),
		quit:  make(chan struct{}),
		eof:   make(chan struct{}),
	}
}

// Interactive reports whether stdin is a terminal.
func (c *Console) Interactive() bool {
	return c.interactive
}

// Start launches the stdin reader. It returns immediately; the reader
// runs until stdin closes or the process exits.
func (c *Console) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return
	}
	c.started = true
	go c.readLoop()
}

// Quit returns a channel closed when the operator types "q" on a line
// of its own.
func (c *Console) Quit() <-chan struct{} {
	return c.quit
}

// Confirm implements Prompter.
func (c *Console) Confirm(prompt string) bool {
	return strings.EqualFold(c.ReadLine(prompt), "yes")
}

// ReadLine implements Prompter.
func (c *Console) ReadLine(prompt string) string {
	c.promptMu.Lock()
	defer c.promptMu.Unlock()

	// Mark the prompt pending before printing it, so a line typed as
	// soon as the prompt appears is routed to it.
	c.mu.Lock()
	c.pending++
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.pending--
		c.mu.Unlock()
	}()

	fmt.Fprint(c.out, prompt)

	select {
	case line := <-c.lines:
		return line
	case <-c.eof:
		// Stdin closed mid-prompt: a decline, never a retry.
		return ""
	}
}

// readLoop consumes stdin line by line, routing each line to the
// pending prompt or to quit detection when no prompt is waiting.
func (c *Console) readLoop() {
	defer close(c.eof)

	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		c.mu.Lock()
		waiting := c.pending > 0
		c.mu.Unlock()

		if waiting {
			c.lines <- line
			continue
		}

		if strings.EqualFold(line, "q") {
			c.quitOnce.Do(func() { close(c.quit) })
		}
	}
}
