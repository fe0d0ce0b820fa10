package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompt is printed before every input line.
const Prompt = "prefixkv> "

// Executor sends one command line and returns the raw response.
type Executor func(ctx context.Context, line string) (string, error)

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	exec      Executor
	completer *Completer
	history   *History
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets the input and output streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithHistory sets the history store.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// New creates a REPL that sends commands through exec.
func New(exec Executor, opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		exec:      exec,
		completer: NewCompleter(),
		history:   NewHistory(""),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// History returns the REPL history.
func (r *REPL) History() *History {
	return r.history
}

// Run reads lines until EOF, q, quit or exit.
func (r *REPL) Run(ctx context.Context) error {
	reader := bufio.NewReader(r.input)

	for {
		fmt.Fprint(r.output, Prompt)

		line, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) && line == "" {
			fmt.Fprintln(r.output)
			return nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "q", "quit", "exit":
			return nil
		}

		r.history.Add(line)

		if topic, ok := helpTopic(line); ok {
			r.printHelp(topic)
			continue
		}

		resp, execErr := r.exec(ctx, line)
		if execErr != nil {
			fmt.Fprintf(r.output, "ERROR: %v\n", execErr)
		} else {
			fmt.Fprint(r.output, resp)
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
	}
}

func helpTopic(line string) (string, bool) {
	word, rest, _ := strings.Cut(line, " ")
	if !strings.EqualFold(word, "help") {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func (r *REPL) printHelp(prefix string) {
	matches := r.completer.Complete(prefix)
	if len(matches) == 0 {
		fmt.Fprintf(r.output, "no command starts with %q\n", prefix)
		return
	}
	for _, m := range matches {
		fmt.Fprintln(r.output, m)
	}
}
