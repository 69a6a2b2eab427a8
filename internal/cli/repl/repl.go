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

// DefaultPrompt is printed before every line.
const DefaultPrompt = "corex> "

// Executor runs one parsed command line.
type Executor func(ctx context.Context, args []string) error

// Config configures a REPL.
type Config struct {
	Input     io.Reader
	Output    io.Writer
	Prompt    string
	Exec      Executor
	History   *History
	Completer *Completer
}

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    string
	exec      Executor
	completer *Completer
	history   *History
}

// New creates a new REPL instance. Unset fields fall back to stdin, stdout
// and DefaultPrompt.
func New(cfg Config) *REPL {
	r := &REPL{
		input:     cfg.Input,
		output:    cfg.Output,
		prompt:    cfg.Prompt,
		exec:      cfg.Exec,
		completer: cfg.Completer,
		history:   cfg.History,
	}
	if r.input == nil {
		r.input = os.Stdin
	}
	if r.output == nil {
		r.output = os.Stdout
	}
	if r.prompt == "" {
		r.prompt = DefaultPrompt
	}
	if r.completer == nil {
		r.completer = NewCompleter()
	}
	if r.history == nil {
		r.history = NewHistory("")
	}
	return r
}

// Run starts the REPL loop. It returns nil on exit, quit or end of input.
func (r *REPL) Run(ctx context.Context) error {
	reader := bufio.NewReader(r.input)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(r.output, r.prompt)

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

		r.history.Add(line)

		switch line {
		case "exit", "quit":
			return nil
		case "help":
			r.printHelp()
			continue
		case ":history":
			for _, entry := range r.history.Entries() {
				fmt.Fprintln(r.output, entry)
			}
			continue
		}

		if err := r.execute(ctx, line); err != nil {
			fmt.Fprintf(r.output, "Error: %v\n", err)
		}
	}
}

func (r *REPL) execute(ctx context.Context, line string) error {
	args, err := SplitArgs(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}

	if !r.completer.IsCommand(args[0]) {
		msg := fmt.Sprintf("unknown command %q", args[0])
		if s := r.completer.Complete(args[0]); len(s) > 0 {
			msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(s, ", "))
		}
		return errors.New(msg)
	}
	if r.exec == nil {
		return errors.New("no executor configured")
	}
	return r.exec(ctx, args)
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.output, "Commands:")
	for _, cmd := range r.completer.Commands() {
		fmt.Fprintf(r.output, "  %s\n", cmd)
	}
	fmt.Fprintln(r.output, "  help, :history, exit, quit")
}

// SplitArgs splits a line into arguments. Single and double quotes group
// words and a backslash escapes the next character.
func SplitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inArg   bool
		quote   rune
		escaped bool
	)

	for _, ch := range line {
		switch {
		case escaped:
			cur.WriteRune(ch)
			escaped = false
		case ch == '\\' && quote != '\'':
			escaped = true
			inArg = true
		case quote != 0:
			if ch == quote {
				quote = 0
			} else {
				cur.WriteRune(ch)
			}
		case ch == '"' || ch == '\'':
			quote = ch
			inArg = true
		case ch == ' ' || ch == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(ch)
			inArg = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, errors.New("trailing backslash")
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
