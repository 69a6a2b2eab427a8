package repl

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

type recorder struct {
	calls [][]string
	err   error
}

func (r *recorder) exec(_ context.Context, args []string) error {
	r.calls = append(r.calls, args)
	return r.err
}

func newTestREPL(input string, rec *recorder) (*REPL, *bytes.Buffer) {
	out := &bytes.Buffer{}
	r := New(Config{
		Input:  strings.NewReader(input),
		Output: out,
		Exec:   rec.exec,
	})
	return r, out
}

func TestNew_Defaults(t *testing.T) {
	r := New(Config{})
	if r.completer == nil || r.history == nil {
		t.Fatal("completer and history should be initialized")
	}
	if r.prompt != DefaultPrompt {
		t.Errorf("prompt = %q", r.prompt)
	}
}

func TestREPL_Run_Exit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exit command", "exit\n"},
		{"quit command", "quit\n"},
		{"EOF", ""},
		{"EOF without newline", "balance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestREPL(tt.input, &recorder{})
			if err := r.Run(context.Background()); err != nil {
				t.Errorf("Run() error = %v", err)
			}
		})
	}
}

func TestREPL_Run_Executes(t *testing.T) {
	rec := &recorder{}
	r, out := newTestREPL("\n  transfer bob 10  \nprofile set --name \"Alice Smith\"\nexit\n", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := [][]string{
		{"transfer", "bob", "10"},
		{"profile", "set", "--name", "Alice Smith"},
	}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %q, want %q", rec.calls, want)
	}
	if prompts := strings.Count(out.String(), DefaultPrompt); prompts != 4 {
		t.Errorf("prompts = %d, want 4", prompts)
	}
	if r.history.Get(1) != `profile set --name "Alice Smith"` {
		t.Errorf("history = %q", r.history.Entries())
	}
}

func TestREPL_Run_ExecError(t *testing.T) {
	rec := &recorder{err: errors.New("[CRX-LEDG-4220] insufficient funds")}
	r, out := newTestREPL("transfer bob 10\nexit\n", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Error: [CRX-LEDG-4220] insufficient funds") {
		t.Errorf("output = %q", out.String())
	}
}

func TestREPL_Run_UnknownCommand(t *testing.T) {
	rec := &recorder{}
	r, out := newTestREPL("ba\nexit\n", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("unknown command executed: %q", rec.calls)
	}
	if !strings.Contains(out.String(), "did you mean: balance?") {
		t.Errorf("output = %q", out.String())
	}
}

func TestREPL_Run_Builtins(t *testing.T) {
	rec := &recorder{}
	r, out := newTestREPL("help\nversion\n:history\nexit\n", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "admin checkpoint") {
		t.Errorf("help output missing commands: %q", out.String())
	}
	if len(rec.calls) != 1 {
		t.Errorf("calls = %q, want only version", rec.calls)
	}
}

func TestREPL_Run_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, _ := newTestREPL("balance\n", &recorder{})
	if err := r.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{"balance", []string{"balance"}, false},
		{"  transfer   bob\t10 ", []string{"transfer", "bob", "10"}, false},
		{`profile set --name "Alice Smith"`, []string{"profile", "set", "--name", "Alice Smith"}, false},
		{`profile set --email 'a@b.c'`, []string{"profile", "set", "--email", "a@b.c"}, false},
		{`say a\ b`, []string{"say", "a b"}, false},
		{`empty ""`, []string{"empty", ""}, false},
		{`open "quote`, nil, true},
		{`trailing \`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := SplitArgs(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitArgs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}
