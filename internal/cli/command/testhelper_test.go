package command

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/yndnr/corex-go/internal/core/domain"
	"github.com/yndnr/corex-go/internal/core/service"
	"github.com/yndnr/corex-go/internal/server/httpserver"
	"github.com/yndnr/corex-go/internal/storage"
	"github.com/yndnr/corex-go/internal/storage/memory"
	"github.com/yndnr/corex-go/pkg/account"
)

func testID(b byte) account.ID {
	var id account.ID
	for i := range id {
		id[i] = b
	}
	return id
}

var (
	admin = testID(0xAD)
	bob   = testID(0xB0)
)

// testEnv is a live server plus an isolated CLI config path.
type testEnv struct {
	server     *httptest.Server
	configPath string
	svc        *service.LedgerService
}

// newTestEnv serves a fresh ledger where admin holds 1000 tokens.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	engine := storage.NewWithBackend(memory.New(), storage.Config{Logger: log})
	if info := engine.Recover(context.Background()); info.Outcome != storage.OutcomeEmpty {
		t.Fatalf("Recover() outcome = %s, want %s", info.Outcome, storage.OutcomeEmpty)
	}
	svc := service.NewLedgerService(engine, &service.LedgerServiceConfig{Logger: log})

	g := service.DefaultGenesis(admin)
	g.InitialSupply = domain.NewAmount(1000)
	if _, err := svc.Initialize(context.Background(), g); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	cfg := httpserver.DefaultRouterConfig()
	cfg.Ledger = svc
	cfg.Logger = log
	cfg.EnableAudit = false

	srv := httptest.NewServer(httpserver.NewRouter(cfg))
	t.Cleanup(srv.Close)

	return &testEnv{
		server:     srv,
		configPath: filepath.Join(t.TempDir(), "cli.yaml"),
		svc:        svc,
	}
}

// run executes the CLI against the test server and returns stdout.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return e.runWithInput(t, "", args...)
}

func (e *testEnv) runWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("COREX_CALLER", "")
	t.Setenv("COREX_SERVER", "")

	app := App()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = io.Discard
	if input != "" {
		app.Reader = bytes.NewBufferString(input)
	}

	argv := append([]string{"corex-cli", "--server", e.server.URL, "--config", e.configPath}, args...)
	err := app.Run(argv)
	return out.String(), err
}

// runAs is run with --caller id and JSON output.
func (e *testEnv) runAs(t *testing.T, id account.ID, args ...string) (string, error) {
	t.Helper()
	return e.run(t, append([]string{"--caller", id.String(), "-o", "json"}, args...)...)
}

func decodeJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return v
}
