package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yndnr/corex-go/internal/core/domain"
	"github.com/yndnr/corex-go/internal/core/service"
	"github.com/yndnr/corex-go/internal/storage"
	"github.com/yndnr/corex-go/internal/storage/memory"
	"github.com/yndnr/corex-go/pkg/account"
)

var (
	admin = testID(0xAD)
	alice = testID(0xA1)
	bob   = testID(0xB0)
)

func testID(b byte) account.ID {
	var id account.ID
	for i := range id {
		id[i] = b
	}
	return id
}

type envelope struct {
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
	Timestamp int64           `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
	Details   json.RawMessage `json:"details"`
}

// testHandler returns a handler over a fresh ledger where admin is the
// authority holding 1000 tokens.
func testHandler(t *testing.T) (*Handler, *service.LedgerService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	engine := storage.NewWithBackend(memory.New(), storage.Config{Logger: logger})
	engine.Recover(context.Background())

	svc := service.NewLedgerService(engine, &service.LedgerServiceConfig{Logger: logger})
	g := service.DefaultGenesis(admin)
	g.InitialSupply = domain.NewAmount(1000)
	if _, err := svc.Initialize(context.Background(), g); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	return New(Config{Ledger: svc, Logger: logger}), svc
}

func call(t *testing.T, h http.Handler, method, path string, caller account.ID, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req = req.WithContext(WithCaller(req.Context(), caller))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
	return v
}

func TestHandler_Health(t *testing.T) {
	h, _ := testHandler(t)

	rec, env := call(t, h, "GET", "/health", account.Anonymous, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if env.Code != CodeOK {
		t.Errorf("code = %q, want OK", env.Code)
	}
	data := decodeData[map[string]string](t, env)
	if data["status"] != "healthy" {
		t.Errorf("status = %q, want healthy", data["status"])
	}
}

func TestHandler_Ready(t *testing.T) {
	h, svc := testHandler(t)

	rec, _ := call(t, h, "GET", "/ready", account.Anonymous, "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	notReady := New(Config{
		Ledger: svc,
		Ready:  func(context.Context) error { return errors.New("shutting down") },
	})
	rec, env := call(t, notReady, "GET", "/ready", account.Anonymous, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	if env.Code != domain.ErrServiceUnavailable.Code {
		t.Errorf("code = %q", env.Code)
	}
}

func TestHandler_Token(t *testing.T) {
	h, _ := testHandler(t)

	_, env := call(t, h, "GET", "/v1/token", alice, "")
	md := decodeData[service.Metadata](t, env)

	if md.Name != "CoreX" || md.Symbol != "CRX" {
		t.Errorf("name/symbol = %s/%s", md.Name, md.Symbol)
	}
	if md.TotalSupply != domain.NewAmount(1000) {
		t.Errorf("total supply = %s, want 1000", md.TotalSupply)
	}
	if md.MintingAuthority == nil || *md.MintingAuthority != admin {
		t.Errorf("minting authority = %v, want admin", md.MintingAuthority)
	}
}

func TestHandler_Transfer(t *testing.T) {
	h, svc := testHandler(t)

	body := `{"to":"` + alice.String() + `","amount":"250"}`
	rec, env := call(t, h, "POST", "/v1/transfer", admin, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	resp := decodeData[TransferResponse](t, env)
	if resp.From != admin || resp.To != alice {
		t.Errorf("from/to = %s/%s", resp.From, resp.To)
	}
	if resp.Balance != domain.NewAmount(750) {
		t.Errorf("balance = %s, want 750", resp.Balance)
	}
	if got := svc.BalanceOf(context.Background(), alice); got != domain.NewAmount(250) {
		t.Errorf("alice balance = %s, want 250", got)
	}
}

func TestHandler_TransferErrors(t *testing.T) {
	tests := []struct {
		name       string
		caller     account.ID
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unparsable amount becomes zero",
			caller:     admin,
			body:       `{"to":"` + alice.String() + `","amount":"ten"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   domain.ErrZeroTransfer.Code,
		},
		{
			name:       "unparsable receiver becomes caller",
			caller:     admin,
			body:       `{"to":"not-an-id","amount":"10"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   domain.ErrReceiverSameAsSender.Code,
		},
		{
			name:       "insufficient funds",
			caller:     bob,
			body:       `{"to":"` + alice.String() + `","amount":"10"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   domain.ErrInsufficientFunds.Code,
		},
		{
			name:       "malformed body",
			caller:     admin,
			body:       `{"to":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   domain.ErrInvalidArgument.Code,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := testHandler(t)

			rec, env := call(t, h, "POST", "/v1/transfer", tt.caller, tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if env.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", env.Code, tt.wantCode)
			}
			if got := rec.Header().Get("X-Error-Code"); got != tt.wantCode {
				t.Errorf("X-Error-Code = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestHandler_TransferInsufficientDetails(t *testing.T) {
	h, _ := testHandler(t)

	body := `{"to":"` + bob.String() + `","amount":"1001"}`
	_, env := call(t, h, "POST", "/v1/transfer", admin, body)

	var details InsufficientFundsDetails
	if err := json.Unmarshal(env.Details, &details); err != nil {
		t.Fatalf("decode details %s: %v", env.Details, err)
	}
	if details.Balance != domain.NewAmount(1000) {
		t.Errorf("details balance = %s, want 1000", details.Balance)
	}
}

func TestHandler_Mint(t *testing.T) {
	h, svc := testHandler(t)

	t.Run("target defaults to caller", func(t *testing.T) {
		rec, env := call(t, h, "POST", "/v1/mint", admin, `{"amount":"500"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		resp := decodeData[MintResponse](t, env)
		if resp.To != admin {
			t.Errorf("to = %s, want admin", resp.To)
		}
		if resp.TotalSupply != domain.NewAmount(1500) {
			t.Errorf("total supply = %s, want 1500", resp.TotalSupply)
		}
	})

	t.Run("explicit target", func(t *testing.T) {
		body := `{"to":"` + bob.String() + `","amount":"5"}`
		if rec, _ := call(t, h, "POST", "/v1/mint", admin, body); rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if got := svc.BalanceOf(context.Background(), bob); got != domain.NewAmount(5) {
			t.Errorf("bob balance = %s, want 5", got)
		}
	})

	t.Run("not the minter", func(t *testing.T) {
		rec, env := call(t, h, "POST", "/v1/mint", alice, `{"amount":"5"}`)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
		if env.Code != domain.ErrNotTheMinter.Code {
			t.Errorf("code = %q", env.Code)
		}
	})
}

func TestHandler_RegisterAndProfile(t *testing.T) {
	h, _ := testHandler(t)

	rec, env := call(t, h, "POST", "/v1/profile", alice, `{"name":"Alice"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("profile before register: status = %d, want 404", rec.Code)
	}
	if env.Code != domain.ErrAccountNotRegistered.Code {
		t.Errorf("code = %q", env.Code)
	}

	_, env = call(t, h, "POST", "/v1/register", alice, "")
	reg := decodeData[RegisterResponse](t, env)
	if !reg.Registered || reg.ID != alice {
		t.Errorf("register = %+v", reg)
	}

	_, env = call(t, h, "POST", "/v1/register", alice, "")
	if again := decodeData[RegisterResponse](t, env); again.Registered {
		t.Error("second register reported Registered = true")
	}

	body := `{"name":"Alice","email":"alice@example.com"}`
	rec, env = call(t, h, "POST", "/v1/profile", alice, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	_, env = call(t, h, "GET", "/v1/me", alice, "")
	me := decodeData[service.ProfileDetails](t, env)
	if me.Name != "Alice" || me.Email != "alice@example.com" || !me.Registered {
		t.Errorf("me = %+v", me)
	}
}

func TestHandler_RegisterAnonymous(t *testing.T) {
	h, _ := testHandler(t)

	rec, env := call(t, h, "POST", "/v1/register", account.Anonymous, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if reg := decodeData[RegisterResponse](t, env); reg.Registered {
		t.Error("anonymous caller was registered")
	}
}

func TestHandler_Faucet(t *testing.T) {
	h, svc := testHandler(t)

	rec, env := call(t, h, "POST", "/v1/faucet", alice, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	resp := decodeData[FaucetResponse](t, env)
	if resp.Balance != domain.NewAmount(domain.FaucetAmount) {
		t.Errorf("balance = %s", resp.Balance)
	}
	if got := svc.BalanceOf(context.Background(), admin); got != domain.NewAmount(1000-domain.FaucetAmount) {
		t.Errorf("authority balance = %s", got)
	}

	rec, env = call(t, h, "POST", "/v1/faucet", account.Anonymous, "")
	if rec.Code != http.StatusBadRequest || env.Code != domain.ErrReservedAccount.Code {
		t.Errorf("anonymous faucet: status = %d, code = %q", rec.Code, env.Code)
	}
}

func TestHandler_Queries(t *testing.T) {
	h, _ := testHandler(t)

	body := `{"to":"` + alice.String() + `","amount":"40"}`
	call(t, h, "POST", "/v1/transfer", admin, body)

	_, env := call(t, h, "GET", "/v1/accounts", alice, "")
	list := decodeData[AccountsResponse](t, env)
	if list.Count != 2 {
		t.Errorf("accounts count = %d, want 2", list.Count)
	}

	_, env = call(t, h, "GET", "/v1/accounts/"+alice.String()+"/balance", bob, "")
	bal := decodeData[BalanceResponse](t, env)
	if bal.ID != alice || bal.Balance != domain.NewAmount(40) {
		t.Errorf("balance = %+v", bal)
	}

	// Unparsable identifiers fall back to the caller.
	_, env = call(t, h, "GET", "/v1/accounts/garbage/balance", admin, "")
	if bal := decodeData[BalanceResponse](t, env); bal.ID != admin {
		t.Errorf("fallback id = %s, want admin", bal.ID)
	}

	_, env = call(t, h, "GET", "/v1/accounts/"+alice.String()+"/transactions", admin, "")
	txs := decodeData[TransactionsResponse](t, env)
	if txs.Count != 1 || txs.Transactions[0].Type != domain.TxTransfer {
		t.Errorf("transactions = %+v", txs)
	}

	_, env = call(t, h, "GET", "/v1/accounts/"+bob.String()+"/transactions", admin, "")
	if empty := decodeData[TransactionsResponse](t, env); empty.Transactions == nil || empty.Count != 0 {
		t.Errorf("transactions for bob = %+v, want empty list", empty)
	}
}

func TestHandler_Checkpoint(t *testing.T) {
	h, _ := testHandler(t)

	rec, env := call(t, h, "POST", "/admin/v1/checkpoint", admin, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if resp := decodeData[CheckpointResponse](t, env); !resp.Checkpointed {
		t.Error("checkpointed = false")
	}

	rec, env = call(t, h, "POST", "/admin/v1/checkpoint", alice, "")
	if rec.Code != http.StatusForbidden || env.Code != domain.ErrNotTheMinter.Code {
		t.Errorf("non-authority: status = %d, code = %q", rec.Code, env.Code)
	}
}

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{domain.ErrZeroTransfer.Code, http.StatusBadRequest},
		{domain.ErrReceiverSameAsSender.Code, http.StatusBadRequest},
		{domain.ErrReservedAccount.Code, http.StatusBadRequest},
		{domain.ErrInvalidArgument.Code, http.StatusBadRequest},
		{domain.ErrInsufficientFunds.Code, http.StatusUnprocessableEntity},
		{domain.ErrAmountOverflow.Code, http.StatusUnprocessableEntity},
		{domain.ErrAccountNotRegistered.Code, http.StatusNotFound},
		{domain.ErrNotTheMinter.Code, http.StatusForbidden},
		{domain.ErrMinterNotSet.Code, http.StatusForbidden},
		{domain.ErrRateLimited.Code, http.StatusTooManyRequests},
		{domain.ErrServiceUnavailable.Code, http.StatusServiceUnavailable},
		{domain.ErrStoreFailure.Code, http.StatusInternalServerError},
		{domain.ErrInternal.Code, http.StatusInternalServerError},
		{"UNKNOWN", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if status := ErrorCodeToHTTPStatus(tt.code); status != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, status)
			}
		})
	}
}

func TestParseAdapters(t *testing.T) {
	if got := parseAmount(" 42 "); got != domain.NewAmount(42) {
		t.Errorf("parseAmount(42) = %s", got)
	}
	if got := parseAmount("-1"); !got.IsZero() {
		t.Errorf("parseAmount(-1) = %s, want 0", got)
	}
	if got := parseID("", bob); got != bob {
		t.Errorf("parseID(\"\") = %s, want fallback", got)
	}
	if got := parseID(alice.String(), bob); got != alice {
		t.Errorf("parseID(alice) = %s", got)
	}
}
