package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/yndnr/corex-go/internal/core/domain"
	"github.com/yndnr/corex-go/internal/core/service"
	"github.com/yndnr/corex-go/internal/telemetry/logger"
	"github.com/yndnr/corex-go/pkg/account"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// Route patterns served by Handler.
const (
	PatternHealth       = "GET /health"
	PatternReady        = "GET /ready"
	PatternToken        = "GET /v1/token"
	PatternAccounts     = "GET /v1/accounts"
	PatternBalance      = "GET /v1/accounts/{id}/balance"
	PatternTransactions = "GET /v1/accounts/{id}/transactions"
	PatternMe           = "GET /v1/me"
	PatternRegister     = "POST /v1/register"
	PatternProfile      = "POST /v1/profile"
	PatternTransfer     = "POST /v1/transfer"
	PatternMint         = "POST /v1/mint"
	PatternFaucet       = "POST /v1/faucet"
	PatternCheckpoint   = "POST /admin/v1/checkpoint"
)

// Ledger is the ledger surface used by the handlers.
type Ledger interface {
	Metadata(ctx context.Context, caller account.ID) service.Metadata
	Accounts(ctx context.Context) []service.AccountBalance
	TotalSupply(ctx context.Context) domain.Amount
	BalanceOf(ctx context.Context, id account.ID) domain.Amount
	TransactionsFor(ctx context.Context, id account.ID) []domain.Transaction
	ProfileOf(ctx context.Context, id account.ID) service.ProfileDetails
	MintingAuthority(ctx context.Context, caller account.ID) (account.ID, error)

	Register(ctx context.Context, caller account.ID) (*service.RegisterResult, error)
	UpdateProfile(ctx context.Context, caller account.ID, name, email string) error
	Transfer(ctx context.Context, sender, receiver account.ID, amount domain.Amount) (domain.Amount, error)
	Mint(ctx context.Context, caller account.ID, amount domain.Amount, target account.ID) error
	GrantFaucet(ctx context.Context, caller account.ID) error
	Checkpoint(ctx context.Context) error
}

// Config configures a Handler.
type Config struct {
	Ledger Ledger

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Ready reports whether the server accepts traffic. Nil means always
	// ready.
	Ready func(ctx context.Context) error
}

// Route binds a pattern to its handler.
type Route struct {
	Pattern string
	Handler http.HandlerFunc
}

// Handler serves the ledger API.
type Handler struct {
	ledger Ledger
	ready  func(ctx context.Context) error
	logger *slog.Logger
	mux    *http.ServeMux
}

// New creates a Handler.
func New(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	h := &Handler{
		ledger: cfg.Ledger,
		ready:  cfg.Ready,
		logger: cfg.Logger,
		mux:    http.NewServeMux(),
	}

	for _, rt := range h.Routes() {
		h.mux.HandleFunc(rt.Pattern, rt.Handler)
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// Routes returns every route served by h.
func (h *Handler) Routes() []Route {
	return []Route{
		{PatternHealth, h.handleHealth},
		{PatternReady, h.handleReady},

		{PatternToken, h.handleToken},
		{PatternAccounts, h.handleAccounts},
		{PatternBalance, h.handleBalance},
		{PatternTransactions, h.handleTransactions},
		{PatternMe, h.handleMe},

		{PatternRegister, h.handleRegister},
		{PatternProfile, h.handleProfile},
		{PatternTransfer, h.handleTransfer},
		{PatternMint, h.handleMint},
		{PatternFaucet, h.handleFaucet},

		{PatternCheckpoint, h.handleCheckpoint},
	}
}

// writeJSON writes a JSON response with standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := logger.RequestIDFromContext(r.Context())
	response := NewResponse(requestID, data)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response with standard envelope format.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	WriteError(w, r, status, code, message, details)
}

// WriteError writes an error envelope. Middlewares use it to answer before
// a handler runs.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	requestID := logger.RequestIDFromContext(r.Context())
	response := NewErrorResponse(requestID, code, message, details)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// WriteDomainError writes err using its domain error code.
func WriteDomainError(w http.ResponseWriter, r *http.Request, err *domain.DomainError) {
	WriteError(w, r, ErrorCodeToHTTPStatus(err.Code), err.Code, err.Message, nil)
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var insufficient *domain.InsufficientFundsError
	if errors.As(err, &insufficient) {
		code := domain.ErrInsufficientFunds.Code
		h.writeError(w, r, ErrorCodeToHTTPStatus(code), code, err.Error(),
			InsufficientFundsDetails{Balance: insufficient.Balance})
		return
	}

	if domain.IsDomainError(err, "") {
		code := domain.GetErrorCode(err)
		status := ErrorCodeToHTTPStatus(code)
		if status >= http.StatusInternalServerError {
			h.logger.ErrorContext(r.Context(), "operation failed", "code", code, "error", err)
		}
		h.writeError(w, r, status, code, err.Error(), nil)
		return
	}

	h.logger.ErrorContext(r.Context(), "internal error", "error", err)
	h.writeError(w, r, http.StatusInternalServerError, domain.ErrInternal.Code, domain.ErrInternal.Message, nil)
}

// ErrorCodeToHTTPStatus maps error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "-4040"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4220"), strings.HasSuffix(code, "-4221"):
		return http.StatusUnprocessableEntity
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	case strings.HasSuffix(code, "-4030"), strings.HasSuffix(code, "-4031"):
		return http.StatusForbidden
	case strings.HasSuffix(code, "-5030"):
		return http.StatusServiceUnavailable
	case strings.HasPrefix(code, "CRX-ARG-"), strings.HasPrefix(code, "CRX-LEDG-400"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes an optional JSON body into v.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return domain.ErrInvalidArgument.WithDetails("malformed request body").WithCause(err)
	}
	return nil
}

// parseAmount reads a decimal amount. Unparsable input becomes zero.
func parseAmount(s string) domain.Amount {
	a, err := domain.ParseAmount(strings.TrimSpace(s))
	if err != nil {
		return domain.ZeroAmount
	}
	return a
}

// parseID reads a base58 identifier. Unparsable input becomes fallback.
func parseID(s string, fallback account.ID) account.ID {
	id, err := account.Parse(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return id
}
