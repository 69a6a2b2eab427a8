package handler

import (
	"net/http"

	"github.com/yndnr/corex-go/internal/core/domain"
)

// handleToken handles GET /v1/token.
func (h *Handler) handleToken(w http.ResponseWriter, r *http.Request) {
	caller := CallerFromContext(r.Context())
	h.writeJSON(w, r, http.StatusOK, h.ledger.Metadata(r.Context(), caller))
}

// handleAccounts handles GET /v1/accounts.
func (h *Handler) handleAccounts(w http.ResponseWriter, r *http.Request) {
	list := h.ledger.Accounts(r.Context())
	h.writeJSON(w, r, http.StatusOK, AccountsResponse{Accounts: list, Count: len(list)})
}

// handleBalance handles GET /v1/accounts/{id}/balance.
func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	id := parseID(r.PathValue("id"), CallerFromContext(r.Context()))
	h.writeJSON(w, r, http.StatusOK, BalanceResponse{
		ID:      id,
		Balance: h.ledger.BalanceOf(r.Context(), id),
	})
}

// handleTransactions handles GET /v1/accounts/{id}/transactions.
func (h *Handler) handleTransactions(w http.ResponseWriter, r *http.Request) {
	id := parseID(r.PathValue("id"), CallerFromContext(r.Context()))
	txs := h.ledger.TransactionsFor(r.Context(), id)
	if txs == nil {
		txs = []domain.Transaction{}
	}
	h.writeJSON(w, r, http.StatusOK, TransactionsResponse{ID: id, Transactions: txs, Count: len(txs)})
}

// handleMe handles GET /v1/me.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	caller := CallerFromContext(r.Context())
	h.writeJSON(w, r, http.StatusOK, h.ledger.ProfileOf(r.Context(), caller))
}

// handleRegister handles POST /v1/register.
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	caller := CallerFromContext(r.Context())

	res, err := h.ledger.Register(r.Context(), caller)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, RegisterResponse{
		ID:         caller,
		Registered: res.Registered,
		Airdrop:    newAirdropInfo(res.Airdrop),
		Balance:    h.ledger.BalanceOf(r.Context(), caller),
	})
}

// handleProfile handles POST /v1/profile.
func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := decodeBody(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	caller := CallerFromContext(r.Context())
	if err := h.ledger.UpdateProfile(r.Context(), caller, req.Name, req.Email); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, h.ledger.ProfileOf(r.Context(), caller))
}

// handleTransfer handles POST /v1/transfer.
func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := decodeBody(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	caller := CallerFromContext(r.Context())
	to := parseID(req.To, caller)
	amount := parseAmount(req.Amount)

	remaining, err := h.ledger.Transfer(r.Context(), caller, to, amount)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, TransferResponse{
		From:    caller,
		To:      to,
		Amount:  amount,
		Balance: remaining,
	})
}

// handleMint handles POST /v1/mint.
func (h *Handler) handleMint(w http.ResponseWriter, r *http.Request) {
	var req MintRequest
	if err := decodeBody(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	caller := CallerFromContext(r.Context())
	to := parseID(req.To, caller)
	amount := parseAmount(req.Amount)

	if err := h.ledger.Mint(r.Context(), caller, amount, to); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, MintResponse{
		To:          to,
		Amount:      amount,
		TotalSupply: h.ledger.TotalSupply(r.Context()),
	})
}

// handleFaucet handles POST /v1/faucet.
func (h *Handler) handleFaucet(w http.ResponseWriter, r *http.Request) {
	caller := CallerFromContext(r.Context())

	if err := h.ledger.GrantFaucet(r.Context(), caller); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, FaucetResponse{
		To:      caller,
		Amount:  domain.NewAmount(domain.FaucetAmount),
		Balance: h.ledger.BalanceOf(r.Context(), caller),
	})
}
