package handler

import (
	"time"

	"github.com/yndnr/corex-go/internal/core/domain"
	"github.com/yndnr/corex-go/internal/core/service"
	"github.com/yndnr/corex-go/pkg/account"
)

// CodeOK is the envelope code of successful responses.
const CodeOK = "OK"

// Response is the standard API response envelope.
// All JSON responses use this format (except /metrics which uses Prometheus format).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      CodeOK,
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// TransferRequest is the request body for POST /v1/transfer.
type TransferRequest struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
}

// TransferResponse is the response body for POST /v1/transfer.
type TransferResponse struct {
	From    account.ID    `json:"from"`
	To      account.ID    `json:"to"`
	Amount  domain.Amount `json:"amount"`
	Balance domain.Amount `json:"balance"`
}

// MintRequest is the request body for POST /v1/mint. An empty To mints to
// the caller.
type MintRequest struct {
	To     string `json:"to,omitempty"`
	Amount string `json:"amount"`
}

// MintResponse is the response body for POST /v1/mint.
type MintResponse struct {
	To          account.ID    `json:"to"`
	Amount      domain.Amount `json:"amount"`
	TotalSupply domain.Amount `json:"total_supply"`
}

// ProfileRequest is the request body for POST /v1/profile.
type ProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RegisterResponse is the response body for POST /v1/register.
type RegisterResponse struct {
	ID         account.ID    `json:"id"`
	Registered bool          `json:"registered"`
	Airdrop    *AirdropInfo  `json:"airdrop,omitempty"`
	Balance    domain.Amount `json:"balance"`
}

// AirdropInfo describes a milestone distribution triggered by a
// registration.
type AirdropInfo struct {
	Recipients    int           `json:"recipients"`
	PerAccount    domain.Amount `json:"per_account"`
	Total         domain.Amount `json:"total"`
	NextMilestone uint64        `json:"next_milestone"`
}

func newAirdropInfo(r *service.AirdropResult) *AirdropInfo {
	if r == nil {
		return nil
	}
	return &AirdropInfo{
		Recipients:    r.Recipients,
		PerAccount:    r.PerAccount,
		Total:         r.Total,
		NextMilestone: r.NextMilestone,
	}
}

// FaucetResponse is the response body for POST /v1/faucet.
type FaucetResponse struct {
	To      account.ID    `json:"to"`
	Amount  domain.Amount `json:"amount"`
	Balance domain.Amount `json:"balance"`
}

// BalanceResponse is the response body for GET /v1/accounts/{id}/balance.
type BalanceResponse struct {
	ID      account.ID    `json:"id"`
	Balance domain.Amount `json:"balance"`
}

// AccountsResponse is the response body for GET /v1/accounts.
type AccountsResponse struct {
	Accounts []service.AccountBalance `json:"accounts"`
	Count    int                      `json:"count"`
}

// TransactionsResponse is the response body for
// GET /v1/accounts/{id}/transactions.
type TransactionsResponse struct {
	ID           account.ID           `json:"id"`
	Transactions []domain.Transaction `json:"transactions"`
	Count        int                  `json:"count"`
}

// CheckpointResponse is the response body for POST /admin/v1/checkpoint.
type CheckpointResponse struct {
	Checkpointed bool  `json:"checkpointed"`
	ElapsedMS    int64 `json:"elapsed_ms"`
}

// InsufficientFundsDetails is attached to CRX-LEDG-4220 responses.
type InsufficientFundsDetails struct {
	Balance domain.Amount `json:"balance"`
}
