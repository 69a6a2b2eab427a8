package domain

import (
	"io"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/corex-go/pkg/account"
)

// TxType classifies a transaction.
type TxType string

// Transaction types.
const (
	TxTransfer TxType = "Transfer"
	TxMint     TxType = "Mint"
	TxAirDrop  TxType = "AirDrop"
	TxFaucet   TxType = "Faucet"
)

// TransactionIDPrefix prefixes every transaction ID.
const TransactionIDPrefix = "crtx-"

// Transaction is an immutable record of one balance-affecting event.
type Transaction struct {
	ID        string     `json:"id"`
	From      account.ID `json:"from"`
	To        account.ID `json:"to"`
	Amount    Amount     `json:"amount"`
	Timestamp uint64     `json:"timestamp"` // Unix nanoseconds
	Type      TxType     `json:"tx_type"`
}

// Involves reports whether id is the sender or the receiver.
func (tx Transaction) Involves(id account.ID) bool {
	return tx.From == id || tx.To == id
}

// Time returns the timestamp as a time.Time.
func (tx Transaction) Time() time.Time {
	return time.Unix(0, int64(tx.Timestamp))
}

// NewTransactionID returns a ULID-based transaction identifier.
//
// Callers generating several IDs for the same instant should pass a
// monotonic entropy source (ulid.Monotonic) to keep them ordered.
func NewTransactionID(t time.Time, entropy io.Reader) (string, error) {
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return TransactionIDPrefix + strings.ToLower(id.String()), nil
}
