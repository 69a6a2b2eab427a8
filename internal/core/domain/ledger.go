package domain

import (
	"fmt"
	"maps"
	"slices"

	"github.com/yndnr/corex-go/pkg/account"
)

// Token metadata.
const (
	TokenName   = "CoreX"
	TokenSymbol = "CRX"
)

// Fixed distribution amounts.
const (
	// AirdropPerAccount is credited to every registered account when the
	// registration milestone is reached.
	AirdropPerAccount uint64 = 60_000

	// FaucetAmount is granted to the caller of the faucet.
	FaucetAmount uint64 = 100
)

// Genesis defaults.
const (
	DefaultInitialSupply    uint64 = 90_000_000_000
	DefaultAirdropMilestone uint64 = 5
)

// DefaultAuthorityName is the profile name given to the genesis authority.
const DefaultAuthorityName = "Admin"

// Profile holds user-supplied account details.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LedgerState is the single persisted aggregate.
//
// Invariants:
//   - TotalSupply equals the sum of Balances
//   - reserved identifiers never appear in Accounts or Balances
//   - Transactions is append-only and ordered by Timestamp
type LedgerState struct {
	TotalSupply      Amount                 `json:"total_supply"`
	Accounts         map[account.ID]Profile `json:"accounts"`
	Balances         map[account.ID]Amount  `json:"balances"`
	MintingAuthority *account.ID            `json:"minting_authority,omitempty"`
	AirdropMilestone uint64                 `json:"airdrop_milestone"`
	Transactions     []Transaction          `json:"transactions"`
}

// NewLedgerState returns the default state: zero supply, no accounts, no
// authority, milestone 0 and an empty log.
func NewLedgerState() *LedgerState {
	return &LedgerState{
		Accounts:     make(map[account.ID]Profile),
		Balances:     make(map[account.ID]Amount),
		Transactions: []Transaction{},
	}
}

// Clone returns a copy that can be mutated without affecting s.
//
// Transactions are immutable, so the log shares its backing array; the
// clip forces the next append to reallocate.
func (s *LedgerState) Clone() *LedgerState {
	c := &LedgerState{
		TotalSupply:      s.TotalSupply,
		Accounts:         maps.Clone(s.Accounts),
		Balances:         maps.Clone(s.Balances),
		AirdropMilestone: s.AirdropMilestone,
		Transactions:     slices.Clip(s.Transactions),
	}
	if c.Accounts == nil {
		c.Accounts = make(map[account.ID]Profile)
	}
	if c.Balances == nil {
		c.Balances = make(map[account.ID]Amount)
	}
	if s.MintingAuthority != nil {
		auth := *s.MintingAuthority
		c.MintingAuthority = &auth
	}
	return c
}

// Normalize replaces nil collections with empty ones. Decoders call it
// after unmarshalling.
func (s *LedgerState) Normalize() {
	if s.Accounts == nil {
		s.Accounts = make(map[account.ID]Profile)
	}
	if s.Balances == nil {
		s.Balances = make(map[account.ID]Amount)
	}
	if s.Transactions == nil {
		s.Transactions = []Transaction{}
	}
}

// IsPristine reports whether s equals the default state.
func (s *LedgerState) IsPristine() bool {
	return s.TotalSupply.IsZero() &&
		len(s.Accounts) == 0 &&
		len(s.Balances) == 0 &&
		s.MintingAuthority == nil &&
		s.AirdropMilestone == 0 &&
		len(s.Transactions) == 0
}

// BalanceOf returns the balance of id. Missing entries are 0.
func (s *LedgerState) BalanceOf(id account.ID) Amount {
	return s.Balances[id]
}

// IsRegistered reports whether id has a profile.
func (s *LedgerState) IsRegistered(id account.ID) bool {
	_, ok := s.Accounts[id]
	return ok
}

// Authority returns the recorded minting authority.
func (s *LedgerState) Authority() (account.ID, bool) {
	if s.MintingAuthority == nil {
		return account.None, false
	}
	return *s.MintingAuthority, true
}

// LastTimestamp returns the timestamp of the newest transaction, or 0.
func (s *LedgerState) LastTimestamp() uint64 {
	if len(s.Transactions) == 0 {
		return 0
	}
	return s.Transactions[len(s.Transactions)-1].Timestamp
}

// TransactionsFor returns the transactions where id is sender or receiver,
// oldest first.
func (s *LedgerState) TransactionsFor(id account.ID) []Transaction {
	var out []Transaction
	for _, tx := range s.Transactions {
		if tx.Involves(id) {
			out = append(out, tx)
		}
	}
	return out
}

// SortedAccounts returns the registered identifiers in ascending order.
func (s *LedgerState) SortedAccounts() []account.ID {
	ids := slices.Collect(maps.Keys(s.Accounts))
	slices.SortFunc(ids, account.ID.Compare)
	return ids
}

// Verify checks the aggregate invariants.
func (s *LedgerState) Verify() error {
	var sum Amount
	for id, bal := range s.Balances {
		if id.IsReserved() {
			return ErrInternal.WithDetails(fmt.Sprintf("reserved account %s holds a balance", id.Short()))
		}
		var err error
		if sum, err = sum.Add(bal); err != nil {
			return ErrInternal.WithDetails("balance sum overflows").WithCause(err)
		}
	}
	if sum != s.TotalSupply {
		return ErrInternal.WithDetails(fmt.Sprintf("total supply %s does not match balances %s", s.TotalSupply, sum))
	}
	for id := range s.Accounts {
		if id.IsReserved() {
			return ErrInternal.WithDetails(fmt.Sprintf("reserved account %s is registered", id.Short()))
		}
	}
	var last uint64
	for i, tx := range s.Transactions {
		if tx.Timestamp < last {
			return ErrInternal.WithDetails(fmt.Sprintf("transaction %d is out of order", i))
		}
		last = tx.Timestamp
	}
	return nil
}
