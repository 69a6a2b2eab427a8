package service

import (
	"context"
	"maps"
	"slices"

	"github.com/yndnr/corex-go/internal/core/domain"
	"github.com/yndnr/corex-go/internal/telemetry/metric"
	"github.com/yndnr/corex-go/pkg/account"
)

// AccountBalance is one entry of Accounts.
type AccountBalance struct {
	ID         account.ID    `json:"id"`
	Balance    domain.Amount `json:"balance"`
	Registered bool          `json:"registered"`
}

// ProfileDetails describes one account.
type ProfileDetails struct {
	ID         account.ID    `json:"id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Balance    domain.Amount `json:"balance"`
	Registered bool          `json:"registered"`
}

// Metadata describes the token.
type Metadata struct {
	Name             string        `json:"name"`
	Symbol           string        `json:"symbol"`
	TotalSupply      domain.Amount `json:"total_supply"`
	MintingAuthority *account.ID   `json:"minting_authority,omitempty"`
	AirdropMilestone uint64        `json:"airdrop_milestone"`
	Accounts         int           `json:"accounts"`
	Transactions     int           `json:"transactions"`
}

// TokenName returns the token name.
func (s *LedgerService) TokenName() string { return domain.TokenName }

// TokenSymbol returns the token symbol.
func (s *LedgerService) TokenSymbol() string { return domain.TokenSymbol }

// TotalSupply returns the current supply.
func (s *LedgerService) TotalSupply(ctx context.Context) domain.Amount {
	return s.store.Load(ctx).TotalSupply
}

// BalanceOf returns the balance of id.
func (s *LedgerService) BalanceOf(ctx context.Context, id account.ID) domain.Amount {
	return s.store.Load(ctx).BalanceOf(id)
}

// MintingAuthority returns the identifier allowed to mint. Without a
// recorded authority the caller is returned, or ErrMinterNotSet in strict
// mode.
func (s *LedgerService) MintingAuthority(ctx context.Context, caller account.ID) (account.ID, error) {
	return s.effectiveAuthority(s.store.Load(ctx), caller)
}

// TransactionsFor returns every transaction sent or received by id, oldest
// first.
func (s *LedgerService) TransactionsFor(ctx context.Context, id account.ID) []domain.Transaction {
	return s.store.Load(ctx).TransactionsFor(id)
}

// Accounts lists every identifier holding a balance entry, sorted.
func (s *LedgerService) Accounts(ctx context.Context) []AccountBalance {
	st := s.store.Load(ctx)

	ids := slices.Collect(maps.Keys(st.Balances))
	slices.SortFunc(ids, account.ID.Compare)

	out := make([]AccountBalance, 0, len(ids))
	for _, id := range ids {
		out = append(out, AccountBalance{
			ID:         id,
			Balance:    st.Balances[id],
			Registered: st.IsRegistered(id),
		})
	}
	return out
}

// ProfileOf returns the profile and balance of id.
func (s *LedgerService) ProfileOf(ctx context.Context, id account.ID) ProfileDetails {
	st := s.store.Load(ctx)
	p, registered := st.Accounts[id]
	return ProfileDetails{
		ID:         id,
		Name:       p.Name,
		Email:      p.Email,
		Balance:    st.BalanceOf(id),
		Registered: registered,
	}
}

// Metadata returns token metadata as seen by caller.
func (s *LedgerService) Metadata(ctx context.Context, caller account.ID) Metadata {
	st := s.store.Load(ctx)
	md := Metadata{
		Name:             domain.TokenName,
		Symbol:           domain.TokenSymbol,
		TotalSupply:      st.TotalSupply,
		AirdropMilestone: st.AirdropMilestone,
		Accounts:         len(st.Accounts),
		Transactions:     len(st.Transactions),
	}
	if auth, err := s.effectiveAuthority(st, caller); err == nil {
		md.MintingAuthority = &auth
	}
	return md
}

// Stats returns the gauges exported by the ledger collector.
func (s *LedgerService) Stats(ctx context.Context) metric.LedgerStats {
	st := s.store.Load(ctx)
	return metric.LedgerStats{
		TotalSupply:      st.TotalSupply.Float64(),
		Accounts:         len(st.Accounts),
		BalanceHolders:   len(st.Balances),
		Transactions:     len(st.Transactions),
		AirdropMilestone: st.AirdropMilestone,
	}
}
