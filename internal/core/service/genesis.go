package service

import (
	"context"

	"github.com/yndnr/corex-go/internal/core/domain"
	"github.com/yndnr/corex-go/pkg/account"
)

// Genesis seeds a fresh ledger.
type Genesis struct {
	Authority        account.ID
	InitialSupply    domain.Amount
	AirdropMilestone uint64
	Profile          domain.Profile
}

// DefaultGenesis returns the standard seed for authority.
func DefaultGenesis(authority account.ID) Genesis {
	return Genesis{
		Authority:        authority,
		InitialSupply:    domain.NewAmount(domain.DefaultInitialSupply),
		AirdropMilestone: domain.DefaultAirdropMilestone,
		Profile:          domain.Profile{Name: domain.DefaultAuthorityName},
	}
}

// Initialize applies g when the cached state is pristine. It reports
// whether the seed was applied.
func (s *LedgerService) Initialize(ctx context.Context, g Genesis) (bool, error) {
	if g.Authority.IsReserved() {
		return false, domain.ErrReservedAccount.WithDetails("genesis authority")
	}

	applied := false
	err := s.commit(ctx, "genesis", func(st *domain.LedgerState, _ uint64) error {
		if !st.IsPristine() {
			return errUnchanged
		}

		auth := g.Authority
		st.MintingAuthority = &auth
		st.Accounts[auth] = g.Profile
		st.Balances[auth] = g.InitialSupply
		st.TotalSupply = g.InitialSupply
		st.AirdropMilestone = g.AirdropMilestone
		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if applied {
		s.logger.InfoContext(ctx, "genesis applied",
			"authority", g.Authority.String(),
			"initial_supply", g.InitialSupply.String(),
			"airdrop_milestone", g.AirdropMilestone,
		)
	}
	return applied, nil
}
