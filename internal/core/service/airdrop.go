package service

import (
	"context"
	"errors"
	"math"

	"github.com/yndnr/corex-go/internal/core/domain"
	"github.com/yndnr/corex-go/pkg/account"
)

// RegisterResult reports the outcome of Register.
type RegisterResult struct {
	// Registered is false when the call was a no-op.
	Registered bool

	// Airdrop is set when the registration reached the milestone.
	Airdrop *AirdropResult
}

// AirdropResult describes one milestone distribution.
type AirdropResult struct {
	Recipients    int
	PerAccount    domain.Amount
	Total         domain.Amount
	NextMilestone uint64
}

// Register onboards caller with an empty profile.
//
// Reserved callers and already registered accounts are ignored. When the
// new account count equals the airdrop milestone, every registered account
// receives domain.AirdropPerAccount in the same persisted unit.
func (s *LedgerService) Register(ctx context.Context, caller account.ID) (*RegisterResult, error) {
	result := &RegisterResult{}

	err := s.commit(ctx, "register", func(st *domain.LedgerState, ts uint64) error {
		if caller.IsReserved() || st.IsRegistered(caller) {
			return errUnchanged
		}

		st.Accounts[caller] = domain.Profile{}
		// A transfer may have funded caller before registration.
		if _, ok := st.Balances[caller]; !ok {
			st.Balances[caller] = domain.ZeroAmount
		}
		result.Registered = true

		if uint64(len(st.Accounts)) != st.AirdropMilestone {
			return nil
		}

		airdrop, err := s.distribute(st, caller, ts)
		if err != nil {
			return err
		}
		result.Airdrop = airdrop
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Registered {
		s.logger.InfoContext(ctx, "account registered", "account", caller.Short())
	}
	if a := result.Airdrop; a != nil {
		s.metrics.ObserveAirdrop(a.Recipients, a.Total.Float64())
		s.logger.InfoContext(ctx, "airdrop distributed",
			"recipients", a.Recipients,
			"total", a.Total.String(),
			"next_milestone", a.NextMilestone,
		)
	}
	return result, nil
}

// distribute credits every registered account and doubles the milestone.
func (s *LedgerService) distribute(st *domain.LedgerState, caller account.ID, ts uint64) (*AirdropResult, error) {
	per := domain.NewAmount(domain.AirdropPerAccount)
	recipients := st.SortedAccounts()

	total, err := per.Mul64(uint64(len(recipients)))
	if err != nil {
		return nil, err
	}
	supply, err := st.TotalSupply.Add(total)
	if err != nil {
		return nil, err
	}
	st.TotalSupply = supply

	// The authority is credited and debited by the same total. Strict mode
	// without a recorded authority has nobody to route it through.
	authority, err := s.effectiveAuthority(st, caller)
	switch {
	case errors.Is(err, domain.ErrMinterNotSet):
	case err != nil:
		return nil, err
	default:
		if err := passThrough(st, authority, total); err != nil {
			return nil, err
		}
	}

	for _, id := range recipients {
		if err := credit(st, id, per); err != nil {
			return nil, err
		}
		if err := s.record(st, account.None, id, per, ts, domain.TxAirDrop); err != nil {
			return nil, err
		}
	}

	if st.AirdropMilestone > math.MaxUint64/2 {
		st.AirdropMilestone = math.MaxUint64
	} else {
		st.AirdropMilestone *= 2
	}

	return &AirdropResult{
		Recipients:    len(recipients),
		PerAccount:    per,
		Total:         total,
		NextMilestone: st.AirdropMilestone,
	}, nil
}

// passThrough credits then debits authority by total. The balance ends
// where it started; an absent entry stays absent.
func passThrough(st *domain.LedgerState, authority account.ID, total domain.Amount) error {
	bal, existed := st.Balances[authority]

	credited, err := bal.Add(total)
	if err != nil {
		return err
	}
	debited, ok := credited.Sub(total)
	if !ok {
		return domain.NewInsufficientFunds(credited)
	}

	if existed {
		st.Balances[authority] = debited
	}
	return nil
}
