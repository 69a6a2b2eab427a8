package service

import (
	"context"
	"crypto/rand"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/corex-go/internal/core/domain"
	"github.com/yndnr/corex-go/internal/telemetry/metric"
	"github.com/yndnr/corex-go/pkg/account"
)

// StateStore defines the persistence contract of the ledger state.
type StateStore interface {
	// Load returns the cached state. The result must not be modified.
	Load(ctx context.Context) *domain.LedgerState

	// Save commits state durably and replaces the cache.
	Save(ctx context.Context, state *domain.LedgerState) error

	// Checkpoint re-persists the cached state.
	Checkpoint(ctx context.Context) error
}

// LedgerServiceConfig holds configuration for LedgerService.
type LedgerServiceConfig struct {
	// StrictAuthority makes Mint and GrantFaucet fail with ErrMinterNotSet
	// when no authority is recorded. When false every caller acts as its
	// own authority.
	StrictAuthority bool

	// Now returns the current time (default: time.Now).
	Now func() time.Time

	// Entropy feeds transaction ID generation (default: crypto/rand).
	Entropy io.Reader

	// Logger receives operation logs (default: slog.Default()).
	Logger *slog.Logger

	// Metrics is optional.
	Metrics *metric.Registry
}

// DefaultLedgerServiceConfig returns default configuration.
func DefaultLedgerServiceConfig() *LedgerServiceConfig {
	return &LedgerServiceConfig{
		Now:     time.Now,
		Entropy: rand.Reader,
		Logger:  slog.Default(),
	}
}

// LedgerService executes ledger operations.
type LedgerService struct {
	mu      sync.Mutex
	store   StateStore
	strict  bool
	now     func() time.Time
	entropy io.Reader
	logger  *slog.Logger
	metrics *metric.Registry
}

// NewLedgerService creates a new LedgerService. A nil cfg uses defaults.
func NewLedgerService(store StateStore, cfg *LedgerServiceConfig) *LedgerService {
	if cfg == nil {
		cfg = DefaultLedgerServiceConfig()
	}
	defaults := DefaultLedgerServiceConfig()
	if cfg.Now == nil {
		cfg.Now = defaults.Now
	}
	if cfg.Entropy == nil {
		cfg.Entropy = defaults.Entropy
	}
	if cfg.Logger == nil {
		cfg.Logger = defaults.Logger
	}

	return &LedgerService{
		store:   store,
		strict:  cfg.StrictAuthority,
		now:     cfg.Now,
		entropy: ulid.Monotonic(cfg.Entropy, 0),
		logger:  cfg.Logger.With("component", "ledger"),
		metrics: cfg.Metrics,
	}
}

// errUnchanged tells commit that the operation succeeded without touching
// the state.
var errUnchanged = errors.New("state unchanged")

// mutation mutates st. ts is the timestamp shared by every record the
// mutation appends.
type mutation func(st *domain.LedgerState, ts uint64) error

// commit runs fn against a private copy of the cached state and persists
// the result.
func (s *LedgerService) commit(ctx context.Context, op string, fn mutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.store.Load(ctx).Clone()

	err := fn(st, s.timestamp(st))
	if errors.Is(err, errUnchanged) {
		s.metrics.ObserveOperation(op, nil)
		return nil
	}
	if err != nil {
		s.metrics.ObserveOperation(op, err)
		return err
	}

	if err := s.store.Save(ctx, st); err != nil {
		if !errors.Is(err, domain.ErrStoreFailure) {
			err = domain.ErrStoreFailure.WithCause(err)
		}
		s.logger.ErrorContext(ctx, "ledger state not persisted, operation discarded",
			"op", op,
			"error", err,
		)
		s.metrics.ObserveOperation(op, err)
		return err
	}

	s.metrics.ObserveOperation(op, nil)
	return nil
}

// timestamp returns the current time in Unix nanoseconds, never earlier
// than the newest recorded transaction.
func (s *LedgerService) timestamp(st *domain.LedgerState) uint64 {
	var ts uint64
	if ns := s.now().UnixNano(); ns > 0 {
		ts = uint64(ns)
	}
	if last := st.LastTimestamp(); ts < last {
		ts = last
	}
	return ts
}

// record appends a transaction to st.
func (s *LedgerService) record(st *domain.LedgerState, from, to account.ID, amount domain.Amount, ts uint64, typ domain.TxType) error {
	id, err := domain.NewTransactionID(time.Unix(0, int64(ts)), s.entropy)
	if err != nil {
		return domain.ErrInternal.WithDetails("transaction id").WithCause(err)
	}
	st.Transactions = append(st.Transactions, domain.Transaction{
		ID:        id,
		From:      from,
		To:        to,
		Amount:    amount,
		Timestamp: ts,
		Type:      typ,
	})
	return nil
}

// effectiveAuthority resolves who may mint and fund the faucet.
func (s *LedgerService) effectiveAuthority(st *domain.LedgerState, caller account.ID) (account.ID, error) {
	if auth, ok := st.Authority(); ok {
		return auth, nil
	}
	if s.strict {
		return account.None, domain.ErrMinterNotSet
	}
	return caller, nil
}

// credit adds amount to the balance of id.
func credit(st *domain.LedgerState, id account.ID, amount domain.Amount) error {
	bal, err := st.BalanceOf(id).Add(amount)
	if err != nil {
		return err
	}
	st.Balances[id] = bal
	return nil
}

// debit subtracts amount from the balance of id.
func debit(st *domain.LedgerState, id account.ID, amount domain.Amount) error {
	current := st.BalanceOf(id)
	bal, ok := current.Sub(amount)
	if !ok {
		return domain.NewInsufficientFunds(current)
	}
	st.Balances[id] = bal
	return nil
}

// ============================================================================
// Transfer
// ============================================================================

// Transfer moves amount from sender to receiver and returns the sender's
// remaining balance.
//
// A transfer may fund an identifier that never registered.
func (s *LedgerService) Transfer(ctx context.Context, sender, receiver account.ID, amount domain.Amount) (domain.Amount, error) {
	var remaining domain.Amount

	err := s.commit(ctx, "transfer", func(st *domain.LedgerState, ts uint64) error {
		// 1. Validate in order
		if amount.IsZero() {
			return domain.ErrZeroTransfer
		}
		if receiver == sender {
			return domain.ErrReceiverSameAsSender
		}
		if receiver.IsReserved() {
			return domain.ErrReservedAccount.WithDetails("receiver")
		}

		// 2. Move funds
		if err := debit(st, sender, amount); err != nil {
			return err
		}
		if err := credit(st, receiver, amount); err != nil {
			return err
		}
		remaining = st.BalanceOf(sender)

		// 3. Record
		return s.record(st, sender, receiver, amount, ts, domain.TxTransfer)
	})
	if err != nil {
		return domain.ZeroAmount, err
	}

	s.logger.DebugContext(ctx, "transfer committed",
		"from", sender.Short(),
		"to", receiver.Short(),
		"amount", amount.String(),
	)
	return remaining, nil
}

// ============================================================================
// Mint
// ============================================================================

// Mint creates amount new tokens on target. Only the minting authority may
// mint.
func (s *LedgerService) Mint(ctx context.Context, caller account.ID, amount domain.Amount, target account.ID) error {
	err := s.commit(ctx, "mint", func(st *domain.LedgerState, ts uint64) error {
		authority, err := s.effectiveAuthority(st, caller)
		if err != nil {
			return err
		}
		if caller != authority || caller.IsReserved() {
			return domain.ErrNotTheMinter
		}
		if amount.IsZero() {
			return domain.ErrZeroTransfer
		}
		if target.IsReserved() {
			return domain.ErrReservedAccount.WithDetails("mint target")
		}

		supply, err := st.TotalSupply.Add(amount)
		if err != nil {
			return err
		}
		if err := credit(st, target, amount); err != nil {
			return err
		}
		st.TotalSupply = supply

		return s.record(st, account.None, target, amount, ts, domain.TxMint)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "tokens minted",
		"authority", caller.Short(),
		"target", target.Short(),
		"amount", amount.String(),
	)
	return nil
}

// ============================================================================
// Faucet
// ============================================================================

// GrantFaucet credits the caller with domain.FaucetAmount taken from the
// minting authority.
//
// Balances are unsigned: an authority holding less than the grant makes
// the call fail with InsufficientFundsError.
func (s *LedgerService) GrantFaucet(ctx context.Context, caller account.ID) error {
	grant := domain.NewAmount(domain.FaucetAmount)

	var funder account.ID
	err := s.commit(ctx, "faucet", func(st *domain.LedgerState, ts uint64) error {
		if caller.IsReserved() {
			return domain.ErrReservedAccount.WithDetails("faucet caller")
		}
		authority, err := s.effectiveAuthority(st, caller)
		if err != nil {
			return err
		}
		funder = authority

		// Credit first: a self-funded grant nets to zero.
		if err := credit(st, caller, grant); err != nil {
			return err
		}
		if err := debit(st, authority, grant); err != nil {
			return err
		}

		return s.record(st, authority, caller, grant, ts, domain.TxFaucet)
	})
	if err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "faucet granted",
		"caller", caller.Short(),
		"funder", funder.Short(),
	)
	return nil
}

// ============================================================================
// Profile
// ============================================================================

// UpdateProfile replaces the profile of caller.
func (s *LedgerService) UpdateProfile(ctx context.Context, caller account.ID, name, email string) error {
	return s.commit(ctx, "update_profile", func(st *domain.LedgerState, _ uint64) error {
		if caller.IsReserved() {
			return domain.ErrReservedAccount.WithDetails("profile owner")
		}
		if !st.IsRegistered(caller) {
			return domain.ErrAccountNotRegistered
		}
		st.Accounts[caller] = domain.Profile{Name: name, Email: email}
		return nil
	})
}

// ============================================================================
// Checkpoint
// ============================================================================

// Checkpoint persists the current state again. Called before shutdown.
func (s *LedgerService) Checkpoint(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Checkpoint(ctx); err != nil {
		s.logger.ErrorContext(ctx, "checkpoint failed", "error", err)
		return err
	}
	s.logger.InfoContext(ctx, "checkpoint written")
	return nil
}
