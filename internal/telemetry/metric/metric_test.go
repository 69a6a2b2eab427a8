package metric

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/yndnr/corex-go/internal/core/domain"
)

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if c := out.GetCounter(); c != nil {
		return c.GetValue()
	}
	return out.GetGauge().GetValue()
}

func TestRegistry_NilSafe(t *testing.T) {
	var r *Registry

	// None of these may panic.
	r.ObserveOperation("transfer", nil)
	r.ObserveAirdrop(3, 180000)
	r.ObserveStoreSave("file", time.Millisecond, nil)
	r.IncLoadFallback("decode")
	r.ObserveRequest("GET", "/health", 200, time.Millisecond)
	r.IncRateLimited("caller")
	if err := r.WatchLedger(func() LedgerStats { return LedgerStats{} }); err != nil {
		t.Errorf("WatchLedger() on nil = %v", err)
	}
	if r.Handler() == nil {
		t.Error("Handler() on nil should fall back to the default handler")
	}
}

func TestRegistry_ObserveOperation(t *testing.T) {
	r := NewRegistry()

	r.ObserveOperation("transfer", nil)
	r.ObserveOperation("transfer", domain.ErrZeroTransfer)
	r.ObserveOperation("transfer", domain.NewInsufficientFunds(domain.NewAmount(5)))
	r.ObserveOperation("transfer", errors.New("boom"))

	tests := []struct {
		result string
		want   float64
	}{
		{ResultOK, 1},
		{"CRX-LEDG-4001", 1},
		{"CRX-LEDG-4220", 1},
		{"error", 1},
	}
	for _, tt := range tests {
		got := value(t, r.Operations.WithLabelValues("transfer", tt.result))
		if got != tt.want {
			t.Errorf("operations{result=%s} = %v, want %v", tt.result, got, tt.want)
		}
	}
}

func TestRegistry_ObserveAirdrop(t *testing.T) {
	r := NewRegistry()
	r.ObserveAirdrop(5, 300000)

	if got := value(t, r.Airdrops); got != 1 {
		t.Errorf("airdrops = %v, want 1", got)
	}
	if got := value(t, r.AirdropMembers); got != 5 {
		t.Errorf("recipients = %v, want 5", got)
	}
	if got := value(t, r.AirdropTokens); got != 300000 {
		t.Errorf("tokens = %v, want 300000", got)
	}
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	r.IncLoadFallback("decode")
	if err := r.WatchLedger(func() LedgerStats {
		return LedgerStats{TotalSupply: 1000, Accounts: 2, Transactions: 7, AirdropMilestone: 5}
	}); err != nil {
		t.Fatalf("WatchLedger() error = %v", err)
	}

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`corex_store_load_fallbacks_total{reason="decode"} 1`,
		"corex_ledger_total_supply 1000",
		"corex_ledger_accounts 2",
		"corex_ledger_transactions 7",
		"corex_ledger_airdrop_milestone 5",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
