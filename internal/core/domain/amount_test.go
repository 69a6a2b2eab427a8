package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

const maxU128 = "340282366920938463463374607431768211455"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr error
	}{
		{"0", "0", nil},
		{"100", "100", nil},
		{maxU128, maxU128, nil},
		{"340282366920938463463374607431768211456", "", ErrAmountOverflow},
		{"", "", ErrInvalidArgument},
		{"-1", "", ErrInvalidArgument},
		{"1e3", "", ErrInvalidArgument},
		{" 5", "", ErrInvalidArgument},
		{"0x10", "", ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseAmount(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) error = %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestAmount_Add(t *testing.T) {
	sum, err := NewAmount(40).Add(NewAmount(2))
	if err != nil || sum != NewAmount(42) {
		t.Errorf("40+2 = %s, %v", sum, err)
	}

	// Carry into the high word
	big, _ := NewAmount(^uint64(0)).Add(NewAmount(1))
	if big.String() != "18446744073709551616" {
		t.Errorf("2^64-1 + 1 = %s", big)
	}

	if _, err := MustParseAmount(maxU128).Add(NewAmount(1)); !errors.Is(err, ErrAmountOverflow) {
		t.Errorf("max+1 error = %v, want ErrAmountOverflow", err)
	}
}

func TestAmount_Sub(t *testing.T) {
	diff, ok := NewAmount(100).Sub(NewAmount(30))
	if !ok || diff != NewAmount(70) {
		t.Errorf("100-30 = %s, %v", diff, ok)
	}
	if _, ok := NewAmount(1).Sub(NewAmount(2)); ok {
		t.Error("1-2 should report underflow")
	}
	zero, ok := NewAmount(5).Sub(NewAmount(5))
	if !ok || !zero.IsZero() {
		t.Errorf("5-5 = %s, %v", zero, ok)
	}
}

func TestAmount_Mul64(t *testing.T) {
	got, err := NewAmount(AirdropPerAccount).Mul64(7)
	if err != nil || got != NewAmount(420_000) {
		t.Errorf("60000*7 = %s, %v", got, err)
	}

	got, err = NewAmount(^uint64(0)).Mul64(2)
	if err != nil || got.String() != "36893488147419103230" {
		t.Errorf("(2^64-1)*2 = %s, %v", got, err)
	}

	if _, err := MustParseAmount(maxU128).Mul64(2); !errors.Is(err, ErrAmountOverflow) {
		t.Errorf("max*2 error = %v, want ErrAmountOverflow", err)
	}
	if got, err := MustParseAmount(maxU128).Mul64(0); err != nil || !got.IsZero() {
		t.Errorf("max*0 = %s, %v", got, err)
	}
}

func TestAmount_JSON(t *testing.T) {
	in := struct {
		A Amount `json:"a"`
	}{A: MustParseAmount("123456789012345678901234567890")}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"a":"123456789012345678901234567890"}` {
		t.Errorf("Marshal() = %s", data)
	}

	var out struct {
		A Amount `json:"a"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if out.A != in.A {
		t.Errorf("round trip = %s, want %s", out.A, in.A)
	}

	if err := json.Unmarshal([]byte(`{"a":"abc"}`), &out); err == nil {
		t.Error("Unmarshal() expected error for non-numeric amount")
	}
}

func TestAmount_Cmp(t *testing.T) {
	if !NewAmount(1).LessThan(NewAmount(2)) {
		t.Error("1 < 2")
	}
	if MustParseAmount("18446744073709551616").Cmp(NewAmount(^uint64(0))) != 1 {
		t.Error("2^64 > 2^64-1")
	}
}
