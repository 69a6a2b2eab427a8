package account

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mr-tron/base58"
)

func TestGenerate_Uniqueness(t *testing.T) {
	seen := make(map[ID]bool)
	for i := 0; i < 100; i++ {
		id, err := Generate()
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if id.IsReserved() {
			t.Fatalf("Generate() returned reserved id %s", id)
		}
		if seen[id] {
			t.Errorf("Generate() produced duplicate id: %s", id)
		}
		seen[id] = true
	}
}

func TestGenerateFrom_SkipsReserved(t *testing.T) {
	src := append(make([]byte, Size), bytes.Repeat([]byte{0x01}, Size)...)

	id, err := GenerateFrom(bytes.NewReader(src))
	if err != nil {
		t.Fatalf("GenerateFrom() error = %v", err)
	}
	if id != (ID{0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
		0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01}) {
		t.Errorf("GenerateFrom() = %x, want all 0x01", id[:])
	}
}

func TestGenerateFrom_ShortRead(t *testing.T) {
	if _, err := GenerateFrom(bytes.NewReader([]byte{1, 2, 3})); err == nil {
		t.Error("GenerateFrom() expected error on short read")
	}
}

func TestParse_RoundTrip(t *testing.T) {
	ids := []ID{None, Anonymous, {1, 2, 3}, {Size - 1: 0xff}}
	for _, id := range ids {
		s := id.String()
		got, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", s, err)
		}
		if got != id {
			t.Errorf("Parse(%q) = %x, want %x", s, got[:], id[:])
		}
	}
}

func TestParse_Errors(t *testing.T) {
	valid := ID{9, 9, 9}.String()
	raw, _ := base58.Decode(valid)

	flipped := append([]byte(nil), raw...)
	flipped[len(flipped)-1] ^= 0xff

	badVersion := append([]byte(nil), raw...)
	badVersion[0] = 0x01

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", ErrEmpty},
		{"not base58", "0OIl", ErrInvalidEncoding},
		{"too short", base58.Encode(raw[:10]), ErrInvalidLength},
		{"bad checksum", base58.Encode(flipped), ErrChecksumMismatch},
		{"bad version", base58.Encode(badVersion), ErrInvalidVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse(%q) error = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestReserved(t *testing.T) {
	if !None.IsReserved() || !None.IsNone() {
		t.Error("None should be reserved")
	}
	if !Anonymous.IsReserved() || !Anonymous.IsAnonymous() {
		t.Error("Anonymous should be reserved")
	}
	if None == Anonymous {
		t.Error("None and Anonymous must differ")
	}
	if (ID{7}).IsReserved() {
		t.Error("ordinary id reported as reserved")
	}
}

func TestID_JSONMapKey(t *testing.T) {
	a, b := ID{1}, ID{2}
	in := map[ID]int{a: 10, b: 20}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var out map[ID]int
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if out[a] != 10 || out[b] != 20 || len(out) != 2 {
		t.Errorf("round trip = %v", out)
	}
}

func TestID_Compare(t *testing.T) {
	if (ID{1}).Compare(ID{2}) >= 0 {
		t.Error("ID{1} should sort before ID{2}")
	}
	if (ID{2}).Compare(ID{2}) != 0 {
		t.Error("equal ids should compare 0")
	}
}

func TestFromBytes(t *testing.T) {
	if _, err := FromBytes(make([]byte, 5)); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("FromBytes() error = %v, want ErrInvalidLength", err)
	}
	id, err := FromBytes(bytes.Repeat([]byte{3}, Size))
	if err != nil {
		t.Fatalf("FromBytes() error = %v", err)
	}
	if id[0] != 3 || id[Size-1] != 3 {
		t.Errorf("FromBytes() = %x", id[:])
	}
}
