package snapshot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
)

func newTestManager(t *testing.T, retention int) *Manager {
	t.Helper()
	cfg := DefaultConfig(t.TempDir())
	cfg.RetentionCount = retention
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return m
}

func TestManager_ReadLatest(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, 5)

	if _, found, err := m.Read(ctx); found || err != nil {
		t.Fatalf("Read() on empty dir = found %v, err %v", found, err)
	}

	for _, blob := range []string{"one", "two", "three"} {
		if err := m.Write(ctx, []byte(blob)); err != nil {
			t.Fatalf("Write(%q) error = %v", blob, err)
		}
	}

	got, found, err := m.Read(ctx)
	if err != nil || !found {
		t.Fatalf("Read() = found %v, err %v", found, err)
	}
	if string(got) != "three" {
		t.Errorf("Read() = %q, want three", got)
	}
}

func TestManager_Retention(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, 2)

	for i := 0; i < 5; i++ {
		if err := m.Write(ctx, []byte{byte(i)}); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	infos, err := m.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(infos) != 2 {
		t.Errorf("len(List()) = %d, want 2", len(infos))
	}
}

func TestManager_Corruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(path string) error
		wantErr error
	}{
		{
			name: "flipped byte",
			corrupt: func(path string) error {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				data[len(magicBytes)+6] ^= 0xFF
				return os.WriteFile(path, data, 0600)
			},
			wantErr: ErrChecksumMismatch,
		},
		{
			name: "truncated",
			corrupt: func(path string) error {
				return os.Truncate(path, 10)
			},
			wantErr: ErrTruncated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/older readable", func(t *testing.T) {
			ctx := context.Background()
			m := newTestManager(t, 5)

			for _, blob := range []string{"oldest", "older", "newest"} {
				if err := m.Write(ctx, []byte(blob)); err != nil {
					t.Fatalf("Write(%q) error = %v", blob, err)
				}
			}
			infos, _ := m.List()
			if err := tt.corrupt(infos[len(infos)-1].Path); err != nil {
				t.Fatalf("corrupt: %v", err)
			}

			got, found, err := m.Read(ctx)
			if err != nil || !found {
				t.Fatalf("Read() = found %v, err %v", found, err)
			}
			if string(got) != "older" {
				t.Errorf("Read() = %q, want older", got)
			}

			// The corrupt file is kept for manual inspection.
			if infos, _ := m.List(); len(infos) != 3 {
				t.Errorf("len(List()) = %d, want 3", len(infos))
			}
		})

		t.Run(tt.name+"/none readable", func(t *testing.T) {
			ctx := context.Background()
			m := newTestManager(t, 5)

			if err := m.Write(ctx, []byte("only")); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			infos, _ := m.List()
			if err := tt.corrupt(infos[0].Path); err != nil {
				t.Fatalf("corrupt: %v", err)
			}

			_, found, err := m.Read(ctx)
			if !found {
				t.Error("Read() found = false for a corrupt file")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Read() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewManager_RequiresDir(t *testing.T) {
	if _, err := NewManager(Config{}); err == nil {
		t.Error("NewManager() without dir succeeded")
	}
}
