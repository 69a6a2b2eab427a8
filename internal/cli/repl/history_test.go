package repl

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
)

func TestHistory_AddGet(t *testing.T) {
	h := NewHistory("")
	h.Add("first")
	h.Add("second")
	h.Add("second")
	h.Add("third")

	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}

	tests := []struct {
		index int
		want  string
	}{
		{0, "third"},
		{1, "second"},
		{2, "first"},
		{3, ""},
		{-1, ""},
	}
	for _, tt := range tests {
		if got := h.Get(tt.index); got != tt.want {
			t.Errorf("Get(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestHistory_MaxSize(t *testing.T) {
	h := NewHistory("")
	h.maxSize = 3

	for _, cmd := range []string{"cmd1", "cmd2", "cmd3", "cmd4"} {
		h.Add(cmd)
	}

	want := []string{"cmd2", "cmd3", "cmd4"}
	if got := h.Entries(); !reflect.DeepEqual(got, want) {
		t.Errorf("Entries() = %q, want %q", got, want)
	}
}

func TestHistory_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history")

	h := NewHistory(path)
	h.Add("balance")
	h.Add("transfer bob 10")
	if err := h.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("permissions = %o, want 0600", perm)
		}
	}

	loaded := NewHistory(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(loaded.Entries(), h.Entries()) {
		t.Errorf("loaded = %q, want %q", loaded.Entries(), h.Entries())
	}
}

func TestHistory_LoadMissing(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "missing"))
	if err := h.Load(); err != nil {
		t.Errorf("Load() error = %v", err)
	}
	if h.Len() != 0 {
		t.Errorf("Len() = %d", h.Len())
	}
}

func TestHistory_InMemory(t *testing.T) {
	h := NewHistory("")
	h.Add("x")
	if err := h.Save(); err != nil {
		t.Errorf("Save() error = %v", err)
	}
	if err := h.Load(); err != nil {
		t.Errorf("Load() error = %v", err)
	}
}

func TestDefaultHistoryPath(t *testing.T) {
	if got := DefaultHistoryPath(); filepath.Base(got) != "history" || filepath.Base(filepath.Dir(got)) != ".corex" {
		t.Errorf("DefaultHistoryPath() = %q", got)
	}
}
