package cmap

import (
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
)

func TestNewWithShards(t *testing.T) {
	tests := []struct {
		shards int
		want   int
	}{
		{1, 1},
		{8, 8},
		{0, DefaultShardCount},
		{-4, DefaultShardCount},
		{12, DefaultShardCount},
	}
	for _, tt := range tests {
		if got := len(NewWithShards[int](tt.shards).shards); got != tt.want {
			t.Errorf("NewWithShards(%d) shards = %d, want %d", tt.shards, got, tt.want)
		}
	}
}

func TestMap_Basic(t *testing.T) {
	m := New[int]()

	if _, ok := m.Get("a"); ok {
		t.Error("Get() on empty map found a value")
	}
	m.Set("a", 1)
	m.Set("b", 2)
	if v, ok := m.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v", v, ok)
	}
	if m.Count() != 2 {
		t.Errorf("Count() = %d, want 2", m.Count())
	}
	m.Delete("a")
	if _, ok := m.Get("a"); ok {
		t.Error("Delete() left the key")
	}
}

func TestMap_GetOrCreate(t *testing.T) {
	m := New[*int]()
	var created atomic.Int32

	var wg sync.WaitGroup
	results := make([]*int, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = m.GetOrCreate("caller", func() *int {
				created.Add(1)
				v := i
				return &v
			})
		}(i)
	}
	wg.Wait()

	if created.Load() != 1 {
		t.Errorf("create ran %d times, want 1", created.Load())
	}
	for _, r := range results[1:] {
		if r != results[0] {
			t.Fatal("GetOrCreate() returned different values for one key")
		}
	}

	if _, loaded := m.GetOrCreate("caller", func() *int { return nil }); !loaded {
		t.Error("GetOrCreate() loaded = false for an existing key")
	}
}

func TestMap_RangeAndDeleteIf(t *testing.T) {
	m := NewWithShards[int](4)
	for i := 0; i < 100; i++ {
		m.Set(strconv.Itoa(i), i)
	}

	sum := 0
	m.Range(func(_ string, v int) bool {
		sum += v
		return true
	})
	if sum != 4950 {
		t.Errorf("Range() sum = %d, want 4950", sum)
	}

	visited := 0
	m.Range(func(string, int) bool {
		visited++
		return visited < 10
	})
	if visited != 10 {
		t.Errorf("Range() visited %d after stop, want 10", visited)
	}

	removed := m.DeleteIf(func(_ string, v int) bool { return v%2 == 0 })
	if removed != 50 || m.Count() != 50 {
		t.Errorf("DeleteIf() removed %d, Count() = %d", removed, m.Count())
	}
}
