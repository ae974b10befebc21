package engine

import (
	"fmt"
	"sync"
	"testing"
)

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()

	if _, ok := c.Get("missing"); ok {
		t.Error("empty cache should not return a hit")
	}

	c.Put("k1", map[string]any{"x": 5})

	got, ok := c.Get("k1")
	if !ok {
		t.Fatal("expected a hit for a stored key")
	}
	if got["x"] != 5 {
		t.Errorf("expected x = 5, got %v", got["x"])
	}

	c.Put("k1", map[string]any{"x": 7})
	got, _ = c.Get("k1")
	if got["x"] != 7 {
		t.Errorf("put should overwrite, got %v", got["x"])
	}

	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	c := NewMemoryCache()

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%4)
			c.Put(key, map[string]any{"i": i})
			c.Get(key)
		}()
	}
	wg.Wait()

	if c.Len() != 4 {
		t.Errorf("expected 4 distinct keys, got %d", c.Len())
	}
}
