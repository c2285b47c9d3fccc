package staking

import (
	"fmt"
	"sync"
	"testing"
)

func TestMemoryStore_LazyCreation(t *testing.T) {
	store := NewMemoryStore()

	if _, ok := store.Get("user-1"); ok {
		t.Fatal("Get() found a book before any stake")
	}
	if store.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", store.Len())
	}

	book := store.GetOrCreate("user-1")
	if book == nil {
		t.Fatal("GetOrCreate() returned nil")
	}
	if got := store.GetOrCreate("user-1"); got != book {
		t.Error("GetOrCreate() returned a different book for the same user")
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}

func TestMemoryStore_ConcurrentGetOrCreate(t *testing.T) {
	store := NewMemoryStore()

	const users = 8
	const workers = 4

	var wg sync.WaitGroup
	books := make([][]*Book, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			books[w] = make([]*Book, users)
			for u := 0; u < users; u++ {
				books[w][u] = store.GetOrCreate(fmt.Sprintf("user-%d", u))
			}
		}(w)
	}
	wg.Wait()

	if store.Len() != users {
		t.Fatalf("Len() = %d, want %d", store.Len(), users)
	}
	// every worker must have observed the same book per user
	for u := 0; u < users; u++ {
		for w := 1; w < workers; w++ {
			if books[w][u] != books[0][u] {
				t.Fatalf("user-%d book differs between workers", u)
			}
		}
	}
}

func TestMemoryStore_Range(t *testing.T) {
	store := NewMemoryStore()
	for i := 0; i < 5; i++ {
		store.GetOrCreate(fmt.Sprintf("user-%d", i))
	}

	seen := map[string]bool{}
	store.Range(func(userID string, book *Book) bool {
		seen[userID] = true
		return true
	})
	if len(seen) != 5 {
		t.Errorf("Range() visited %d books, want 5", len(seen))
	}
}
