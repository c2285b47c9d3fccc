package staking

import (
	xsync "github.com/puzpuzpuz/xsync/v3"
)

// BookStore owns the per-user stake books. Mutation happens through the
// ledger, which serializes per book; the store only has to hand out and
// enumerate them safely under concurrent access.
type BookStore interface {
	// Get returns the user's book if one was ever created.
	Get(userID string) (*Book, bool)
	// GetOrCreate returns the user's book, lazily creating an empty one.
	GetOrCreate(userID string) *Book
	// Range calls fn for every book until fn returns false. Iteration order
	// is unspecified; callers must only run order-independent reductions.
	Range(fn func(userID string, book *Book) bool)
	// Len reports the number of books, i.e. users that have ever staked.
	Len() int
}

// MemoryStore keeps all books in process memory.
type MemoryStore struct {
	books *xsync.MapOf[string, *Book]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		books: xsync.NewMapOf[string, *Book](),
	}
}

func (s *MemoryStore) Get(userID string) (*Book, bool) {
	return s.books.Load(userID)
}

func (s *MemoryStore) GetOrCreate(userID string) *Book {
	book, _ := s.books.LoadOrCompute(userID, func() *Book {
		return newBook(userID)
	})
	return book
}

func (s *MemoryStore) Range(fn func(userID string, book *Book) bool) {
	s.books.Range(fn)
}

func (s *MemoryStore) Len() int {
	return s.books.Size()
}
