package repository

import (
	"context"
	"sync"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// DefaultRecentLimit caps the recently viewed list.
const DefaultRecentLimit = 10

// MemoryBookmarkRepository keeps bookmarks in memory, newest first.
type MemoryBookmarkRepository struct {
	mu    sync.RWMutex
	books []entities.Book
}

func NewMemoryBookmarkRepository() *MemoryBookmarkRepository {
	return &MemoryBookmarkRepository{}
}

func (r *MemoryBookmarkRepository) Add(ctx context.Context, book entities.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books = prepend(removeKey(r.books, book.Key()), book)
	return nil
}

func (r *MemoryBookmarkRepository) Remove(ctx context.Context, book entities.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books = removeKey(r.books, book.Key())
	return nil
}

func (r *MemoryBookmarkRepository) List(ctx context.Context) ([]entities.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneBooks(r.books), nil
}

func (r *MemoryBookmarkRepository) IsBookmarked(ctx context.Context, book entities.Book) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key := book.Key()
	for _, b := range r.books {
		if b.Key() == key {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryBookmarkRepository) Clear(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.books))
	r.books = nil
	return n, nil
}

// MemoryRecentBookRepository keeps recent views in memory with the same
// dedup and cap rules as the stored variant.
type MemoryRecentBookRepository struct {
	mu    sync.RWMutex
	books []entities.Book
	limit int
}

// NewMemoryRecentBookRepository starts from seed, newest first.
func NewMemoryRecentBookRepository(seed []entities.Book) *MemoryRecentBookRepository {
	r := &MemoryRecentBookRepository{limit: DefaultRecentLimit}
	for i := len(seed) - 1; i >= 0; i-- {
		r.books = r.insert(r.books, seed[i])
	}
	return r
}

func (r *MemoryRecentBookRepository) Save(ctx context.Context, book entities.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books = r.insert(r.books, book)
	return nil
}

func (r *MemoryRecentBookRepository) List(ctx context.Context) ([]entities.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneBooks(r.books), nil
}

func (r *MemoryRecentBookRepository) insert(books []entities.Book, book entities.Book) []entities.Book {
	books = prepend(removeKey(books, book.Key()), book)
	if len(books) > r.limit {
		books = books[:r.limit]
	}
	return books
}

func removeKey(books []entities.Book, key string) []entities.Book {
	out := books[:0:0]
	for _, b := range books {
		if b.Key() != key {
			out = append(out, b)
		}
	}
	return out
}

func prepend(books []entities.Book, book entities.Book) []entities.Book {
	return append(cloneBooks([]entities.Book{book}), books...)
}
