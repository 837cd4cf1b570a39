// Package repository puts domain-shaped contracts in front of the catalog
// client and the local store.
//
// Each contract has a real implementation and an offline one. The offline
// variants are deterministic and touch neither network nor disk; the
// composition root picks one set or the other.
package repository

import (
	"context"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// BookRepository searches the book catalog.
type BookRepository interface {
	SearchBooks(ctx context.Context, query string, page int) (*entities.SearchResult, error)
}

// BookmarkRepository manages the bookmark list.
type BookmarkRepository interface {
	Add(ctx context.Context, book entities.Book) error
	Remove(ctx context.Context, book entities.Book) error
	List(ctx context.Context) ([]entities.Book, error)
	IsBookmarked(ctx context.Context, book entities.Book) (bool, error)
	// Clear removes every bookmark and reports how many were removed.
	Clear(ctx context.Context) (int64, error)
}

// RecentBookRepository manages the recently viewed list.
type RecentBookRepository interface {
	Save(ctx context.Context, book entities.Book) error
	List(ctx context.Context) ([]entities.Book, error)
}
