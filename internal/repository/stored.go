package repository

import (
	"context"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// BookmarkStore is the slice of the bookmarks table the repository needs.
type BookmarkStore interface {
	Insert(ctx context.Context, book entities.Book) error
	DeleteByKey(ctx context.Context, key string) error
	List(ctx context.Context) ([]entities.Book, error)
	CountByKey(ctx context.Context, key string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// RecentStore is the slice of the recent views table the repository needs.
type RecentStore interface {
	Upsert(ctx context.Context, book entities.Book) error
	List(ctx context.Context, limit int) ([]entities.Book, error)
}

// StoredBookmarkRepository keeps bookmarks in the local store.
type StoredBookmarkRepository struct {
	store BookmarkStore
}

func NewStoredBookmarkRepository(store BookmarkStore) *StoredBookmarkRepository {
	return &StoredBookmarkRepository{store: store}
}

func (r *StoredBookmarkRepository) Add(ctx context.Context, book entities.Book) error {
	return r.store.Insert(ctx, book)
}

func (r *StoredBookmarkRepository) Remove(ctx context.Context, book entities.Book) error {
	return r.store.DeleteByKey(ctx, book.Key())
}

func (r *StoredBookmarkRepository) List(ctx context.Context) ([]entities.Book, error) {
	return r.store.List(ctx)
}

func (r *StoredBookmarkRepository) IsBookmarked(ctx context.Context, book entities.Book) (bool, error) {
	count, err := r.store.CountByKey(ctx, book.Key())
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *StoredBookmarkRepository) Clear(ctx context.Context) (int64, error) {
	return r.store.DeleteAll(ctx)
}

// StoredRecentBookRepository keeps recent views in the local store.
type StoredRecentBookRepository struct {
	store RecentStore
	limit int
}

func NewStoredRecentBookRepository(store RecentStore, limit int) *StoredRecentBookRepository {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return &StoredRecentBookRepository{store: store, limit: limit}
}

func (r *StoredRecentBookRepository) Save(ctx context.Context, book entities.Book) error {
	return r.store.Upsert(ctx, book)
}

func (r *StoredRecentBookRepository) List(ctx context.Context) ([]entities.Book, error) {
	return r.store.List(ctx, r.limit)
}
