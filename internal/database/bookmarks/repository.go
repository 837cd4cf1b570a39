// Package bookmarks provides database operations for bookmarked books.
//
// At most one row exists per book key. Re-adding a bookmarked book replaces
// the row, so the newest write wins and the book moves to the top of the list.
//
// # Usage
//
//	repo := bookmarks.NewRepository(db)
//	err := repo.Insert(ctx, book)
//	books, err := repo.List(ctx)
package bookmarks

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/metrics"
)

const table = "bookmarks"

// Repository handles all bookmark database operations.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository creates a new bookmarks repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Insert bookmarks a book, replacing any existing row with the same key.
func (r *Repository) Insert(ctx context.Context, book entities.Book) error {
	key := book.Key()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_key = ?", key).Delete(&entities.BookmarkRecord{}).Error; err != nil {
			return err
		}
		record := entities.BookmarkRecord{
			BookKey:    key,
			StoredBook: entities.NewStoredBook(book),
			CreatedAt:  r.now().UTC(),
		}
		return tx.Create(&record).Error
	})
	return r.finish("insert", err)
}

// DeleteByKey removes the bookmark with the given key. Missing rows are not an error.
func (r *Repository) DeleteByKey(ctx context.Context, key string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("book_key = ?", key).Delete(&entities.BookmarkRecord{}).Error
	})
	return r.finish("delete", err)
}

// DeleteAll removes every bookmark and returns how many rows were deleted.
func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("1 = 1").Delete(&entities.BookmarkRecord{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, r.finish("delete_all", err)
}

// List returns all bookmarked books, newest first.
func (r *Repository) List(ctx context.Context) ([]entities.Book, error) {
	var records []entities.BookmarkRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&records).Error
	if err != nil {
		return nil, r.finish("list", err)
	}
	r.finish("list", nil)

	books := make([]entities.Book, 0, len(records))
	for _, rec := range records {
		books = append(books, rec.StoredBook.ToBook())
	}
	return books, nil
}

// CountByKey returns the number of bookmark rows for a key (0 or 1).
func (r *Repository) CountByKey(ctx context.Context, key string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.BookmarkRecord{}).
		Where("book_key = ?", key).
		Count(&count).Error
	return count, r.finish("count", err)
}

func (r *Repository) finish(op string, err error) error {
	metrics.ObserveStoreOperation(table, op, err)
	return database.WrapError(table, op, err)
}
