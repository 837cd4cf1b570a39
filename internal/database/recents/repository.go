// Package recents provides database operations for recently viewed books.
//
// The table holds at most one row per book key and never more than the
// configured limit. Upsert replaces, stamps, and trims in a single transaction.
package recents

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/metrics"
)

// DefaultLimit is the number of recent views kept when no limit is configured.
const DefaultLimit = 10

const table = "recent_views"

// Repository handles all recent-view database operations.
type Repository struct {
	db    *gorm.DB
	limit int
	now   func() time.Time
}

// NewRepository creates a new recents repository keeping at most limit rows.
func NewRepository(db *gorm.DB, limit int) *Repository {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Repository{db: db, limit: limit, now: time.Now}
}

// Limit returns the row cap.
func (r *Repository) Limit() int {
	return r.limit
}

// Upsert records a view of the book and trims the table to the limit.
func (r *Repository) Upsert(ctx context.Context, book entities.Book) error {
	key := book.Key()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_key = ?", key).Delete(&entities.RecentViewRecord{}).Error; err != nil {
			return err
		}

		record := entities.RecentViewRecord{
			BookKey:    key,
			StoredBook: entities.NewStoredBook(book),
			ViewedAt:   r.now().UTC(),
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		var keep []uint
		err := tx.Model(&entities.RecentViewRecord{}).
			Order("viewed_at DESC, id DESC").
			Limit(r.limit).
			Pluck("id", &keep).Error
		if err != nil {
			return err
		}
		return tx.Where("id NOT IN ?", keep).Delete(&entities.RecentViewRecord{}).Error
	})
	return r.finish("upsert", err)
}

// List returns up to limit recently viewed books, newest first.
// A non-positive limit means the repository's own cap.
func (r *Repository) List(ctx context.Context, limit int) ([]entities.Book, error) {
	if limit <= 0 {
		limit = r.limit
	}

	var records []entities.RecentViewRecord
	err := r.db.WithContext(ctx).
		Order("viewed_at DESC, id DESC").
		Limit(limit).
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

// PruneOlderThan deletes views recorded before cutoff and returns the number removed.
func (r *Repository) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("viewed_at < ?", cutoff.UTC()).Delete(&entities.RecentViewRecord{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, r.finish("prune", err)
}

// Clear removes every recent view.
func (r *Repository) Clear(ctx context.Context) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("1 = 1").Delete(&entities.RecentViewRecord{}).Error
	})
	return r.finish("clear", err)
}

// Count returns the number of stored recent views.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.RecentViewRecord{}).Count(&count).Error
	return count, r.finish("count", err)
}

func (r *Repository) finish(op string, err error) error {
	metrics.ObserveStoreOperation(table, op, err)
	return database.WrapError(table, op, err)
}
