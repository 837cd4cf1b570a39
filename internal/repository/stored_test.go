package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/bookmarks"
	"github.com/mrlokans/bookshelf/internal/database/recents"
	"github.com/mrlokans/bookshelf/internal/entities"
)

func setupStores(t *testing.T) (*bookmarks.Repository, *recents.Repository, func()) {
	db, err := database.NewDatabaseWithOptions(
		filepath.Join(t.TempDir(), "repository.db"),
		database.Options{LogLevel: gormlogger.Silent},
	)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
	}
	return bookmarks.NewRepository(db.DB), recents.NewRepository(db.DB, recents.DefaultLimit), cleanup
}

func TestStoredBookmarkRepository(t *testing.T) {
	store, _, cleanup := setupStores(t)
	defer cleanup()
	ctx := context.Background()
	repo := NewStoredBookmarkRepository(store)

	book := testBook("사피엔스")

	ok, err := repo.IsBookmarked(ctx, book)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Add(ctx, book))
	ok, err = repo.IsBookmarked(ctx, book)
	require.NoError(t, err)
	assert.True(t, ok)

	books, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"사피엔스"}, titlesOf(books))

	require.NoError(t, repo.Remove(ctx, book))
	books, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestStoredBookmarkRepository_Clear(t *testing.T) {
	store, _, cleanup := setupStores(t)
	defer cleanup()
	ctx := context.Background()
	repo := NewStoredBookmarkRepository(store)

	require.NoError(t, repo.Add(ctx, testBook("A")))
	require.NoError(t, repo.Add(ctx, testBook("B")))

	removed, err := repo.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	books, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)

	removed, err = repo.Clear(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestStoredRecentBookRepository(t *testing.T) {
	_, store, cleanup := setupStores(t)
	defer cleanup()
	ctx := context.Background()
	repo := NewStoredRecentBookRepository(store, 2)

	for _, title := range []string{"A", "B", "C"} {
		require.NoError(t, repo.Save(ctx, testBook(title)))
	}

	books, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B"}, titlesOf(books))
}

type failingBookmarkStore struct{ err error }

func (s failingBookmarkStore) Insert(context.Context, entities.Book) error { return s.err }
func (s failingBookmarkStore) DeleteByKey(context.Context, string) error   { return s.err }
func (s failingBookmarkStore) List(context.Context) ([]entities.Book, error) {
	return nil, s.err
}
func (s failingBookmarkStore) CountByKey(context.Context, string) (int64, error) {
	return 0, s.err
}
func (s failingBookmarkStore) DeleteAll(context.Context) (int64, error) { return 0, s.err }

func TestStoredBookmarkRepository_PropagatesErrors(t *testing.T) {
	storeErr := database.WrapError("bookmarks", "count", errors.New("disk full"))
	repo := NewStoredBookmarkRepository(failingBookmarkStore{err: storeErr})
	ctx := context.Background()

	assert.ErrorIs(t, repo.Add(ctx, testBook("A")), database.ErrStorage)
	assert.ErrorIs(t, repo.Remove(ctx, testBook("A")), database.ErrStorage)

	_, err := repo.List(ctx)
	assert.ErrorIs(t, err, database.ErrStorage)

	ok, err := repo.IsBookmarked(ctx, testBook("A"))
	assert.ErrorIs(t, err, database.ErrStorage)
	assert.False(t, ok)

	_, err = repo.Clear(ctx)
	assert.ErrorIs(t, err, database.ErrStorage)
}

type stubSearcher struct {
	query string
	page  int
}

func (s *stubSearcher) Search(ctx context.Context, query string, page int) (*entities.SearchResult, error) {
	s.query, s.page = query, page
	return &entities.SearchResult{Books: []entities.Book{testBook(query)}, IsEnd: true}, nil
}

func TestCatalogBookRepository(t *testing.T) {
	searcher := &stubSearcher{}
	repo := NewCatalogBookRepository(searcher)

	result, err := repo.SearchBooks(context.Background(), "코스모스", 3)
	require.NoError(t, err)
	assert.Equal(t, "코스모스", searcher.query)
	assert.Equal(t, 3, searcher.page)
	assert.True(t, result.IsEnd)
	assert.Equal(t, []string{"코스모스"}, titlesOf(result.Books))
}
