package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/database/bookmarks"
	"github.com/mrlokans/bookshelf/internal/database/recents"
	http_controllers "github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/repository"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/tasks"
	"github.com/mrlokans/bookshelf/internal/usecases"
)

// =============================================================================
// Remote Catalog
// =============================================================================

var _ catalog.Searcher = (*catalog.KakaoClient)(nil)

// =============================================================================
// Data Access Layer
// =============================================================================

// Local store tables
var _ repository.BookmarkStore = (*bookmarks.Repository)(nil)
var _ repository.RecentStore = (*recents.Repository)(nil)

// BookRepository implementations
var _ repository.BookRepository = (*repository.CatalogBookRepository)(nil)
var _ repository.BookRepository = (*repository.FixtureBookRepository)(nil)

// BookmarkRepository implementations
var _ repository.BookmarkRepository = (*repository.StoredBookmarkRepository)(nil)
var _ repository.BookmarkRepository = (*repository.MemoryBookmarkRepository)(nil)

// RecentBookRepository implementations
var _ repository.RecentBookRepository = (*repository.StoredRecentBookRepository)(nil)
var _ repository.RecentBookRepository = (*repository.MemoryRecentBookRepository)(nil)

// =============================================================================
// Use Cases
// =============================================================================

var _ usecases.BookSearcher = (*usecases.SearchBook)(nil)
var _ usecases.RecentBooksFetcher = (*usecases.FetchRecentBooks)(nil)
var _ usecases.RecentBookSaver = (*usecases.SaveRecentBook)(nil)
var _ usecases.BookmarkAdder = (*usecases.AddBookmark)(nil)
var _ usecases.BookmarkRemover = (*usecases.RemoveBookmark)(nil)
var _ usecases.BookmarksFetcher = (*usecases.FetchBookmarks)(nil)
var _ usecases.BookmarkChecker = (*usecases.CheckBookmark)(nil)
var _ usecases.BookmarksClearer = (*usecases.ClearBookmarks)(nil)

// RecentBookWriter implementations: inline or through the task queue
var _ usecases.RecentBookWriter = (*repository.StoredRecentBookRepository)(nil)
var _ usecases.RecentBookWriter = (*tasks.RecentViewRecorder)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ tasks.RecentViewWriter = (*repository.StoredRecentBookRepository)(nil)
var _ tasks.RecentViewPruner = (*recents.Repository)(nil)
var _ tasks.TaskAdder = (*tasks.Client)(nil)
var _ scheduler.TaskAdder = (*tasks.Client)(nil)
var _ http_controllers.NextRunner = (*scheduler.RecentsPruneScheduler)(nil)
