package usecases

import (
	"context"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/repository"
)

type AddBookmark struct {
	repo repository.BookmarkRepository
}

func NewAddBookmark(repo repository.BookmarkRepository) *AddBookmark {
	return &AddBookmark{repo: repo}
}

func (uc *AddBookmark) Execute(ctx context.Context, book entities.Book) error {
	return uc.repo.Add(ctx, book)
}

type RemoveBookmark struct {
	repo repository.BookmarkRepository
}

func NewRemoveBookmark(repo repository.BookmarkRepository) *RemoveBookmark {
	return &RemoveBookmark{repo: repo}
}

func (uc *RemoveBookmark) Execute(ctx context.Context, book entities.Book) error {
	return uc.repo.Remove(ctx, book)
}

type FetchBookmarks struct {
	repo repository.BookmarkRepository
}

func NewFetchBookmarks(repo repository.BookmarkRepository) *FetchBookmarks {
	return &FetchBookmarks{repo: repo}
}

func (uc *FetchBookmarks) Execute(ctx context.Context) ([]entities.Book, error) {
	return uc.repo.List(ctx)
}

type CheckBookmark struct {
	repo repository.BookmarkRepository
}

func NewCheckBookmark(repo repository.BookmarkRepository) *CheckBookmark {
	return &CheckBookmark{repo: repo}
}

func (uc *CheckBookmark) Execute(ctx context.Context, book entities.Book) (bool, error) {
	return uc.repo.IsBookmarked(ctx, book)
}

// ClearBookmarks empties the bookmark list.
type ClearBookmarks struct {
	repo repository.BookmarkRepository
}

func NewClearBookmarks(repo repository.BookmarkRepository) *ClearBookmarks {
	return &ClearBookmarks{repo: repo}
}

func (uc *ClearBookmarks) Execute(ctx context.Context) (int64, error) {
	return uc.repo.Clear(ctx)
}

// Set bundles every use case a screen session needs.
type Set struct {
	SearchBook       BookSearcher
	FetchRecentBooks RecentBooksFetcher
	SaveRecentBook   RecentBookSaver
	AddBookmark      BookmarkAdder
	RemoveBookmark   BookmarkRemover
	FetchBookmarks   BookmarksFetcher
	CheckBookmark    BookmarkChecker
	ClearBookmarks   BookmarksClearer
}

// NewSet wires all use cases to the given repositories. recentWriter may be
// nil, in which case views are written through the recent book repository.
func NewSet(
	books repository.BookRepository,
	bookmarks repository.BookmarkRepository,
	recents repository.RecentBookRepository,
	recentWriter RecentBookWriter,
) *Set {
	if recentWriter == nil {
		recentWriter = recents
	}
	return &Set{
		SearchBook:       NewSearchBook(books),
		FetchRecentBooks: NewFetchRecentBooks(recents),
		SaveRecentBook:   NewSaveRecentBook(recentWriter),
		AddBookmark:      NewAddBookmark(bookmarks),
		RemoveBookmark:   NewRemoveBookmark(bookmarks),
		FetchBookmarks:   NewFetchBookmarks(bookmarks),
		CheckBookmark:    NewCheckBookmark(bookmarks),
		ClearBookmarks:   NewClearBookmarks(bookmarks),
	}
}
