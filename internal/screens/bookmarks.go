package screens

import (
	"context"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/logger"
	"github.com/mrlokans/bookshelf/internal/reactor"
	"github.com/mrlokans/bookshelf/internal/usecases"
)

// BookmarkListAction is a LoadBookmarks, SelectBook, ClearSelection,
// DeleteBookmark or ClearBookmarks.
type BookmarkListAction interface {
	bookmarkListAction()
}

// LoadBookmarks re-reads the list. Dispatch it on every activation of the screen.
type LoadBookmarks struct{}

type SelectBook struct {
	Book entities.Book
}

// ClearSelection consumes SelectedBook once the presentation has navigated.
type ClearSelection struct{}

type DeleteBookmark struct {
	Book entities.Book
}

// ClearBookmarks removes every bookmark, then reloads the list.
type ClearBookmarks struct{}

func (LoadBookmarks) bookmarkListAction()  {}
func (SelectBook) bookmarkListAction()     {}
func (ClearSelection) bookmarkListAction() {}
func (DeleteBookmark) bookmarkListAction() {}
func (ClearBookmarks) bookmarkListAction() {}

// BookmarkListState is the bookmark list snapshot.
type BookmarkListState struct {
	Bookmarks    []entities.Book
	IsLoading    bool
	SelectedBook *entities.Book
	Err          error

	token uint64
}

func NewBookmarkListState() BookmarkListState {
	return BookmarkListState{Bookmarks: []entities.Book{}}
}

type bookmarkMutationKind int

const (
	startBookmarkLoad bookmarkMutationKind = iota
	setBookmarks
	setBookmarksFailed
	setSelectedBook
	clearSelectedBook
)

type bookmarkMutation struct {
	kind  bookmarkMutationKind
	token uint64
	books []entities.Book
	book  *entities.Book
	err   error
}

type bookmarkListBehavior struct {
	fetch  usecases.BookmarksFetcher
	remove usecases.BookmarkRemover
	clear  usecases.BookmarksClearer
}

func (b bookmarkListBehavior) Mutate(state BookmarkListState, action BookmarkListAction) reactor.Plan[bookmarkMutation] {
	switch a := action.(type) {
	case LoadBookmarks:
		token := state.token + 1
		return reactor.Plan[bookmarkMutation]{
			Mutations: []bookmarkMutation{{kind: startBookmarkLoad, token: token}},
			Effect: func(ctx context.Context) []bookmarkMutation {
				return b.reload(ctx, token)
			},
		}

	case SelectBook:
		book := a.Book
		return reactor.Plan[bookmarkMutation]{
			Mutations: []bookmarkMutation{{kind: setSelectedBook, book: &book}},
		}

	case ClearSelection:
		return reactor.Plan[bookmarkMutation]{
			Mutations: []bookmarkMutation{{kind: clearSelectedBook}},
		}

	case DeleteBookmark:
		token := state.token + 1
		book := a.Book
		return reactor.Plan[bookmarkMutation]{
			Mutations: []bookmarkMutation{{kind: startBookmarkLoad, token: token}},
			Effect: func(ctx context.Context) []bookmarkMutation {
				if err := b.remove.Execute(ctx, book); err != nil {
					logger.For(ctx).WithError(err).WithField("title", book.Title).Warn("failed to delete bookmark")
					return []bookmarkMutation{{kind: setBookmarksFailed, token: token, err: err}}
				}
				return b.reload(ctx, token)
			},
		}

	case ClearBookmarks:
		token := state.token + 1
		return reactor.Plan[bookmarkMutation]{
			Mutations: []bookmarkMutation{{kind: startBookmarkLoad, token: token}},
			Effect: func(ctx context.Context) []bookmarkMutation {
				removed, err := b.clear.Execute(ctx)
				if err != nil {
					logger.For(ctx).WithError(err).Warn("failed to clear bookmarks")
					return []bookmarkMutation{{kind: setBookmarksFailed, token: token, err: err}}
				}
				logger.For(ctx).WithField("removed", removed).Info("bookmarks cleared")
				return b.reload(ctx, token)
			},
		}
	}
	return reactor.Plan[bookmarkMutation]{}
}

func (b bookmarkListBehavior) reload(ctx context.Context, token uint64) []bookmarkMutation {
	books, err := b.fetch.Execute(ctx)
	if err != nil {
		logger.For(ctx).WithError(err).Warn("failed to load bookmarks")
		return []bookmarkMutation{{kind: setBookmarksFailed, token: token, err: err}}
	}
	return []bookmarkMutation{{kind: setBookmarks, token: token, books: books}}
}

func (bookmarkListBehavior) Accept(state BookmarkListState, m bookmarkMutation) bool {
	switch m.kind {
	case startBookmarkLoad:
		return m.token > state.token
	case setBookmarks, setBookmarksFailed:
		return m.token == state.token
	}
	return true
}

func (bookmarkListBehavior) Reduce(state BookmarkListState, m bookmarkMutation) BookmarkListState {
	switch m.kind {
	case startBookmarkLoad:
		state.token = m.token
		state.IsLoading = true
		state.Err = nil
	case setBookmarks:
		state.Bookmarks = nonNil(m.books)
		state.IsLoading = false
	case setBookmarksFailed:
		state.IsLoading = false
		state.Err = m.err
	case setSelectedBook:
		state.SelectedBook = m.book
	case clearSelectedBook:
		state.SelectedBook = nil
	}
	return state
}

// BookmarkListReactor drives the bookmark list screen.
type BookmarkListReactor struct {
	*reactor.Reactor[BookmarkListAction, bookmarkMutation, BookmarkListState]
}

func NewBookmarkListReactor(
	ctx context.Context,
	fetch usecases.BookmarksFetcher,
	remove usecases.BookmarkRemover,
	clear usecases.BookmarksClearer,
	pool *reactor.Pool,
) *BookmarkListReactor {
	behavior := bookmarkListBehavior{fetch: fetch, remove: remove, clear: clear}
	return &BookmarkListReactor{
		Reactor: reactor.New[BookmarkListAction, bookmarkMutation, BookmarkListState](ctx, "bookmarks", behavior, NewBookmarkListState(), pool),
	}
}
