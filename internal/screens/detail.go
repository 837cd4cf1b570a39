package screens

import (
	"context"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/logger"
	"github.com/mrlokans/bookshelf/internal/reactor"
	"github.com/mrlokans/bookshelf/internal/usecases"
)

// DetailAction is one of CheckBookmarkStatus, ToggleBookmark or RecordView.
type DetailAction interface {
	detailAction()
}

type CheckBookmarkStatus struct{}

type ToggleBookmark struct{}

// RecordView adds the book to the recently viewed list.
type RecordView struct{}

func (CheckBookmarkStatus) detailAction() {}
func (ToggleBookmark) detailAction()      {}
func (RecordView) detailAction()          {}

// DetailState is the detail screen snapshot. Book never changes.
type DetailState struct {
	Book         entities.Book
	IsBookmarked bool
	IsLoading    bool
	Err          error

	// revision increases with every toggle so an older status check
	// cannot overwrite the outcome of a newer toggle.
	revision uint64
}

type detailMutationKind int

const (
	setBookmarked detailMutationKind = iota
	startToggle
	setToggled
	setDetailFailed
	setViewFailed
)

type detailMutation struct {
	kind       detailMutationKind
	revision   uint64
	bookmarked bool
	err        error
}

type detailBehavior struct {
	check  usecases.BookmarkChecker
	add    usecases.BookmarkAdder
	remove usecases.BookmarkRemover
	save   usecases.RecentBookSaver
}

func (b detailBehavior) Mutate(state DetailState, action DetailAction) reactor.Plan[detailMutation] {
	book := state.Book

	switch action.(type) {
	case CheckBookmarkStatus:
		revision := state.revision
		return reactor.Plan[detailMutation]{
			Effect: func(ctx context.Context) []detailMutation {
				ok, err := b.check.Execute(ctx, book)
				if err != nil {
					logger.For(ctx).WithError(err).WithField("title", book.Title).Warn("bookmark check failed")
					return []detailMutation{{kind: setDetailFailed, revision: revision, err: err}}
				}
				return []detailMutation{{kind: setBookmarked, revision: revision, bookmarked: ok}}
			},
		}

	case ToggleBookmark:
		if state.IsLoading {
			return reactor.Plan[detailMutation]{}
		}
		revision := state.revision + 1
		wasBookmarked := state.IsBookmarked
		return reactor.Plan[detailMutation]{
			Mutations: []detailMutation{{kind: startToggle, revision: revision}},
			Effect: func(ctx context.Context) []detailMutation {
				var err error
				if wasBookmarked {
					err = b.remove.Execute(ctx, book)
				} else {
					err = b.add.Execute(ctx, book)
				}
				if err != nil {
					logger.For(ctx).WithError(err).WithField("title", book.Title).Warn("bookmark toggle failed")
					return []detailMutation{{kind: setDetailFailed, revision: revision, err: err}}
				}
				return []detailMutation{{kind: setToggled, revision: revision, bookmarked: !wasBookmarked}}
			},
		}

	case RecordView:
		return reactor.Plan[detailMutation]{
			Effect: func(ctx context.Context) []detailMutation {
				if err := b.save.Execute(ctx, book); err != nil {
					logger.For(ctx).WithError(err).WithField("title", book.Title).Warn("failed to record view")
					return []detailMutation{{kind: setViewFailed, err: err}}
				}
				return nil
			},
		}
	}
	return reactor.Plan[detailMutation]{}
}

func (detailBehavior) Accept(state DetailState, m detailMutation) bool {
	switch m.kind {
	case startToggle:
		return m.revision > state.revision
	case setBookmarked, setToggled, setDetailFailed:
		return m.revision == state.revision
	}
	return true
}

func (detailBehavior) Reduce(state DetailState, m detailMutation) DetailState {
	switch m.kind {
	case setBookmarked:
		state.IsBookmarked = m.bookmarked
		state.Err = nil
	case startToggle:
		state.revision = m.revision
		state.IsLoading = true
		state.Err = nil
	case setToggled:
		state.IsBookmarked = m.bookmarked
		state.IsLoading = false
	case setDetailFailed:
		state.IsLoading = false
		state.Err = m.err
	case setViewFailed:
		state.Err = m.err
	}
	return state
}

// DetailReactor drives the detail screen of a single book.
type DetailReactor struct {
	*reactor.Reactor[DetailAction, detailMutation, DetailState]
}

func NewDetailReactor(
	ctx context.Context,
	book entities.Book,
	check usecases.BookmarkChecker,
	add usecases.BookmarkAdder,
	remove usecases.BookmarkRemover,
	save usecases.RecentBookSaver,
	pool *reactor.Pool,
) *DetailReactor {
	behavior := detailBehavior{check: check, add: add, remove: remove, save: save}
	initial := DetailState{Book: book}
	return &DetailReactor{
		Reactor: reactor.New[DetailAction, detailMutation, DetailState](ctx, "detail", behavior, initial, pool),
	}
}
