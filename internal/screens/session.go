package screens

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/logger"
	"github.com/mrlokans/bookshelf/internal/reactor"
	"github.com/mrlokans/bookshelf/internal/usecases"
)

// ErrNoDetail is returned when a detail operation is issued before any book was opened.
var ErrNoDetail = errors.New("no book is open")

// Session is one user's set of screens: search and bookmarks live for the
// whole session, while a detail screen exists per opened book.
type Session struct {
	id        string
	ctx       context.Context
	useCases  *usecases.Set
	pool      *reactor.Pool
	debouncer *reactor.Debouncer[string]

	search    *SearchReactor
	bookmarks *BookmarkListReactor

	mu     sync.Mutex
	detail *DetailReactor
}

// NewSession opens the search screen, which immediately loads recent books.
func NewSession(ctx context.Context, useCases *usecases.Set, pool *reactor.Pool, debounce time.Duration) *Session {
	id := uuid.NewString()
	ctx = logger.ContextWithSession(ctx, id)

	s := &Session{
		id:        id,
		ctx:       ctx,
		useCases:  useCases,
		pool:      pool,
		search:    NewSearchReactor(ctx, useCases.SearchBook, useCases.FetchRecentBooks, pool),
		bookmarks: NewBookmarkListReactor(ctx, useCases.FetchBookmarks, useCases.RemoveBookmark, useCases.ClearBookmarks, pool),
	}
	s.debouncer = reactor.NewDebouncer(debounce, func(query string) {
		s.search.Dispatch(Search{Query: query})
	})

	s.search.Dispatch(LoadRecentBooks{})
	logger.For(ctx).Debug("session opened")
	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Search() *SearchReactor {
	return s.search
}

func (s *Session) Bookmarks() *BookmarkListReactor {
	return s.bookmarks
}

// Type feeds raw search input through the debouncer.
func (s *Session) Type(query string) {
	s.debouncer.Push(query)
}

// SubmitSearch searches right away. Input still waiting in the debouncer is
// discarded, so it cannot replace the submitted query later.
func (s *Session) SubmitSearch(query string) {
	s.debouncer.Flush(query)
}

// OpenDetail replaces the current detail screen with one for book. Opening a
// book checks its bookmark status and records it as recently viewed.
func (s *Session) OpenDetail(book entities.Book) *DetailReactor {
	detail := NewDetailReactor(
		s.ctx,
		book,
		s.useCases.CheckBookmark,
		s.useCases.AddBookmark,
		s.useCases.RemoveBookmark,
		s.useCases.SaveRecentBook,
		s.pool,
	)
	detail.Dispatch(CheckBookmarkStatus{})
	detail.Dispatch(RecordView{})

	s.mu.Lock()
	previous := s.detail
	s.detail = detail
	s.mu.Unlock()

	if previous != nil {
		previous.Close()
	}
	return detail
}

// Detail returns the open detail screen.
func (s *Session) Detail() (*DetailReactor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detail == nil {
		return nil, ErrNoDetail
	}
	return s.detail, nil
}

// ActivateBookmarks reloads the bookmark list so it reflects changes made elsewhere.
func (s *Session) ActivateBookmarks() {
	s.bookmarks.Dispatch(LoadBookmarks{})
}

// ActivateSearch reloads the recent books shown above the search results.
func (s *Session) ActivateSearch() {
	s.search.Dispatch(LoadRecentBooks{})
}

// SettleSearch waits for debounced input to be dispatched and for the
// search screen to go idle.
func (s *Session) SettleSearch(ctx context.Context) error {
	if err := s.debouncer.Settle(ctx); err != nil {
		return err
	}
	return s.search.Settle(ctx)
}

// SearchIdle reports whether no input is waiting and the search screen is idle.
func (s *Session) SearchIdle() bool {
	return !s.debouncer.Pending() && s.search.Idle()
}

// Idle reports whether every screen in the session is idle.
func (s *Session) Idle() bool {
	if !s.SearchIdle() || !s.bookmarks.Idle() {
		return false
	}
	s.mu.Lock()
	detail := s.detail
	s.mu.Unlock()
	return detail == nil || detail.Idle()
}

// Settle waits until every screen in the session is idle.
func (s *Session) Settle(ctx context.Context) error {
	if err := s.SettleSearch(ctx); err != nil {
		return err
	}
	if err := s.bookmarks.Settle(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	detail := s.detail
	s.mu.Unlock()
	if detail != nil {
		return detail.Settle(ctx)
	}
	return nil
}

func (s *Session) Close() {
	s.debouncer.Stop()
	s.search.Close()
	s.bookmarks.Close()

	s.mu.Lock()
	detail := s.detail
	s.detail = nil
	s.mu.Unlock()
	if detail != nil {
		detail.Close()
	}
	logger.For(s.ctx).Debug("session closed")
}
