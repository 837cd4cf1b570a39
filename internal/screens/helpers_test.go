package screens

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/reactor"
)

var errFetch = fmt.Errorf("%w: connection reset", catalog.ErrFetchFailed)

var errStore = errors.New("local store unavailable")

type searchCall struct {
	query string
	page  int
}

// stubSearch answers searches through fn and records every call.
type stubSearch struct {
	mu    sync.Mutex
	calls []searchCall
	fn    func(ctx context.Context, query string, page int) (*entities.SearchResult, error)
}

func (s *stubSearch) Execute(ctx context.Context, query string, page int) (*entities.SearchResult, error) {
	s.mu.Lock()
	s.calls = append(s.calls, searchCall{query: query, page: page})
	fn := s.fn
	s.mu.Unlock()
	return fn(ctx, query, page)
}

func (s *stubSearch) Calls() []searchCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]searchCall{}, s.calls...)
}

// pagedSearch returns perPage books named "<query> p<page>-<n>" and ends after lastPage.
func pagedSearch(perPage, lastPage int) *stubSearch {
	return &stubSearch{fn: func(ctx context.Context, query string, page int) (*entities.SearchResult, error) {
		books := make([]entities.Book, 0, perPage)
		for i := 1; i <= perPage; i++ {
			books = append(books, entities.Book{Title: fmt.Sprintf("%s p%d-%d", query, page, i)})
		}
		return &entities.SearchResult{Books: books, IsEnd: page >= lastPage}, nil
	}}
}

type stubRecents struct {
	books []entities.Book
	err   error
}

func (s stubRecents) Execute(ctx context.Context) ([]entities.Book, error) {
	return s.books, s.err
}

func newTestPool(t *testing.T) *reactor.Pool {
	pool := reactor.NewPool(4)
	t.Cleanup(pool.Close)
	return pool
}

func settleAll(t *testing.T, settlers ...interface{ Settle(context.Context) error }) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, s := range settlers {
		require.NoError(t, s.Settle(ctx))
	}
}

func titles(books []entities.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}
