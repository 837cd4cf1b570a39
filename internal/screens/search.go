package screens

import (
	"context"
	"slices"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/logger"
	"github.com/mrlokans/bookshelf/internal/reactor"
	"github.com/mrlokans/bookshelf/internal/usecases"
)

// SearchAction is one of LoadRecentBooks, Search or LoadMore.
type SearchAction interface {
	searchAction()
}

type LoadRecentBooks struct{}

type Search struct {
	Query string
}

type LoadMore struct{}

func (LoadRecentBooks) searchAction() {}
func (Search) searchAction()          {}
func (LoadMore) searchAction()        {}

// SearchState is the search screen snapshot.
type SearchState struct {
	RecentBooks   []entities.Book
	SearchResults []entities.Book
	Page          int
	IsLoading     bool
	HasMore       bool
	CurrentQuery  string
	Err           error

	// token identifies the search request whose results may still land.
	token uint64
}

// NewSearchState returns the state of a freshly opened search screen.
func NewSearchState() SearchState {
	return SearchState{
		RecentBooks:   []entities.Book{},
		SearchResults: []entities.Book{},
		Page:          1,
		HasMore:       true,
	}
}

type searchMutationKind int

const (
	setRecentBooks searchMutationKind = iota
	setRecentBooksFailed
	resetSearch
	startSearch
	setSearchResults
	startLoadMore
	appendSearchResults
	setSearchFailed
)

type searchMutation struct {
	kind    searchMutationKind
	token   uint64
	query   string
	books   []entities.Book
	page    int
	hasMore bool
	err     error
}

type searchBehavior struct {
	search  usecases.BookSearcher
	recents usecases.RecentBooksFetcher
}

func (b searchBehavior) Mutate(state SearchState, action SearchAction) reactor.Plan[searchMutation] {
	switch a := action.(type) {
	case LoadRecentBooks:
		return reactor.Plan[searchMutation]{Effect: b.loadRecentBooks}

	case Search:
		token := state.token + 1
		if a.Query == "" {
			return reactor.Plan[searchMutation]{
				Mutations: []searchMutation{{kind: resetSearch, token: token}},
			}
		}
		query := a.Query
		return reactor.Plan[searchMutation]{
			Mutations: []searchMutation{{kind: startSearch, token: token, query: query}},
			Effect: func(ctx context.Context) []searchMutation {
				result, err := b.search.Execute(ctx, query, 1)
				if err != nil {
					logger.For(ctx).WithError(err).WithField("query", query).Warn("search failed")
					return []searchMutation{{kind: setSearchFailed, token: token, err: err}}
				}
				return []searchMutation{{
					kind:    setSearchResults,
					token:   token,
					books:   result.Books,
					page:    1,
					hasMore: !result.IsEnd,
				}}
			},
		}

	case LoadMore:
		if state.IsLoading || !state.HasMore || state.CurrentQuery == "" {
			return reactor.Plan[searchMutation]{}
		}
		token := state.token + 1
		query := state.CurrentQuery
		nextPage := state.Page + 1
		return reactor.Plan[searchMutation]{
			Mutations: []searchMutation{{kind: startLoadMore, token: token}},
			Effect: func(ctx context.Context) []searchMutation {
				result, err := b.search.Execute(ctx, query, nextPage)
				if err != nil {
					logger.For(ctx).WithError(err).WithField("page", nextPage).Warn("load more failed")
					return []searchMutation{{kind: setSearchFailed, token: token, err: err}}
				}
				return []searchMutation{{
					kind:    appendSearchResults,
					token:   token,
					books:   result.Books,
					page:    nextPage,
					hasMore: !result.IsEnd,
				}}
			},
		}
	}
	return reactor.Plan[searchMutation]{}
}

func (b searchBehavior) loadRecentBooks(ctx context.Context) []searchMutation {
	books, err := b.recents.Execute(ctx)
	if err != nil {
		logger.For(ctx).WithError(err).Warn("failed to load recent books")
		return []searchMutation{{kind: setRecentBooksFailed, err: err}}
	}
	return []searchMutation{{kind: setRecentBooks, books: books}}
}

// Accept drops results of any search that has since been superseded.
func (searchBehavior) Accept(state SearchState, m searchMutation) bool {
	switch m.kind {
	case resetSearch, startSearch, startLoadMore:
		return m.token > state.token
	case setSearchResults, appendSearchResults, setSearchFailed:
		return m.token == state.token
	}
	return true
}

func (searchBehavior) Reduce(state SearchState, m searchMutation) SearchState {
	switch m.kind {
	case setRecentBooks:
		state.RecentBooks = nonNil(m.books)
	case setRecentBooksFailed:
		state.Err = m.err
	case resetSearch:
		state.token = m.token
		state.SearchResults = []entities.Book{}
		state.Page = 1
		state.HasMore = true
		state.CurrentQuery = ""
		state.IsLoading = false
		state.Err = nil
	case startSearch:
		state.token = m.token
		state.IsLoading = true
		state.CurrentQuery = m.query
		state.Err = nil
	case setSearchResults:
		state.SearchResults = nonNil(m.books)
		state.Page = m.page
		state.HasMore = m.hasMore
		state.IsLoading = false
	case startLoadMore:
		state.token = m.token
		state.IsLoading = true
		state.Err = nil
	case appendSearchResults:
		state.SearchResults = append(slices.Clip(state.SearchResults), m.books...)
		state.Page = m.page
		state.HasMore = m.hasMore
		state.IsLoading = false
	case setSearchFailed:
		state.IsLoading = false
		state.Err = m.err
	}
	return state
}

// SearchReactor drives the search screen.
type SearchReactor struct {
	*reactor.Reactor[SearchAction, searchMutation, SearchState]
}

func NewSearchReactor(
	ctx context.Context,
	search usecases.BookSearcher,
	recents usecases.RecentBooksFetcher,
	pool *reactor.Pool,
) *SearchReactor {
	behavior := searchBehavior{search: search, recents: recents}
	return &SearchReactor{
		Reactor: reactor.New[SearchAction, searchMutation, SearchState](ctx, "search", behavior, NewSearchState(), pool),
	}
}

func nonNil(books []entities.Book) []entities.Book {
	if books == nil {
		return []entities.Book{}
	}
	return books
}
