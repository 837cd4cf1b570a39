package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/logger"
	"github.com/mrlokans/bookshelf/internal/screens"
)

// SessionsController exposes screen sessions over JSON. Every mutating call
// dispatches an action and answers with the screen snapshot; pass ?wait=true
// to receive the snapshot after the screen has settled.
type SessionsController struct {
	sessions *SessionRegistry
}

func NewSessionsController(sessions *SessionRegistry) *SessionsController {
	return &SessionsController{sessions: sessions}
}

// --- Request/Response Types ---

type searchRequest struct {
	Query    string `json:"query"`
	Debounce bool   `json:"debounce"`
}

// bookRequest names a book either by value or by its position in a list the
// screen is currently showing.
type bookRequest struct {
	Book   *entities.Book `json:"book"`
	Result *int           `json:"result"` // index into search results
	Recent *int           `json:"recent"` // index into recent books
	Index  *int           `json:"index"`  // index into bookmarks
}

type SessionResponse struct {
	ID     string              `json:"id"`
	Search SearchStateResponse `json:"search"`
}

type SearchStateResponse struct {
	RecentBooks   []entities.Book `json:"recent_books"`
	SearchResults []entities.Book `json:"search_results"`
	Page          int             `json:"page"`
	IsLoading     bool            `json:"is_loading"`
	HasMore       bool            `json:"has_more"`
	CurrentQuery  string          `json:"current_query"`
	Error         string          `json:"error,omitempty"`
}

type DetailStateResponse struct {
	Book         entities.Book `json:"book"`
	IsBookmarked bool          `json:"is_bookmarked"`
	IsLoading    bool          `json:"is_loading"`
	Error        string        `json:"error,omitempty"`
}

type BookmarkListStateResponse struct {
	Bookmarks    []entities.Book `json:"bookmarks"`
	IsLoading    bool            `json:"is_loading"`
	SelectedBook *entities.Book  `json:"selected_book,omitempty"`
	Error        string          `json:"error,omitempty"`
}

func newSearchStateResponse(s screens.SearchState) SearchStateResponse {
	return SearchStateResponse{
		RecentBooks:   s.RecentBooks,
		SearchResults: s.SearchResults,
		Page:          s.Page,
		IsLoading:     s.IsLoading,
		HasMore:       s.HasMore,
		CurrentQuery:  s.CurrentQuery,
		Error:         errorString(s.Err),
	}
}

func newDetailStateResponse(s screens.DetailState) DetailStateResponse {
	return DetailStateResponse{
		Book:         s.Book,
		IsBookmarked: s.IsBookmarked,
		IsLoading:    s.IsLoading,
		Error:        errorString(s.Err),
	}
}

func newBookmarkListStateResponse(s screens.BookmarkListState) BookmarkListStateResponse {
	return BookmarkListStateResponse{
		Bookmarks:    s.Bookmarks,
		IsLoading:    s.IsLoading,
		SelectedBook: s.SelectedBook,
		Error:        errorString(s.Err),
	}
}

// --- Sessions ---

// Create handles POST /api/sessions.
func (sc *SessionsController) Create(c *gin.Context) {
	session, err := sc.sessions.Open()
	if err != nil {
		if errors.Is(err, ErrTooManySessions) {
			respondError(c, http.StatusServiceUnavailable, err.Error())
			return
		}
		respondInternalError(c, err, "open session")
		return
	}
	logger.For(c.Request.Context()).WithField("session_id", session.ID()).Info("Session opened")

	if _, ok := settle(c, session); !ok {
		return
	}
	respondCreated(c, SessionResponse{
		ID:     session.ID(),
		Search: newSearchStateResponse(session.Search().State()),
	})
}

// Close handles DELETE /api/sessions/:id.
func (sc *SessionsController) Close(c *gin.Context) {
	if !sc.sessions.Close(c.Param("id")) {
		respondNotFound(c, "session")
		return
	}
	c.Status(http.StatusNoContent)
}

func (sc *SessionsController) session(c *gin.Context) (*screens.Session, bool) {
	session, ok := sc.sessions.Get(c.Param("id"))
	if !ok {
		respondNotFound(c, "session")
		return nil, false
	}
	return session, true
}

// --- Search screen ---

// Search handles POST /api/sessions/:id/search.
func (sc *SessionsController) Search(c *gin.Context) {
	session, ok := sc.session(c)
	if !ok {
		return
	}
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.Debounce {
		session.Type(req.Query)
	} else {
		session.SubmitSearch(req.Query)
	}
	sc.respondSearch(c, session)
}

// LoadMore handles POST /api/sessions/:id/search/more.
func (sc *SessionsController) LoadMore(c *gin.Context) {
	session, ok := sc.session(c)
	if !ok {
		return
	}
	session.Search().Dispatch(screens.LoadMore{})
	sc.respondSearch(c, session)
}

// GetSearch handles GET /api/sessions/:id/search.
func (sc *SessionsController) GetSearch(c *gin.Context) {
	session, ok := sc.session(c)
	if !ok {
		return
	}
	sc.respondSearch(c, session)
}

// ActivateSearch handles POST /api/sessions/:id/search/activate.
func (sc *SessionsController) ActivateSearch(c *gin.Context) {
	session, ok := sc.session(c)
	if !ok {
		return
	}
	session.ActivateSearch()
	sc.respondSearch(c, session)
}

// searchScreen settles the search screen together with debounced input.
type searchScreen struct {
	session *screens.Session
}

func (s searchScreen) Idle() bool                       { return s.session.SearchIdle() }
func (s searchScreen) Settle(ctx context.Context) error { return s.session.SettleSearch(ctx) }

func (sc *SessionsController) respondSearch(c *gin.Context, session *screens.Session) {
	settled, ok := settle(c, searchScreen{session: session})
	if !ok {
		return
	}
	respondState(c, settled, newSearchStateResponse(session.Search().State()))
}

// --- Detail screen ---

// OpenDetail handles POST /api/sessions/:id/detail.
func (sc *SessionsController) OpenDetail(c *gin.Context) {
	session, ok := sc.session(c)
	if !ok {
		return
	}
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	search := session.Search().State()
	var book entities.Book
	switch {
	case req.Book != nil:
		book = *req.Book
	case req.Result != nil:
		book, ok = pick(c, search.SearchResults, *req.Result, "result")
	case req.Recent != nil:
		book, ok = pick(c, search.RecentBooks, *req.Recent, "recent")
	default:
		respondBadRequest(c, "one of book, result or recent is required")
		return
	}
	if !ok {
		return
	}
	if strings.TrimSpace(book.Title) == "" {
		respondBadRequest(c, "book title is required")
		return
	}
	if book.Authors == nil {
		book.Authors = []string{}
	}

	detail := session.OpenDetail(book)
	settled, ok := settle(c, detail)
	if !ok {
		return
	}
	respondState(c, settled, newDetailStateResponse(detail.State()))
}

// ToggleBookmark handles POST /api/sessions/:id/detail/toggle.
func (sc *SessionsController) ToggleBookmark(c *gin.Context) {
	detail, ok := sc.detail(c)
	if !ok {
		return
	}
	if detail.State().IsLoading {
		respondConflict(c, "toggle_in_progress", "a bookmark toggle is already in progress")
		return
	}
	detail.Dispatch(screens.ToggleBookmark{})
	sc.respondDetail(c, detail)
}

// GetDetail handles GET /api/sessions/:id/detail.
func (sc *SessionsController) GetDetail(c *gin.Context) {
	detail, ok := sc.detail(c)
	if !ok {
		return
	}
	sc.respondDetail(c, detail)
}

func (sc *SessionsController) detail(c *gin.Context) (*screens.DetailReactor, bool) {
	session, ok := sc.session(c)
	if !ok {
		return nil, false
	}
	detail, err := session.Detail()
	if err != nil {
		respondNotFound(c, "open book")
		return nil, false
	}
	return detail, true
}

func (sc *SessionsController) respondDetail(c *gin.Context, detail *screens.DetailReactor) {
	settled, ok := settle(c, detail)
	if !ok {
		return
	}
	respondState(c, settled, newDetailStateResponse(detail.State()))
}

// --- Bookmark list screen ---

// GetBookmarks handles GET /api/sessions/:id/bookmarks. Showing the list
// reloads it, so it reflects toggles made on detail screens.
func (sc *SessionsController) GetBookmarks(c *gin.Context) {
	session, ok := sc.session(c)
	if !ok {
		return
	}
	session.ActivateBookmarks()
	sc.respondBookmarks(c, session)
}

// DeleteBookmark handles DELETE /api/sessions/:id/bookmarks.
func (sc *SessionsController) DeleteBookmark(c *gin.Context) {
	session, ok := sc.session(c)
	if !ok {
		return
	}
	book, ok := sc.bookmarkFromBody(c, session)
	if !ok {
		return
	}
	session.Bookmarks().Dispatch(screens.DeleteBookmark{Book: book})
	sc.respondBookmarks(c, session)
}

// SelectBookmark handles POST /api/sessions/:id/bookmarks/selection.
func (sc *SessionsController) SelectBookmark(c *gin.Context) {
	session, ok := sc.session(c)
	if !ok {
		return
	}
	book, ok := sc.bookmarkFromBody(c, session)
	if !ok {
		return
	}
	session.Bookmarks().Dispatch(screens.SelectBook{Book: book})
	sc.respondBookmarks(c, session)
}

// ClearSelection handles DELETE /api/sessions/:id/bookmarks/selection.
func (sc *SessionsController) ClearSelection(c *gin.Context) {
	session, ok := sc.session(c)
	if !ok {
		return
	}
	session.Bookmarks().Dispatch(screens.ClearSelection{})
	sc.respondBookmarks(c, session)
}

// ClearBookmarks handles DELETE /api/sessions/:id/bookmarks/all.
func (sc *SessionsController) ClearBookmarks(c *gin.Context) {
	session, ok := sc.session(c)
	if !ok {
		return
	}
	session.Bookmarks().Dispatch(screens.ClearBookmarks{})
	sc.respondBookmarks(c, session)
}

func (sc *SessionsController) bookmarkFromBody(c *gin.Context, session *screens.Session) (entities.Book, bool) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return entities.Book{}, false
	}
	switch {
	case req.Book != nil:
		return *req.Book, true
	case req.Index != nil:
		return pick(c, session.Bookmarks().State().Bookmarks, *req.Index, "index")
	}
	respondBadRequest(c, "one of book or index is required")
	return entities.Book{}, false
}

func (sc *SessionsController) respondBookmarks(c *gin.Context, session *screens.Session) {
	settled, ok := settle(c, session.Bookmarks())
	if !ok {
		return
	}
	respondState(c, settled, newBookmarkListStateResponse(session.Bookmarks().State()))
}

// pick returns books[i] or responds 400 when i is out of range.
func pick(c *gin.Context, books []entities.Book, i int, field string) (entities.Book, bool) {
	if i < 0 || i >= len(books) {
		respondBadRequest(c, "invalid "+field)
		return entities.Book{}, false
	}
	return books[i], true
}
