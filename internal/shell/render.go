package shell

import (
	"fmt"
	"strings"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/screens"
)

const synopsisWidth = 120

func (s *Shell) renderSearch(state screens.SearchState) {
	if state.Err != nil {
		fmt.Fprintf(s.out, "search failed: %v\n", state.Err)
	}
	if state.CurrentQuery == "" {
		fmt.Fprintln(s.out, "No active search.")
		s.renderRecent(state)
		return
	}

	fmt.Fprintf(s.out, "Results for %q (page %d):\n", state.CurrentQuery, state.Page)
	s.renderList(state.SearchResults)
	s.shown = listingResults
	if state.HasMore {
		fmt.Fprintln(s.out, "Type 'more' for the next page.")
	}
}

func (s *Shell) renderRecent(state screens.SearchState) {
	fmt.Fprintln(s.out, "Recently viewed:")
	s.renderList(state.RecentBooks)
	s.shown = listingRecent
}

func (s *Shell) renderBookmarks(state screens.BookmarkListState) {
	if state.Err != nil {
		fmt.Fprintf(s.out, "bookmarks failed: %v\n", state.Err)
	}
	fmt.Fprintln(s.out, "Bookmarks:")
	s.renderList(state.Bookmarks)
	s.shown = listingBookmarks
}

func (s *Shell) renderDetail(state screens.DetailState) {
	book := state.Book
	mark := "[ ]"
	if state.IsBookmarked {
		mark = "[*]"
	}
	fmt.Fprintf(s.out, "%s %s\n", mark, book.Title)
	fmt.Fprintf(s.out, "    by %s, %s (%s)\n", authors(book), book.Publisher, book.PublishedAt.Format("2006-01-02"))
	fmt.Fprintf(s.out, "    %s  %s\n", priceLine(book), book.Status)
	if book.HasCover() {
		fmt.Fprintf(s.out, "    cover: %s\n", book.Thumbnail)
	}
	if book.Contents != "" {
		fmt.Fprintf(s.out, "    %s\n", truncate(book.Contents, synopsisWidth))
	}
	if state.Err != nil {
		fmt.Fprintf(s.out, "bookmark update failed: %v\n", state.Err)
	}
}

func (s *Shell) renderList(books []entities.Book) {
	if len(books) == 0 {
		fmt.Fprintln(s.out, "  (none)")
		return
	}
	for i, book := range books {
		fmt.Fprintf(s.out, "%3d. %s - %s  %s\n", i+1, book.Title, authors(book), priceLine(book))
	}
}

func authors(book entities.Book) string {
	if len(book.Authors) == 0 {
		return "unknown author"
	}
	return strings.Join(book.Authors, ", ")
}

func priceLine(book entities.Book) string {
	if book.SalePrice != nil && *book.SalePrice < book.Price {
		return fmt.Sprintf("%.0f원 (was %.0f원)", *book.SalePrice, book.Price)
	}
	return fmt.Sprintf("%.0f원", book.EffectivePrice())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
