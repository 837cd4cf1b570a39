package usecases

import (
	"context"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/repository"
)

type SearchBook struct {
	repo repository.BookRepository
}

func NewSearchBook(repo repository.BookRepository) *SearchBook {
	return &SearchBook{repo: repo}
}

func (uc *SearchBook) Execute(ctx context.Context, query string, page int) (*entities.SearchResult, error) {
	return uc.repo.SearchBooks(ctx, query, page)
}
