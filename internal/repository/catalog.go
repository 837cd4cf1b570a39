package repository

import (
	"context"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// CatalogBookRepository serves searches from the remote catalog.
type CatalogBookRepository struct {
	searcher catalog.Searcher
}

func NewCatalogBookRepository(searcher catalog.Searcher) *CatalogBookRepository {
	return &CatalogBookRepository{searcher: searcher}
}

func (r *CatalogBookRepository) SearchBooks(ctx context.Context, query string, page int) (*entities.SearchResult, error) {
	return r.searcher.Search(ctx, query, page)
}
