// Package usecases holds one application operation per type. Each use case
// delegates to a repository and returns its errors unchanged. The screens
// depend on the single-method interfaces below rather than on repositories.
package usecases

import (
	"context"

	"github.com/mrlokans/bookshelf/internal/entities"
)

type BookSearcher interface {
	Execute(ctx context.Context, query string, page int) (*entities.SearchResult, error)
}

type RecentBooksFetcher interface {
	Execute(ctx context.Context) ([]entities.Book, error)
}

type RecentBookSaver interface {
	Execute(ctx context.Context, book entities.Book) error
}

type BookmarkAdder interface {
	Execute(ctx context.Context, book entities.Book) error
}

type BookmarkRemover interface {
	Execute(ctx context.Context, book entities.Book) error
}

type BookmarksFetcher interface {
	Execute(ctx context.Context) ([]entities.Book, error)
}

type BookmarksClearer interface {
	Execute(ctx context.Context) (int64, error)
}

type BookmarkChecker interface {
	Execute(ctx context.Context, book entities.Book) (bool, error)
}
