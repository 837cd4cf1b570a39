package usecases

import (
	"context"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/repository"
)

type FetchRecentBooks struct {
	repo repository.RecentBookRepository
}

func NewFetchRecentBooks(repo repository.RecentBookRepository) *FetchRecentBooks {
	return &FetchRecentBooks{repo: repo}
}

func (uc *FetchRecentBooks) Execute(ctx context.Context) ([]entities.Book, error) {
	return uc.repo.List(ctx)
}

// RecentBookWriter is anything that can record a view. The recent book
// repository satisfies it directly; the task queue recorder defers the write.
type RecentBookWriter interface {
	Save(ctx context.Context, book entities.Book) error
}

type SaveRecentBook struct {
	writer RecentBookWriter
}

func NewSaveRecentBook(writer RecentBookWriter) *SaveRecentBook {
	return &SaveRecentBook{writer: writer}
}

func (uc *SaveRecentBook) Execute(ctx context.Context, book entities.Book) error {
	return uc.writer.Save(ctx, book)
}
