package repository

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/mrlokans/bookshelf/internal/entities"
)

//go:embed fixtures/books.yaml
var fixtureYAML []byte

type fixtureFile struct {
	Books []entities.Book `yaml:"books"`
}

var (
	fixtureOnce  sync.Once
	fixtureBooks []entities.Book
	fixtureErr   error
)

// FixtureBooks returns a copy of the embedded offline catalog.
func FixtureBooks() ([]entities.Book, error) {
	fixtureOnce.Do(func() {
		fixtureBooks, fixtureErr = parseFixture(fixtureYAML)
	})
	if fixtureErr != nil {
		return nil, fixtureErr
	}
	return cloneBooks(fixtureBooks), nil
}

func parseFixture(data []byte) ([]entities.Book, error) {
	var file fixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse fixture catalog: %w", err)
	}
	for i := range file.Books {
		if file.Books[i].Status == "" {
			file.Books[i].Status = entities.DefaultStatus
		}
		if file.Books[i].Authors == nil {
			file.Books[i].Authors = []string{}
		}
	}
	return file.Books, nil
}

// FixtureBookRepository answers every search with the whole offline catalog
// and IsEnd=false, whatever the query or page.
type FixtureBookRepository struct {
	books []entities.Book
}

func NewFixtureBookRepository() (*FixtureBookRepository, error) {
	books, err := FixtureBooks()
	if err != nil {
		return nil, err
	}
	return &FixtureBookRepository{books: books}, nil
}

func (r *FixtureBookRepository) SearchBooks(ctx context.Context, query string, page int) (*entities.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &entities.SearchResult{
		Books:      cloneBooks(r.books),
		IsEnd:      false,
		TotalCount: len(r.books),
	}, nil
}

func cloneBooks(books []entities.Book) []entities.Book {
	out := make([]entities.Book, len(books))
	for i, b := range books {
		b.Authors = append([]string{}, b.Authors...)
		if b.SalePrice != nil {
			v := *b.SalePrice
			b.SalePrice = &v
		}
		out[i] = b
	}
	return out
}
