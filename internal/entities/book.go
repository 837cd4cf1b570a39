package entities

import (
	"encoding/hex"
	"slices"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/unicode/norm"
)

// DefaultStatus is the sale status used when a source does not provide one.
const DefaultStatus = "정상판매"

// Book is an immutable catalog entry. Two books are the same book when every
// field matches; there is no surrogate ID.
type Book struct {
	Title       string    `json:"title" yaml:"title"`
	Authors     []string  `json:"authors" yaml:"authors"`
	Contents    string    `json:"contents" yaml:"contents"`
	PublishedAt time.Time `json:"published_at" yaml:"published_at"`
	Publisher   string    `json:"publisher" yaml:"publisher"`
	Price       float64   `json:"price" yaml:"price"`
	SalePrice   *float64  `json:"sale_price,omitempty" yaml:"sale_price,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"` // empty when the book has no cover
	Status      string    `json:"status" yaml:"status"`
}

// Key returns the deduplication key used by bookmarks and recent views.
// It is derived from the normalized title only, so books sharing a title
// collapse into one stored row.
func (b Book) Key() string {
	return TitleKey(b.Title)
}

// TitleKey hashes an NFC-normalized, trimmed title into a fixed-width hex key.
func TitleKey(title string) string {
	sum := blake2b.Sum256([]byte(norm.NFC.String(strings.TrimSpace(title))))
	return hex.EncodeToString(sum[:])
}

// HasCover reports whether the book carries a cover image reference.
func (b Book) HasCover() bool {
	return b.Thumbnail != ""
}

// EffectivePrice returns the sale price when present, otherwise the list price.
func (b Book) EffectivePrice() float64 {
	if b.SalePrice != nil {
		return *b.SalePrice
	}
	return b.Price
}

// Equal compares two books by full value.
func (b Book) Equal(other Book) bool {
	if b.Title != other.Title ||
		b.Contents != other.Contents ||
		b.Publisher != other.Publisher ||
		b.Price != other.Price ||
		b.Thumbnail != other.Thumbnail ||
		b.Status != other.Status {
		return false
	}
	if !b.PublishedAt.Equal(other.PublishedAt) {
		return false
	}
	if !slices.Equal(b.Authors, other.Authors) {
		return false
	}
	switch {
	case b.SalePrice == nil && other.SalePrice == nil:
		return true
	case b.SalePrice == nil || other.SalePrice == nil:
		return false
	default:
		return *b.SalePrice == *other.SalePrice
	}
}

// SearchResult is one page of catalog results. It is never persisted.
type SearchResult struct {
	Books         []Book `json:"books"`
	IsEnd         bool   `json:"is_end"`
	TotalCount    int    `json:"total_count,omitempty"`
	PageableCount int    `json:"pageable_count,omitempty"`
}
