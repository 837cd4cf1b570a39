package entities

import "time"

// StoredBook holds the flattened Book columns shared by bookmarks and recent views.
// Authors are kept in a JSON column so names containing commas survive a round trip.
type StoredBook struct {
	Title        string    `gorm:"size:512" json:"title"`
	Authors      []string  `gorm:"serializer:json;type:text" json:"authors"`
	Contents     string    `gorm:"type:text" json:"contents"`
	PublishedAt  time.Time `json:"published_at"`
	Publisher    string    `gorm:"size:256" json:"publisher"`
	Price        float64   `json:"price"`
	SalePrice    *float64  `json:"sale_price,omitempty"`
	ThumbnailURL string    `gorm:"size:2048" json:"thumbnail_url,omitempty"`
	Status       string    `gorm:"size:64" json:"status"`
}

// NewStoredBook flattens a Book into its stored columns.
func NewStoredBook(b Book) StoredBook {
	var sale *float64
	if b.SalePrice != nil {
		v := *b.SalePrice
		sale = &v
	}
	return StoredBook{
		Title:        b.Title,
		Authors:      append([]string(nil), b.Authors...),
		Contents:     b.Contents,
		PublishedAt:  b.PublishedAt,
		Publisher:    b.Publisher,
		Price:        b.Price,
		SalePrice:    sale,
		ThumbnailURL: b.Thumbnail,
		Status:       b.Status,
	}
}

// ToBook rebuilds the domain value from stored columns.
func (s StoredBook) ToBook() Book {
	authors := s.Authors
	if authors == nil {
		authors = []string{}
	}
	return Book{
		Title:       s.Title,
		Authors:     append([]string{}, authors...),
		Contents:    s.Contents,
		PublishedAt: s.PublishedAt,
		Publisher:   s.Publisher,
		Price:       s.Price,
		SalePrice:   s.SalePrice,
		Thumbnail:   s.ThumbnailURL,
		Status:      s.Status,
	}
}

// BookmarkRecord is a bookmarked book. One row per BookKey.
type BookmarkRecord struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	BookKey    string     `gorm:"index;size:64" json:"book_key"`
	StoredBook StoredBook `gorm:"embedded" json:"book"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

func (BookmarkRecord) TableName() string {
	return "bookmarks"
}

// RecentViewRecord is a recently viewed book. One row per BookKey, capped in count.
type RecentViewRecord struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	BookKey    string     `gorm:"index;size:64" json:"book_key"`
	StoredBook StoredBook `gorm:"embedded" json:"book"`
	ViewedAt   time.Time  `gorm:"index" json:"viewed_at"`
}

func (RecentViewRecord) TableName() string {
	return "recent_views"
}
