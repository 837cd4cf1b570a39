// Package catalog talks to the remote book-search API.
package catalog

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/logger"
	"github.com/mrlokans/bookshelf/internal/metrics"
)

const (
	DefaultBaseURL = "https://dapi.kakao.com"
	searchPath     = "/v3/search/book"

	// PageSize is fixed; the reactors page by page number only.
	PageSize = 20
	// MaxPage is the highest page the API serves.
	MaxPage = 50

	sortAccuracy = "accuracy"
	targetTitle  = "title"

	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Searcher runs one paginated title search.
type Searcher interface {
	Search(ctx context.Context, query string, page int) (*entities.SearchResult, error)
}

// Options configures a KakaoClient. Zero values fall back to defaults.
type Options struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// KakaoClient searches the Kakao book catalog. One attempt per call, no retries.
type KakaoClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	sanitizer  *bluemonday.Policy
	now        func() time.Time
}

// NewKakaoClient creates a catalog client with rate limiting.
func NewKakaoClient(opts Options) *KakaoClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &KakaoClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    opts.APIKey,
		limiter:   rate.NewLimiter(limit, 1),
		sanitizer: bluemonday.StrictPolicy(),
		now:       time.Now,
	}
}

type searchResponse struct {
	Meta      searchMeta    `json:"meta"`
	Documents []documentDTO `json:"documents"`
}

type searchMeta struct {
	IsEnd         bool `json:"is_end"`
	PageableCount int  `json:"pageable_count"`
	TotalCount    int  `json:"total_count"`
}

type documentDTO struct {
	Title       string   `json:"title"`
	Contents    string   `json:"contents"`
	URL         string   `json:"url"`
	ISBN        string   `json:"isbn"`
	Datetime    string   `json:"datetime"`
	Authors     []string `json:"authors"`
	Publisher   string   `json:"publisher"`
	Translators []string `json:"translators"`
	Price       int      `json:"price"`
	SalePrice   int      `json:"sale_price"`
	Thumbnail   string   `json:"thumbnail"`
	Status      string   `json:"status"`
}

// Search fetches one page of title matches ordered by relevance.
func (c *KakaoClient) Search(ctx context.Context, query string, page int) (result *entities.SearchResult, err error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if page < 1 || page > MaxPage {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}

	start := time.Now()
	defer func() { metrics.ObserveCatalogRequest(start, err) }()
	defer logger.Track(ctx, fmt.Sprintf("catalog search %q page %d", query, page))()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %w", ErrFetchFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(query, page), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrFetchFailed, err)
	}
	req.Header.Set("Authorization", "KakaoAK "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrFetchFailed, err)
	}

	result = &entities.SearchResult{
		Books:         make([]entities.Book, 0, len(payload.Documents)),
		IsEnd:         payload.Meta.IsEnd,
		TotalCount:    payload.Meta.TotalCount,
		PageableCount: payload.Meta.PageableCount,
	}
	for i := range payload.Documents {
		result.Books = append(result.Books, c.toBook(&payload.Documents[i]))
	}

	logger.For(ctx).WithFields(logrus.Fields{
		"query":   query,
		"page":    page,
		"results": len(result.Books),
		"is_end":  result.IsEnd,
	}).Debug("catalog search finished")

	return result, nil
}

func (c *KakaoClient) searchURL(query string, page int) string {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("sort", sortAccuracy)
	params.Set("size", strconv.Itoa(PageSize))
	params.Set("target", targetTitle)
	return c.baseURL + searchPath + "?" + params.Encode()
}

// toBook maps a wire document to a Book. Bad fields fall back to safe values
// instead of failing the page.
func (c *KakaoClient) toBook(doc *documentDTO) entities.Book {
	book := entities.Book{
		Title:       doc.Title,
		Authors:     append([]string{}, doc.Authors...),
		Contents:    c.sanitize(doc.Contents),
		PublishedAt: parseDatetime(doc.Datetime, c.now),
		Publisher:   doc.Publisher,
		Price:       float64(doc.Price),
		Thumbnail:   normalizeThumbnail(doc.Thumbnail),
		Status:      doc.Status,
	}
	if doc.SalePrice > 0 {
		sale := float64(doc.SalePrice)
		book.SalePrice = &sale
	}
	return book
}

func (c *KakaoClient) sanitize(s string) string {
	return html.UnescapeString(c.sanitizer.Sanitize(s))
}

// parseDatetime accepts ISO-8601 timestamps (with or without fractional seconds)
// and plain dates. Anything else yields now().
func parseDatetime(s string, now func() time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return now()
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return now()
}

// normalizeThumbnail keeps only absolute http(s) URLs.
func normalizeThumbnail(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}
