package bookshop

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

// newReleasesResponse is the wire shape of the new releases endpoint.
type newReleasesResponse struct {
	Error string     `json:"error"`
	Books []BookBase `json:"books"`
}

// searchResponse is the wire shape of the search endpoint. The backend
// sends total and page as strings, they are parsed defensively.
type searchResponse struct {
	Error string     `json:"error"`
	Total string     `json:"total"`
	Page  string     `json:"page"`
	Books []BookBase `json:"books"`
}

// detailsResponse is the wire shape of the book details endpoint.
type detailsResponse struct {
	BookDetails
	Error string `json:"error"`
}

// GetNewReleases retrieves the list of newly released books.
func (c *BookshopClient) GetNewReleases(ctx context.Context) ([]BookBase, error) {
	var resp newReleasesResponse
	if err := c.doGet(ctx, "/new", &resp); err != nil {
		return nil, err
	}
	if err := ensureSuccess(resp.Error); err != nil {
		c.logger.Error("client: new releases call rejected", zap.String("code", resp.Error))
		return nil, err
	}
	return resp.Books, nil
}

// SearchBooks retrieves one page of books matching the query. A page
// below 1 falls back to the first one. Unparseable numeric fields in
// the response default to 0 results on page 1.
func (c *BookshopClient) SearchBooks(ctx context.Context, query string, page int) (SearchResult, error) {
	if page < 1 {
		page = 1
	}

	var resp searchResponse
	path := fmt.Sprintf("/search/%s/%d", url.PathEscape(query), page)
	if err := c.doGet(ctx, path, &resp); err != nil {
		return SearchResult{}, err
	}
	if err := ensureSuccess(resp.Error); err != nil {
		c.logger.Error("client: search call rejected", zap.String("query", query), zap.String("code", resp.Error))
		return SearchResult{}, err
	}

	total, err := strconv.Atoi(resp.Total)
	if err != nil {
		total = 0
	}
	currentPage, err := strconv.Atoi(resp.Page)
	if err != nil {
		currentPage = 1
	}

	return SearchResult{
		Items: resp.Books,
		Total: total,
		Page:  currentPage,
	}, nil
}

// GetBookDetails retrieves the full record of a single book. Concurrent
// calls for the same isbn13 share one in-flight request.
func (c *BookshopClient) GetBookDetails(ctx context.Context, isbn13 string) (BookDetails, error) {
	value, err, shared := c.group.Do(isbn13, func() (any, error) {
		var resp detailsResponse
		if errD := c.doGet(ctx, "/books/"+url.PathEscape(isbn13), &resp); errD != nil {
			return BookDetails{}, errD
		}
		if errD := ensureSuccess(resp.Error); errD != nil {
			c.logger.Error("client: details call rejected", zap.String("book.isbn13", isbn13), zap.String("code", resp.Error))
			return BookDetails{}, errD
		}
		return resp.BookDetails, nil
	})
	if err != nil {
		return BookDetails{}, err
	}
	if shared {
		c.logger.Debug("client: coalesced concurrent details fetch", zap.String("book.isbn13", isbn13))
	}
	return value.(BookDetails), nil
}
