// Package contacts is an HTTP client for a remote contact directory service.
package contacts

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/feral-file/ff-smartdial/internal/adapter"
	"github.com/feral-file/ff-smartdial/internal/directory"
	"github.com/feral-file/ff-smartdial/internal/domain"
)

const (
	// DEFAULT_PAGE_SIZE is the page size requested when none is configured
	DEFAULT_PAGE_SIZE = 200
	// MAX_PAGE_SIZE is the largest page size the directory service accepts
	MAX_PAGE_SIZE = 1000
)

// TimeResponse is the response of GET /v1/time
type TimeResponse struct {
	Now int64 `json:"now"`
}

// PageResponse is a page of a paginated listing
type PageResponse[T any] struct {
	Items         []T    `json:"items"`
	NextPageToken string `json:"next_page_token"`
}

var _ directory.Directory = (*Client)(nil)

// Client implements directory.Directory over the directory service REST API
type Client struct {
	httpClient adapter.HTTPClient
	baseURL    string
	apiKey     string
	pageSize   int
}

// NewClient creates a new contact directory client
func NewClient(httpClient adapter.HTTPClient, baseURL, apiKey string, pageSize int) *Client {
	if pageSize <= 0 {
		pageSize = DEFAULT_PAGE_SIZE
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		pageSize:   min(pageSize, MAX_PAGE_SIZE),
	}
}

func (c *Client) headers() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	return map[string]string{"Authorization": "ApiKey " + c.apiKey}
}

// Now returns the directory clock
func (c *Client) Now(ctx context.Context) (int64, error) {
	var resp TimeResponse
	if err := c.httpClient.Get(ctx, c.baseURL+"/v1/time", c.headers(), &resp); err != nil {
		return 0, fmt.Errorf("failed to call directory time API: %w", err)
	}
	return resp.Now, nil
}

// DeletedContacts lists the contacts deleted after since
func (c *Client) DeletedContacts(ctx context.Context, since int64) (directory.ResultSet[domain.DeletedContact], error) {
	return openPaged[domain.DeletedContact](ctx, c, "/v1/contacts/deleted", since)
}

// UpdatedContactIDs lists the ids of the contacts modified after since
func (c *Client) UpdatedContactIDs(ctx context.Context, since int64) (directory.ResultSet[int64], error) {
	return openPaged[int64](ctx, c, "/v1/contacts/updated", since)
}

// UpdatedPhoneRows lists the phone rows of the contacts modified after since
func (c *Client) UpdatedPhoneRows(ctx context.Context, since int64) (directory.ResultSet[domain.PhoneRow], error) {
	return openPaged[domain.PhoneRow](ctx, c, "/v1/phones/updated", since)
}

// pageURL builds the URL of one page of a listing
func (c *Client) pageURL(path string, since int64, pageToken string) string {
	params := url.Values{}
	params.Set("since", strconv.FormatInt(since, 10))
	params.Set("page_size", strconv.Itoa(c.pageSize))
	if pageToken != "" {
		params.Set("page_token", pageToken)
	}
	return fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
}

// openPaged fetches the first page eagerly so that an unreachable directory
// fails when the result set is opened rather than mid-iteration
func openPaged[T any](ctx context.Context, c *Client, path string, since int64) (directory.ResultSet[T], error) {
	fetch := func(ctx context.Context, pageToken string) (*PageResponse[T], error) {
		var resp PageResponse[T]
		if err := c.httpClient.Get(ctx, c.pageURL(path, since, pageToken), c.headers(), &resp); err != nil {
			return nil, fmt.Errorf("failed to call directory API %s: %w", path, err)
		}
		return &resp, nil
	}

	first, err := fetch(ctx, "")
	if err != nil {
		return nil, err
	}

	return &pagedResultSet[T]{fetch: fetch, first: first}, nil
}

// pagedResultSet follows next_page_token links until the listing is exhausted
type pagedResultSet[T any] struct {
	fetch  func(ctx context.Context, pageToken string) (*PageResponse[T], error)
	first  *PageResponse[T]
	next   string
	page   []T
	err    error
	closed bool
}

func (r *pagedResultSet[T]) Next(ctx context.Context) bool {
	for {
		if r.closed || r.err != nil {
			return false
		}

		var resp *PageResponse[T]
		if r.first != nil {
			resp, r.first = r.first, nil
		} else {
			if r.next == "" {
				r.page = nil
				return false
			}
			requested := r.next
			var err error
			resp, err = r.fetch(ctx, requested)
			if err != nil {
				r.err = err
				return false
			}
			// a token pointing at itself would loop forever
			if resp.NextPageToken == requested {
				resp.NextPageToken = ""
			}
		}

		r.next = resp.NextPageToken
		if len(resp.Items) == 0 {
			continue
		}
		r.page = resp.Items
		return true
	}
}

func (r *pagedResultSet[T]) Page() []T {
	return r.page
}

func (r *pagedResultSet[T]) Err() error {
	return r.err
}

func (r *pagedResultSet[T]) Close() error {
	r.closed = true
	r.page = nil
	return nil
}
