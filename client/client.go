// Package client is a Go client for the discography API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/totegamma/discography"
)

const (
	defaultTimeout = 3 * time.Second
	userAgent      = "discography-client/1.0"
)

// APIError is a non 2xx answer. Problem is set when the server sent one.
type APIError struct {
	Status  int
	Problem discography.ProblemDetails
}

func (e *APIError) Error() string {
	if e.Problem.Detail != "" {
		return fmt.Sprintf("unexpected status code %d: %s", e.Status, e.Problem.Detail)
	}
	return fmt.Sprintf("unexpected status code: %d", e.Status)
}

type Client struct {
	client  *http.Client
	cache   *cache.Cache
	baseURL string
}

// New returns a client for the API served at baseURL, e.g.
// "http://localhost:8000". Item reads are cached for ten minutes.
func New(baseURL string) *Client {
	httpClient := http.Client{
		Timeout: defaultTimeout,
	}

	c := &Client{
		client:  &httpClient,
		cache:   cache.New(10*time.Minute, 15*time.Minute),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
	httpClient.Transport = c
	return c
}

func (c *Client) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", userAgent)
	return http.DefaultTransport.RoundTrip(req)
}

// Page is one page of a list response.
type Page struct {
	Metadata discography.PaginationMetadata
	Links    []discography.Link
}

// HttpRequest performs a request against href, which is either absolute or
// a path below the base URL, and decodes a JSON answer into response.
func (c *Client) HttpRequest(ctx context.Context, method, href, accept string, body any, response any) (http.Header, error) {
	if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
		href = c.baseURL + href
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode request")
		}
		reader = strings.NewReader(string(b))
	}

	req, err := http.NewRequestWithContext(ctx, method, href, reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if body != nil {
		req.Header.Set("Content-Type", discography.MediaTypeJSON)
	}

	slog.DebugContext(
		ctx, "api request",
		slog.String("method", method),
		slog.String("href", href),
		slog.String("module", "client"),
	)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to perform request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr.Problem)
		return resp.Header, apiErr
	}

	if response != nil && resp.StatusCode != http.StatusNoContent {
		err = json.NewDecoder(resp.Body).Decode(response)
		if err != nil {
			return resp.Header, errors.Wrap(err, "failed to decode response")
		}
	}
	return resp.Header, nil
}

// Root fetches the entry document. It is cached like any other item.
func (c *Client) Root(ctx context.Context) (discography.Root, error) {
	var root discography.Root
	err := c.Get(ctx, "/api", &root)
	return root, err
}

// Get reads a single document, serving repeated reads of the same href
// from the cache. result must be a pointer.
func (c *Client) Get(ctx context.Context, href string, result any) error {
	cacheKey := "get:" + href
	if x, found := c.cache.Get(cacheKey); found {
		return json.Unmarshal(x.([]byte), result)
	}

	var raw json.RawMessage
	_, err := c.HttpRequest(ctx, http.MethodGet, href, discography.MediaTypeHateoas, nil, &raw)
	if err != nil {
		return err
	}
	c.cache.Set(cacheKey, []byte(raw), cache.DefaultExpiration)
	return json.Unmarshal(raw, result)
}

// List reads a collection page. items receives the value array.
func (c *Client) List(ctx context.Context, path string, params url.Values, items any) (Page, error) {
	href := path
	if len(params) > 0 {
		href += "?" + params.Encode()
	}

	var body struct {
		Value json.RawMessage    `json:"value"`
		Links []discography.Link `json:"links"`
	}
	header, err := c.HttpRequest(ctx, http.MethodGet, href, discography.MediaTypeJSON, nil, &body)
	if err != nil {
		return Page{}, err
	}

	page := Page{Links: body.Links}
	if raw := header.Get("X-Pagination"); raw != "" {
		err = json.Unmarshal([]byte(raw), &page.Metadata)
		if err != nil {
			return Page{}, errors.Wrap(err, "failed to decode pagination header")
		}
	}
	if items != nil {
		err = json.Unmarshal(body.Value, items)
		if err != nil {
			return Page{}, errors.Wrap(err, "failed to decode items")
		}
	}
	return page, nil
}

// Follow fetches the collection page behind the link named rel.
// ok is false when links has no such relation, e.g. on the last page.
func (c *Client) Follow(ctx context.Context, links []discography.Link, rel string, items any) (page Page, ok bool, err error) {
	for _, l := range links {
		if l.Rel != rel {
			continue
		}
		page, err = c.List(ctx, l.Href, nil, items)
		return page, true, err
	}
	return Page{}, false, nil
}

// Create posts payload to a collection and decodes the created document.
// It returns the Location of the new resource.
func (c *Client) Create(ctx context.Context, path string, payload any, result any) (string, error) {
	header, err := c.HttpRequest(ctx, http.MethodPost, path, discography.MediaTypeJSON, payload, result)
	if err != nil {
		return "", err
	}
	return header.Get("Location"), nil
}

// Delete removes the resource at href and drops it from the cache.
func (c *Client) Delete(ctx context.Context, href string) error {
	_, err := c.HttpRequest(ctx, http.MethodDelete, href, "", nil, nil)
	if err != nil {
		return err
	}
	c.cache.Delete("get:" + href)
	c.cache.Delete("get:" + c.baseURL + href)
	return nil
}

// BandCollection reads several bands in one request, in the order of ids.
func (c *Client) BandCollection(ctx context.Context, ids []uuid.UUID, result any) error {
	_, err := c.HttpRequest(ctx, http.MethodGet, "/api/bandcollections/"+discography.ComposeIDList(ids), discography.MediaTypeJSON, nil, result)
	return err
}
