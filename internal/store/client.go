package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound reports that the addressed record does not exist in the remote
// collection. Callers distinguish it with errors.Is to drive the
// update-fallback and idempotent-delete rules.
var ErrNotFound = errors.New("record not found")

// Recorder is the subset of the client the catalog controller needs.
// Implemented by *Client and by test fakes.
type Recorder interface {
	ListPublicVoyages(ctx context.Context) ([]Voyage, error)
	CreateVoyage(ctx context.Context, v Voyage) (Voyage, error)
	UpdateVoyage(ctx context.Context, v Voyage) (Voyage, error)
	DeleteVoyage(ctx context.Context, id int64) error
}

var _ Recorder = (*Client)(nil)

// Client talks to the remote record store's HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultStoreURL  = "http://localhost:3000"
	defaultUserAgent = "nomadex/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client for the given base URL, host:port accepted.
func NewClient(rawURL string) (*Client, error) {
	base, err := parseBaseURL(rawURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// ListVoyages retrieves every voyage record.
func (c *Client) ListVoyages(ctx context.Context) ([]Voyage, error) {
	var payload []Voyage
	if err := c.do(ctx, http.MethodGet, &url.URL{Path: "/voyages"}, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// ListPublicVoyages retrieves voyages flagged public.
func (c *Client) ListPublicVoyages(ctx context.Context) ([]Voyage, error) {
	values := url.Values{}
	values.Set("isPublic", "true")
	rel := &url.URL{Path: "/voyages", RawQuery: values.Encode()}
	var payload []Voyage
	if err := c.do(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// ListVoyagesByUser retrieves voyages owned by the given user.
func (c *Client) ListVoyagesByUser(ctx context.Context, userID int64) ([]Voyage, error) {
	values := url.Values{}
	values.Set("userId", strconv.FormatInt(userID, 10))
	rel := &url.URL{Path: "/voyages", RawQuery: values.Encode()}
	var payload []Voyage
	if err := c.do(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GetVoyage retrieves a single voyage by id.
func (c *Client) GetVoyage(ctx context.Context, id int64) (Voyage, error) {
	var payload Voyage
	if err := c.do(ctx, http.MethodGet, voyagePath(id), nil, &payload); err != nil {
		return Voyage{}, err
	}
	return payload, nil
}

// CreateVoyage stores a new voyage and returns it with the assigned id.
func (c *Client) CreateVoyage(ctx context.Context, v Voyage) (Voyage, error) {
	var payload Voyage
	if err := c.do(ctx, http.MethodPost, &url.URL{Path: "/voyages"}, v, &payload); err != nil {
		return Voyage{}, err
	}
	return payload, nil
}

// UpdateVoyage replaces the record with the payload's id. Returns ErrNotFound
// when the target has vanished.
func (c *Client) UpdateVoyage(ctx context.Context, v Voyage) (Voyage, error) {
	if v.ID == 0 {
		return Voyage{}, fmt.Errorf("update requires an id")
	}
	var payload Voyage
	if err := c.do(ctx, http.MethodPut, voyagePath(v.ID), v, &payload); err != nil {
		return Voyage{}, err
	}
	return payload, nil
}

// DeleteVoyage removes the record by id. Returns ErrNotFound when the target
// is already gone.
func (c *Client) DeleteVoyage(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, voyagePath(id), nil, nil)
}

// ListJournalsByVoyage retrieves journal entries attached to a voyage.
func (c *Client) ListJournalsByVoyage(ctx context.Context, voyageID int64) ([]Journal, error) {
	values := url.Values{}
	values.Set("voyageId", strconv.FormatInt(voyageID, 10))
	rel := &url.URL{Path: "/journals", RawQuery: values.Encode()}
	var payload []Journal
	if err := c.do(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func voyagePath(id int64) *url.URL {
	return &url.URL{Path: "/voyages/" + strconv.FormatInt(id, 10)}
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("api %s: %w", rel.Path, ErrNotFound)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", rel.String(), resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(rawURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		trimmed = defaultStoreURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse store url %q: %w", rawURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
