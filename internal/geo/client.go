// Package geo resolves free text to coordinates and back through a
// Nominatim-style geocoding endpoint, with a session-scoped memoization
// layer for forward lookups.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Candidate is a resolved location option. Immutable value type; candidates
// with an unresolvable city or country are never produced.
type Candidate struct {
	City        string
	Country     string
	Latitude    float64
	Longitude   float64
	DisplayName string
}

// Label returns the human-facing "city, country" form used by the form's
// search field.
func (c Candidate) Label() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.City + ", " + c.Country
}

// Geocoder is the external geocoding collaborator.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]Candidate, error)
	Reverse(ctx context.Context, lat, lon float64) (*Candidate, error)
}

var _ Geocoder = (*Client)(nil)

// Client performs forward and reverse lookups against a Nominatim endpoint.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	locale  string
	email   string
}

const (
	defaultGeocodeURL = "https://nominatim.openstreetmap.org"
	defaultLocale     = "fr"
	defaultEmail      = "contact@nomadex.app"
	searchLimit       = 8
	lookupTimeout     = 5 * time.Second
)

// nominatimResult mirrors the upstream payload for both lookup directions.
type nominatimResult struct {
	Lat         string           `json:"lat"`
	Lon         string           `json:"lon"`
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
}

type nominatimAddress struct {
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Municipality string `json:"municipality"`
	County       string `json:"county"`
	Country      string `json:"country"`
}

// NewClient builds a geocoding client. Empty arguments fall back to the
// public Nominatim instance and the default locale.
func NewClient(rawURL, locale, email string) (*Client, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		trimmed = defaultGeocodeURL
	}
	base, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse geocode url %q: %w", rawURL, err)
	}
	if strings.TrimSpace(locale) == "" {
		locale = defaultLocale
	}
	if strings.TrimSpace(email) == "" {
		email = defaultEmail
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: lookupTimeout},
		locale:  locale,
		email:   email,
	}, nil
}

// Search resolves free text to location candidates. Results missing a city
// or country are filtered out.
func (c *Client) Search(ctx context.Context, query string) ([]Candidate, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("format", "json")
	values.Set("addressdetails", "1")
	values.Set("limit", strconv.Itoa(searchLimit))
	values.Set("email", c.email)

	var results []nominatimResult
	if err := c.do(ctx, "/search", values, &results); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(results))
	for _, r := range results {
		if cand, ok := toCandidate(r); ok {
			candidates = append(candidates, cand)
		}
	}
	return candidates, nil
}

// Reverse resolves coordinates to a single candidate, nil when the point has
// no resolvable city or country.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (*Candidate, error) {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("format", "json")
	values.Set("addressdetails", "1")
	values.Set("email", c.email)

	var result nominatimResult
	if err := c.do(ctx, "/reverse", values, &result); err != nil {
		return nil, err
	}
	cand, ok := toCandidate(result)
	if !ok {
		return nil, nil
	}
	return &cand, nil
}

func (c *Client) do(ctx context.Context, path string, values url.Values, dest any) error {
	rel := &url.URL{Path: path, RawQuery: values.Encode()}
	reqURL := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", c.locale)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("geocode %s returned status %d", path, resp.StatusCode)
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// toCandidate converts an upstream result, reporting false when coordinates
// are unparsable or the geography is incomplete.
func toCandidate(r nominatimResult) (Candidate, bool) {
	lat, latErr := strconv.ParseFloat(r.Lat, 64)
	lon, lonErr := strconv.ParseFloat(r.Lon, 64)
	if latErr != nil || lonErr != nil {
		return Candidate{}, false
	}

	city := firstNonEmpty(
		r.Address.City,
		r.Address.Town,
		r.Address.Village,
		r.Address.Municipality,
		r.Address.County,
	)
	if city == "" {
		if head, _, found := strings.Cut(r.DisplayName, ","); found || head != "" {
			city = strings.TrimSpace(head)
		}
	}
	country := r.Address.Country

	if city == "" || country == "" {
		return Candidate{}, false
	}
	return Candidate{
		City:        city,
		Country:     country,
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: r.DisplayName,
	}, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
