// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Trustees of Dartmouth College

package aspace

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// resolveParams are the inline resolutions requested for every record
// fetch; ancestors and top containers arrive pre-resolved in the payload.
var resolveParams = []string{"ancestors:id", "top_container_uri_u_sstr:id"}

// Client fetches records and locations from an ArchivesSpace instance.
type Client struct {
	baseURL string
	session string
	http    *http.Client
	log     *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithSession sets the session token sent with every request.
func WithSession(token string) ClientOption {
	return func(c *Client) { c.session = token }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// NewClient creates a Client for the given ArchivesSpace base URL.
func NewClient(baseURL string, log *zap.Logger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		log:     log,
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchRecordByURI looks a record up through the search endpoint with
// ancestors and top containers resolved inline. When the search returns
// zero or multiple hits the result is an empty record, not an error.
func (c *Client) FetchRecordByURI(ctx context.Context, uri string) (*Record, error) {
	form := url.Values{}
	form.Add("uri[]", uri)
	for _, r := range resolveParams {
		form.Add("resolve[]", r)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/search/records", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.authorize(req)

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("search for %s: %w", uri, err)
	}

	var result struct {
		Results []*Record `json:"results"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode search response for %s: %w", uri, err)
	}

	if len(result.Results) != 1 {
		c.log.Debug("record search did not return a single hit",
			zap.String("uri", uri), zap.Int("hits", len(result.Results)))
		return &Record{}, nil
	}
	return result.Results[0], nil
}

// FetchLocationByID resolves a location by its URI.
func (c *Client) FetchLocationByID(ctx context.Context, id string) (*Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+id, nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch location %s: %w", id, err)
	}

	var loc Location
	if err := json.Unmarshal(body, &loc); err != nil {
		return nil, fmt.Errorf("decode location %s: %w", id, err)
	}
	loc.ID = id
	return &loc, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.session != "" {
		req.Header.Set("X-ArchivesSpace-Session", c.session)
	}
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
