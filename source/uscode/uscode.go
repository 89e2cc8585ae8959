// Package uscode adapts the US Code search API of the Office of the Law
// Revision Counsel.
//
// The upstream is slow and occasionally unavailable, so requests carry an
// explicit timeout. It offers no recency ordering, so there is no listing of
// recent sections.
package uscode

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/jonwraymond/uslegal/record"
	"github.com/jonwraymond/uslegal/source"
)

const (
	// Name identifies this source in diagnostics and metrics.
	Name = "us_code"

	// DefaultBaseURL is the US Code API root.
	DefaultBaseURL = "https://uscode.house.gov/api"

	// DefaultTimeout bounds one request.
	DefaultTimeout = 30 * time.Second
)

var keyUpdated = []string{"last_updated", "lastUpdated"}

// Client queries the US Code.
type Client struct {
	src *source.Client
}

// New creates a US Code client.
func New(opts source.Options) (*Client, error) {
	src, err := source.New(source.Spec{
		Name:    Name,
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}, opts)
	if err != nil {
		return nil, err
	}
	return &Client{src: src}, nil
}

// Source returns the underlying HTTP client.
func (c *Client) Source() *source.Client { return c.src }

// SearchCode returns up to limit sections matching query. title narrows the
// search to one title of the Code when positive.
func (c *Client) SearchCode(ctx context.Context, query string, title, limit int) []record.CodeSection {
	const op = "search_code"
	limit = source.Limit(limit)

	params := url.Values{
		"q":     {query},
		"limit": {strconv.Itoa(limit)},
	}
	if title > 0 {
		params.Set("title", strconv.Itoa(title))
	}

	var payload struct {
		Results json.RawMessage `json:"results"`
	}
	if err := c.src.GetJSON(ctx, op, "/search", params, &payload); err != nil {
		c.src.Fail(ctx, op, err)
		return []record.CodeSection{}
	}

	list, err := c.src.DecodeResults(op, "results", payload.Results)
	if err != nil {
		c.src.Fail(ctx, op, err)
		return []record.CodeSection{}
	}

	out := []record.CodeSection{}
	for _, f := range list {
		if s, ok := toSection(f); ok {
			out = append(out, s)
		}
		if len(out) == limit {
			break
		}
	}
	c.src.Returned(len(out))
	return out
}

// GetSection returns one section of the Code.
func (c *Client) GetSection(ctx context.Context, title int, section string) (record.CodeSection, bool) {
	const op = "get_section"
	path := "/title/" + strconv.Itoa(title) + "/section/" + url.PathEscape(section)

	var raw json.RawMessage
	if err := c.src.GetJSON(ctx, op, path, nil, &raw); err != nil {
		c.src.Fail(ctx, op, err)
		return record.CodeSection{}, false
	}
	s, ok := toSection(source.DecodeFields(raw))
	if !ok {
		c.src.Fail(ctx, op, &source.Error{
			Category: source.CategoryBadData,
			Source:   Name,
			Op:       op,
			Message:  "response has no title and section",
		})
		return record.CodeSection{}, false
	}
	c.src.Returned(1)
	return s, true
}

func toSection(f source.Fields) (record.CodeSection, bool) {
	s := record.CodeSection{
		Title:       f.String("title"),
		Section:     f.String("section"),
		Text:        f.String("text"),
		URL:         f.String("url"),
		LastUpdated: f.String(keyUpdated...),
		Source:      f.String("source"),
	}
	if s.Title == "" || s.Section == "" {
		return record.CodeSection{}, false
	}
	return s, true
}
