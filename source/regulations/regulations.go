// Package regulations adapts the Regulations.gov v4 comments API.
package regulations

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/jonwraymond/uslegal/record"
	"github.com/jonwraymond/uslegal/source"
)

const (
	// Name identifies this source in diagnostics and metrics.
	Name = "regulations_gov"

	// DefaultBaseURL is the Regulations.gov API root.
	DefaultBaseURL = "https://api.regulations.gov/v4"

	// EnvAPIKey names the configuration value holding the API key.
	EnvAPIKey = "REGULATIONS_GOV_API_KEY"

	// Upstream page size window.
	minPageSize = 5
	maxPageSize = 250
)

var (
	keyComment      = []string{"comment", "title"}
	keyPosted       = []string{"postedDate", "posted_date"}
	keyAgency       = []string{"agencyId", "agency_id"}
	keyDocument     = []string{"commentOnDocumentId", "documentId", "document_id"}
	keySubmitter    = []string{"submitterName", "submitter_name"}
	keyFirstName    = []string{"firstName", "first_name"}
	keyLastName     = []string{"lastName", "last_name"}
	keyOrganization = []string{"organization", "organizationName"}
)

// Client queries Regulations.gov. Every endpoint requires an API key; calls
// without one are not sent and produce a credential diagnostic.
type Client struct {
	src *source.Client
}

// New creates a Regulations.gov client.
func New(opts source.Options) (*Client, error) {
	src, err := source.New(source.Spec{
		Name:    Name,
		BaseURL: DefaultBaseURL,
		Credential: source.Credential{
			EnvVar:     EnvAPIKey,
			QueryParam: "api_key",
			Required:   true,
		},
	}, opts)
	if err != nil {
		return nil, err
	}
	return &Client{src: src}, nil
}

// Source returns the underlying HTTP client.
func (c *Client) Source() *source.Client { return c.src }

func pageSize(limit int) string {
	return strconv.Itoa(min(max(limit, minPageSize), maxPageSize))
}

// SearchComments returns up to limit comments matching query, most recently
// posted first.
func (c *Client) SearchComments(ctx context.Context, query string, limit int) []record.Comment {
	const op = "search_comments"
	return c.list(ctx, op, url.Values{
		"filter[searchTerm]": {query},
		"page[size]":         {pageSize(source.Limit(limit))},
		"sort":               {"-postedDate"},
	}, source.Limit(limit))
}

// GetRecentComments returns up to limit comments, most recently posted first.
func (c *Client) GetRecentComments(ctx context.Context, limit int) []record.Comment {
	const op = "recent_comments"
	return c.list(ctx, op, url.Values{
		"page[size]": {pageSize(source.Limit(limit))},
		"sort":       {"-postedDate"},
	}, source.Limit(limit))
}

// GetComment returns one comment.
func (c *Client) GetComment(ctx context.Context, id string) (record.Comment, bool) {
	const op = "get_comment"

	var payload struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.src.GetJSON(ctx, op, "/comments/"+url.PathEscape(id), nil, &payload); err != nil {
		c.src.Fail(ctx, op, err)
		return record.Comment{}, false
	}
	comment, ok := toComment(source.DecodeFields(payload.Data))
	if !ok {
		c.src.Fail(ctx, op, &source.Error{
			Category: source.CategoryBadData,
			Source:   Name,
			Op:       op,
			Message:  "response has no comment id",
		})
		return record.Comment{}, false
	}
	c.src.Returned(1)
	return comment, true
}

func (c *Client) list(ctx context.Context, op string, params url.Values, limit int) []record.Comment {
	var payload struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.src.GetJSON(ctx, op, "/comments", params, &payload); err != nil {
		c.src.Fail(ctx, op, err)
		return []record.Comment{}
	}

	list, err := c.src.DecodeResults(op, "data", payload.Data)
	if err != nil {
		c.src.Fail(ctx, op, err)
		return []record.Comment{}
	}

	out := []record.Comment{}
	for _, f := range list {
		if comment, ok := toComment(f); ok {
			out = append(out, comment)
		}
		if len(out) == limit {
			break
		}
	}
	c.src.Returned(len(out))
	return out
}

// toComment maps a JSON:API resource object. Attributes may be absent.
func toComment(f source.Fields) (record.Comment, bool) {
	id := f.String("id")
	if id == "" {
		return record.Comment{}, false
	}
	attrs := f.Object("attributes")
	if attrs == nil {
		attrs = source.Fields{}
	}

	submitter := attrs.String(keySubmitter...)
	if submitter == "" {
		first, last := attrs.String(keyFirstName...), attrs.String(keyLastName...)
		submitter = strings.TrimSpace(first + " " + last)
	}

	return record.Comment{
		ID:            id,
		Comment:       attrs.String(keyComment...),
		PostedDate:    attrs.String(keyPosted...),
		AgencyID:      attrs.String(keyAgency...),
		DocumentID:    attrs.String(keyDocument...),
		SubmitterName: submitter,
		Organization:  attrs.String(keyOrganization...),
	}, true
}
