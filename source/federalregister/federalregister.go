// Package federalregister adapts the Federal Register v1 documents API.
package federalregister

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/jonwraymond/uslegal/record"
	"github.com/jonwraymond/uslegal/relevance"
	"github.com/jonwraymond/uslegal/source"
)

const (
	// Name identifies this source in diagnostics and metrics.
	Name = "federal_register"

	// DefaultBaseURL is the Federal Register API root.
	DefaultBaseURL = "https://www.federalregister.gov/api/v1"

	overFetchFactor = 3
	maxFetch        = 100
)

var (
	keyNumber    = []string{"document_number", "documentNumber"}
	keyPublished = []string{"publication_date", "publicationDate"}
	keyEffective = []string{"effective_on", "effective_date", "effectiveDate"}
	keyType      = []string{"type", "document_type", "documentType"}
	keyAgencies  = []string{"agency_names", "agencyNames"}
	keyPDF       = []string{"pdf_url", "pdfUrl"}
	keyHTML      = []string{"html_url", "htmlUrl"}
	keyJSON      = []string{"json_url", "jsonUrl"}
)

// Client queries the Federal Register. No credential is needed.
type Client struct {
	src    *source.Client
	scorer relevance.Scorer
}

// New creates a Federal Register client.
func New(opts source.Options, scorer relevance.Scorer) (*Client, error) {
	src, err := source.New(source.Spec{Name: Name, BaseURL: DefaultBaseURL}, opts)
	if err != nil {
		return nil, err
	}
	return &Client{src: src, scorer: scorer}, nil
}

// Source returns the underlying HTTP client.
func (c *Client) Source() *source.Client { return c.src }

// SearchDocuments returns up to limit documents for query, ranked by
// relevance over an over-fetched candidate pool.
func (c *Client) SearchDocuments(ctx context.Context, query string, limit int) []record.Document {
	const op = "search_documents"
	limit = source.Limit(limit)

	params := url.Values{
		"conditions[term]": {query},
		"per_page":         {strconv.Itoa(min(limit*overFetchFactor, maxFetch))},
		"order":            {"relevance"},
	}
	docs, err := c.list(ctx, op, params)
	if err != nil {
		c.src.Fail(ctx, op, err)
		return []record.Document{}
	}

	scored := relevance.Rank(docs,
		func(d record.Document) string { return d.Key() },
		func(d record.Document) float64 { return c.scorer.Document(d, query) },
	)
	out := relevance.Select(scored, limit, c.scorer.Weights().Threshold)
	c.src.Returned(len(out))
	return out
}

// GetRecentDocuments returns up to limit documents, newest first.
func (c *Client) GetRecentDocuments(ctx context.Context, limit int) []record.Document {
	const op = "recent_documents"
	limit = source.Limit(limit)

	params := url.Values{
		"per_page": {strconv.Itoa(limit)},
		"order":    {"newest"},
	}
	docs, err := c.list(ctx, op, params)
	if err != nil {
		c.src.Fail(ctx, op, err)
		return []record.Document{}
	}
	if len(docs) > limit {
		docs = docs[:limit]
	}
	c.src.Returned(len(docs))
	return docs
}

// GetDocument returns one document including its sections.
func (c *Client) GetDocument(ctx context.Context, number string) (record.Document, bool) {
	const op = "get_document"

	var raw json.RawMessage
	if err := c.src.GetJSON(ctx, op, "/documents/"+url.PathEscape(number)+".json", nil, &raw); err != nil {
		c.src.Fail(ctx, op, err)
		return record.Document{}, false
	}

	f := source.DecodeFields(raw)
	doc, ok := toDocument(f)
	if !ok {
		c.src.Fail(ctx, op, &source.Error{
			Category: source.CategoryBadData,
			Source:   Name,
			Op:       op,
			Message:  "response has no document number",
		})
		return record.Document{}, false
	}
	for _, s := range f.List("sections") {
		doc.Sections = append(doc.Sections, record.Section{
			Title:   s.String("title"),
			Content: s.String("content"),
		})
	}
	c.src.Returned(1)
	return doc, true
}

func (c *Client) list(ctx context.Context, op string, params url.Values) ([]record.Document, error) {
	var payload struct {
		Results json.RawMessage `json:"results"`
	}
	if err := c.src.GetJSON(ctx, op, "/documents.json", params, &payload); err != nil {
		return nil, err
	}

	raw, err := c.src.DecodeResults(op, "results", payload.Results)
	if err != nil {
		return nil, err
	}
	docs := make([]record.Document, 0, len(raw))
	for _, f := range raw {
		if d, ok := toDocument(f); ok {
			docs = append(docs, d)
		}
	}
	return docs, nil
}

func toDocument(f source.Fields) (record.Document, bool) {
	number := f.String(keyNumber...)
	if number == "" {
		return record.Document{}, false
	}
	return record.Document{
		DocumentNumber:  number,
		Title:           f.String("title"),
		Abstract:        f.String("abstract"),
		PublicationDate: f.String(keyPublished...),
		EffectiveDate:   f.String(keyEffective...),
		AgencyNames:     agencyNames(f),
		DocumentType:    f.String(keyType...),
		PDFURL:          f.String(keyPDF...),
		HTMLURL:         f.String(keyHTML...),
		JSONURL:         f.String(keyJSON...),
	}, true
}

// agencyNames reads the flat name list, falling back to agency objects.
func agencyNames(f source.Fields) []string {
	if names := f.Strings(keyAgencies...); len(names) > 0 {
		return names
	}
	var names []string
	for _, a := range f.List("agencies") {
		if name := a.String("name", "raw_name"); name != "" {
			names = append(names, name)
		}
	}
	return names
}
