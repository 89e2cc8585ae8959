// Package courtlistener adapts the CourtListener REST API for court opinions.
//
// CourtListener serves the same logical field under camelCase names in search
// results and snake_case names in resource detail, and older deployments mix
// both. Every field is therefore resolved from an ordered variant list.
// Opinions without a canonical URL get one synthesized from their id.
package courtlistener

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/uslegal/record"
	"github.com/jonwraymond/uslegal/source"
)

const (
	// Name identifies this source in diagnostics and metrics.
	Name = "court_listener"

	// DefaultBaseURL is the CourtListener REST API root.
	DefaultBaseURL = "https://www.courtlistener.com/api/rest/v3"

	// SiteURL is the root relative opinion URLs resolve against.
	SiteURL = "https://www.courtlistener.com"

	// EnvAPIKey names the configuration value holding the API token.
	EnvAPIKey = "COURT_LISTENER_API_KEY"

	// opinionType selects opinions in the search endpoint.
	opinionType = "o"
)

var (
	keyCaseName      = []string{"caseName", "case_name"}
	keyCaseNameFull  = []string{"caseNameFull", "case_name_full"}
	keyDateFiled     = []string{"dateFiled", "date_filed"}
	keyDateModified  = []string{"dateModified", "date_modified"}
	keyCourt         = []string{"court", "court_name"}
	keyCourtID       = []string{"courtId", "court_id"}
	keyJurisdiction  = []string{"jurisdiction", "court_jurisdiction"}
	keyCitationCount = []string{"citationCount", "citation_count", "citeCount"}
	keyPrecedential  = []string{"precedentialStatus", "precedential_status", "status"}
	keyAbsoluteURL   = []string{"absoluteUrl", "absolute_url"}
	keyDownloadURL   = []string{"downloadUrl", "download_url"}
	keyPlainText     = []string{"plainText", "plain_text"}
	keyHTML          = []string{"html"}
	keyHTMLLawbox    = []string{"htmlLawbox", "html_lawbox"}
	keyHTMLColumbia  = []string{"htmlColumbia", "html_columbia"}
	keyHTMLAnon2020  = []string{"htmlAnon2020", "html_anon_2020"}
	keyJudges        = []string{"judges", "judge"}
	keyDocket        = []string{"docket", "docket_id", "docketId"}
	keyDocketNumber  = []string{"docketNumber", "docket_number"}
)

// Client queries CourtListener. The token is optional; anonymous access is
// rate limited more aggressively.
type Client struct {
	src *source.Client
}

// New creates a CourtListener client.
func New(opts source.Options) (*Client, error) {
	src, err := source.New(source.Spec{
		Name:    Name,
		BaseURL: DefaultBaseURL,
		Credential: source.Credential{
			EnvVar: EnvAPIKey,
			Header: "Authorization",
			Scheme: "Token",
		},
	}, opts)
	if err != nil {
		return nil, err
	}
	return &Client{src: src}, nil
}

// Source returns the underlying HTTP client.
func (c *Client) Source() *source.Client { return c.src }

// SearchOpinions returns up to limit opinions matching query in upstream
// relevance order. court narrows the search to one court id (e.g. "scotus").
func (c *Client) SearchOpinions(ctx context.Context, query, court string, limit int) []record.Opinion {
	const op = "search_opinions"
	limit = source.Limit(limit)

	params := url.Values{
		"q":         {query},
		"type":      {opinionType},
		"order_by":  {"score desc"},
		"page_size": {strconv.Itoa(limit)},
	}
	if court != "" {
		params.Set("court", court)
	}
	return c.search(ctx, op, params, limit)
}

// GetRecentOpinions returns up to limit opinions, most recently filed first.
func (c *Client) GetRecentOpinions(ctx context.Context, court string, limit int) []record.Opinion {
	const op = "recent_opinions"
	limit = source.Limit(limit)

	params := url.Values{
		"type":      {opinionType},
		"order_by":  {"dateFiled desc"},
		"page_size": {strconv.Itoa(limit)},
	}
	if court != "" {
		params.Set("court", court)
	}
	return c.search(ctx, op, params, limit)
}

// GetOpinion returns one opinion including whatever text encodings upstream
// holds for it.
func (c *Client) GetOpinion(ctx context.Context, id int64) (record.Opinion, bool) {
	const op = "get_opinion"

	var raw json.RawMessage
	path := "/opinions/" + strconv.FormatInt(id, 10) + "/"
	if err := c.src.GetJSON(ctx, op, path, nil, &raw); err != nil {
		c.src.Fail(ctx, op, err)
		return record.Opinion{}, false
	}
	opinion, ok := toOpinion(source.DecodeFields(raw))
	if !ok {
		c.src.Fail(ctx, op, &source.Error{
			Category: source.CategoryBadData,
			Source:   Name,
			Op:       op,
			Message:  "response has no opinion id",
		})
		return record.Opinion{}, false
	}
	c.src.Returned(1)
	return opinion, true
}

// EnrichFullText fetches full text for the first n opinions that carry none,
// concurrently, and returns a copy of opinions with the fetched encodings
// merged in. Encodings already present are never replaced. Opinions whose
// fetch fails are returned unchanged.
func (c *Client) EnrichFullText(ctx context.Context, opinions []record.Opinion, n int) []record.Opinion {
	out := make([]record.Opinion, len(opinions))
	copy(out, opinions)
	if n <= 0 {
		return out
	}

	var g errgroup.Group
	for i := range out[:min(n, len(out))] {
		if !out[i].Text.Empty() {
			continue
		}
		g.Go(func() error {
			full, ok := c.GetOpinion(ctx, out[i].ID)
			if ok {
				out[i].Text = out[i].Text.Merge(full.Text)
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (c *Client) search(ctx context.Context, op string, params url.Values, limit int) []record.Opinion {
	var payload struct {
		Results json.RawMessage `json:"results"`
	}
	if err := c.src.GetJSON(ctx, op, "/search/", params, &payload); err != nil {
		c.src.Fail(ctx, op, err)
		return []record.Opinion{}
	}

	list, err := c.src.DecodeResults(op, "results", payload.Results)
	if err != nil {
		c.src.Fail(ctx, op, err)
		return []record.Opinion{}
	}

	out := []record.Opinion{}
	for _, f := range list {
		if o, ok := toOpinion(f); ok {
			out = append(out, o)
		}
		if len(out) == limit {
			break
		}
	}
	c.src.Returned(len(out))
	return out
}

func toOpinion(f source.Fields) (record.Opinion, bool) {
	id, ok := f.Int64("id")
	if !ok || id == 0 {
		return record.Opinion{}, false
	}

	abs := opinionURL(f.String(keyAbsoluteURL...), id)
	return record.Opinion{
		ID:                 id,
		CaseName:           f.String(keyCaseName...),
		CaseNameFull:       f.String(keyCaseNameFull...),
		DateFiled:          f.String(keyDateFiled...),
		DateModified:       f.String(keyDateModified...),
		Court:              f.String(keyCourt...),
		CourtID:            f.String(keyCourtID...),
		Jurisdiction:       f.String(keyJurisdiction...),
		Citation:           citation(f),
		CitationCount:      f.IntPtr(keyCitationCount...),
		PrecedentialStatus: f.String(keyPrecedential...),
		URL:                abs,
		AbsoluteURL:        abs,
		DownloadURL:        f.String(keyDownloadURL...),
		Text: record.OpinionText{
			Plain:        f.String(keyPlainText...),
			HTML:         f.String(keyHTML...),
			HTMLLawbox:   f.String(keyHTMLLawbox...),
			HTMLColumbia: f.String(keyHTMLColumbia...),
			HTMLAnon2020: f.String(keyHTMLAnon2020...),
		},
		Judges:       judges(f),
		Docket:       f.String(keyDocket...),
		DocketNumber: f.String(keyDocketNumber...),
		Slug:         f.String("slug"),
	}, true
}

// opinionURL resolves a relative URL against SiteURL, or synthesizes one
// from id when upstream supplied none.
func opinionURL(raw string, id int64) string {
	if raw == "" {
		return SiteURL + "/opinion/" + strconv.FormatInt(id, 10) + "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() {
		return raw
	}
	base, _ := url.Parse(SiteURL)
	return base.ResolveReference(u).String()
}

// citation accepts a single citation string or a list of them.
func citation(f source.Fields) string {
	if cites := f.Strings("citation"); cites != nil {
		return strings.Join(cites, "; ")
	}
	return f.String("citation")
}

// judges accepts a list of names or a single comma-separated string.
func judges(f source.Fields) []string {
	if list := f.Strings(keyJudges...); list != nil {
		if len(list) == 0 {
			return nil
		}
		return list
	}
	var out []string
	for _, name := range strings.Split(f.String(keyJudges...), ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
