package uslegal

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/uslegal/record"
)

// DefaultSearchAllLimit is used when SearchAll is called with a non-positive
// limit.
const DefaultSearchAllLimit = 10

// SubLimit returns the per-source limit when limit is split across n sources:
// ceil(limit/n).
func SubLimit(limit, n int) int {
	if n <= 0 {
		return 0
	}
	if limit <= 0 {
		limit = DefaultSearchAllLimit
	}
	return (limit + n - 1) / n
}

// SearchAll searches every configured source concurrently. See SearchSources.
func (c *Client) SearchAll(ctx context.Context, query string, limit int) record.Composite {
	return c.SearchSources(ctx, query, limit, c.sources...)
}

// SearchSources searches the given sources concurrently, each with a
// sub-limit of ceil(limit/N) for N distinct sources, and waits for all of
// them. A failing source contributes an empty list; it never fails or
// cancels the others. Every composite key is present in the result, and
// sources not queried stay empty. Unknown sources are ignored.
func (c *Client) SearchSources(ctx context.Context, query string, limit int, sources ...Source) record.Composite {
	out := record.NewComposite()
	sources = normalizeSources(sources)
	if len(sources) == 0 {
		return out
	}
	sub := SubLimit(limit, len(sources))
	start := time.Now()

	// Branches never return errors, so Wait always joins every branch.
	var g errgroup.Group
	for _, src := range sources {
		switch src {
		case SourceBills:
			g.Go(func() error {
				out.Bills = c.bills.SearchBills(ctx, query, 0, sub)
				return nil
			})
		case SourceRegulations:
			g.Go(func() error {
				out.Regulations = c.regulations.SearchDocuments(ctx, query, sub)
				return nil
			})
		case SourceCode:
			g.Go(func() error {
				out.CodeSections = c.code.SearchCode(ctx, query, 0, sub)
				return nil
			})
		case SourceComments:
			g.Go(func() error {
				out.Comments = c.comments.SearchComments(ctx, query, sub)
				return nil
			})
		case SourceOpinions:
			g.Go(func() error {
				out.Opinions = c.opinions.SearchOpinions(ctx, query, "", sub)
				return nil
			})
		}
	}
	_ = g.Wait()

	out = nonNil(out)
	c.logger.DebugContext(ctx, "aggregate search complete",
		"sources", len(sources),
		"sub_limit", sub,
		"total", out.Total(),
		"duration", time.Since(start),
	)
	return out
}

// nonNil restores empty lists for adapters that returned nil.
func nonNil(c record.Composite) record.Composite {
	if c.Bills == nil {
		c.Bills = []record.Bill{}
	}
	if c.Regulations == nil {
		c.Regulations = []record.Document{}
	}
	if c.CodeSections == nil {
		c.CodeSections = []record.CodeSection{}
	}
	if c.Comments == nil {
		c.Comments = []record.Comment{}
	}
	if c.Opinions == nil {
		c.Opinions = []record.Opinion{}
	}
	return c
}
