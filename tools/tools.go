package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/jonwraymond/uslegal/record"
	"github.com/jonwraymond/uslegal/registry"
	"github.com/jonwraymond/uslegal/uslegal"
)

// Namespace is the toolfoundation namespace of every legal tool.
const Namespace = "uslegal"

// Defaults for optional arguments.
const (
	DefaultLimit          = 20
	DefaultSearchAllLimit = uslegal.DefaultSearchAllLimit
	// EnrichTop is how many leading opinions get their full text fetched.
	EnrichTop = 5
)

// ErrBlankQuery is returned for a query made only of whitespace.
var ErrBlankQuery = errors.New("query must not be blank")

// SearchAllSources are the sources search_all fans out to.
var SearchAllSources = []uslegal.Source{uslegal.SourceBills, uslegal.SourceRegulations, uslegal.SourceOpinions}

type definition struct {
	name        string
	description string
	tags        []string
	schema      *jsonschema.Schema
	handler     registry.ToolHandler
}

// Register adds every legal tool to reg, backed by api.
func Register(reg *registry.Registry, api *uslegal.Client) error {
	h := &handlers{api: api}
	for _, d := range h.definitions() {
		err := reg.RegisterLocalFunc(d.name, d.description, d.schema, d.handler,
			registry.WithNamespace(Namespace),
			registry.WithTags(d.tags...),
			registry.WithReadOnly(),
		)
		if err != nil {
			return fmt.Errorf("register %s: %w", d.name, err)
		}
	}
	return nil
}

// Names returns the registered tool names in registration order.
func Names() []string {
	defs := (&handlers{}).definitions()
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.name
	}
	return names
}

type handlers struct {
	api *uslegal.Client
}

func (h *handlers) definitions() []definition {
	return []definition{
		{
			name:        "search_bills",
			description: "Search for bills and resolutions in Congress.gov",
			tags:        []string{"congress", "bills", "search"},
			schema: object([]string{"query"}, map[string]*jsonschema.Schema{
				"query":    queryProp("Search query for bills (e.g., 'immigration', 'healthcare', 'infrastructure')"),
				"congress": congressProp(),
				"limit":    limitProp(DefaultLimit),
			}),
			handler: h.searchBills,
		},
		{
			name:        "search_regulations",
			description: "Search for documents in the Federal Register (regulations, executive orders, etc.)",
			tags:        []string{"federal-register", "regulations", "search"},
			schema: object([]string{"query"}, map[string]*jsonschema.Schema{
				"query": queryProp("Search query for regulations (e.g., 'environmental', 'healthcare', 'immigration')"),
				"limit": limitProp(DefaultLimit),
			}),
			handler: h.searchRegulations,
		},
		{
			name:        "search_all",
			description: "Comprehensive search across all US legal sources (Congress, Federal Register, Court Opinions)",
			tags:        []string{"aggregate", "search"},
			schema: object([]string{"query"}, map[string]*jsonschema.Schema{
				"query": queryProp("Search query across all legal sources"),
				"limit": limitProp(DefaultSearchAllLimit),
			}),
			handler: h.searchAll,
		},
		{
			name:        "get_recent_bills",
			description: "Get the most recently introduced bills in Congress",
			tags:        []string{"congress", "bills", "recent"},
			schema: object(nil, map[string]*jsonschema.Schema{
				"congress": congressProp(),
				"limit":    limitProp(DefaultLimit),
			}),
			handler: h.recentBills,
		},
		{
			name:        "get_recent_regulations",
			description: "Get the most recently published Federal Register documents",
			tags:        []string{"federal-register", "regulations", "recent"},
			schema: object(nil, map[string]*jsonschema.Schema{
				"limit": limitProp(DefaultLimit),
			}),
			handler: h.recentRegulations,
		},
		{
			name:        "search_court_opinions",
			description: "Search for court opinions and decisions from CourtListener (federal and state courts)",
			tags:        []string{"courtlistener", "opinions", "search"},
			schema: object([]string{"query"}, map[string]*jsonschema.Schema{
				"query": queryProp("Search query for court opinions (e.g., 'immigration', 'copyright', 'constitutional')"),
				"court": courtProp(),
				"limit": limitProp(DefaultLimit),
			}),
			handler: h.searchOpinions,
		},
		{
			name:        "get_recent_court_opinions",
			description: "Get the most recently published court opinions from CourtListener",
			tags:        []string{"courtlistener", "opinions", "recent"},
			schema: object(nil, map[string]*jsonschema.Schema{
				"court": courtProp(),
				"limit": limitProp(DefaultLimit),
			}),
			handler: h.recentOpinions,
		},
		{
			name:        "get_committees",
			description: "Get list of Congressional committees",
			tags:        []string{"congress", "committees"},
			schema: object(nil, map[string]*jsonschema.Schema{
				"congress": congressProp(),
				"chamber":  chamberProp(),
			}),
			handler: h.committees,
		},
		{
			name:        "search_votes",
			description: "Get roll-call votes from Congress.gov with how each member voted",
			tags:        []string{"congress", "votes"},
			schema: object(nil, map[string]*jsonschema.Schema{
				"congress": congressProp(),
				"chamber":  chamberProp(),
				"limit":    limitProp(DefaultLimit),
			}),
			handler: h.votes,
		},
		{
			name:        "get_bill",
			description: "Get one bill from Congress.gov by congress, type and number",
			tags:        []string{"congress", "bills"},
			schema: object([]string{"congress", "bill_type", "number"}, map[string]*jsonschema.Schema{
				"congress":  congressProp(),
				"bill_type": stringProp("Bill type (e.g., 'HR', 'S', 'HJRES', 'SRES')"),
				"number":    stringProp("Bill number (e.g., '2')"),
			}),
			handler: h.bill,
		},
		{
			name:        "get_regulation",
			description: "Get one Federal Register document by document number",
			tags:        []string{"federal-register", "regulations"},
			schema: object([]string{"document_number"}, map[string]*jsonschema.Schema{
				"document_number": stringProp("Federal Register document number (e.g., '2024-01234')"),
			}),
			handler: h.regulation,
		},
		{
			name:        "search_us_code",
			description: "Search sections of the United States Code",
			tags:        []string{"us-code", "search"},
			schema: object([]string{"query"}, map[string]*jsonschema.Schema{
				"query": queryProp("Search query for code sections (e.g., 'asylum', 'copyright infringement')"),
				"title": intProp("Optional US Code title number (e.g., 8 for Aliens and Nationality)", 1, MaxUSCTitle),
				"limit": limitProp(DefaultLimit),
			}),
			handler: h.searchCode,
		},
		{
			name:        "get_code_section",
			description: "Get the text of one United States Code section",
			tags:        []string{"us-code"},
			schema: object([]string{"title", "section"}, map[string]*jsonschema.Schema{
				"title":   intProp("US Code title number", 1, MaxUSCTitle),
				"section": stringProp("Section number (e.g., '1158')"),
			}),
			handler: h.codeSection,
		},
		{
			name:        "search_comments",
			description: "Search public comments on federal rulemaking in Regulations.gov",
			tags:        []string{"regulations-gov", "comments", "search"},
			schema: object([]string{"query"}, map[string]*jsonschema.Schema{
				"query": queryProp("Search query for public comments"),
				"limit": limitProp(DefaultLimit),
			}),
			handler: h.searchComments,
		},
		{
			name:        "get_recent_comments",
			description: "Get the most recently posted public comments from Regulations.gov",
			tags:        []string{"regulations-gov", "comments", "recent"},
			schema: object(nil, map[string]*jsonschema.Schema{
				"limit": limitProp(DefaultLimit),
			}),
			handler: h.recentComments,
		},
		{
			name:        "get_comment",
			description: "Get one public comment from Regulations.gov by id",
			tags:        []string{"regulations-gov", "comments"},
			schema: object([]string{"comment_id"}, map[string]*jsonschema.Schema{
				"comment_id": stringProp("Regulations.gov comment id (e.g., 'EPA-HQ-OAR-2021-0317-0001')"),
			}),
			handler: h.comment,
		},
		{
			name:        "get_court_opinion",
			description: "Get one court opinion from CourtListener by id, with its text",
			tags:        []string{"courtlistener", "opinions"},
			schema: object([]string{"opinion_id"}, map[string]*jsonschema.Schema{
				"opinion_id": {Type: "integer", Description: "CourtListener opinion id", Minimum: ptr(1.0)},
			}),
			handler: h.opinion,
		},
		{
			name:        "list_sources",
			description: "List the upstream legal data sources and whether each has a credential configured",
			tags:        []string{"sources", "status"},
			schema:      object(nil, map[string]*jsonschema.Schema{}),
			handler:     h.sources,
		},
	}
}

func (h *handlers) searchBills(ctx context.Context, args map[string]any) (any, error) {
	query, err := queryArg(args)
	if err != nil {
		return nil, err
	}
	bills := h.api.Bills().SearchBills(ctx, query, intArg(args, "congress"), intArg(args, "limit"))
	header := fmt.Sprintf("**Congress Bills Search Results for \"%s\"**", query)
	return registry.Result{
		Text: formatBills(header, bills, "No bills found matching your search query.\n\n"+billsTroubleshooting),
		Data: map[string]any{"bills": bills},
	}, nil
}

func (h *handlers) searchRegulations(ctx context.Context, args map[string]any) (any, error) {
	query, err := queryArg(args)
	if err != nil {
		return nil, err
	}
	docs := h.api.Regulations().SearchDocuments(ctx, query, intArg(args, "limit"))
	header := fmt.Sprintf("**Federal Register Search Results for \"%s\"**", query)
	return registry.Result{
		Text: formatDocuments(header, docs, "No documents found matching your search query.\n\n"+regulationsTroubleshooting),
		Data: map[string]any{"documents": docs},
	}, nil
}

func (h *handlers) searchAll(ctx context.Context, args map[string]any) (any, error) {
	query, err := queryArg(args)
	if err != nil {
		return nil, err
	}
	composite := h.api.SearchSources(ctx, query, intArg(args, "limit"), SearchAllSources...)
	return registry.Result{Text: formatComposite(query, composite), Data: composite}, nil
}

func (h *handlers) recentBills(ctx context.Context, args map[string]any) (any, error) {
	congress := intArg(args, "congress")
	bills := h.api.Bills().GetRecentBills(ctx, congress, intArg(args, "limit"))
	header := "**Recent Bills**"
	if congress > 0 {
		header = fmt.Sprintf("**Recent Bills in Congress %d**", congress)
	}
	return registry.Result{
		Text: formatBills(header, bills, "No recent bills found.\n\n"+recentBillsTroubleshooting),
		Data: map[string]any{"bills": bills},
	}, nil
}

func (h *handlers) recentRegulations(ctx context.Context, args map[string]any) (any, error) {
	docs := h.api.Regulations().GetRecentDocuments(ctx, intArg(args, "limit"))
	return registry.Result{
		Text: formatDocuments("**Recent Federal Register Documents**", docs, "No recent documents found. The Federal Register API may be temporarily unavailable."),
		Data: map[string]any{"documents": docs},
	}, nil
}

func (h *handlers) searchOpinions(ctx context.Context, args map[string]any) (any, error) {
	query, err := queryArg(args)
	if err != nil {
		return nil, err
	}
	ops := h.api.Opinions().SearchOpinions(ctx, query, stringArg(args, "court"), intArg(args, "limit"))
	ops = h.api.Opinions().EnrichFullText(ctx, ops, min(EnrichTop, len(ops)))
	header := fmt.Sprintf("**Court Opinions Search Results for \"%s\"**", query)
	return registry.Result{
		Text: formatOpinions(header, ops, "No court opinions found matching your search.\n\n"+opinionsTroubleshooting),
		Data: map[string]any{"opinions": ops},
	}, nil
}

func (h *handlers) recentOpinions(ctx context.Context, args map[string]any) (any, error) {
	ops := h.api.Opinions().GetRecentOpinions(ctx, stringArg(args, "court"), intArg(args, "limit"))
	ops = h.api.Opinions().EnrichFullText(ctx, ops, min(EnrichTop, len(ops)))
	return registry.Result{
		Text: formatOpinions("**Recent Court Opinions**", ops, "No recent opinions found.\n\n"+recentOpinionsTroubleshooting),
		Data: map[string]any{"opinions": ops},
	}, nil
}

func (h *handlers) committees(ctx context.Context, args map[string]any) (any, error) {
	committees := h.api.Bills().GetCommittees(ctx, intArg(args, "congress"), stringArg(args, "chamber"))
	return registry.Result{
		Text: formatCommittees(committees),
		Data: map[string]any{"committees": committees},
	}, nil
}

func (h *handlers) votes(ctx context.Context, args map[string]any) (any, error) {
	congress, chamber := intArg(args, "congress"), stringArg(args, "chamber")
	votes := h.api.Bills().SearchVotes(ctx, congress, chamber, intArg(args, "limit"))

	header := "Roll-Call Votes"
	if congress > 0 {
		header += fmt.Sprintf(" in Congress %d", congress)
	}
	if chamber != "" {
		header += " (" + chamber + ")"
	}
	header = "**" + header + "**"
	return registry.Result{
		Text: formatVotes(header, votes),
		Data: map[string]any{"votes": votes},
	}, nil
}

func (h *handlers) bill(ctx context.Context, args map[string]any) (any, error) {
	congress := intArg(args, "congress")
	billType := strings.ToUpper(stringArg(args, "bill_type"))
	number := stringArg(args, "number")
	b, ok := h.api.Bills().GetBill(ctx, congress, billType, number)
	if !ok {
		key := record.BillKey{Congress: congress, Type: billType, Number: number}
		return found(notFound("bill "+key.String()), nil), nil
	}
	return found(formatBill(b), map[string]any{"bill": b}), nil
}

func (h *handlers) regulation(ctx context.Context, args map[string]any) (any, error) {
	number := stringArg(args, "document_number")
	d, ok := h.api.Regulations().GetDocument(ctx, number)
	if !ok {
		return found(notFound("Federal Register document "+number), nil), nil
	}
	return found(formatDocument(d), map[string]any{"document": d}), nil
}

func (h *handlers) searchCode(ctx context.Context, args map[string]any) (any, error) {
	query, err := queryArg(args)
	if err != nil {
		return nil, err
	}
	sections := h.api.Code().SearchCode(ctx, query, intArg(args, "title"), intArg(args, "limit"))
	header := fmt.Sprintf("**US Code Search Results for \"%s\"**", query)
	return registry.Result{
		Text: formatCodeSections(header, sections),
		Data: map[string]any{"code_sections": sections},
	}, nil
}

func (h *handlers) codeSection(ctx context.Context, args map[string]any) (any, error) {
	title := intArg(args, "title")
	section := stringArg(args, "section")
	c, ok := h.api.Code().GetSection(ctx, title, section)
	if !ok {
		return found(notFound(fmt.Sprintf("%d USC %s", title, section)), nil), nil
	}
	return found(formatCodeSection(c), map[string]any{"code_section": c}), nil
}

func (h *handlers) searchComments(ctx context.Context, args map[string]any) (any, error) {
	query, err := queryArg(args)
	if err != nil {
		return nil, err
	}
	comments := h.api.Comments().SearchComments(ctx, query, intArg(args, "limit"))
	header := fmt.Sprintf("**Public Comments Search Results for \"%s\"**", query)
	return registry.Result{
		Text: formatComments(header, comments),
		Data: map[string]any{"comments": comments},
	}, nil
}

func (h *handlers) recentComments(ctx context.Context, args map[string]any) (any, error) {
	comments := h.api.Comments().GetRecentComments(ctx, intArg(args, "limit"))
	return registry.Result{
		Text: formatComments("**Recent Public Comments**", comments),
		Data: map[string]any{"comments": comments},
	}, nil
}

func (h *handlers) comment(ctx context.Context, args map[string]any) (any, error) {
	id := stringArg(args, "comment_id")
	c, ok := h.api.Comments().GetComment(ctx, id)
	if !ok {
		return found(notFound("comment "+id), nil), nil
	}
	return found(formatComment(c), map[string]any{"comment": c}), nil
}

func (h *handlers) opinion(ctx context.Context, args map[string]any) (any, error) {
	id := int64(intArg(args, "opinion_id"))
	o, ok := h.api.Opinions().GetOpinion(ctx, id)
	if !ok {
		return found(notFound(fmt.Sprintf("court opinion %d", id)), nil), nil
	}
	return found(opinionItem(0, o), map[string]any{"opinion": o}), nil
}

func (h *handlers) sources(ctx context.Context, _ map[string]any) (any, error) {
	list, err := h.api.Providers().ListProviders()
	if err != nil {
		return nil, err
	}
	return registry.Result{Text: formatProviders(list), Data: map[string]any{"sources": list}}, nil
}

// found wraps a single-record lookup. A miss carries found=false and no
// record.
func found(text string, data map[string]any) registry.Result {
	if data == nil {
		return registry.Result{Text: text, Data: map[string]any{"found": false}}
	}
	data["found"] = true
	return registry.Result{Text: text, Data: data}
}
