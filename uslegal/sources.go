package uslegal

import (
	"context"

	"github.com/jonwraymond/uslegal/record"
)

// Source names one upstream in an aggregate search.
type Source string

// Aggregate sources.
const (
	SourceBills       Source = "bills"
	SourceRegulations Source = "regulations"
	SourceCode        Source = "code"
	SourceComments    Source = "comments"
	SourceOpinions    Source = "opinions"
)

// AllSources lists every source in composite key order.
var AllSources = []Source{SourceBills, SourceRegulations, SourceCode, SourceComments, SourceOpinions}

// ParseSource returns the Source named s.
func ParseSource(s string) (Source, error) {
	for _, src := range AllSources {
		if string(src) == s {
			return src, nil
		}
	}
	return "", ErrUnknownSource
}

// BillSource is the legislative adapter. *congress.Client implements it.
type BillSource interface {
	SearchBills(ctx context.Context, query string, congress, limit int) []record.Bill
	GetBill(ctx context.Context, congress int, billType, number string) (record.Bill, bool)
	GetRecentBills(ctx context.Context, congress, limit int) []record.Bill
	GetCommittees(ctx context.Context, congress int, chamber string) []record.Committee
	SearchVotes(ctx context.Context, congress int, chamber string, limit int) []record.Vote
}

// RegulationSource is the regulatory-document adapter.
// *federalregister.Client implements it.
type RegulationSource interface {
	SearchDocuments(ctx context.Context, query string, limit int) []record.Document
	GetDocument(ctx context.Context, number string) (record.Document, bool)
	GetRecentDocuments(ctx context.Context, limit int) []record.Document
}

// CodeSource is the code-section adapter. *uscode.Client implements it.
type CodeSource interface {
	SearchCode(ctx context.Context, query string, title, limit int) []record.CodeSection
	GetSection(ctx context.Context, title int, section string) (record.CodeSection, bool)
}

// CommentSource is the public-comment adapter. *regulations.Client
// implements it.
type CommentSource interface {
	SearchComments(ctx context.Context, query string, limit int) []record.Comment
	GetComment(ctx context.Context, id string) (record.Comment, bool)
	GetRecentComments(ctx context.Context, limit int) []record.Comment
}

// OpinionSource is the court-opinion adapter. *courtlistener.Client
// implements it.
type OpinionSource interface {
	SearchOpinions(ctx context.Context, query, court string, limit int) []record.Opinion
	GetRecentOpinions(ctx context.Context, court string, limit int) []record.Opinion
	GetOpinion(ctx context.Context, id int64) (record.Opinion, bool)
	EnrichFullText(ctx context.Context, opinions []record.Opinion, n int) []record.Opinion
}
