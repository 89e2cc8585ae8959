package uslegal

import (
	"context"
	"sync"

	"github.com/jonwraymond/uslegal/record"
)

// limits records the limit each fake search received.
type limits struct {
	mu   sync.Mutex
	seen map[Source]int
}

func (l *limits) record(src Source, n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seen == nil {
		l.seen = map[Source]int{}
	}
	l.seen[src] = n
}

func (l *limits) get(src Source) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n, ok := l.seen[src]
	return n, ok
}

type fakeBills struct {
	limits *limits
	bills  []record.Bill
}

func (f *fakeBills) SearchBills(_ context.Context, _ string, _, limit int) []record.Bill {
	f.limits.record(SourceBills, limit)
	return f.bills[:min(limit, len(f.bills))]
}

func (f *fakeBills) GetBill(context.Context, int, string, string) (record.Bill, bool) {
	return record.Bill{}, false
}

func (f *fakeBills) GetRecentBills(context.Context, int, int) []record.Bill { return f.bills }

func (f *fakeBills) GetCommittees(context.Context, int, string) []record.Committee {
	return []record.Committee{}
}

func (f *fakeBills) SearchVotes(context.Context, int, string, int) []record.Vote {
	return []record.Vote{}
}

type fakeRegulations struct {
	limits *limits
	docs   []record.Document
}

func (f *fakeRegulations) SearchDocuments(_ context.Context, _ string, limit int) []record.Document {
	f.limits.record(SourceRegulations, limit)
	return f.docs[:min(limit, len(f.docs))]
}

func (f *fakeRegulations) GetDocument(context.Context, string) (record.Document, bool) {
	return record.Document{}, false
}

func (f *fakeRegulations) GetRecentDocuments(context.Context, int) []record.Document { return f.docs }

type fakeCode struct{ limits *limits }

func (f *fakeCode) SearchCode(_ context.Context, _ string, _, limit int) []record.CodeSection {
	f.limits.record(SourceCode, limit)
	return []record.CodeSection{{Title: "8", Section: "1158"}}
}

func (f *fakeCode) GetSection(context.Context, int, string) (record.CodeSection, bool) {
	return record.CodeSection{}, false
}

// outageComments behaves like an adapter whose upstream is down.
type outageComments struct{ limits *limits }

func (f *outageComments) SearchComments(_ context.Context, _ string, limit int) []record.Comment {
	f.limits.record(SourceComments, limit)
	return nil
}

func (f *outageComments) GetComment(context.Context, string) (record.Comment, bool) {
	return record.Comment{}, false
}

func (f *outageComments) GetRecentComments(context.Context, int) []record.Comment { return nil }

type fakeOpinions struct {
	limits   *limits
	opinions []record.Opinion
}

func (f *fakeOpinions) SearchOpinions(_ context.Context, _, _ string, limit int) []record.Opinion {
	f.limits.record(SourceOpinions, limit)
	return f.opinions[:min(limit, len(f.opinions))]
}

func (f *fakeOpinions) GetRecentOpinions(context.Context, string, int) []record.Opinion {
	return f.opinions
}

func (f *fakeOpinions) GetOpinion(context.Context, int64) (record.Opinion, bool) {
	return record.Opinion{}, false
}

func (f *fakeOpinions) EnrichFullText(_ context.Context, ops []record.Opinion, _ int) []record.Opinion {
	return ops
}

func newFakeClient(l *limits, opts Options) (*Client, error) {
	bills := make([]record.Bill, 5)
	for i := range bills {
		bills[i] = record.Bill{Congress: 118, Type: "HR", Number: string(rune('1' + i)), Title: "Bill"}
	}
	opts.Bills = &fakeBills{limits: l, bills: bills}
	opts.Regulations = &fakeRegulations{limits: l, docs: []record.Document{{DocumentNumber: "2024-1"}, {DocumentNumber: "2024-2"}}}
	opts.Code = &fakeCode{limits: l}
	opts.Comments = &outageComments{limits: l}
	opts.Opinions = &fakeOpinions{limits: l, opinions: []record.Opinion{{ID: 1, CaseName: "A v. B"}}}
	return New(opts)
}
