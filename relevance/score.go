package relevance

import (
	"strings"

	"github.com/jonwraymond/uslegal/record"
)

// query is a query prepared once per record scoring pass.
type query struct {
	lower  string
	tokens []string
}

func (s Scorer) prepare(q string) query {
	return query{lower: strings.ToLower(q), tokens: s.Tokens(q)}
}

func (s Scorer) field(text string, q query, weight float64) float64 {
	if text == "" || weight == 0 {
		return 0
	}
	return s.match(strings.ToLower(text), q.lower, q.tokens) * weight
}

// Bill scores a bill: weighted matches over title, short title, summary and
// latest action, plus a flat bonus per subject containing any query token.
func (s Scorer) Bill(b record.Bill, q string) float64 {
	prepared := s.prepare(q)
	if len(prepared.tokens) == 0 {
		return 0
	}
	w := s.weights

	score := s.field(b.Title, prepared, w.BillTitle)
	score += s.field(b.ShortTitle, prepared, w.BillShortTitle)
	score += s.field(b.Summary, prepared, w.BillSummary)
	if b.LatestAction != nil {
		score += s.field(b.LatestAction.Text, prepared, w.BillLatestAction)
	}

	// One bonus per subject, however many tokens it matches.
	for _, subject := range b.Subjects {
		if containsAny(strings.ToLower(subject), prepared.tokens) {
			score += w.BillSubject
		}
	}
	return score
}

// Document scores a Federal Register document: weighted matches over title
// and abstract, plus a flat bonus per agency containing any query token.
func (s Scorer) Document(d record.Document, q string) float64 {
	prepared := s.prepare(q)
	if len(prepared.tokens) == 0 {
		return 0
	}
	w := s.weights

	score := s.field(d.Title, prepared, w.DocumentTitle)
	score += s.field(d.Abstract, prepared, w.DocumentAbstract)

	for _, agency := range d.AgencyNames {
		if containsAny(strings.ToLower(agency), prepared.tokens) {
			score += w.DocumentAgency
		}
	}
	return score
}
