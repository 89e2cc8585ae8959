package relevance

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/jonwraymond/uslegal/record"
)

func TestTokens_DropsShortTokens(t *testing.T) {
	got := Tokens("  The  US of a  Border ")
	want := []string{"the", "border"}
	if !slices.Equal(got, want) {
		t.Errorf("Tokens() = %v, want %v", got, want)
	}
}

func TestMatchScore_Basic(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  float64
	}{
		{"exact phrase with coverage", "Border security act", "border", 16},
		{"partial coverage", "immigration policy", "immigration reform", 1},
		{"full coverage without phrase", "reform of immigration", "immigration reform", 7},
		{"only short tokens", "an act of congress", "an of", 0},
		{"empty text", "", "border", 0},
		{"empty query", "border", "", 0},
		{"no match", "tax credits", "border", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchScore(tt.text, tt.query); got != tt.want {
				t.Errorf("MatchScore(%q, %q) = %v, want %v", tt.text, tt.query, got, tt.want)
			}
		})
	}
}

func TestMatchScore_CaseSymmetric(t *testing.T) {
	texts := []string{
		"Secure the Border Act",
		"border BORDER border",
		"A bill concerning immigration",
	}
	for _, text := range texts {
		upper := MatchScore(text, "Border")
		lower := MatchScore(text, "border")
		if upper != lower {
			t.Errorf("MatchScore(%q): Border=%v border=%v, want equal", text, upper, lower)
		}
	}
}

func TestMatchScore_RepetitionMonotonicUpToCap(t *testing.T) {
	var scores []float64
	text := ""
	for i := 1; i <= 5; i++ {
		if text != "" {
			text += " "
		}
		text += "tax"
		scores = append(scores, MatchScore(text, "tax"))
	}

	want := []float64{16, 17, 18, 18, 18}
	if !slices.Equal(scores, want) {
		t.Errorf("scores = %v, want %v", scores, want)
	}
	for i := 1; i < len(scores); i++ {
		if scores[i] < scores[i-1] {
			t.Errorf("score decreased from %v to %v at %d repetitions", scores[i-1], scores[i], i+1)
		}
	}
}

func TestScoreBill(t *testing.T) {
	bill := record.Bill{
		Congress: 118,
		Type:     "HR",
		Number:   "1",
		Title:    "Immigration Reform Act",
		Subjects: []string{"Immigration", "Border security and unlawful immigration", "Taxation"},
	}

	// title: (10 phrase + 1 + 1 + 5 coverage) * 4 = 68; two matching subjects = 40
	if got := ScoreBill(bill, "immigration reform"); got != 108 {
		t.Errorf("ScoreBill() = %v, want 108", got)
	}
}

func TestScoreBill_LatestActionWeight(t *testing.T) {
	bill := record.Bill{
		Congress:     118,
		Type:         "S",
		Number:       "9",
		LatestAction: &record.Action{Date: "2024-01-02", Text: "Referred to the border committee"},
	}
	if got := ScoreBill(bill, "border"); got != 24 {
		t.Errorf("ScoreBill() = %v, want 24", got)
	}
}

func TestScore_ZeroWithoutScoredFields(t *testing.T) {
	bill := record.Bill{Congress: 118, Type: "HR", Number: "42", URL: "https://example.test/bill"}
	if got := ScoreBill(bill, "immigration reform"); got != 0 {
		t.Errorf("ScoreBill() = %v, want 0", got)
	}

	doc := record.Document{DocumentNumber: "2024-00001", PDFURL: "https://example.test/doc.pdf"}
	if got := ScoreDocument(doc, "immigration reform"); got != 0 {
		t.Errorf("ScoreDocument() = %v, want 0", got)
	}
}

func TestScoreDocument(t *testing.T) {
	doc := record.Document{
		DocumentNumber: "2024-12345",
		Title:          "Border Enforcement Rule",
		AgencyNames:    []string{"U.S. Customs and Border Protection", "Department of State"},
	}
	// title: (10 + 1 + 5) * 3 = 48; one matching agency = 10
	if got := ScoreDocument(doc, "border"); got != 58 {
		t.Errorf("ScoreDocument() = %v, want 58", got)
	}
}

func TestScorer_CustomWeights(t *testing.T) {
	w := DefaultWeights()
	w.BillSubject = 0
	w.BillTitle = 1
	s := NewScorer(w)

	bill := record.Bill{Title: "border", Subjects: []string{"border"}}
	if got := s.Bill(bill, "border"); got != 16 {
		t.Errorf("Bill() = %v, want 16", got)
	}
}

func TestNewScorer_InvalidWeightsFallBack(t *testing.T) {
	w := DefaultWeights()
	w.OccurrenceCap = 0
	if err := w.Validate(); !errors.Is(err, ErrInvalidWeights) {
		t.Fatalf("Validate() error = %v, want ErrInvalidWeights", err)
	}
	if got := NewScorer(w).Weights(); got != DefaultWeights() {
		t.Errorf("NewScorer with invalid weights = %+v, want defaults", got)
	}
}

func scoredInts(scores ...float64) []Scored[int] {
	out := make([]Scored[int], len(scores))
	for i, s := range scores {
		out[i] = Scored[int]{Item: i, Key: fmt.Sprint(i), Score: s}
	}
	return out
}

func TestSelect_SortedUniqueBounded(t *testing.T) {
	scored := scoredInts(3, 9, 1, 12, 7, 0, 5)

	for limit := 1; limit <= 9; limit++ {
		got := Select(scored, limit, 5)
		if want := min(limit, len(scored)); len(got) != want {
			t.Fatalf("limit %d: len = %d, want %d", limit, len(got), want)
		}
		seen := map[int]bool{}
		for i, item := range got {
			if seen[item] {
				t.Errorf("limit %d: item %d returned twice", limit, item)
			}
			seen[item] = true
			if i > 0 && scored[got[i-1]].Score < scored[item].Score {
				t.Errorf("limit %d: not sorted descending at %d", limit, i)
			}
		}
	}
}

func TestSelect_HighRelevanceFirst(t *testing.T) {
	got := Select(scoredInts(3, 9, 1, 12, 7), 2, 5)
	if want := []int{3, 1}; !slices.Equal(got, want) {
		t.Errorf("Select() = %v, want %v", got, want)
	}
}

func TestSelect_FallbackWhenAllBelowThreshold(t *testing.T) {
	got := Select(scoredInts(1, 0, 4, 2, 3), 3, 5)
	if want := []int{2, 4, 3}; !slices.Equal(got, want) {
		t.Errorf("Select() = %v, want %v", got, want)
	}
}

func TestSelect_TiesKeepInputOrder(t *testing.T) {
	got := Select(scoredInts(2, 2, 8, 2), 4, 5)
	if want := []int{2, 0, 1, 3}; !slices.Equal(got, want) {
		t.Errorf("Select() = %v, want %v", got, want)
	}
}

func TestSelect_SkipsDuplicateKeys(t *testing.T) {
	scored := []Scored[string]{
		{Item: "a-low", Key: "a", Score: 1},
		{Item: "b", Key: "b", Score: 6},
		{Item: "a-high", Key: "a", Score: 9},
	}
	got := Select(scored, 10, 5)
	if want := []string{"a-high", "b"}; !slices.Equal(got, want) {
		t.Errorf("Select() = %v, want %v", got, want)
	}
}

func TestSelect_Empty(t *testing.T) {
	if got := Select[int](nil, 10, 5); got == nil || len(got) != 0 {
		t.Errorf("Select(nil) = %v, want empty non-nil slice", got)
	}
	if got := Select(scoredInts(9), 0, 5); len(got) != 0 {
		t.Errorf("Select(limit 0) = %v, want empty", got)
	}
}

func TestSelect_ImmigrationReformScenario(t *testing.T) {
	bills := make([]record.Bill, 0, 12)
	for i := range 12 {
		title := fmt.Sprintf("Highway Funding Act of %d", 2000+i)
		if i == 4 || i == 7 || i == 10 {
			title = fmt.Sprintf("Immigration Reform Act of %d", 2000+i)
		}
		bills = append(bills, record.Bill{Congress: 118, Type: "HR", Number: fmt.Sprint(i + 1), Title: title})
	}

	scored := Rank(bills,
		func(b record.Bill) string { return b.Key().String() },
		func(b record.Bill) float64 { return ScoreBill(b, "immigration reform") },
	)

	high := 0
	for _, s := range scored {
		if s.Score >= DefaultWeights().Threshold {
			high++
		}
	}
	if high != 3 {
		t.Fatalf("high relevance count = %d, want 3", high)
	}

	got := Select(scored, 10, DefaultWeights().Threshold)
	if len(got) != 10 {
		t.Fatalf("len = %d, want 10", len(got))
	}
	for i, want := range []string{"5", "8", "11"} {
		if got[i].Number != want {
			t.Errorf("result %d = bill %s, want bill %s", i, got[i].Number, want)
		}
	}
	// Remaining slots keep upstream order.
	if got[3].Number != "1" || got[9].Number != "9" {
		t.Errorf("fallback order = %s..%s, want 1..9", got[3].Number, got[9].Number)
	}
}
