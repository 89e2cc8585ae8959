package record

import (
	"fmt"
	"strconv"
	"strings"
)

// Bill is a bill or resolution introduced in Congress.
type Bill struct {
	Congress       int       `json:"congress"`
	Type           string    `json:"type"`
	Number         string    `json:"number"`
	Title          string    `json:"title"`
	ShortTitle     string    `json:"short_title,omitempty"`
	Summary        string    `json:"summary,omitempty"`
	URL            string    `json:"url"`
	IntroducedDate string    `json:"introduced_date,omitempty"`
	LatestAction   *Action   `json:"latest_action,omitempty"`
	Subjects       []string  `json:"subjects,omitempty"`
	Sponsors       []Sponsor `json:"sponsors,omitempty"`
}

// Action is a dated legislative action.
type Action struct {
	Date string `json:"action_date,omitempty"`
	Text string `json:"text,omitempty"`
}

// Sponsor identifies a member of Congress sponsoring a bill.
type Sponsor struct {
	BioguideID string `json:"bioguide_id,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Party      string `json:"party,omitempty"`
	State      string `json:"state,omitempty"`
}

// Name returns the sponsor's display name.
func (s Sponsor) Name() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// BillKey is the identity of a bill.
type BillKey struct {
	Congress int
	Type     string
	Number   string
}

// String renders the key as "118-HR-1234".
func (k BillKey) String() string {
	return fmt.Sprintf("%d-%s-%s", k.Congress, strings.ToUpper(k.Type), k.Number)
}

// Key returns the bill's identity.
func (b Bill) Key() BillKey {
	return BillKey{Congress: b.Congress, Type: b.Type, Number: b.Number}
}

// Document is a Federal Register document.
type Document struct {
	DocumentNumber  string    `json:"document_number"`
	Title           string    `json:"title"`
	Abstract        string    `json:"abstract,omitempty"`
	PublicationDate string    `json:"publication_date,omitempty"`
	EffectiveDate   string    `json:"effective_date,omitempty"`
	AgencyNames     []string  `json:"agency_names,omitempty"`
	DocumentType    string    `json:"document_type,omitempty"`
	PDFURL          string    `json:"pdf_url,omitempty"`
	HTMLURL         string    `json:"html_url,omitempty"`
	JSONURL         string    `json:"json_url,omitempty"`
	Sections        []Section `json:"sections,omitempty"`
}

// Section is a titled block of a Federal Register document.
type Section struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// Key returns the document's identity.
func (d Document) Key() string { return d.DocumentNumber }

// CodeSection is a section of the United States Code.
type CodeSection struct {
	Title       string `json:"title"`
	Section     string `json:"section"`
	Text        string `json:"text,omitempty"`
	URL         string `json:"url,omitempty"`
	LastUpdated string `json:"last_updated,omitempty"`
	Source      string `json:"source,omitempty"`
}

// Key returns the section's identity, e.g. "8 USC 1101".
func (c CodeSection) Key() string {
	return c.Title + " USC " + c.Section
}

// Comment is a public comment from Regulations.gov.
type Comment struct {
	ID            string `json:"id"`
	Comment       string `json:"comment,omitempty"`
	PostedDate    string `json:"posted_date,omitempty"`
	AgencyID      string `json:"agency_id,omitempty"`
	DocumentID    string `json:"document_id,omitempty"`
	SubmitterName string `json:"submitter_name,omitempty"`
	Organization  string `json:"organization,omitempty"`
}

// Key returns the comment's identity.
func (c Comment) Key() string { return c.ID }

// Opinion is a court opinion from CourtListener.
type Opinion struct {
	ID                 int64       `json:"id"`
	CaseName           string      `json:"case_name"`
	CaseNameFull       string      `json:"case_name_full,omitempty"`
	DateFiled          string      `json:"date_filed,omitempty"`
	DateModified       string      `json:"date_modified,omitempty"`
	Court              string      `json:"court,omitempty"`
	CourtID            string      `json:"court_id,omitempty"`
	Jurisdiction       string      `json:"jurisdiction,omitempty"`
	Citation           string      `json:"citation,omitempty"`
	CitationCount      *int        `json:"citation_count,omitempty"`
	PrecedentialStatus string      `json:"precedential_status,omitempty"`
	URL                string      `json:"url,omitempty"`
	AbsoluteURL        string      `json:"absolute_url,omitempty"`
	DownloadURL        string      `json:"download_url,omitempty"`
	Text               OpinionText `json:"text,omitzero"`
	Judges             []string    `json:"judges,omitempty"`
	Docket             string      `json:"docket,omitempty"`
	DocketNumber       string      `json:"docket_number,omitempty"`
	Slug               string      `json:"slug,omitempty"`
}

// OpinionText holds the alternative encodings CourtListener may supply for
// an opinion's body.
type OpinionText struct {
	Plain        string `json:"plain_text,omitempty"`
	HTML         string `json:"html,omitempty"`
	HTMLLawbox   string `json:"html_lawbox,omitempty"`
	HTMLColumbia string `json:"html_columbia,omitempty"`
	HTMLAnon2020 string `json:"html_anon_2020,omitempty"`
}

// Empty reports whether no encoding is present.
func (t OpinionText) Empty() bool {
	return t.Plain == "" && t.HTML == "" && t.HTMLLawbox == "" &&
		t.HTMLColumbia == "" && t.HTMLAnon2020 == ""
}

// HTMLBody returns the first available HTML encoding.
func (t OpinionText) HTMLBody() string {
	for _, body := range []string{t.HTML, t.HTMLLawbox, t.HTMLColumbia, t.HTMLAnon2020} {
		if body != "" {
			return body
		}
	}
	return ""
}

// Merge fills absent encodings in t from other. Present encodings are kept.
func (t OpinionText) Merge(other OpinionText) OpinionText {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}
	return OpinionText{
		Plain:        pick(t.Plain, other.Plain),
		HTML:         pick(t.HTML, other.HTML),
		HTMLLawbox:   pick(t.HTMLLawbox, other.HTMLLawbox),
		HTMLColumbia: pick(t.HTMLColumbia, other.HTMLColumbia),
		HTMLAnon2020: pick(t.HTMLAnon2020, other.HTMLAnon2020),
	}
}

// Key returns the opinion's identity.
func (o Opinion) Key() int64 { return o.ID }

// Committee is a congressional committee.
type Committee struct {
	SystemCode    string            `json:"system_code"`
	Name          string            `json:"name"`
	URL           string            `json:"url,omitempty"`
	Chamber       string            `json:"chamber,omitempty"`
	CommitteeType string            `json:"committee_type,omitempty"`
	Subcommittees []SubcommitteeRef `json:"subcommittees,omitempty"`
}

// SubcommitteeRef points at a subcommittee of a Committee.
type SubcommitteeRef struct {
	SystemCode string `json:"system_code"`
	Name       string `json:"name"`
	URL        string `json:"url,omitempty"`
}

// Vote is a roll-call vote in one chamber.
type Vote struct {
	Congress   int          `json:"congress,omitempty"`
	Session    int          `json:"session,omitempty"`
	Chamber    string       `json:"chamber,omitempty"`
	RollNumber int          `json:"roll_number"`
	Date       string       `json:"vote_date,omitempty"`
	Question   string       `json:"vote_question,omitempty"`
	Result     string       `json:"vote_result,omitempty"`
	Title      string       `json:"vote_title,omitempty"`
	Type       string       `json:"vote_type,omitempty"`
	URL        string       `json:"url,omitempty"`
	Members    []MemberVote `json:"members,omitempty"`
}

// MemberVote is how one member voted.
type MemberVote struct {
	Member   Sponsor `json:"member"`
	Position string  `json:"vote_position,omitempty"`
}

// Key renders the vote as "118-House-2-123". Missing parts are left out.
func (v Vote) Key() string {
	parts := make([]string, 0, 4)
	if v.Congress > 0 {
		parts = append(parts, strconv.Itoa(v.Congress))
	}
	if v.Chamber != "" {
		parts = append(parts, v.Chamber)
	}
	if v.Session > 0 {
		parts = append(parts, strconv.Itoa(v.Session))
	}
	parts = append(parts, strconv.Itoa(v.RollNumber))
	return strings.Join(parts, "-")
}

// Tally counts member positions, e.g. {"Yea": 218, "Nay": 210}.
func (v Vote) Tally() map[string]int {
	tally := map[string]int{}
	for _, m := range v.Members {
		if m.Position != "" {
			tally[m.Position]++
		}
	}
	return tally
}

// Composite is the per-source result of a fan-out search. Every list is
// non-nil so all keys serialize, even for sources that returned nothing or
// were not queried.
type Composite struct {
	Bills        []Bill        `json:"bills"`
	Regulations  []Document    `json:"regulations"`
	CodeSections []CodeSection `json:"code_sections"`
	Comments     []Comment     `json:"comments"`
	Opinions     []Opinion     `json:"opinions"`
}

// NewComposite returns a Composite with every list initialized and empty.
func NewComposite() Composite {
	return Composite{
		Bills:        []Bill{},
		Regulations:  []Document{},
		CodeSections: []CodeSection{},
		Comments:     []Comment{},
		Opinions:     []Opinion{},
	}
}

// Total returns the number of records across all sources.
func (c Composite) Total() int {
	return len(c.Bills) + len(c.Regulations) + len(c.CodeSections) + len(c.Comments) + len(c.Opinions)
}
