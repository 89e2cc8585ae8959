package tools

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/jonwraymond/uslegal/provider"
	"github.com/jonwraymond/uslegal/record"
)

// SearchAllPreview is how many records per source search_all renders.
const SearchAllPreview = 3

const (
	billsTroubleshooting = "**Troubleshooting:**\n" +
		"- Try broader or different search terms (e.g., \"border\" instead of \"immigration\")\n" +
		"- Verify Congress.gov API key is set (CONGRESS_API_KEY)\n" +
		"- Try a different Congress session (e.g., 118 instead of 119)\n" +
		"- The API may have returned results but they were filtered for low relevance\n" +
		"- Note: Some topics may have limited federal legislation\n\n" +
		"**Tip:** Use `get_recent_bills` to see recent legislation regardless of topic."

	recentBillsTroubleshooting = "**Troubleshooting:**\n" +
		"- Verify Congress.gov API key is set (CONGRESS_API_KEY)\n" +
		"- Try a different Congress number (e.g., 119 for current)\n" +
		"- API may be temporarily unavailable"

	regulationsTroubleshooting = "**Troubleshooting:**\n" +
		"- Try broader or different search terms\n" +
		"- The Federal Register API may be temporarily unavailable\n\n" +
		"**Tip:** Use `get_recent_regulations` to see the latest documents regardless of topic."

	opinionsTroubleshooting = "**Troubleshooting:**\n" +
		"- Try different search terms or broader keywords\n" +
		"- Verify CourtListener API key is set (COURT_LISTENER_API_KEY)\n" +
		"- Try specific court filters (e.g., \"scotus\" for Supreme Court)\n" +
		"- Note: Some topics may have limited federal court cases"

	recentOpinionsTroubleshooting = "**Troubleshooting:**\n" +
		"- Verify CourtListener API key is set (COURT_LISTENER_API_KEY)\n" +
		"- Try without court filter or use different court code\n" +
		"- API may be temporarily unavailable"

	votesTroubleshooting = "**Troubleshooting:**\n" +
		"- Vote listings require a Congress.gov API key (CONGRESS_API_KEY)\n" +
		"- Try a different Congress number or chamber\n" +
		"- API may be temporarily unavailable"

	commentsTroubleshooting = "**Troubleshooting:**\n" +
		"- Verify Regulations.gov API key is set (REGULATIONS_GOV_API_KEY); this source requires one\n" +
		"- Try broader or different search terms\n" +
		"- API may be temporarily unavailable"
)

// listing renders the common "header, count, numbered items" layout, or the
// header with an empty message when there are no items.
func listing(header string, items []string, empty string) string {
	if len(items) == 0 {
		return header + "\n\n" + empty
	}
	return fmt.Sprintf("%s\n\nFound %d result(s)\n\n%s", header, len(items), strings.Join(items, "\n"))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func billItem(i int, b record.Bill) string {
	status := "No status"
	if b.LatestAction != nil && b.LatestAction.Text != "" {
		status = b.LatestAction.Text
	}
	return fmt.Sprintf("%d. **%s**\n   %s %s - %s\n   %s\n", i+1, b.Title, b.Type, b.Number, status, b.URL)
}

func formatBills(header string, bills []record.Bill, empty string) string {
	items := make([]string, len(bills))
	for i, b := range bills {
		items[i] = billItem(i, b)
	}
	return listing(header, items, empty)
}

func formatBill(b record.Bill) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s %s (%d)**\n\n", b.Type, b.Number, b.Congress)
	fmt.Fprintf(&sb, "**Title:** %s\n", b.Title)
	if b.ShortTitle != "" {
		fmt.Fprintf(&sb, "**Short title:** %s\n", b.ShortTitle)
	}
	if b.IntroducedDate != "" {
		fmt.Fprintf(&sb, "**Introduced:** %s\n", b.IntroducedDate)
	}
	if len(b.Sponsors) > 0 {
		names := make([]string, 0, len(b.Sponsors))
		for _, s := range b.Sponsors {
			name := s.Name()
			if s.Party != "" || s.State != "" {
				name = fmt.Sprintf("%s [%s-%s]", name, s.Party, s.State)
			}
			names = append(names, name)
		}
		fmt.Fprintf(&sb, "**Sponsors:** %s\n", strings.Join(names, ", "))
	}
	if b.LatestAction != nil {
		fmt.Fprintf(&sb, "**Latest action:** %s %s\n", b.LatestAction.Date, b.LatestAction.Text)
	}
	if len(b.Subjects) > 0 {
		fmt.Fprintf(&sb, "**Subjects:** %s\n", strings.Join(b.Subjects, ", "))
	}
	if b.Summary != "" {
		fmt.Fprintf(&sb, "\n**Summary:**\n%s\n", b.Summary)
	}
	fmt.Fprintf(&sb, "\n%s\n", b.URL)
	return sb.String()
}

func documentItem(i int, d record.Document) string {
	agency := "Unknown agency"
	if len(d.AgencyNames) > 0 {
		agency = d.AgencyNames[0]
	}
	return fmt.Sprintf("%d. **%s**\n   %s - %s\n   %s\n", i+1, d.Title, d.DocumentNumber, agency, d.HTMLURL)
}

func formatDocuments(header string, docs []record.Document, empty string) string {
	items := make([]string, len(docs))
	for i, d := range docs {
		items[i] = documentItem(i, d)
	}
	return listing(header, items, empty)
}

func formatDocument(d record.Document) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s**\n\n", d.Title)
	fmt.Fprintf(&sb, "**Document number:** %s\n", d.DocumentNumber)
	if d.DocumentType != "" {
		fmt.Fprintf(&sb, "**Type:** %s\n", d.DocumentType)
	}
	if len(d.AgencyNames) > 0 {
		fmt.Fprintf(&sb, "**Agencies:** %s\n", strings.Join(d.AgencyNames, ", "))
	}
	if d.PublicationDate != "" {
		fmt.Fprintf(&sb, "**Published:** %s\n", d.PublicationDate)
	}
	if d.EffectiveDate != "" {
		fmt.Fprintf(&sb, "**Effective:** %s\n", d.EffectiveDate)
	}
	if d.Abstract != "" {
		fmt.Fprintf(&sb, "\n**Abstract:**\n%s\n", d.Abstract)
	}
	for _, s := range d.Sections {
		fmt.Fprintf(&sb, "\n**%s**\n%s\n", orDefault(s.Title, "Section"), s.Content)
	}
	fmt.Fprintf(&sb, "\n%s\n", orDefault(d.HTMLURL, d.PDFURL))
	return sb.String()
}

func opinionItem(i int, o record.Opinion) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d. **%s", i+1, o.CaseName)
	if o.CaseNameFull != "" {
		fmt.Fprintf(&sb, " (%s)", o.CaseNameFull)
	}
	sb.WriteString("**\n")
	fmt.Fprintf(&sb, "   Court: %s | Date: %s\n", o.Court, o.DateFiled)
	if o.Citation != "" {
		fmt.Fprintf(&sb, "   Citation: %s\n", o.Citation)
	}
	if len(o.Judges) > 0 {
		fmt.Fprintf(&sb, "   Judges: %s\n", strings.Join(o.Judges, ", "))
	}
	fmt.Fprintf(&sb, "   Status: %s\n", o.PrecedentialStatus)
	if excerpt := Excerpt(o.Text); excerpt != "" {
		fmt.Fprintf(&sb, "   \n   **Excerpt from Opinion:**\n   %s\n", excerpt)
	} else {
		sb.WriteString("   \n   *Full text not available in search results. See link below for complete opinion.*\n")
	}
	fmt.Fprintf(&sb, "   Full text: %s\n", o.URL)
	return sb.String()
}

func formatOpinions(header string, opinions []record.Opinion, empty string) string {
	if len(opinions) == 0 {
		return header + "\n\n" + empty
	}
	items := make([]string, len(opinions))
	for i, o := range opinions {
		items[i] = opinionItem(i, o)
	}
	return fmt.Sprintf("%s\n\nFound %d result(s)\n\n%s", header, len(opinions), strings.Join(items, "\n\n"))
}

func formatCommittees(committees []record.Committee) string {
	items := make([]string, len(committees))
	for i, c := range committees {
		items[i] = fmt.Sprintf("%d. **%s**\n   %s - %s\n   %s\n",
			i+1, c.Name, orDefault(c.Chamber, "N/A"), orDefault(c.CommitteeType, "N/A"), c.URL)
	}
	return listing("**Congress Committees**", items, "No committees found.")
}

func voteItem(i int, v record.Vote) string {
	title := orDefault(v.Title, v.Question)
	tally := v.Tally()
	counts := make([]string, 0, len(tally))
	for _, pos := range slices.Sorted(maps.Keys(tally)) {
		counts = append(counts, fmt.Sprintf("%s %d", pos, tally[pos]))
	}
	line := fmt.Sprintf("%d. **Roll %d: %s**\n   %s %s - %s\n",
		i+1, v.RollNumber, orDefault(title, "Untitled vote"),
		orDefault(v.Chamber, "N/A"), orDefault(v.Date, "date unknown"), orDefault(v.Result, "No result"))
	if len(counts) > 0 {
		line += "   " + strings.Join(counts, ", ") + "\n"
	}
	if v.URL != "" {
		line += "   " + v.URL + "\n"
	}
	return line
}

func formatVotes(header string, votes []record.Vote) string {
	items := make([]string, len(votes))
	for i, v := range votes {
		items[i] = voteItem(i, v)
	}
	return listing(header, items, "No roll-call votes found.\n\n"+votesTroubleshooting)
}

func codeItem(i int, c record.CodeSection) string {
	text := c.Text
	if r := []rune(text); len(r) > 300 {
		text = strings.TrimSpace(string(r[:300])) + "..."
	}
	return fmt.Sprintf("%d. **%s**\n   %s\n   %s\n", i+1, c.Key(), text, c.URL)
}

func formatCodeSections(header string, sections []record.CodeSection) string {
	items := make([]string, len(sections))
	for i, c := range sections {
		items[i] = codeItem(i, c)
	}
	return listing(header, items, "No code sections found. The US Code service may be slow or unavailable; try again or narrow by title.")
}

func formatCodeSection(c record.CodeSection) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s**\n\n", c.Key())
	if c.LastUpdated != "" {
		fmt.Fprintf(&sb, "**Last updated:** %s\n\n", c.LastUpdated)
	}
	sb.WriteString(orDefault(c.Text, "*Section text not available.*"))
	fmt.Fprintf(&sb, "\n\n%s\n", c.URL)
	return sb.String()
}

func commentItem(i int, c record.Comment) string {
	who := orDefault(c.SubmitterName, "Anonymous")
	if c.Organization != "" {
		who += " (" + c.Organization + ")"
	}
	text := c.Comment
	if r := []rune(text); len(r) > 300 {
		text = strings.TrimSpace(string(r[:300])) + "..."
	}
	return fmt.Sprintf("%d. **%s** - %s\n   Posted: %s | Docket document: %s\n   %s\n",
		i+1, c.ID, who, orDefault(c.PostedDate, "N/A"), orDefault(c.DocumentID, "N/A"), text)
}

func formatComments(header string, comments []record.Comment) string {
	items := make([]string, len(comments))
	for i, c := range comments {
		items[i] = commentItem(i, c)
	}
	return listing(header, items, "No comments found.\n\n"+commentsTroubleshooting)
}

func formatComment(c record.Comment) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**Comment %s**\n\n", c.ID)
	fmt.Fprintf(&sb, "**Submitter:** %s\n", orDefault(c.SubmitterName, "Anonymous"))
	if c.Organization != "" {
		fmt.Fprintf(&sb, "**Organization:** %s\n", c.Organization)
	}
	if c.AgencyID != "" {
		fmt.Fprintf(&sb, "**Agency:** %s\n", c.AgencyID)
	}
	if c.DocumentID != "" {
		fmt.Fprintf(&sb, "**Document:** %s\n", c.DocumentID)
	}
	if c.PostedDate != "" {
		fmt.Fprintf(&sb, "**Posted:** %s\n", c.PostedDate)
	}
	fmt.Fprintf(&sb, "\n%s\n", orDefault(c.Comment, "*No comment text.*"))
	return sb.String()
}

func formatComposite(query string, c record.Composite) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**Comprehensive US Legal Search Results for \"%s\"**\n\n", query)
	fmt.Fprintf(&sb, "- Bills: %d\n- Regulations: %d\n- Court Opinions: %d\n\n", len(c.Bills), len(c.Regulations), len(c.Opinions))
	sb.WriteString("**Top Results:**\n\n")

	var sections []string
	if len(c.Bills) > 0 {
		items := make([]string, 0, SearchAllPreview)
		for i, b := range c.Bills[:min(SearchAllPreview, len(c.Bills))] {
			items = append(items, fmt.Sprintf("%d. **%s** (Bill)\n   %s %s\n   %s\n", i+1, b.Title, b.Type, b.Number, b.URL))
		}
		sections = append(sections, fmt.Sprintf("**Congress Bills (%d):**\n%s", len(c.Bills), strings.Join(items, "\n")))
	}
	if len(c.Regulations) > 0 {
		items := make([]string, 0, SearchAllPreview)
		for i, d := range c.Regulations[:min(SearchAllPreview, len(c.Regulations))] {
			items = append(items, fmt.Sprintf("%d. **%s** (Regulation)\n   %s\n   %s\n", i+1, d.Title, d.DocumentNumber, d.HTMLURL))
		}
		sections = append(sections, fmt.Sprintf("**Federal Register (%d):**\n%s", len(c.Regulations), strings.Join(items, "\n")))
	}
	if len(c.Opinions) > 0 {
		items := make([]string, 0, SearchAllPreview)
		for i, o := range c.Opinions[:min(SearchAllPreview, len(c.Opinions))] {
			items = append(items, fmt.Sprintf("%d. **%s** (Court Case)\n   %s - %s\n   %s\n", i+1, o.CaseName, o.Court, o.DateFiled, o.URL))
		}
		sections = append(sections, fmt.Sprintf("**Court Opinions (%d):**\n%s", len(c.Opinions), strings.Join(items, "\n")))
	}

	if len(sections) == 0 {
		sb.WriteString("No results found across available sources.")
		return sb.String()
	}
	sb.WriteString(strings.Join(sections, "\n\n"))
	return sb.String()
}

func formatProviders(list []provider.Provider) string {
	items := make([]string, len(list))
	for i, p := range list {
		line := fmt.Sprintf("%d. **%s** (`%s`)\n   Status: %s\n   %s\n", i+1, p.Name, p.ID, p.Status(), p.BaseURL)
		if p.CredentialEnv != "" {
			line += fmt.Sprintf("   Credential: %s\n", p.CredentialEnv)
		}
		items[i] = line
	}
	return listing("**US Legal Data Sources**", items, "No sources configured.")
}

func notFound(what string) string {
	return fmt.Sprintf("**Not found:** %s\n\nThe source returned no record for this identifier, or it is temporarily unavailable.", what)
}
