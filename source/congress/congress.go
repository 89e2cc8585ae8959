// Package congress adapts the Congress.gov v3 API: bills, roll-call votes
// and committees.
package congress

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/jonwraymond/uslegal/record"
	"github.com/jonwraymond/uslegal/relevance"
	"github.com/jonwraymond/uslegal/source"
)

const (
	// Name identifies this source in diagnostics and metrics.
	Name = "congress"

	// DefaultBaseURL is the Congress.gov API root.
	DefaultBaseURL = "https://api.congress.gov/v3"

	// EnvAPIKey names the configuration value holding the API key.
	EnvAPIKey = "CONGRESS_API_KEY"

	// overFetchFactor and maxFetch bound the candidate pool of a search.
	overFetchFactor = 5
	maxFetch        = 250

	committeePageSize = 250
)

// Chambers are the committee chambers Congress.gov distinguishes.
var Chambers = []string{"House", "Senate", "Joint"}

// Wire-name variants, in precedence order.
var (
	keyType          = []string{"type", "billType"}
	keyNumber        = []string{"number", "billNumber"}
	keyShortTitle    = []string{"shortTitle", "short_title"}
	keyIntroduced    = []string{"introducedDate", "introduced_date"}
	keyLatestAction  = []string{"latestAction", "latest_action"}
	keyActionDate    = []string{"actionDate", "action_date"}
	keyBioguide      = []string{"bioguideId", "bioguide_id"}
	keyFirstName     = []string{"firstName", "first_name"}
	keyLastName      = []string{"lastName", "last_name"}
	keySystemCode    = []string{"systemCode", "system_code"}
	keyCommitteeType = []string{"committeeTypeCode", "committeeType", "committee_type"}
	keyRollNumber    = []string{"rollNumber", "roll_number", "rollCallNumber"}
	keyVoteDate      = []string{"voteDate", "vote_date", "startDate"}
	keyVoteQuestion  = []string{"voteQuestion", "vote_question", "question"}
	keyVoteResult    = []string{"voteResult", "vote_result", "result"}
	keyVoteTitle     = []string{"voteTitle", "vote_title"}
	keyVoteType      = []string{"voteType", "vote_type"}
	keyVotePosition  = []string{"votePosition", "vote_position", "voteCast"}
	keySession       = []string{"session", "sessionNumber"}
)

// Client queries Congress.gov.
type Client struct {
	src    *source.Client
	scorer relevance.Scorer
}

// New creates a Congress.gov client. The API key is optional; without one
// upstream may reject requests, which is reported as a credential diagnostic.
func New(opts source.Options, scorer relevance.Scorer) (*Client, error) {
	src, err := source.New(source.Spec{
		Name:    Name,
		BaseURL: DefaultBaseURL,
		Credential: source.Credential{
			EnvVar:     EnvAPIKey,
			QueryParam: "api_key",
		},
	}, opts)
	if err != nil {
		return nil, err
	}
	return &Client{src: src, scorer: scorer}, nil
}

// Source returns the underlying HTTP client.
func (c *Client) Source() *source.Client { return c.src }

func billPath(congress int) string {
	if congress > 0 {
		return "/bill/" + strconv.Itoa(congress)
	}
	return "/bill"
}

// SearchBills returns up to limit bills for query, ranked by relevance.
// congress narrows the search to one Congress when positive.
func (c *Client) SearchBills(ctx context.Context, query string, congress, limit int) []record.Bill {
	const op = "search_bills"
	limit = source.Limit(limit)

	params := url.Values{
		"q":      {query},
		"limit":  {strconv.Itoa(min(limit*overFetchFactor, maxFetch))},
		"format": {"json"},
	}
	bills, err := c.listBills(ctx, op, billPath(congress), params)
	if err != nil {
		c.src.Fail(ctx, op, err)
		return []record.Bill{}
	}

	scored := relevance.Rank(bills,
		func(b record.Bill) string { return b.Key().String() },
		func(b record.Bill) float64 { return c.scorer.Bill(b, query) },
	)
	c.logTopScores(ctx, scored)

	out := relevance.Select(scored, limit, c.scorer.Weights().Threshold)
	c.src.Returned(len(out))
	return out
}

// GetRecentBills returns up to limit bills in upstream order, which is most
// recently updated first.
func (c *Client) GetRecentBills(ctx context.Context, congress, limit int) []record.Bill {
	const op = "recent_bills"
	limit = source.Limit(limit)

	params := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"format": {"json"},
	}
	bills, err := c.listBills(ctx, op, billPath(congress), params)
	if err != nil {
		c.src.Fail(ctx, op, err)
		return []record.Bill{}
	}
	if len(bills) > limit {
		bills = bills[:limit]
	}
	c.src.Returned(len(bills))
	return bills
}

// GetBill returns one bill. ok is false when it could not be retrieved.
func (c *Client) GetBill(ctx context.Context, congress int, billType, number string) (record.Bill, bool) {
	const op = "get_bill"
	path := fmt.Sprintf("/bill/%d/%s/%s", congress,
		url.PathEscape(strings.ToLower(billType)), url.PathEscape(number))

	var payload struct {
		Bill json.RawMessage `json:"bill"`
	}
	if err := c.src.GetJSON(ctx, op, path, url.Values{"format": {"json"}}, &payload); err != nil {
		c.src.Fail(ctx, op, err)
		return record.Bill{}, false
	}

	bill, ok := toBill(source.DecodeFields(payload.Bill))
	if !ok {
		c.src.Fail(ctx, op, &source.Error{
			Category: source.CategoryBadData,
			Source:   Name,
			Op:       op,
			Message:  "response has no bill identity",
		})
		return record.Bill{}, false
	}
	c.src.Returned(1)
	return bill, true
}

// SearchVotes returns up to limit roll-call votes in upstream order. congress
// and chamber narrow the listing when set.
func (c *Client) SearchVotes(ctx context.Context, congress int, chamber string, limit int) []record.Vote {
	const op = "search_votes"
	limit = source.Limit(limit)

	params := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"format": {"json"},
	}
	if congress > 0 {
		params.Set("congress", strconv.Itoa(congress))
	}
	if chamber != "" {
		params.Set("chamber", chamber)
	}

	var payload struct {
		Votes json.RawMessage `json:"votes"`
	}
	if err := c.src.GetJSON(ctx, op, "/vote", params, &payload); err != nil {
		c.src.Fail(ctx, op, err)
		return []record.Vote{}
	}
	list, err := c.src.DecodeResults(op, "votes", payload.Votes)
	if err != nil {
		c.src.Fail(ctx, op, err)
		return []record.Vote{}
	}

	out := []record.Vote{}
	for _, f := range list {
		if v, ok := toVote(f); ok {
			out = append(out, v)
		}
		if len(out) == limit {
			break
		}
	}
	c.src.Returned(len(out))
	return out
}

// GetCommittees lists committees. congress and chamber narrow the listing when
// set; Congress.gov only lists a specific Congress per chamber, so a Congress
// without a chamber is fetched once per chamber.
func (c *Client) GetCommittees(ctx context.Context, congress int, chamber string) []record.Committee {
	const op = "committees"

	var paths []string
	switch {
	case congress > 0 && chamber != "":
		paths = []string{fmt.Sprintf("/committee/%d/%s", congress, strings.ToLower(chamber))}
	case congress > 0:
		for _, ch := range Chambers {
			paths = append(paths, fmt.Sprintf("/committee/%d/%s", congress, strings.ToLower(ch)))
		}
	case chamber != "":
		paths = []string{"/committee/" + strings.ToLower(chamber)}
	default:
		paths = []string{"/committee"}
	}

	params := url.Values{
		"limit":  {strconv.Itoa(committeePageSize)},
		"format": {"json"},
	}

	out := []record.Committee{}
	seen := map[string]bool{}
	for _, path := range paths {
		var payload struct {
			Committees json.RawMessage `json:"committees"`
		}
		if err := c.src.GetJSON(ctx, op, path, params, &payload); err != nil {
			c.src.Fail(ctx, op, err)
			continue
		}
		list, err := c.src.DecodeResults(op, "committees", payload.Committees)
		if err != nil {
			c.src.Fail(ctx, op, err)
			continue
		}
		for _, f := range list {
			committee, ok := toCommittee(f)
			if !ok || seen[committee.SystemCode] {
				continue
			}
			seen[committee.SystemCode] = true
			out = append(out, committee)
		}
	}
	c.src.Returned(len(out))
	return out
}

func (c *Client) listBills(ctx context.Context, op, path string, params url.Values) ([]record.Bill, error) {
	var payload struct {
		Bills json.RawMessage `json:"bills"`
	}
	if err := c.src.GetJSON(ctx, op, path, params, &payload); err != nil {
		return nil, err
	}

	raw, err := c.src.DecodeResults(op, "bills", payload.Bills)
	if err != nil {
		return nil, err
	}
	bills := make([]record.Bill, 0, len(raw))
	for _, f := range raw {
		if b, ok := toBill(f); ok {
			bills = append(bills, b)
		}
	}
	return bills, nil
}

func (c *Client) logTopScores(ctx context.Context, scored []relevance.Scored[record.Bill]) {
	logger := c.src.Logger()
	if !logger.Enabled(ctx, slog.LevelDebug) || len(scored) == 0 {
		return
	}
	top := make([]string, 0, 5)
	for _, s := range scored[:min(5, len(scored))] {
		top = append(top, fmt.Sprintf("%s=%.1f", s.Key, s.Score))
	}
	logger.DebugContext(ctx, "bill relevance scores", "candidates", len(scored), "first", top)
}

func toBill(f source.Fields) (record.Bill, bool) {
	if f == nil {
		return record.Bill{}, false
	}
	congress, _ := f.Int("congress")
	bill := record.Bill{
		Congress:       congress,
		Type:           strings.ToUpper(f.String(keyType...)),
		Number:         f.String(keyNumber...),
		Title:          f.String("title"),
		ShortTitle:     f.String(keyShortTitle...),
		URL:            f.String("url"),
		IntroducedDate: f.String(keyIntroduced...),
		Subjects:       f.Strings("subjects"),
	}
	if bill.Congress == 0 || bill.Type == "" || bill.Number == "" {
		return record.Bill{}, false
	}

	if summary := f.Object("summary"); summary != nil {
		bill.Summary = summary.String("text")
	} else {
		bill.Summary = f.String("summary")
	}

	if action := f.Object(keyLatestAction...); action != nil {
		a := record.Action{Date: action.String(keyActionDate...), Text: action.String("text")}
		if a != (record.Action{}) {
			bill.LatestAction = &a
		}
	}

	for _, s := range f.List("sponsors") {
		bill.Sponsors = append(bill.Sponsors, record.Sponsor{
			BioguideID: s.String(keyBioguide...),
			FirstName:  s.String(keyFirstName...),
			LastName:   s.String(keyLastName...),
			Party:      s.String("party"),
			State:      s.String("state"),
		})
	}
	return bill, true
}

func toVote(f source.Fields) (record.Vote, bool) {
	roll, ok := f.Int(keyRollNumber...)
	if !ok || roll <= 0 {
		return record.Vote{}, false
	}
	congress, _ := f.Int("congress")
	session, _ := f.Int(keySession...)
	vote := record.Vote{
		Congress:   congress,
		Session:    session,
		Chamber:    f.String("chamber"),
		RollNumber: roll,
		Date:       f.String(keyVoteDate...),
		Question:   f.String(keyVoteQuestion...),
		Result:     f.String(keyVoteResult...),
		Title:      f.String(keyVoteTitle...),
		Type:       f.String(keyVoteType...),
		URL:        f.String("url"),
	}
	for _, m := range f.List("members") {
		member := m.Object("member")
		if member == nil {
			member = m
		}
		vote.Members = append(vote.Members, record.MemberVote{
			Member: record.Sponsor{
				BioguideID: member.String(keyBioguide...),
				FirstName:  member.String(keyFirstName...),
				LastName:   member.String(keyLastName...),
				Party:      member.String("party"),
				State:      member.String("state"),
			},
			Position: m.String(keyVotePosition...),
		})
	}
	return vote, true
}

func toCommittee(f source.Fields) (record.Committee, bool) {
	code := f.String(keySystemCode...)
	if code == "" {
		return record.Committee{}, false
	}
	committee := record.Committee{
		SystemCode:    code,
		Name:          f.String("name"),
		URL:           f.String("url"),
		Chamber:       f.String("chamber"),
		CommitteeType: f.String(keyCommitteeType...),
	}
	for _, s := range f.List("subcommittees") {
		sub := record.SubcommitteeRef{
			SystemCode: s.String(keySystemCode...),
			Name:       s.String("name"),
			URL:        s.String("url"),
		}
		if sub.SystemCode != "" {
			committee.Subcommittees = append(committee.Subcommittees, sub)
		}
	}
	return committee, true
}
