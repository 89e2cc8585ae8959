package courtlistener

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/uslegal/record"
	"github.com/jonwraymond/uslegal/source"
)

func newClient(t *testing.T, h http.HandlerFunc, key string) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(source.Options{BaseURL: srv.URL, APIKey: key, Reporter: source.Discard})
	require.NoError(t, err)
	return c
}

func TestSearchOpinions_FieldVariants(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/search/", r.URL.Path)
		assert.Equal(t, "o", q.Get("type"))
		assert.Equal(t, "miranda", q.Get("q"))
		assert.Equal(t, "scotus", q.Get("court"))
		assert.Equal(t, "Token secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"results":[
			{"id":101,"caseName":"Miranda v. Arizona","dateFiled":"1966-06-13","court":"Supreme Court of the United States",
			 "court_id":"scotus","citation":["384 U.S. 436","86 S. Ct. 1602"],"citeCount":0,"status":"Precedential",
			 "absolute_url":"/opinion/101/miranda-v-arizona/","judge":"Warren, Black, Douglas","docketNumber":"759"},
			{"id":102,"case_name":"Dickerson v. United States","date_filed":"2000-06-26","citation":"530 U.S. 428",
			 "judges":["Rehnquist"],"plain_text":"Opinion text"},
			{"caseName":"No id"}
		]}`))
	}, "secret")

	got := c.SearchOpinions(context.Background(), "miranda", "scotus", 10)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, "Miranda v. Arizona", first.CaseName)
	assert.Equal(t, "384 U.S. 436; 86 S. Ct. 1602", first.Citation)
	require.NotNil(t, first.CitationCount)
	assert.Equal(t, 0, *first.CitationCount)
	assert.Equal(t, "Precedential", first.PrecedentialStatus)
	assert.Equal(t, "https://www.courtlistener.com/opinion/101/miranda-v-arizona/", first.URL)
	assert.Equal(t, first.URL, first.AbsoluteURL)
	assert.Equal(t, []string{"Warren", "Black", "Douglas"}, first.Judges)
	assert.Equal(t, "759", first.DocketNumber)

	second := got[1]
	assert.Equal(t, "Dickerson v. United States", second.CaseName)
	assert.Equal(t, "530 U.S. 428", second.Citation)
	assert.Nil(t, second.CitationCount)
	assert.Equal(t, "https://www.courtlistener.com/opinion/102/", second.URL)
	assert.Equal(t, "Opinion text", second.Text.Plain)
}

func TestSearchOpinions_Anonymous(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.False(t, r.URL.Query().Has("court"))
		_, _ = w.Write([]byte(`{"results":[]}`))
	}, "")

	got := c.SearchOpinions(context.Background(), "miranda", "", 5)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGetRecentOpinions_Truncates(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dateFiled desc", r.URL.Query().Get("order_by"))
		results := make([]string, 0, 20)
		for i := 1; i <= 20; i++ {
			results = append(results, fmt.Sprintf(`{"id":%d,"caseName":"Case %d"}`, i, i))
		}
		fmt.Fprintf(w, `{"results":[%s]}`, strings.Join(results, ","))
	}, "")

	got := c.GetRecentOpinions(context.Background(), "", 3)
	require.Len(t, got, 3)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestGetOpinion(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/opinions/101/", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":101,"html_lawbox":"<p>Lawbox</p>","absolute_url":"https://www.courtlistener.com/opinion/101/x/"}`))
	}, "")

	op, ok := c.GetOpinion(context.Background(), 101)
	require.True(t, ok)
	assert.Equal(t, "<p>Lawbox</p>", op.Text.HTMLBody())
	assert.Equal(t, "https://www.courtlistener.com/opinion/101/x/", op.URL)
}

func TestEnrichFullText(t *testing.T) {
	var calls atomic.Int32
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/opinions/1/":
			_, _ = w.Write([]byte(`{"id":1,"plain_text":"fetched plain","html":"<p>fetched</p>"}`))
		case "/opinions/3/":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			t.Errorf("unexpected fetch %s", r.URL.Path)
		}
	}, "")

	in := []record.Opinion{
		{ID: 1, CaseName: "A"},
		{ID: 2, CaseName: "B", Text: record.OpinionText{HTML: "<p>own</p>"}},
		{ID: 3, CaseName: "C"},
		{ID: 4, CaseName: "D"},
	}

	got := c.EnrichFullText(context.Background(), in, 3)
	require.Len(t, got, 4)
	assert.Equal(t, int32(2), calls.Load(), "only the first 3 lacking text are fetched")
	assert.Equal(t, "fetched plain", got[0].Text.Plain)
	assert.Equal(t, "<p>own</p>", got[1].Text.HTML)
	assert.True(t, got[2].Text.Empty(), "failed fetch leaves the opinion unchanged")
	assert.True(t, got[3].Text.Empty())
	assert.True(t, in[0].Text.Empty(), "input is not modified")
}

func TestSearchOpinions_MalformedListIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"count":1,"results":"unavailable"}`))
	}))
	t.Cleanup(srv.Close)

	var diags []source.Diagnostic
	c, err := New(source.Options{
		BaseURL: srv.URL,
		Reporter: source.ReporterFunc(func(_ context.Context, d source.Diagnostic) {
			diags = append(diags, d)
		}),
	})
	require.NoError(t, err)

	got := c.SearchOpinions(context.Background(), "asylum", "", 5)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	require.Len(t, diags, 1)
	assert.Equal(t, source.CategoryBadData, diags[0].Category)
}
