package federalregister

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/uslegal/relevance"
	"github.com/jonwraymond/uslegal/source"
)

func newClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(source.Options{BaseURL: srv.URL, Reporter: source.Discard}, relevance.Default())
	require.NoError(t, err)
	return c
}

const searchPayload = `{"count":3,"results":[
	{"document_number":"2024-00001","title":"Fisheries of the Exclusive Economic Zone","agency_names":["Commerce Department"],"type":"Rule","html_url":"https://www.federalregister.gov/d/2024-00001"},
	{"document_number":"2024-00002","title":"Asylum Processing Rule","abstract":"Changes to asylum and border procedures.","agencies":[{"name":"Homeland Security Department"},{"raw_name":"U.S. CUSTOMS AND BORDER PROTECTION"}],"effective_on":"2024-06-01","type":"Rule"},
	{"title":"No number"},
	{"document_number":"2024-00003","title":"Notice of Meeting","document_type":"Notice"}
]}`

func TestSearchDocuments(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents.json", r.URL.Path)
		assert.Equal(t, "border", r.URL.Query().Get("conditions[term]"))
		assert.Equal(t, "relevance", r.URL.Query().Get("order"))
		assert.Equal(t, "6", r.URL.Query().Get("per_page"))
		_, _ = w.Write([]byte(searchPayload))
	})

	got := c.SearchDocuments(context.Background(), "border", 2)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, "2024-00002", first.DocumentNumber)
	assert.Equal(t, []string{"Homeland Security Department", "U.S. CUSTOMS AND BORDER PROTECTION"}, first.AgencyNames)
	assert.Equal(t, "2024-06-01", first.EffectiveDate)
	assert.Equal(t, "Rule", first.DocumentType)
}

func TestSearchDocuments_CapsOverFetch(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		_, _ = w.Write([]byte(`{"count":0}`))
	})

	got := c.SearchDocuments(context.Background(), "border", 50)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGetRecentDocuments(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "newest", r.URL.Query().Get("order"))
		_, _ = w.Write([]byte(searchPayload))
	})

	got := c.GetRecentDocuments(context.Background(), 20)
	require.Len(t, got, 3)
	assert.Equal(t, "2024-00001", got[0].DocumentNumber)
	assert.Equal(t, "Notice", got[2].DocumentType)
}

func TestGetDocument(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents/2024-00002.json", r.URL.Path)
		_, _ = w.Write([]byte(`{"document_number":"2024-00002","title":"Asylum Processing Rule",
			"sections":[{"title":"Background","content":"..."}]}`))
	})

	doc, ok := c.GetDocument(context.Background(), "2024-00002")
	require.True(t, ok)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "Background", doc.Sections[0].Title)
}

func TestGetDocument_Outage(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, ok := c.GetDocument(context.Background(), "2024-00002")
	assert.False(t, ok)
}

func TestSearchDocuments_MalformedListIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"count":1,"results":{"document_number":"2024-00001"}}`))
	}))
	t.Cleanup(srv.Close)

	var diags []source.Diagnostic
	c, err := New(source.Options{
		BaseURL: srv.URL,
		Reporter: source.ReporterFunc(func(_ context.Context, d source.Diagnostic) {
			diags = append(diags, d)
		}),
	}, relevance.Default())
	require.NoError(t, err)

	got := c.SearchDocuments(context.Background(), "fisheries", 5)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	require.Len(t, diags, 1)
	assert.Equal(t, source.CategoryBadData, diags[0].Category)
}
