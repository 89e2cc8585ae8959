package uscode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/uslegal/source"
)

func newClient(t *testing.T, h http.HandlerFunc, opts source.Options) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	opts.BaseURL = srv.URL
	c, err := New(opts)
	require.NoError(t, err)
	return c
}

func TestSearchCode(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "asylum", r.URL.Query().Get("q"))
		assert.Equal(t, "8", r.URL.Query().Get("title"))
		_, _ = w.Write([]byte(`{"results":[
			{"title":"8","section":"1158","text":"Asylum","last_updated":"2023-01-01"},
			{"title":"8"},
			{"title":8,"section":"1101","text":"Definitions"},
			{"title":"8","section":"1225"}
		]}`))
	}, source.Options{Reporter: source.Discard})

	got := c.SearchCode(context.Background(), "asylum", 8, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "8 USC 1158", got[0].Key())
	assert.Equal(t, "2023-01-01", got[0].LastUpdated)
	assert.Equal(t, "8 USC 1101", got[1].Key())
}

func TestSearchCode_TimeoutIsEmpty(t *testing.T) {
	release := make(chan struct{})
	var diags []source.Diagnostic
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, source.Options{
		Timeout:  20 * time.Millisecond,
		Reporter: source.ReporterFunc(func(_ context.Context, d source.Diagnostic) {
			diags = append(diags, d)
		}),
	})
	defer close(release)

	got := c.SearchCode(context.Background(), "asylum", 0, 5)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	require.Len(t, diags, 1)
	assert.Equal(t, source.CategoryTimeout, diags[0].Category)
}

func TestGetSection(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/title/8/section/1158", r.URL.Path)
		_, _ = w.Write([]byte(`{"title":"8","section":"1158","text":"Asylum","url":"https://uscode.house.gov/view.xhtml?req=8+USC+1158"}`))
	}, source.Options{Reporter: source.Discard})

	s, ok := c.GetSection(context.Background(), 8, "1158")
	require.True(t, ok)
	assert.Equal(t, "Asylum", s.Text)
}

func TestGetSection_BadPayload(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"no such section"}`))
	}, source.Options{Reporter: source.Discard})

	_, ok := c.GetSection(context.Background(), 8, "0")
	assert.False(t, ok)
}

func TestSearchCode_MalformedListIsReported(t *testing.T) {
	var diags []source.Diagnostic
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":{"title":"8","section":"1158"}}`))
	}, source.Options{
		Reporter: source.ReporterFunc(func(_ context.Context, d source.Diagnostic) {
			diags = append(diags, d)
		}),
	})

	got := c.SearchCode(context.Background(), "asylum", 0, 5)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	require.Len(t, diags, 1)
	assert.Equal(t, source.CategoryBadData, diags[0].Category)
}
