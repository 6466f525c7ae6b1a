package googlesearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
	"items": [
		{
			"title": "Nuclear Energy Safety - NRC",
			"link": "https://www.nrc.gov/about-nrc/safety.html",
			"snippet": "The NRC regulates commercial nuclear power plants.",
			"pagemap": {
				"metatags": [{"article:published_time": "2024-03-15T10:00:00Z"}]
			}
		},
		{
			"title": "Nuclear power debate",
			"link": "https://example.com/nuclear",
			"snippet": "Opinions differ on nuclear power."
		}
	],
	"searchInformation": {"totalResults": "120000", "searchTime": 0.41}
}`

func TestNewClient_MissingCredentials(t *testing.T) {
	_, err := NewClient("", "cx")
	assert.Error(t, err)

	_, err = NewClient("key", "")
	assert.Error(t, err)
}

func TestSearch_ParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "test-cx", r.URL.Query().Get("cx"))
		assert.Equal(t, "nuclear energy", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("num"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	c, err := NewClient("test-key", "test-cx", WithBaseURL(srv.URL))
	require.NoError(t, err)

	resp, err := c.Search(context.Background(), "nuclear energy", SearchOptions{MaxResults: 5})
	require.NoError(t, err)

	require.Len(t, resp.Items, 2)
	assert.Equal(t, "https://www.nrc.gov/about-nrc/safety.html", resp.Items[0].Link)
	assert.Equal(t, "2024-03-15T10:00:00Z", resp.Items[0].Metadata["article:published_time"])
	assert.Nil(t, resp.Items[1].Metadata)
	assert.Equal(t, int64(120000), resp.TotalResults)
	assert.InDelta(t, 0.41, resp.SearchTimeSeconds, 0.001)
}

func TestSearch_DomainRestrictionAndDateRestrict(t *testing.T) {
	var gotQuery, gotDateRestrict string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotDateRestrict = r.URL.Query().Get("dateRestrict")
		w.Write([]byte(`{"searchInformation":{"totalResults":"0","searchTime":0.1}}`))
	}))
	defer srv.Close()

	c, err := NewClient("k", "cx", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "vaccines", SearchOptions{
		RestrictToDomains: []string{"cdc.gov", "who.int"},
		DateRestrictDays:  365,
	})
	require.NoError(t, err)

	assert.Equal(t, "vaccines (site:cdc.gov OR site:who.int)", gotQuery)
	assert.Equal(t, "d365", gotDateRestrict)
}

func TestSearch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := NewClient("k", "cx", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "anything", SearchOptions{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestSearch_NumClampedToPageSize(t *testing.T) {
	var gotNum string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotNum = r.URL.Query().Get("num")
		w.Write([]byte(`{"searchInformation":{"totalResults":"0","searchTime":0}}`))
	}))
	defer srv.Close()

	c, err := NewClient("k", "cx", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "q", SearchOptions{MaxResults: 50})
	require.NoError(t, err)
	assert.Equal(t, "10", gotNum)
}
