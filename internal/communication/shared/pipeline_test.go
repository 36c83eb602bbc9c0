package shared

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClientOptions() *policy.ClientOptions {
	return &policy.ClientOptions{Retry: policy.RetryOptions{MaxRetries: -1}}
}

type headerPolicy struct{}

func (headerPolicy) Do(req *policy.Request) (*http.Response, error) {
	req.Raw().Header.Set("x-test-auth", "yes")
	return req.Next()
}

func TestInvokeAppliesQueryAndHeaders(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		_, _ = w.Write([]byte(`{"id":"x"}`))
	}))
	defer srv.Close()

	pl := NewPipeline("test", "v0.0.0", headerPolicy{}, testClientOptions())
	var out struct {
		ID string `json:"id"`
	}
	_, err := Invoke(context.Background(), pl, Call{
		Method:     http.MethodGet,
		URL:        srv.URL + "/things?api-version=old&cursor=abc",
		APIVersion: "2020-01-01",
		Query:      url.Values{"maxPageSize": []string{"5"}},
		Headers:    map[string]string{"MS-CV": "cv-1"},
		Out:        &out,
	})
	require.NoError(t, err)
	assert.Equal(t, "x", out.ID)
	require.NotNil(t, got)
	assert.Equal(t, "/things", got.URL.Path)
	assert.Equal(t, "2020-01-01", got.URL.Query().Get("api-version"))
	assert.Equal(t, "abc", got.URL.Query().Get("cursor"))
	assert.Equal(t, "5", got.URL.Query().Get("maxPageSize"))
	assert.Equal(t, "cv-1", got.Header.Get("MS-CV"))
	assert.Equal(t, "yes", got.Header.Get("x-test-auth"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
}

func TestInvokeMapsUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"NotFound","message":"no such thread"}}`))
	}))
	defer srv.Close()

	pl := NewPipeline("test", "v0.0.0", headerPolicy{}, testClientOptions())
	_, err := Invoke(context.Background(), pl, Call{
		Method:   http.MethodDelete,
		URL:      srv.URL + "/chat/threads/t1",
		Statuses: []int{http.StatusNoContent},
	})
	require.Error(t, err)

	var respErr *azcore.ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, http.StatusNotFound, respErr.StatusCode)
	assert.Equal(t, "NotFound", respErr.ErrorCode)
}

type testPage struct {
	Value    []string `json:"value"`
	NextLink string   `json:"nextLink"`
}

func TestPagerFollowsNextLink(t *testing.T) {
	var queries []url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query())
		switch r.URL.Query().Get("page") {
		case "":
			_, _ = w.Write([]byte(`{"value":["a","b"],"nextLink":"/items?page=2"}`))
		case "2":
			_, _ = w.Write([]byte(`{"value":["c"]}`))
		}
	}))
	defer srv.Close()

	pl := NewPipeline("test", "v0.0.0", headerPolicy{}, testClientOptions())
	pager := NewPager(pl, Call{
		Method:     http.MethodGet,
		URL:        srv.URL + "/items",
		APIVersion: "2020-01-01",
		Query:      url.Values{"maxPageSize": []string{"2"}},
	}, func(p testPage) string { return p.NextLink })

	var items []string
	for pager.More() {
		page, err := pager.NextPage(context.Background())
		require.NoError(t, err)
		items = append(items, page.Value...)
	}
	assert.Equal(t, []string{"a", "b", "c"}, items)
	require.Len(t, queries, 2)
	assert.Equal(t, "2", queries[0].Get("maxPageSize"))
	assert.Empty(t, queries[1].Get("maxPageSize"))
	assert.Equal(t, "2020-01-01", queries[1].Get("api-version"))
}
