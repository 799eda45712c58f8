package posts_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/postfeed/internal/posts"
)

// fakeAPI serves a fixed set of posts the way the public API does.
type fakeAPI struct {
	mu       sync.Mutex
	posts    []posts.Post
	requests []*http.Request
}

func newFakeAPI(t *testing.T, n int) (*fakeAPI, *httptest.Server) {
	t.Helper()
	api := &fakeAPI{}
	for i := 1; i <= n; i++ {
		api.posts = append(api.posts, posts.Post{
			ID:     i,
			Title:  "title " + strconv.Itoa(i),
			Body:   "body " + strconv.Itoa(i),
			UserID: (i-1)/10 + 1,
		})
	}

	r := mux.NewRouter()
	r.HandleFunc("/posts", api.list).Methods(http.MethodGet)
	r.HandleFunc("/posts/{id:[0-9]+}", api.get).Methods(http.MethodGet)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return api, srv
}

func (a *fakeAPI) record(r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = append(a.requests, r)
}

func (a *fakeAPI) list(w http.ResponseWriter, r *http.Request) {
	a.record(r)
	page, _ := strconv.Atoi(r.URL.Query().Get("_page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("_limit"))
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	end := start + limit
	if start > len(a.posts) {
		start = len(a.posts)
	}
	if end > len(a.posts) {
		end = len(a.posts)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(a.posts[start:end])
}

func (a *fakeAPI) get(w http.ResponseWriter, r *http.Request) {
	a.record(r)
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	for _, p := range a.posts {
		if p.ID == id {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(p)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("{}"))
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "empty uses default", baseURL: "", wantErr: false},
		{name: "https", baseURL: "https://example.com/api/", wantErr: false},
		{name: "bad scheme", baseURL: "ftp://example.com", wantErr: true},
		{name: "no host", baseURL: "http://", wantErr: true},
		{name: "unparseable", baseURL: "http://[::1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := posts.NewClient(tt.baseURL)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, posts.ErrInvalidBaseURL)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, c.BaseURL())
		})
	}
}

func TestClient_URLs(t *testing.T) {
	c, err := posts.NewClient("https://example.com/api/")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/api/posts?_limit=15&_page=2", c.ListURL(2, 15))
	assert.Equal(t, "https://example.com/api/posts/5", c.PostURL(5))
}

func TestClient_ListPosts(t *testing.T) {
	api, srv := newFakeAPI(t, 40)
	reg := prometheus.NewRegistry()
	metrics := posts.NewMetrics(reg)
	c, err := posts.NewClient(srv.URL, posts.WithMetrics(metrics))
	require.NoError(t, err)

	page1, err := c.ListPosts(context.Background(), 1, 15)
	require.NoError(t, err)
	require.Len(t, page1, 15)
	assert.Equal(t, 1, page1[0].ID)
	assert.Equal(t, 15, page1[14].ID)
	assert.Equal(t, "body 1", page1[0].Body)
	assert.Equal(t, 1, page1[0].UserID)

	page3, err := c.ListPosts(context.Background(), 3, 15)
	require.NoError(t, err)
	assert.Len(t, page3, 10)

	require.Len(t, api.requests, 2)
	assert.Equal(t, "1", api.requests[0].URL.Query().Get("_page"))
	assert.Equal(t, "15", api.requests[0].URL.Query().Get("_limit"))
	assert.Equal(t, "application/json", api.requests[0].Header.Get("Accept"))

	assert.InDelta(t, 2, testutil.ToFloat64(metrics.Requests.WithLabelValues("list", "success")), 0)
	assert.InDelta(t, 25, testutil.ToFloat64(metrics.Posts), 0)
}

func TestClient_GetPost(t *testing.T) {
	api, srv := newFakeAPI(t, 20)
	c, err := posts.NewClient(srv.URL)
	require.NoError(t, err)

	p, err := c.GetPost(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, posts.Post{ID: 5, Title: "title 5", Body: "body 5", UserID: 1}, p)
	require.Len(t, api.requests, 1)
	assert.Equal(t, "/posts/5", api.requests[0].URL.Path)
}

func TestClient_Errors(t *testing.T) {
	_, srv := newFakeAPI(t, 3)
	reg := prometheus.NewRegistry()
	metrics := posts.NewMetrics(reg)

	t.Run("not found", func(t *testing.T) {
		c, err := posts.NewClient(srv.URL, posts.WithMetrics(metrics))
		require.NoError(t, err)

		_, err = c.GetPost(context.Background(), 99)
		require.Error(t, err)
		assert.ErrorIs(t, err, posts.ErrNotFound)

		var fe *posts.FetchError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, http.StatusNotFound, fe.Status)
		assert.Equal(t, "get", fe.Op)
		assert.InDelta(t, 1, testutil.ToFloat64(metrics.Requests.WithLabelValues("get", "error")), 0)
	})

	t.Run("invalid id", func(t *testing.T) {
		c, err := posts.NewClient(srv.URL)
		require.NoError(t, err)
		_, err = c.GetPost(context.Background(), 0)
		assert.ErrorIs(t, err, posts.ErrInvalidID)
	})

	t.Run("unrouted path", func(t *testing.T) {
		c, err := posts.NewClient(srv.URL + "/v2")
		require.NoError(t, err)
		_, err = c.ListPosts(context.Background(), 1, 15)
		assert.ErrorIs(t, err, posts.ErrNotFound)
	})

	t.Run("unexpected status", func(t *testing.T) {
		bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer bad.Close()

		c, err := posts.NewClient(bad.URL)
		require.NoError(t, err)
		_, err = c.ListPosts(context.Background(), 1, 15)
		require.Error(t, err)
		assert.ErrorIs(t, err, posts.ErrUnexpectedStatus)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("decode failure", func(t *testing.T) {
		bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer bad.Close()

		c, err := posts.NewClient(bad.URL)
		require.NoError(t, err)
		_, err = c.GetPost(context.Background(), 1)
		assert.ErrorIs(t, err, posts.ErrDecode)
	})

	t.Run("cancelled context", func(t *testing.T) {
		c, err := posts.NewClient(srv.URL, posts.WithHTTPClient(srv.Client()))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = c.ListPosts(ctx, 1, 15)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
