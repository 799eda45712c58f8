package cli_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/rshade/postfeed/internal/cli"
	"github.com/rshade/postfeed/internal/posts"
)

// postsAPI serves n generated posts and records listing queries.
type postsAPI struct {
	mu      sync.Mutex
	posts   []posts.Post
	queries []string
	gets    []int
}

func newPostsAPI(t *testing.T, n int) (*postsAPI, *httptest.Server) {
	t.Helper()
	api := &postsAPI{}
	for i := 1; i <= n; i++ {
		api.posts = append(api.posts, posts.Post{
			ID:     i,
			Title:  "title " + strconv.Itoa(i),
			Body:   "body " + strconv.Itoa(i),
			UserID: 1,
		})
	}

	r := mux.NewRouter()
	r.HandleFunc("/posts", api.list).Methods(http.MethodGet)
	r.HandleFunc("/posts/{id:[0-9]+}", api.get).Methods(http.MethodGet)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return api, srv
}

func (a *postsAPI) list(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.queries = append(a.queries, r.URL.RawQuery)
	a.mu.Unlock()

	page, _ := strconv.Atoi(r.URL.Query().Get("_page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("_limit"))
	start := min(max(page-1, 0)*limit, len(a.posts))
	end := min(start+limit, len(a.posts))
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(a.posts[start:end])
}

func (a *postsAPI) get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	a.mu.Lock()
	a.gets = append(a.gets, id)
	a.mu.Unlock()

	if id < 1 || id > len(a.posts) {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(a.posts[id-1])
}

func (a *postsAPI) Gets() []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]int(nil), a.gets...)
}

func (a *postsAPI) Queries() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.queries...)
}

// setupCLITest isolates the config home and quiets logging.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("POSTFEED_HOME", home)
	t.Setenv("POSTFEED_LOG_LEVEL", "error")
	t.Setenv("POSTFEED_BASE_URL", "")
	t.Setenv("POSTFEED_PAGE_SIZE", "")
	return home
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, stderr, err := execute(t, args...)
	require.NoError(t, err, "stderr: %s", stderr)
	return out
}
