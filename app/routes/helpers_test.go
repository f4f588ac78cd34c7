package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"blog/app/controllers"
	"blog/app/models"
	"blog/app/repositories"
	"blog/app/session"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type testApp struct {
	server   *httptest.Server
	repo     *repositories.Repository
	sessions session.Store
	logs     *observer.ObservedLogs
}

func setupTestDB(t *testing.T) *badger.DB {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func setupStaticDir(t *testing.T) string {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.css"), []byte("body { background: #f0f0f0; }"), 0644))
	return dir
}

func setupTestApp(t *testing.T) *testApp {
	db := setupTestDB(t)
	repo := repositories.NewRepositoryWithDB(db)
	store := session.NewBadgerStore(db)

	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	templates, err := controllers.LoadTemplates()
	require.NoError(t, err)

	sessions := session.NewManager(store, session.Options{CookieName: "sessionid", Secret: "test-secret", TTL: time.Hour}, logger)
	router := SetupRoutes(repo, sessions, templates, logger, Options{StaticDir: setupStaticDir(t)})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testApp{server: server, repo: repo, sessions: store, logs: logs}
}

// newClient returns a client that keeps cookies and does not follow redirects
func (a *testApp) newClient(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (a *testApp) get(t *testing.T, client *http.Client, path string) (*http.Response, string) {
	resp, err := client.Get(a.server.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (a *testApp) postForm(t *testing.T, client *http.Client, path string, form url.Values) (*http.Response, string) {
	resp, err := client.PostForm(a.server.URL+path, form)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

// savedSet reads the saved-for-later IDs of client's session from the store
func (a *testApp) savedSet(t *testing.T, client *http.Client) []int {
	u, err := url.Parse(a.server.URL)
	require.NoError(t, err)

	for _, c := range client.Jar.Cookies(u) {
		if c.Name != "sessionid" {
			continue
		}
		id, _, _ := strings.Cut(c.Value, ".")
		values, err := a.sessions.Load(context.Background(), id)
		require.NoError(t, err)
		raw, ok := values["stored_posts"]
		if !ok {
			return nil
		}
		var ids []int
		require.NoError(t, json.Unmarshal(raw, &ids))
		return ids
	}
	t.Fatal("client has no session cookie")
	return nil
}

func readBody(t *testing.T, resp *http.Response) string {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

// seedPost stores a post whose date is the given save time
func seedPost(t *testing.T, repo *repositories.Repository, slug, title string, savedAt time.Time) *models.Post {
	repo.Posts.SetClock(func() time.Time { return savedAt })
	t.Cleanup(func() { repo.Posts.SetClock(time.Now) })

	post := &models.Post{
		Title:   title,
		Excerpt: "Excerpt of " + title,
		Slug:    slug,
		Content: "Some **markdown** content for " + title,
	}
	require.NoError(t, repo.Posts.Create(post))
	return post
}
