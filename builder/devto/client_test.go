package devto

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestListArticles(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/articles/me/published" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("api-key"); got != "k" {
			t.Errorf("api-key header = %q, want %q", got, "k")
		}
		if r.URL.Query().Get("page") != "1" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`[
			{"id": 101, "title": "First", "tag_list": ["go", "web"], "public_reactions_count": 5,
			 "comments_count": 2, "page_views_count": 300, "published_at": "2026-01-02T10:00:00Z",
			 "cover_image": null, "user": {"name": "Kush"}},
			{"id": 102, "title": "Second", "tag_list": [], "published_at": "2026-01-03T10:00:00Z"}
		]`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "k", time.Second, nil)
	articles, err := c.ListArticles(context.Background())
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(articles))
	}

	a := articles[0]
	if a.ID != 101 || a.Title != "First" || a.PageViewsCount != 300 || a.User.Name != "Kush" {
		t.Errorf("unexpected article: %+v", a)
	}
	if len(a.TagList) != 2 || a.TagList[1] != "web" {
		t.Errorf("TagList = %v", a.TagList)
	}
	if a.CoverImage != nil {
		t.Errorf("CoverImage should be nil, got %v", *a.CoverImage)
	}
	if !a.PublishedAt.Equal(time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("PublishedAt = %v", a.PublishedAt)
	}
}

func TestListArticles_NoAPIKey(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "", time.Second, nil)
	if _, err := c.ListArticles(context.Background()); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("error = %v, want ErrNoAPIKey", err)
	}
	if called {
		t.Error("no request should be sent without a credential")
	}
}

func TestGetArticle(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/articles/555":
			_, _ = w.Write([]byte(`{"id": 555, "title": "Deep Dive", "tag_list": "go, concurrency",
				"body_markdown": "hello there", "published_at": "2026-01-02T10:00:00Z"}`))
		case "/articles/404":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("boom"))
		}
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "k", time.Second, nil)

	a, err := c.GetArticle(context.Background(), 555)
	if err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}
	if a.BodyMarkdown != "hello there" {
		t.Errorf("BodyMarkdown = %q", a.BodyMarkdown)
	}
	if len(a.TagList) != 2 || a.TagList[0] != "go" || a.TagList[1] != "concurrency" {
		t.Errorf("comma separated tag_list decoded as %v", a.TagList)
	}

	if _, err := c.GetArticle(context.Background(), 404); !errors.Is(err, ErrArticleNotFound) {
		t.Errorf("error = %v, want ErrArticleNotFound", err)
	}

	_, err = c.GetArticle(context.Background(), 1)
	if err == nil || !strings.Contains(err.Error(), "status 500") {
		t.Errorf("error = %v, want status 500", err)
	}
}

func TestGetArticle_Timeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	c := NewClient(ts.URL, "k", 50*time.Millisecond, nil)
	start := time.Now()
	if _, err := c.GetArticle(context.Background(), 7); err == nil {
		t.Fatal("GetArticle should time out")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout took %v", elapsed)
	}
}

func TestListArticles_Pagination(t *testing.T) {
	pages := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		if r.URL.Query().Get("page") == "1" {
			var sb strings.Builder
			sb.WriteString("[")
			for i := 0; i < perPage; i++ {
				if i > 0 {
					sb.WriteString(",")
				}
				fmt.Fprintf(&sb, `{"id": %d, "title": "t"}`, i+1)
			}
			sb.WriteString("]")
			_, _ = w.Write([]byte(sb.String()))
			return
		}
		_, _ = w.Write([]byte(`[{"id": 99999, "title": "last"}]`))
	}))
	defer ts.Close()

	articles, err := NewClient(ts.URL, "k", time.Second, nil).ListArticles(context.Background())
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(articles) != perPage+1 {
		t.Errorf("got %d articles, want %d", len(articles), perPage+1)
	}
	if pages != 2 {
		t.Errorf("requested %d pages, want 2", pages)
	}
}

func TestGetArticle_ZeroTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 9, "title": "No deadline"}`))
	}))
	defer ts.Close()

	a, err := NewClient(ts.URL, "k", 0, nil).GetArticle(context.Background(), 9)
	if err != nil {
		t.Fatalf("GetArticle with no timeout failed: %v", err)
	}
	if a.Title != "No deadline" {
		t.Errorf("Title = %q", a.Title)
	}
}

func TestListArticles_PageLimitIsLogged(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < perPage; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"id": %d, "title": "t"}`, i+1)
	}
	sb.WriteString("]")
	page := []byte(sb.String())

	pages := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		_, _ = w.Write(page)
	}))
	defer ts.Close()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	articles, err := NewClient(ts.URL, "k", time.Second, logger).ListArticles(context.Background())
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if pages != maxPages {
		t.Errorf("requested %d pages, want %d", pages, maxPages)
	}
	if len(articles) != maxPages*perPage {
		t.Errorf("got %d articles, want %d", len(articles), maxPages*perPage)
	}
	if !strings.Contains(logs.String(), "page limit") {
		t.Errorf("hitting the page limit should be logged, got %q", logs.String())
	}
}
