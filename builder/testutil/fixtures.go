// Package testutil provides testing utilities and fixtures
package testutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/devto"
	"github.com/Kush-Singh-26/folio/builder/store"
)

// Now is the fixed clock used by fixtures.
var Now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// StaticPost renders a markdown file with frontmatter. Extra lines are
// appended to the frontmatter verbatim.
func StaticPost(title, date, category string, extra ...string) string {
	var sb strings.Builder
	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "title: %q\n", title)
	fmt.Fprintf(&sb, "description: %q\n", "About "+title)
	if date != "" {
		fmt.Fprintf(&sb, "date: %q\n", date)
	}
	if category != "" {
		fmt.Fprintf(&sb, "category: %q\n", category)
	}
	sb.WriteString("tags: [go, testing]\n")
	for _, line := range extra {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("---\n\n")
	sb.WriteString("Some body text for " + title + ".\n")
	return sb.String()
}

// CreateSampleAdminPost creates a published admin post for testing
func CreateSampleAdminPost(id string) *store.AdminPost {
	return &store.AdminPost{
		ID:            id,
		Title:         "Admin " + id,
		Description:   "Written in the panel",
		Content:       "Admin body for " + id,
		Tags:          []string{"admin"},
		Category:      "all",
		Published:     true,
		Author:        "Test Author",
		CreatedAt:     Now.Add(-48 * time.Hour),
		PublishedAt:   Now.Add(-48 * time.Hour),
		ViewsCount:    40,
		LikesCount:    3,
		CommentsCount: 1,
	}
}

// CreateSampleArticle creates an external article for testing
func CreateSampleArticle(id int64, age time.Duration, reactions, comments, views int) devto.Article {
	return devto.Article{
		ID:                   id,
		Title:                fmt.Sprintf("Article %d", id),
		Description:          "From the API",
		Slug:                 fmt.Sprintf("article-%d", id),
		TagList:              devto.TagList{"go"},
		BodyMarkdown:         "external body",
		PublicReactionsCount: reactions,
		CommentsCount:        comments,
		PageViewsCount:       views,
		PublishedAt:          Now.Add(-age),
		User:                 devto.User{Name: "Test Author"},
	}
}

// CreateSampleConfig creates a valid Config for testing
func CreateSampleConfig() *config.Config {
	return &config.Config{
		ContentDir:   "content/blog",
		BaseURL:      "https://example.com",
		DevtoBaseURL: config.DefaultDevtoURL,
		Buckets:      config.Buckets{A: "bucketA", B: "bucketB"},
		Host:         "localhost",
		Port:         "2604",
		Tune:         config.DefaultBuildConfig(),
	}
}
