package services

import (
	"context"
	"errors"
	"time"

	"github.com/Kush-Singh-26/folio/builder/devto"
	"github.com/Kush-Singh-26/folio/builder/metrics"
	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/sources"
	"github.com/Kush-Singh-26/folio/builder/store"
)

// ErrNotFound is the only error Resolve returns.
var ErrNotFound = errors.New("post not found")

// FeedResult contains the ranked feed and what each origin contributed
type FeedResult struct {
	Posts       []models.Post
	Report      *metrics.FeedMetrics
	GeneratedAt time.Time
}

// FeedService builds the ranked feed and resolves single posts
type FeedService interface {
	Feed(ctx context.Context) (*FeedResult, error)
	FeedByBucket(ctx context.Context, bucket models.Bucket) (*FeedResult, error)
	Resolve(ctx context.Context, postID string) (*models.Post, error)
}

// StaticSource enumerates static content files
type StaticSource interface {
	ListStaticPosts(ctx context.Context) ([]sources.StaticRecord, error)
	FindBySlug(ctx context.Context, slug string) (*sources.StaticRecord, error)
}

// AdminSource abstracts the admin keyed store
type AdminSource interface {
	ListAdminPosts(ctx context.Context) (map[string]*store.AdminPost, []string, error)
	GetAdminPost(ctx context.Context, id string) (*store.AdminPost, error)
}

// ExternalSource abstracts the third-party article API
type ExternalSource interface {
	HasCredential() bool
	ListArticles(ctx context.Context) ([]devto.Article, error)
	GetArticle(ctx context.Context, id int64) (*devto.Article, error)
}

var (
	_ StaticSource   = (*sources.StaticReader)(nil)
	_ AdminSource    = (*sources.AdminReader)(nil)
	_ ExternalSource = (*devto.Client)(nil)
)
