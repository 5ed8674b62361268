package services

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/Kush-Singh-26/folio/builder/devto"
	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/sources"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

// Resolver performs targeted lookups of one post by postId. It never builds
// the feed.
type Resolver struct {
	static   StaticSource
	admin    AdminSource
	external ExternalSource
	norm     *Normalizer
	timeout  time.Duration
	logger   *slog.Logger
}

// NewResolver creates a resolver. A positive timeout bounds each external
// lookup; admin and external may be nil.
func NewResolver(static StaticSource, admin AdminSource, external ExternalSource, norm *Normalizer, timeout time.Duration, logger *slog.Logger) *Resolver {
	return &Resolver{
		static:   static,
		admin:    admin,
		external: external,
		norm:     norm,
		timeout:  timeout,
		logger:   logger,
	}
}

// Resolve dispatches on the shape of postID. Source failures are logged and
// reported as ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, postID string) (*models.Post, error) {
	ref, ok := models.ParseRef(postID)
	if !ok {
		return nil, ErrNotFound
	}

	switch ref := ref.(type) {
	case models.AdminRef:
		return r.resolveAdmin(ctx, ref)
	case models.LocalRef:
		return r.resolveLocal(ctx, ref)
	case models.ExternalRef:
		return r.resolveExternal(ctx, ref)
	}
	return nil, ErrNotFound
}

func (r *Resolver) resolveAdmin(ctx context.Context, ref models.AdminRef) (*models.Post, error) {
	if r.admin == nil {
		return nil, ErrNotFound
	}
	p, err := r.admin.GetAdminPost(ctx, ref.ID)
	if err != nil {
		r.logger.Warn("Admin lookup failed", "id", ref.ID, "error", err)
		return nil, ErrNotFound
	}
	if p == nil || !p.Published {
		return nil, ErrNotFound
	}
	post, ok := r.norm.Normalize(sources.AdminRecord{ID: ref.ID, Post: p})
	if !ok {
		return nil, ErrNotFound
	}
	return &post, nil
}

func (r *Resolver) resolveLocal(ctx context.Context, ref models.LocalRef) (*models.Post, error) {
	rec, err := r.static.FindBySlug(ctx, ref.Slug)
	if err != nil {
		r.logger.Warn("Static lookup failed", "slug", ref.Slug, "error", err)
		return nil, ErrNotFound
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return r.firstStatic(*rec)
}

// resolveExternal asks the API first and falls back to a scan of static
// aliases. Any API failure, including a missing credential, takes the
// fallback; a fallback failure is final.
func (r *Resolver) resolveExternal(ctx context.Context, ref models.ExternalRef) (*models.Post, error) {
	if r.external != nil {
		article, err := r.fetchArticle(ctx, ref.ID)
		if err == nil {
			if post, ok := r.norm.Normalize(sources.ExternalRecord{Article: article}); ok {
				return &post, nil
			}
		} else if !errors.Is(err, devto.ErrNoAPIKey) {
			r.logger.Debug("External lookup failed, scanning aliases", "id", ref.ID, "error", err)
		}
	}

	records, err := r.static.ListStaticPosts(ctx)
	if err != nil {
		r.logger.Warn("Alias scan failed", "id", ref.ID, "error", err)
		return nil, ErrNotFound
	}
	want := strconv.FormatInt(ref.ID, 10)
	for _, rec := range records {
		if alias, ok := externalAlias(rec.Meta); ok && alias.String() == want {
			return r.firstStatic(rec)
		}
	}
	return nil, ErrNotFound
}

func (r *Resolver) fetchArticle(ctx context.Context, id int64) (*devto.Article, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.external.GetArticle(ctx, id)
}

// firstStatic returns the home copy of a static post, or its only copy.
func (r *Resolver) firstStatic(rec sources.StaticRecord) (*models.Post, error) {
	posts := r.norm.ExpandStatic(rec)
	if len(posts) == 0 {
		r.logger.Debug("Dropping malformed static post", "slug", rec.Slug, "category", utils.GetString(rec.Meta, "category"))
		return nil, ErrNotFound
	}
	return &posts[0], nil
}
