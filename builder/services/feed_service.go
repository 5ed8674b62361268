package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/metrics"
	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/sources"
)

type feedServiceImpl struct {
	static   StaticSource
	admin    AdminSource
	external ExternalSource
	norm     *Normalizer
	resolver *Resolver
	params   RankParams
	timeout  time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewFeedService wires the pipeline. admin and external may be nil; now
// defaults to time.Now and tune to the default tunables.
func NewFeedService(
	static StaticSource,
	admin AdminSource,
	external ExternalSource,
	norm *Normalizer,
	tune *config.BuildConfig,
	now func() time.Time,
	logger *slog.Logger,
) FeedService {
	if now == nil {
		now = time.Now
	}
	if tune == nil {
		tune = config.DefaultBuildConfig()
	}
	return &feedServiceImpl{
		static:   static,
		admin:    admin,
		external: external,
		norm:     norm,
		resolver: NewResolver(static, admin, external, norm, tune.ExternalTimeout, logger),
		params:   RankParamsFrom(tune),
		timeout:  tune.ExternalTimeout,
		now:      now,
		logger:   logger,
	}
}

func (s *feedServiceImpl) Feed(ctx context.Context) (*FeedResult, error) {
	return s.build(ctx, nil)
}

func (s *feedServiceImpl) FeedByBucket(ctx context.Context, bucket models.Bucket) (*FeedResult, error) {
	return s.build(ctx, func(p models.Post) bool { return p.Bucket == bucket })
}

func (s *feedServiceImpl) Resolve(ctx context.Context, postID string) (*models.Post, error) {
	return s.resolver.Resolve(ctx, postID)
}

func (s *feedServiceImpl) build(ctx context.Context, keep func(models.Post) bool) (*FeedResult, error) {
	m := metrics.NewFeedMetrics()
	now := s.now()

	// Every task records its own failure and returns nil, so one origin can
	// never cancel or block the others.
	var (
		g                                      errgroup.Group
		staticPosts, adminPosts, externalPosts []models.Post
	)
	g.Go(func() error {
		staticPosts = s.collectStatic(ctx, m)
		return nil
	})
	g.Go(func() error {
		adminPosts = s.collectAdmin(ctx, m)
		return nil
	})
	g.Go(func() error {
		externalPosts = s.collectExternal(ctx, m)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates := Aggregate(staticPosts, adminPosts, externalPosts)
	if keep != nil {
		filtered := candidates[:0]
		for _, p := range candidates {
			if keep(p) {
				filtered = append(filtered, p)
			}
		}
		candidates = filtered
	}

	ranked := Rank(candidates, now, s.params)
	m.RecordEnd(len(ranked))
	s.logger.Debug(m.String())

	return &FeedResult{Posts: ranked, Report: m, GeneratedAt: now}, nil
}

func (s *feedServiceImpl) collectStatic(ctx context.Context, m *metrics.FeedMetrics) []models.Post {
	start := time.Now()
	records, err := s.static.ListStaticPosts(ctx)
	if err != nil {
		s.fail(m, models.OriginStatic, start, err)
		return nil
	}

	var posts []models.Post
	dropped := 0
	for _, rec := range records {
		expanded := s.norm.ExpandStatic(rec)
		if expanded == nil {
			dropped++
			s.logger.Debug("Dropping malformed post", "source", models.OriginStatic, "slug", rec.Slug)
			continue
		}
		posts = append(posts, expanded...)
	}
	m.RecordSource(models.OriginStatic, len(records), len(posts), dropped, time.Since(start))
	return posts
}

func (s *feedServiceImpl) collectAdmin(ctx context.Context, m *metrics.FeedMetrics) []models.Post {
	if s.admin == nil {
		m.RecordSkipped(models.OriginAdmin)
		return nil
	}
	start := time.Now()
	byID, skipped, err := s.admin.ListAdminPosts(ctx)
	if err != nil {
		s.fail(m, models.OriginAdmin, start, err)
		return nil
	}
	for _, id := range skipped {
		s.logger.Warn("Dropping unreadable admin post", "source", models.OriginAdmin, "id", id)
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var posts []models.Post
	dropped := len(skipped)
	for _, id := range ids {
		p := byID[id]
		if p == nil || !p.Published {
			continue
		}
		post, ok := s.norm.Normalize(sources.AdminRecord{ID: id, Post: p})
		if !ok {
			dropped++
			s.logger.Debug("Dropping malformed post", "source", models.OriginAdmin, "id", id)
			continue
		}
		posts = append(posts, post)
	}
	m.RecordSource(models.OriginAdmin, len(byID)+len(skipped), len(posts), dropped, time.Since(start))
	return posts
}

func (s *feedServiceImpl) collectExternal(ctx context.Context, m *metrics.FeedMetrics) []models.Post {
	if s.external == nil || !s.external.HasCredential() {
		m.RecordSkipped(models.OriginExternal)
		return nil
	}
	start := time.Now()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	articles, err := s.external.ListArticles(ctx)
	if err != nil {
		s.fail(m, models.OriginExternal, start, err)
		return nil
	}

	var posts []models.Post
	dropped := 0
	for i := range articles {
		post, ok := s.norm.Normalize(sources.ExternalRecord{Article: &articles[i]})
		if !ok {
			dropped++
			s.logger.Debug("Dropping malformed post", "source", models.OriginExternal, "id", articles[i].ID)
			continue
		}
		posts = append(posts, post)
	}
	m.RecordSource(models.OriginExternal, len(articles), len(posts), dropped, time.Since(start))
	return posts
}

func (s *feedServiceImpl) fail(m *metrics.FeedMetrics, origin models.Origin, start time.Time, err error) {
	err = sources.Unavailable(origin, err)
	m.RecordFailure(origin, time.Since(start), err)
	s.logger.Warn("Source unavailable", "source", origin, "error", err)
}
