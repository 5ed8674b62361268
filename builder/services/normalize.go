package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"golang.org/x/text/cases"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/devto"
	"github.com/Kush-Singh-26/folio/builder/models"
	mdParser "github.com/Kush-Singh-26/folio/builder/parser"
	"github.com/Kush-Singh-26/folio/builder/sources"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

// Normalizer converts raw source records into canonical posts. It holds no
// mutable state and is safe for concurrent use.
type Normalizer struct {
	md           goldmark.Markdown
	readingSpeed int
	buckets      config.Buckets
}

func NewNormalizer(md goldmark.Markdown, readingSpeed int, buckets config.Buckets) *Normalizer {
	if md == nil {
		md = mdParser.New()
	}
	return &Normalizer{md: md, readingSpeed: readingSpeed, buckets: buckets}
}

// Buckets returns the configured named buckets.
func (n *Normalizer) Buckets() config.Buckets { return n.buckets }

// Normalize converts one record. The second result is false for a malformed
// record (no title or no natural key), which callers drop.
func (n *Normalizer) Normalize(rec sources.Record) (models.Post, bool) {
	switch r := rec.(type) {
	case sources.StaticRecord:
		return n.normalizeStatic(r)
	case *sources.StaticRecord:
		if r == nil {
			return models.Post{}, false
		}
		return n.normalizeStatic(*r)
	case sources.AdminRecord:
		return n.normalizeAdmin(r)
	case sources.ExternalRecord:
		return n.normalizeExternal(r.Article)
	}
	return models.Post{}, false
}

// ExpandStatic normalizes a static record and fans it out over its declared
// category. Returns nil for a malformed record.
func (n *Normalizer) ExpandStatic(rec sources.StaticRecord) []models.Post {
	post, ok := n.normalizeStatic(rec)
	if !ok {
		return nil
	}
	return Expand(post, utils.GetString(rec.Meta, "category"), n.buckets)
}

func (n *Normalizer) normalizeStatic(rec sources.StaticRecord) (models.Post, bool) {
	title := strings.TrimSpace(utils.GetString(rec.Meta, "title"))
	if title == "" || rec.Slug == "" {
		return models.Post{}, false
	}

	publishedAt, _ := utils.GetTime(rec.Meta, "date")
	post := models.Post{
		NaturalID:    naturalIDFromTime(publishedAt),
		Origin:       models.OriginStatic,
		Slug:         rec.Slug,
		Bucket:       models.BucketHome,
		PublishedAt:  publishedAt,
		Title:        title,
		Description:  utils.GetString(rec.Meta, "description"),
		CoverImage:   utils.GetString(rec.Meta, "image"),
		Tags:         normalizeTags(utils.GetSlice(rec.Meta, "tags")),
		BodyMarkdown: rec.Body,
		Author:       utils.GetString(rec.Meta, "author"),
		PostType:     utils.GetString(rec.Meta, "postType"),
		ReadingTime:  mdParser.ReadingTime(rec.WordCount, n.readingSpeed),
	}

	// A declared alias takes over the identity so links keep pointing at the
	// external article id. Non-numeric values cannot be encoded and are ignored.
	if ext, ok := externalAlias(rec.Meta); ok {
		ref := ext.String()
		post.ExternalRef = &ref
		post.PostID = ref
	} else {
		post.PostID = models.LocalRef{Slug: rec.Slug}.String()
	}
	return post, true
}

func (n *Normalizer) normalizeAdmin(rec sources.AdminRecord) (models.Post, bool) {
	p := rec.Post
	if p == nil || rec.ID == "" {
		return models.Post{}, false
	}
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return models.Post{}, false
	}

	publishedAt := p.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = p.CreatedAt
	}

	naturalID, err := strconv.ParseInt(rec.ID, 10, 64)
	if err != nil {
		naturalID = naturalIDFromTime(publishedAt)
	}

	slug := utils.Slugify(title)
	if slug == "" {
		slug = utils.Slugify(rec.ID)
	}

	return models.Post{
		PostID:      models.AdminRef{ID: rec.ID}.String(),
		NaturalID:   naturalID,
		Origin:      models.OriginAdmin,
		Slug:        slug,
		Bucket:      n.bucketFor(p.Category),
		PublishedAt: publishedAt,
		Engagement: models.Engagement{
			Reactions: p.LikesCount,
			Comments:  p.CommentsCount,
			Views:     p.ViewsCount,
		},
		Title:        title,
		Description:  p.Description,
		CoverImage:   p.CoverImage,
		Tags:         normalizeTags(p.Tags),
		BodyMarkdown: p.Content,
		Author:       p.Author,
		ReadingTime:  mdParser.ReadingTime(mdParser.WordCount(n.md, p.Content), n.readingSpeed),
	}, true
}

func (n *Normalizer) normalizeExternal(a *devto.Article) (models.Post, bool) {
	if a == nil || a.ID <= 0 {
		return models.Post{}, false
	}
	title := strings.TrimSpace(a.Title)
	if title == "" {
		return models.Post{}, false
	}

	slug := a.Slug
	if slug == "" {
		slug = utils.Slugify(title)
	}
	cover := ""
	if a.CoverImage != nil {
		cover = *a.CoverImage
	}
	readingTime := a.ReadingTimeMinutes
	if words := mdParser.WordCount(n.md, a.BodyMarkdown); words > 0 {
		readingTime = mdParser.ReadingTime(words, n.readingSpeed)
	}

	return models.Post{
		PostID:      models.ExternalRef{ID: a.ID}.String(),
		NaturalID:   a.ID,
		Origin:      models.OriginExternal,
		Slug:        slug,
		Bucket:      models.BucketHome,
		PublishedAt: a.PublishedAt,
		Engagement: models.Engagement{
			Reactions: a.PublicReactionsCount,
			Comments:  a.CommentsCount,
			Views:     a.PageViewsCount,
		},
		Title:        title,
		Description:  a.Description,
		CoverImage:   cover,
		Tags:         normalizeTags(a.TagList),
		BodyMarkdown: a.BodyMarkdown,
		Author:       a.User.Name,
		ReadingTime:  readingTime,
	}, true
}

// bucketFor maps a declared category to a single bucket. "all" has no single
// bucket and maps to home, as does anything unrecognized.
func (n *Normalizer) bucketFor(category string) models.Bucket {
	switch strings.TrimSpace(category) {
	case n.buckets.A:
		return models.Bucket(n.buckets.A)
	case n.buckets.B:
		return models.Bucket(n.buckets.B)
	}
	return models.BucketHome
}

// externalAlias reads the devtoId frontmatter field.
func externalAlias(meta map[string]interface{}) (models.ExternalRef, bool) {
	raw := strings.TrimSpace(utils.GetString(meta, "devtoId"))
	if raw == "" {
		return models.ExternalRef{}, false
	}
	ref, ok := models.ParseRef(raw)
	if !ok {
		return models.ExternalRef{}, false
	}
	ext, ok := ref.(models.ExternalRef)
	return ext, ok
}

func naturalIDFromTime(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// normalizeTags trims tags and drops empty and case-insensitive duplicates,
// keeping the first spelling. The result is never nil.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	fold := cases.Fold()
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := fold.String(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
	}
	return out
}
