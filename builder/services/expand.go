package services

import (
	"strings"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/models"
)

// Category values with fixed meaning in frontmatter.
const (
	CategoryAll  = "all"
	CategoryHome = "home"
)

// Expand fans a normalized static post out over its declared category.
// "all" yields a home, A and B copy with NaturalID offset by 0, 1 and 2;
// every other value yields exactly one post.
func Expand(post models.Post, category string, buckets config.Buckets) []models.Post {
	category = strings.TrimSpace(category)

	if strings.EqualFold(category, CategoryAll) {
		targets := []models.Bucket{models.BucketHome, models.Bucket(buckets.A), models.Bucket(buckets.B)}
		out := make([]models.Post, len(targets))
		for i, b := range targets {
			cp := clonePost(post)
			cp.Bucket = b
			cp.NaturalID = post.NaturalID + int64(i)
			out[i] = cp
		}
		return out
	}

	post.Bucket = models.BucketHome
	switch category {
	case buckets.A:
		post.Bucket = models.Bucket(buckets.A)
	case buckets.B:
		post.Bucket = models.Bucket(buckets.B)
	}
	return []models.Post{post}
}

// clonePost copies the slice and pointer fields so fanned-out posts share
// no mutable state.
func clonePost(p models.Post) models.Post {
	cp := p
	cp.Tags = append([]string(nil), p.Tags...)
	if cp.Tags == nil {
		cp.Tags = []string{}
	}
	if p.ExternalRef != nil {
		ref := *p.ExternalRef
		cp.ExternalRef = &ref
	}
	if p.Score != nil {
		s := *p.Score
		cp.Score = &s
	}
	return cp
}
