package services

import (
	"time"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/models"
	mdParser "github.com/Kush-Singh-26/folio/builder/parser"
	"github.com/Kush-Singh-26/folio/builder/sources"
	"github.com/Kush-Singh-26/folio/builder/testutil"
)

var testBuckets = config.Buckets{A: "bucketA", B: "bucketB"}

func newTestNormalizer() *Normalizer {
	return NewNormalizer(mdParser.New(), 200, testBuckets)
}

// staticRecord builds a record as the static reader would, with a date
// age before testutil.Now.
func staticRecord(slug, category string, age time.Duration, extra map[string]interface{}) sources.StaticRecord {
	meta := map[string]interface{}{
		"title":       "Post " + slug,
		"description": "About " + slug,
		"date":        testutil.Now.Add(-age).Format(time.RFC3339),
		"tags":        []interface{}{"go", "Go", " web "},
		"author":      "Test Author",
	}
	if category != "" {
		meta["category"] = category
	}
	for k, v := range extra {
		meta[k] = v
	}
	return sources.StaticRecord{
		Slug:      slug,
		Path:      "content/blog/" + slug + ".md",
		Meta:      meta,
		Body:      "Body of " + slug,
		WordCount: 450,
	}
}

func postIDs(posts []models.Post) []string {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.PostID
	}
	return ids
}

func fixedClock() time.Time { return testutil.Now }
