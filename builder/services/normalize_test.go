package services

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Kush-Singh-26/folio/builder/devto"
	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/sources"
	"github.com/Kush-Singh-26/folio/builder/store"
	"github.com/Kush-Singh-26/folio/builder/testutil"
)

func TestNormalize_Static(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		name        string
		rec         sources.StaticRecord
		wantOK      bool
		wantID      string
		wantAliasOf string
	}{
		{
			name:   "plain static post",
			rec:    staticRecord("hello", "", 24*time.Hour, nil),
			wantOK: true,
			wantID: "local-hello",
		},
		{
			name:        "numeric alias",
			rec:         staticRecord("aliased", "", 24*time.Hour, map[string]interface{}{"devtoId": 555}),
			wantOK:      true,
			wantID:      "555",
			wantAliasOf: "555",
		},
		{
			name:        "string alias",
			rec:         staticRecord("aliased", "", 24*time.Hour, map[string]interface{}{"devtoId": " 556 "}),
			wantOK:      true,
			wantID:      "556",
			wantAliasOf: "556",
		},
		{
			name:   "non-numeric alias is ignored",
			rec:    staticRecord("odd", "", 24*time.Hour, map[string]interface{}{"devtoId": "abc"}),
			wantOK: true,
			wantID: "local-odd",
		},
		{
			name:   "missing title",
			rec:    staticRecord("untitled", "", 24*time.Hour, map[string]interface{}{"title": nil}),
			wantOK: false,
		},
		{
			name:   "blank title",
			rec:    staticRecord("blank", "", 24*time.Hour, map[string]interface{}{"title": "   "}),
			wantOK: false,
		},
		{
			name:   "missing slug",
			rec:    sources.StaticRecord{Meta: map[string]interface{}{"title": "x"}},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, ok := n.Normalize(tt.rec)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if post.PostID != tt.wantID {
				t.Errorf("PostID = %q, want %q", post.PostID, tt.wantID)
			}
			if tt.wantAliasOf == "" && post.ExternalRef != nil {
				t.Errorf("ExternalRef = %q, want nil", *post.ExternalRef)
			}
			if tt.wantAliasOf != "" && (post.ExternalRef == nil || *post.ExternalRef != tt.wantAliasOf) {
				t.Errorf("ExternalRef = %v, want %q", post.ExternalRef, tt.wantAliasOf)
			}
			if post.Origin != models.OriginStatic {
				t.Errorf("Origin = %s", post.Origin)
			}
		})
	}
}

func TestNormalize_StaticFields(t *testing.T) {
	n := newTestNormalizer()
	rec := staticRecord("hello", "", 48*time.Hour, map[string]interface{}{
		"image":    "/img/cover.png",
		"postType": "tutorial",
	})

	post, ok := n.Normalize(rec)
	if !ok {
		t.Fatal("Normalize dropped a valid record")
	}

	want := models.Post{
		PostID:       "local-hello",
		NaturalID:    testutil.Now.Add(-48 * time.Hour).UnixMilli(),
		Origin:       models.OriginStatic,
		Slug:         "hello",
		Bucket:       models.BucketHome,
		PublishedAt:  testutil.Now.Add(-48 * time.Hour),
		Title:        "Post hello",
		Description:  "About hello",
		CoverImage:   "/img/cover.png",
		Tags:         []string{"go", "web"},
		BodyMarkdown: "Body of hello",
		Author:       "Test Author",
		PostType:     "tutorial",
		ReadingTime:  3,
	}
	if diff := cmp.Diff(want, post); diff != "" {
		t.Errorf("post mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_StaticOptionalFieldsDefault(t *testing.T) {
	n := newTestNormalizer()
	rec := sources.StaticRecord{Slug: "bare", Meta: map[string]interface{}{"title": "Bare"}}

	post, ok := n.Normalize(rec)
	if !ok {
		t.Fatal("a title and slug are enough")
	}
	if post.Tags == nil || len(post.Tags) != 0 {
		t.Errorf("Tags = %#v, want empty slice", post.Tags)
	}
	if post.Description != "" || post.CoverImage != "" || post.ReadingTime != 0 {
		t.Errorf("optional fields should default to zero values: %+v", post)
	}
	if post.NaturalID != 0 || !post.PublishedAt.IsZero() {
		t.Errorf("missing date should give zero NaturalID and time, got %d %v", post.NaturalID, post.PublishedAt)
	}
}

func TestNormalize_Admin(t *testing.T) {
	n := newTestNormalizer()
	published := testutil.Now.Add(-72 * time.Hour)
	created := testutil.Now.Add(-96 * time.Hour)

	tests := []struct {
		name          string
		id            string
		post          *store.AdminPost
		wantOK        bool
		wantNaturalID int64
		wantBucket    models.Bucket
	}{
		{
			name:          "numeric key is the natural id",
			id:            "1700000000000",
			post:          &store.AdminPost{Title: "Numeric", Category: "bucketA", PublishedAt: published},
			wantOK:        true,
			wantNaturalID: 1700000000000,
			wantBucket:    "bucketA",
		},
		{
			name:          "opaque key uses publish time",
			id:            "abc",
			post:          &store.AdminPost{Title: "Opaque", Category: "all", PublishedAt: published},
			wantOK:        true,
			wantNaturalID: published.UnixMilli(),
			wantBucket:    models.BucketHome,
		},
		{
			name:          "falls back to creation time",
			id:            "def",
			post:          &store.AdminPost{Title: "Created", Category: "bucketB", CreatedAt: created},
			wantOK:        true,
			wantNaturalID: created.UnixMilli(),
			wantBucket:    "bucketB",
		},
		{
			name:          "unknown category is home",
			id:            "ghi",
			post:          &store.AdminPost{Title: "Unknown", Category: "42", PublishedAt: published},
			wantOK:        true,
			wantNaturalID: published.UnixMilli(),
			wantBucket:    models.BucketHome,
		},
		{
			name:   "missing title",
			id:     "jkl",
			post:   &store.AdminPost{PublishedAt: published},
			wantOK: false,
		},
		{
			name:   "missing key",
			id:     "",
			post:   &store.AdminPost{Title: "No key"},
			wantOK: false,
		},
		{
			name:   "nil post",
			id:     "mno",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, ok := n.Normalize(sources.AdminRecord{ID: tt.id, Post: tt.post})
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if post.PostID != "admin-"+tt.id {
				t.Errorf("PostID = %q, want %q", post.PostID, "admin-"+tt.id)
			}
			if post.NaturalID != tt.wantNaturalID {
				t.Errorf("NaturalID = %d, want %d", post.NaturalID, tt.wantNaturalID)
			}
			if post.Bucket != tt.wantBucket {
				t.Errorf("Bucket = %q, want %q", post.Bucket, tt.wantBucket)
			}
		})
	}
}

func TestNormalize_AdminEngagement(t *testing.T) {
	n := newTestNormalizer()
	p := testutil.CreateSampleAdminPost("abc")

	post, ok := n.Normalize(sources.AdminRecord{ID: "abc", Post: p})
	if !ok {
		t.Fatal("Normalize dropped a valid record")
	}
	want := models.Engagement{Reactions: 3, Comments: 1, Views: 40}
	if post.Engagement != want {
		t.Errorf("Engagement = %+v, want %+v", post.Engagement, want)
	}
	if post.Slug != "admin-abc" {
		t.Errorf("Slug = %q, want slug of the title", post.Slug)
	}
	if post.ReadingTime != 1 {
		t.Errorf("ReadingTime = %d, want 1", post.ReadingTime)
	}
}

func TestNormalize_External(t *testing.T) {
	n := newTestNormalizer()
	cover := "https://cdn.example.com/c.png"
	a := testutil.CreateSampleArticle(777, 5*24*time.Hour, 4, 2, 90)
	a.CoverImage = &cover
	a.TagList = devto.TagList{"go", "GO", "api"}

	post, ok := n.Normalize(sources.ExternalRecord{Article: &a})
	if !ok {
		t.Fatal("Normalize dropped a valid article")
	}
	if post.PostID != "777" || post.NaturalID != 777 || post.Origin != models.OriginExternal {
		t.Errorf("identity = %q/%d/%s", post.PostID, post.NaturalID, post.Origin)
	}
	if post.CoverImage != cover {
		t.Errorf("CoverImage = %q", post.CoverImage)
	}
	if diff := cmp.Diff([]string{"go", "api"}, post.Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	if post.Engagement != (models.Engagement{Reactions: 4, Comments: 2, Views: 90}) {
		t.Errorf("Engagement = %+v", post.Engagement)
	}
	if post.Slug != "article-777" {
		t.Errorf("Slug = %q", post.Slug)
	}
}

func TestNormalize_ExternalReadingTimeFallback(t *testing.T) {
	n := newTestNormalizer()
	a := testutil.CreateSampleArticle(1, time.Hour, 0, 0, 0)
	a.BodyMarkdown = ""
	a.ReadingTimeMinutes = 6
	a.Slug = ""

	post, ok := n.Normalize(sources.ExternalRecord{Article: &a})
	if !ok {
		t.Fatal("Normalize dropped a valid article")
	}
	if post.ReadingTime != 6 {
		t.Errorf("ReadingTime = %d, want the API value 6", post.ReadingTime)
	}
	if post.Slug != "article-1" {
		t.Errorf("Slug = %q, want slug of the title", post.Slug)
	}
}

func TestNormalize_ExternalMalformed(t *testing.T) {
	n := newTestNormalizer()
	for name, a := range map[string]*devto.Article{
		"nil":      nil,
		"no id":    {Title: "x"},
		"no title": {ID: 5},
	} {
		t.Run(name, func(t *testing.T) {
			if _, ok := n.Normalize(sources.ExternalRecord{Article: a}); ok {
				t.Error("malformed article should be dropped")
			}
		})
	}
}

// The encoded id must always parse back to the origin it came from.
func TestNormalize_IdentityIsReversible(t *testing.T) {
	n := newTestNormalizer()
	a := testutil.CreateSampleArticle(9, time.Hour, 0, 0, 0)
	records := []sources.Record{
		staticRecord("hello", "", time.Hour, nil),
		staticRecord("aliased", "", time.Hour, map[string]interface{}{"devtoId": 555}),
		sources.AdminRecord{ID: "abc", Post: testutil.CreateSampleAdminPost("abc")},
		sources.ExternalRecord{Article: &a},
	}
	wantOrigin := []models.Origin{models.OriginStatic, models.OriginExternal, models.OriginAdmin, models.OriginExternal}

	for i, rec := range records {
		post, ok := n.Normalize(rec)
		if !ok {
			t.Fatalf("record %d dropped", i)
		}
		ref, ok := post.Ref()
		if !ok {
			t.Fatalf("PostID %q does not parse", post.PostID)
		}
		if ref.String() != post.PostID {
			t.Errorf("round trip %q -> %q", post.PostID, ref.String())
		}
		if ref.Origin() != wantOrigin[i] {
			t.Errorf("%q resolves against %s, want %s", post.PostID, ref.Origin(), wantOrigin[i])
		}
	}
}
