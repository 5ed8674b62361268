package sources

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/testutil"
)

func newTestStaticReader() *StaticReader {
	fs := testutil.CreateTestFilesystemWithContent(map[string]string{
		"content/blog/hello.md":        testutil.StaticPost("Hello", "2026-02-20", "all"),
		"content/blog/draft.md":        testutil.StaticPost("Draft", "2026-02-21", "", "published: false"),
		"content/blog/_partial.md":     testutil.StaticPost("Partial", "2026-02-21", ""),
		"content/blog/notes.txt":       "not a post",
		"content/blog/nested/deep.mdx": testutil.StaticPost("Deep", "2026-01-05", "bucketA", "slug: custom-deep"),
		"content/blog/broken.md":       "---\ntitle: [unclosed\n---\nbody\n",
	})
	return NewStaticReader(fs, "content/blog", 4, testutil.DiscardLogger())
}

func TestStaticReader_ListStaticPosts(t *testing.T) {
	r := newTestStaticReader()

	records, err := r.ListStaticPosts(context.Background())
	if err != nil {
		t.Fatalf("ListStaticPosts failed: %v", err)
	}

	var slugs []string
	for _, rec := range records {
		slugs = append(slugs, rec.Slug)
	}
	if diff := cmp.Diff([]string{"custom-deep", "hello"}, slugs); diff != "" {
		t.Errorf("slugs mismatch (-want +got):\n%s", diff)
	}

	hello := records[1]
	if hello.Meta["title"] != "Hello" {
		t.Errorf("title = %v, want Hello", hello.Meta["title"])
	}
	if hello.WordCount == 0 {
		t.Error("WordCount should be counted from the body")
	}
	if hello.Origin() != models.OriginStatic {
		t.Errorf("Origin() = %s", hello.Origin())
	}
}

func TestStaticReader_MissingDirectory(t *testing.T) {
	fs := testutil.CreateTestFilesystemWithContent(nil)
	r := NewStaticReader(fs, "content/blog", 2, testutil.DiscardLogger())

	_, err := r.ListStaticPosts(context.Background())
	var se *SourceError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *SourceError", err)
	}
	if se.Origin != models.OriginStatic {
		t.Errorf("Origin = %s, want %s", se.Origin, models.OriginStatic)
	}
}

func TestStaticReader_FindBySlug(t *testing.T) {
	r := newTestStaticReader()

	tests := []struct {
		name     string
		slug     string
		wantPath string
	}{
		{"file name", "hello", "content/blog/hello.md"},
		{"frontmatter slug", "custom-deep", "content/blog/nested/deep.mdx"},
		{"unpublished", "draft", ""},
		{"file name overridden by frontmatter", "deep", ""},
		{"missing", "nope", ""},
		{"traversal", "../hello", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := r.FindBySlug(context.Background(), tt.slug)
			if err != nil {
				t.Fatalf("FindBySlug failed: %v", err)
			}
			if tt.wantPath == "" {
				if rec != nil {
					t.Errorf("FindBySlug(%q) = %s, want nil", tt.slug, rec.Path)
				}
				return
			}
			if rec == nil {
				t.Fatalf("FindBySlug(%q) = nil, want %s", tt.slug, tt.wantPath)
			}
			if rec.Path != tt.wantPath {
				t.Errorf("Path = %s, want %s", rec.Path, tt.wantPath)
			}
		})
	}
}

func TestStaticReader_CancelledContext(t *testing.T) {
	r := newTestStaticReader()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.ListStaticPosts(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestIsContentFile(t *testing.T) {
	tests := map[string]bool{
		"post.md":    true,
		"post.MDX":   true,
		"_draft.md":  false,
		".hidden.md": false,
		"post.txt":   false,
		"md":         false,
	}
	for name, want := range tests {
		if got := isContentFile(name); got != want {
			t.Errorf("isContentFile(%q) = %v, want %v", name, got, want)
		}
	}
}
