package sources

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/yuin/goldmark"
	"golang.org/x/sync/errgroup"

	"github.com/Kush-Singh-26/folio/builder/models"
	mdParser "github.com/Kush-Singh-26/folio/builder/parser"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

var contentExts = []string{".mdx", ".md"}

// StaticReader enumerates markdown posts with YAML frontmatter under dir.
type StaticReader struct {
	fs      afero.Fs
	dir     string
	md      goldmark.Markdown
	workers int
	logger  *slog.Logger
}

func NewStaticReader(fsys afero.Fs, dir string, workers int, logger *slog.Logger) *StaticReader {
	if workers < 1 {
		workers = 1
	}
	return &StaticReader{
		fs:      fsys,
		dir:     dir,
		md:      mdParser.New(),
		workers: workers,
		logger:  logger,
	}
}

// Dir returns the content directory being read.
func (r *StaticReader) Dir() string { return r.dir }

// ListStaticPosts parses every published content file, sorted by slug.
// Files that fail to parse are skipped.
func (r *StaticReader) ListStaticPosts(ctx context.Context) ([]StaticRecord, error) {
	var files []string
	err := afero.Walk(r.fs, r.dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isContentFile(info.Name()) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, Unavailable(models.OriginStatic, fmt.Errorf("walk %s: %w", r.dir, err))
	}

	parsed := make([]*StaticRecord, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := r.parseFile(path)
			if err != nil {
				r.logger.Warn("Skipping unreadable post", "path", path, "error", err)
				return nil
			}
			parsed[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Unavailable(models.OriginStatic, err)
	}

	records := make([]StaticRecord, 0, len(parsed))
	for _, rec := range parsed {
		if rec == nil || !isPublished(rec) {
			continue
		}
		records = append(records, *rec)
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Slug == records[j].Slug {
			return records[i].Path < records[j].Path
		}
		return records[i].Slug < records[j].Slug
	})
	return records, nil
}

// FindBySlug looks up one published post. The file named after the slug is
// tried first; a scan is only needed for posts that override their slug in
// frontmatter. Returns nil when no post matches.
func (r *StaticReader) FindBySlug(ctx context.Context, slug string) (*StaticRecord, error) {
	if slug == "" || strings.ContainsAny(slug, `/\`) || strings.Contains(slug, "..") {
		return nil, nil
	}

	for _, ext := range contentExts {
		rec, err := r.findFile(slug + ext)
		if err != nil {
			return nil, Unavailable(models.OriginStatic, err)
		}
		if rec != nil && rec.Slug == slug {
			if !isPublished(rec) {
				return nil, nil
			}
			return rec, nil
		}
	}

	all, err := r.ListStaticPosts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Slug == slug {
			return &all[i], nil
		}
	}
	return nil, nil
}

// findFile parses the first file called name anywhere under dir.
func (r *StaticReader) findFile(name string) (*StaticRecord, error) {
	direct := filepath.Join(r.dir, name)
	if ok, err := afero.Exists(r.fs, direct); err != nil {
		return nil, err
	} else if ok {
		return r.parseFile(direct)
	}

	var found string
	err := afero.Walk(r.fs, r.dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && info.Name() == name {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil && !errors.Is(err, filepath.SkipAll) {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if found == "" {
		return nil, nil
	}
	return r.parseFile(found)
}

func (r *StaticReader) parseFile(path string) (*StaticRecord, error) {
	source, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return nil, err
	}
	doc, err := mdParser.ParseDocument(r.md, source)
	if err != nil {
		return nil, err
	}

	slug := utils.GetString(doc.Meta, "slug")
	if slug == "" {
		base := filepath.Base(path)
		slug = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return &StaticRecord{
		Slug:      slug,
		Path:      path,
		Meta:      doc.Meta,
		Body:      doc.Body,
		WordCount: doc.WordCount,
	}, nil
}

func isContentFile(name string) bool {
	if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range contentExts {
		if ext == e {
			return true
		}
	}
	return false
}

func isPublished(rec *StaticRecord) bool {
	return utils.GetBool(rec.Meta, "published", true)
}
