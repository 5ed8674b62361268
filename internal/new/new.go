// Package new scaffolds static posts in the content directory.
package new

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

// ErrExists is returned instead of overwriting an existing post.
var ErrExists = errors.New("post already exists")

// Options describes the post to scaffold.
type Options struct {
	Title    string
	Category string
	DevtoID  string
	Author   string
	Date     time.Time
}

type frontmatter struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Category    string   `yaml:"category"`
	Author      string   `yaml:"author,omitempty"`
	DevtoID     int64    `yaml:"devtoId,omitempty"`
	Published   bool     `yaml:"published"`
}

const body = `
## Introduction

Start writing here...
`

// Create writes <dir>/<slug>.md and returns its path. An all lowercase title
// is title cased. The category must be "all", "home" or one of the buckets.
func Create(fs afero.Fs, dir string, buckets config.Buckets, opts Options) (string, error) {
	title := strings.TrimSpace(opts.Title)
	if title == strings.ToLower(title) {
		title = cases.Title(language.English).String(title)
	}
	slug := utils.Slugify(title)
	if slug == "" {
		return "", fmt.Errorf("title %q produces an empty slug", opts.Title)
	}

	category := opts.Category
	if category == "" {
		category = "home"
	}
	switch category {
	case "all", "home", buckets.A, buckets.B:
	default:
		return "", fmt.Errorf("unknown category %q (want all, home, %s or %s)", category, buckets.A, buckets.B)
	}

	fm := frontmatter{
		Title:       title,
		Date:        opts.Date.Format("2006-01-02"),
		Description: "Enter a short description here...",
		Tags:        []string{},
		Category:    category,
		Author:      opts.Author,
		Published:   true,
	}
	if opts.DevtoID != "" {
		id, err := strconv.ParseInt(opts.DevtoID, 10, 64)
		if err != nil || id <= 0 {
			return "", fmt.Errorf("devto id %q is not a positive integer", opts.DevtoID)
		}
		fm.DevtoID = id
	}

	path := filepath.Join(dir, slug+".md")
	if ok, err := afero.Exists(fs, path); err != nil {
		return "", err
	} else if ok {
		return "", fmt.Errorf("%w: %s", ErrExists, path)
	}

	buf := utils.SharedBufferPool.Get()
	defer utils.SharedBufferPool.Put(buf)
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	buf.WriteString("---\n")
	buf.WriteString(body)

	if err := fs.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	if err := afero.WriteFile(fs, path, buf.Bytes(), 0644); err != nil {
		return "", err
	}
	return path, nil
}
