// Package admin manages posts in the admin store from the command line.
package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Kush-Singh-26/folio/builder/store"
)

// ErrNotFound is returned when removing a post that does not exist.
var ErrNotFound = errors.New("admin post not found")

// Put decodes one JSON post from r and stores it. A post without an id gets
// the current time in milliseconds; missing timestamps default to now.
func Put(m *store.Manager, r io.Reader, now time.Time) (*store.AdminPost, error) {
	var post store.AdminPost
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&post); err != nil {
		return nil, fmt.Errorf("decode post: %w", err)
	}

	post.ID = strings.TrimSpace(post.ID)
	post.Title = strings.TrimSpace(post.Title)
	if post.Title == "" {
		return nil, errors.New("post has no title")
	}
	if post.ID == "" {
		post.ID = strconv.FormatInt(now.UnixMilli(), 10)
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	if post.Published && post.PublishedAt.IsZero() {
		post.PublishedAt = now
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	if err := m.PutPost(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Remove deletes a post by id.
func Remove(m *store.Manager, id string) error {
	existing, err := m.GetPost(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return m.DeletePost(id)
}

// List writes a table of stored posts, newest first.
func List(m *store.Manager, w io.Writer) error {
	posts, skipped, err := m.ListPosts()
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(posts))
	for id := range posts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := posts[ids[i]], posts[ids[j]]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return ids[i] < ids[j]
	})

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tCATEGORY\tCREATED\tTITLE")
	for _, id := range ids {
		p := posts[id]
		status := "draft"
		if p.Published {
			status = "published"
		}
		category := p.Category
		if category == "" {
			category = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", id, status, category, p.CreatedAt.Format("2006-01-02"), p.Title)
	}
	for _, id := range skipped {
		fmt.Fprintf(tw, "%s\tunreadable\t-\t-\t-\n", id)
	}
	return tw.Flush()
}
