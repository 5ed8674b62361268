package devto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Article is the subset of a Forem article the feed needs. List endpoints
// omit BodyMarkdown; the single-article endpoint includes it.
type Article struct {
	ID                   int64     `json:"id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	Slug                 string    `json:"slug"`
	URL                  string    `json:"url"`
	CoverImage           *string   `json:"cover_image"`
	TagList              TagList   `json:"tag_list"`
	BodyMarkdown         string    `json:"body_markdown"`
	PublicReactionsCount int       `json:"public_reactions_count"`
	CommentsCount        int       `json:"comments_count"`
	PageViewsCount       int       `json:"page_views_count"`
	ReadingTimeMinutes   int       `json:"reading_time_minutes"`
	PublishedAt          time.Time `json:"published_at"`
	User                 User      `json:"user"`
}

type User struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

// TagList accepts both encodings Forem uses: a JSON array on list endpoints
// and a comma separated string on the single-article endpoint.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = TagList{}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("tag_list: %w", err)
	}
	out := TagList{}
	for _, part := range strings.Split(joined, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	*t = out
	return nil
}
