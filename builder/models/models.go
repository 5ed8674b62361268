// defines the canonical post shape shared by readers, services and the server
package models

import (
	"encoding/json"
	"net/url"
	"time"
)

// Origin identifies which content backend a post physically comes from.
type Origin string

const (
	OriginStatic   Origin = "static-file"
	OriginAdmin    Origin = "admin-store"
	OriginExternal Origin = "external-api"
)

// Bucket is the display grouping a post appears under. The zero value is the
// default/home bucket and serializes as JSON null.
type Bucket string

const BucketHome Bucket = ""

func (b Bucket) IsHome() bool { return b == BucketHome }

func (b Bucket) MarshalJSON() ([]byte, error) {
	if b.IsHome() {
		return []byte("null"), nil
	}
	return json.Marshal(string(b))
}

func (b *Bucket) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*b = BucketHome
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*b = Bucket(s)
	return nil
}

// Engagement holds the raw interaction counters used by the ranker.
type Engagement struct {
	Reactions int `json:"reactions"`
	Comments  int `json:"comments"`
	Views     int `json:"views"`
}

// Tier is the engagement partition a ranked post was placed in.
type Tier string

const (
	TierHighEngagement      Tier = "high_engagement"
	TierRecentLowEngagement Tier = "recent_low_engagement"
	TierOther               Tier = "other"
)

// Score is attached by the ranker for diagnostics.
type Score struct {
	Engagement   float64 `json:"engagement"`
	TimeDecay    float64 `json:"timeDecay"`
	RecencyBoost float64 `json:"recencyBoost"`
	Smart        float64 `json:"smart"`
	Tier         Tier    `json:"tier"`
}

// Post is the canonical entity materialized from any origin.
type Post struct {
	PostID      string     `json:"postId"`
	NaturalID   int64      `json:"naturalId"`
	Origin      Origin     `json:"origin"`
	Slug        string     `json:"slug"`
	Bucket      Bucket     `json:"categoryBucket"`
	PublishedAt time.Time  `json:"publishedAt"`
	Engagement  Engagement `json:"engagement"`

	Title        string   `json:"title"`
	Description  string   `json:"description"`
	CoverImage   string   `json:"coverImage"`
	Tags         []string `json:"tags"`
	BodyMarkdown string   `json:"bodyMarkdown,omitempty"`
	Author       string   `json:"author"`
	PostType     string   `json:"postType,omitempty"`
	ReadingTime  int      `json:"readingTime"`

	// ExternalRef is set only on static posts that alias a third-party article.
	ExternalRef *string `json:"externalRef"`

	Score *Score `json:"score,omitempty"`
}

// Permalink returns the site-relative link used by the presentation layer.
func (p Post) Permalink() string {
	return "/blog/" + url.PathEscape(p.Slug) + "?id=" + url.QueryEscape(p.PostID)
}

// Ref returns the identity reference encoded in PostID.
func (p Post) Ref() (PostRef, bool) {
	return ParseRef(p.PostID)
}

// IsRecent reports whether the post was published strictly after now-window.
func (p Post) IsRecent(now time.Time, window time.Duration) bool {
	return p.PublishedAt.After(now.Add(-window))
}
