// Package store provides the BoltDB backed admin post store. Records are
// msgpack encoded; large bodies live in a zstd content-addressed blob store.
package store

import (
	"encoding/hex"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/blake3"
)

// AdminPost is a post authored through the admin panel.
type AdminPost struct {
	ID            string    `msgpack:"id" json:"id"`
	Title         string    `msgpack:"title" json:"title"`
	Description   string    `msgpack:"description" json:"description"`
	Content       string    `msgpack:"content,omitempty" json:"content"`
	Tags          []string  `msgpack:"tags" json:"tags"`
	Category      string    `msgpack:"category" json:"category"`
	Published     bool      `msgpack:"published" json:"published"`
	Author        string    `msgpack:"author" json:"author"`
	CoverImage    string    `msgpack:"cover_image" json:"coverImage"`
	CreatedAt     time.Time `msgpack:"created_at" json:"createdAt"`
	PublishedAt   time.Time `msgpack:"published_at" json:"publishedAt"`
	ViewsCount    int       `msgpack:"views_count" json:"viewsCount"`
	LikesCount    int       `msgpack:"likes_count" json:"likesCount"`
	CommentsCount int       `msgpack:"comments_count" json:"commentsCount"`

	// BodyHash is set when Content was moved to the blob store.
	BodyHash string `msgpack:"body_hash,omitempty" json:"-"`
}

// SchemaVersion is written to the meta bucket on first open.
const SchemaVersion = 1

// HashContent computes BLAKE3 hash of content and returns hex string
func HashContent(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Encode serializes a value to msgpack bytes
func Encode(v interface{}) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Decode deserializes msgpack bytes to a value
func Decode(data []byte, v interface{}) error {
	return msgpack.Unmarshal(data, v)
}
