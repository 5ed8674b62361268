package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

var ErrMissingID = errors.New("admin post has no id")

// Manager owns the admin post database
type Manager struct {
	db              *bolt.DB
	blobs           *Blobs
	inlineThreshold int
}

// Open opens or creates the database at path. Bodies longer than
// inlineThreshold bytes are kept in a blob directory next to it.
func Open(path string, timeout time.Duration, inlineThreshold int) (*Manager, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	opts := &bolt.Options{
		Timeout:      timeout,
		FreelistType: bolt.FreelistArrayType,
	}
	db, err := bolt.Open(path, 0644, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BoltDB: %w", err)
	}

	blobs, err := NewBlobs(path + ".blobs")
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create blob store: %w", err)
	}

	m := &Manager{db: db, blobs: blobs, inlineThreshold: inlineThreshold}
	if err := m.initSchema(); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return m, nil
}

// Close closes the database and blob store
func (m *Manager) Close() error {
	if m.blobs != nil {
		_ = m.blobs.Close()
	}
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// initSchema creates all buckets if they don't exist
func (m *Manager) initSchema() error {
	return m.db.Update(func(tx *bolt.Tx) error {
		for _, name := range AllBuckets() {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}

		meta := tx.Bucket([]byte(BucketMeta))
		if meta.Get([]byte(KeySchemaVersion)) == nil {
			v := make([]byte, 4)
			binary.BigEndian.PutUint32(v, SchemaVersion)
			return meta.Put([]byte(KeySchemaVersion), v)
		}
		return nil
	})
}

// PutPost inserts or replaces a post keyed by its ID
func (m *Manager) PutPost(post *AdminPost) error {
	if post == nil || post.ID == "" {
		return ErrMissingID
	}

	stored := *post
	stored.BodyHash = ""
	if len(stored.Content) > m.inlineThreshold {
		hash, err := m.blobs.Put([]byte(stored.Content))
		if err != nil {
			return fmt.Errorf("store body of %s: %w", post.ID, err)
		}
		stored.BodyHash = hash
		stored.Content = ""
	}

	data, err := Encode(&stored)
	if err != nil {
		return fmt.Errorf("encode %s: %w", post.ID, err)
	}
	return m.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketPosts)).Put([]byte(post.ID), data)
	})
}

// GetPost returns the post with the given ID, or nil if there is none
func (m *Manager) GetPost(id string) (*AdminPost, error) {
	post, err := getItem[AdminPost](m.db, BucketPosts, []byte(id))
	if err != nil || post == nil {
		return nil, err
	}
	if err := m.hydrate(post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListPosts returns every readable post keyed by ID. A record that fails to
// decode, or whose body blob is gone, is left out and its ID reported in
// skipped (sorted). Only a database failure is returned as an error.
func (m *Manager) ListPosts() (map[string]*AdminPost, []string, error) {
	result := make(map[string]*AdminPost)
	var skipped []string
	err := m.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketPosts)).ForEach(func(k, v []byte) error {
			var post AdminPost
			if err := Decode(v, &post); err != nil {
				skipped = append(skipped, string(k))
				return nil
			}
			result[string(k)] = &post
			return nil
		})
	})
	if err != nil {
		return nil, nil, err
	}

	for id, post := range result {
		if err := m.hydrate(post); err != nil {
			delete(result, id)
			skipped = append(skipped, id)
		}
	}
	sort.Strings(skipped)
	return result, skipped, nil
}

// DeletePost removes a post. Its body blob is removed when no other post
// shares it. Deleting a missing post is not an error.
func (m *Manager) DeletePost(id string) error {
	var orphan string
	err := m.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(BucketPosts))
		data := bucket.Get([]byte(id))
		if data == nil {
			return nil
		}
		var post AdminPost
		if err := Decode(data, &post); err != nil {
			return err
		}
		if err := bucket.Delete([]byte(id)); err != nil {
			return err
		}
		if post.BodyHash == "" {
			return nil
		}

		shared := false
		err := bucket.ForEach(func(_, v []byte) error {
			var other AdminPost
			if err := Decode(v, &other); err == nil && other.BodyHash == post.BodyHash {
				shared = true
			}
			return nil
		})
		if !shared {
			orphan = post.BodyHash
		}
		return err
	})
	if err == nil && orphan != "" {
		m.blobs.Delete(orphan)
	}
	return err
}

// Count returns the number of stored posts
func (m *Manager) Count() (int, error) {
	var n int
	err := m.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(BucketPosts)).Stats().KeyN
		return nil
	})
	return n, err
}

func (m *Manager) hydrate(post *AdminPost) error {
	if post.BodyHash == "" {
		return nil
	}
	body, err := m.blobs.Get(post.BodyHash)
	if err != nil {
		return fmt.Errorf("load body of %s: %w", post.ID, err)
	}
	post.Content = string(body)
	return nil
}

// getItem retrieves a generic item from a bucket
func getItem[T any](db *bolt.DB, bucketName string, key []byte) (*T, error) {
	var result *T
	err := db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket == nil {
			return nil
		}
		data := bucket.Get(key)
		if data == nil {
			return nil
		}

		var item T
		if err := Decode(data, &item); err != nil {
			return err
		}
		result = &item
		return nil
	})
	return result, err
}
