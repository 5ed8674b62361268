package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// ErrBlobNotFound is returned for a body whose file is missing.
var ErrBlobNotFound = errors.New("blob not found")

// Blobs keeps large post bodies as zstd files named by their blake3 hash,
// sharded as hash[0:2]/hash[2:4]/hash.zst. Identical bodies share a file.
type Blobs struct {
	basePath string
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
}

func NewBlobs(basePath string) (*Blobs, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		_ = encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &Blobs{basePath: basePath, encoder: encoder, decoder: decoder}, nil
}

func (b *Blobs) Close() error {
	b.decoder.Close()
	return b.encoder.Close()
}

func (b *Blobs) path(hash string) string {
	if len(hash) < 4 {
		return filepath.Join(b.basePath, hash+".zst")
	}
	return filepath.Join(b.basePath, hash[0:2], hash[2:4], hash+".zst")
}

// Put stores body and returns its hash. An existing blob is left untouched.
func (b *Blobs) Put(body []byte) (string, error) {
	hash := HashContent(body)
	path := b.path(hash)
	if _, err := os.Stat(path); err == nil {
		return hash, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	// Written to a temp file and renamed, so a crash never leaves half a body.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b.encoder.EncodeAll(body, nil), 0644); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to rename blob: %w", err)
	}
	return hash, nil
}

// Get returns the body stored under hash.
func (b *Blobs) Get(hash string) ([]byte, error) {
	data, err := os.ReadFile(b.path(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, hash)
		}
		return nil, err
	}
	return b.decoder.DecodeAll(data, nil)
}

// Delete removes the body stored under hash, if any.
func (b *Blobs) Delete(hash string) {
	_ = os.Remove(b.path(hash))
}
