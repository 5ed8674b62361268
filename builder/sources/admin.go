package sources

import (
	"context"

	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/store"
)

// AdminReader reads posts written through the admin panel. A nil store means
// the admin database is not configured, which yields no posts and no error.
type AdminReader struct {
	store *store.Manager
}

func NewAdminReader(m *store.Manager) *AdminReader {
	return &AdminReader{store: m}
}

// Configured reports whether a store is attached.
func (r *AdminReader) Configured() bool {
	return r != nil && r.store != nil
}

// ListAdminPosts returns every readable admin post keyed by its store ID,
// plus the IDs of records that could not be read.
func (r *AdminReader) ListAdminPosts(ctx context.Context) (map[string]*store.AdminPost, []string, error) {
	if !r.Configured() {
		return map[string]*store.AdminPost{}, nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, Unavailable(models.OriginAdmin, err)
	}
	posts, skipped, err := r.store.ListPosts()
	if err != nil {
		return nil, nil, Unavailable(models.OriginAdmin, err)
	}
	return posts, skipped, nil
}

// GetAdminPost returns one post by store ID, or nil when absent.
func (r *AdminReader) GetAdminPost(ctx context.Context, id string) (*store.AdminPost, error) {
	if !r.Configured() {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, Unavailable(models.OriginAdmin, err)
	}
	post, err := r.store.GetPost(id)
	if err != nil {
		return nil, Unavailable(models.OriginAdmin, err)
	}
	return post, nil
}
