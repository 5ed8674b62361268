package store

// BoltDB bucket names
const (
	BucketPosts = "posts" // {id} -> AdminPost
	BucketMeta  = "meta"  // schema_version

	KeySchemaVersion = "schema_version"
)

// AllBuckets returns all bucket names for initialization
func AllBuckets() []string {
	return []string{
		BucketPosts,
		BucketMeta,
	}
}
