package models

import (
	"strconv"
	"strings"
)

// Wire prefixes embedded in generated permalinks. Changing them breaks every
// published link.
const (
	AdminPrefix = "admin-"
	LocalPrefix = "local-"
)

// PostRef is the decoded form of a postId. Exactly one of AdminRef, LocalRef
// or ExternalRef; the set is closed by the unexported marker method.
type PostRef interface {
	String() string
	Origin() Origin
	isPostRef()
}

// AdminRef points at a record in the admin store by its key.
type AdminRef struct{ ID string }

// LocalRef points at a static content file by slug.
type LocalRef struct{ Slug string }

// ExternalRef points at a third-party article by its numeric id. It is also
// the encoding used by static posts that alias such an article.
type ExternalRef struct{ ID int64 }

func (r AdminRef) String() string    { return AdminPrefix + r.ID }
func (r LocalRef) String() string    { return LocalPrefix + r.Slug }
func (r ExternalRef) String() string { return strconv.FormatInt(r.ID, 10) }

func (AdminRef) Origin() Origin    { return OriginAdmin }
func (LocalRef) Origin() Origin    { return OriginStatic }
func (ExternalRef) Origin() Origin { return OriginExternal }

func (AdminRef) isPostRef()    {}
func (LocalRef) isPostRef()    {}
func (ExternalRef) isPostRef() {}

// ParseRef decodes a postId. Precedence is admin prefix, local prefix, then
// a purely numeric string. Anything else, including a bare prefix, is not a
// valid reference.
func ParseRef(s string) (PostRef, bool) {
	switch {
	case strings.HasPrefix(s, AdminPrefix):
		id := strings.TrimPrefix(s, AdminPrefix)
		if id == "" {
			return nil, false
		}
		return AdminRef{ID: id}, true
	case strings.HasPrefix(s, LocalPrefix):
		slug := strings.TrimPrefix(s, LocalPrefix)
		if slug == "" {
			return nil, false
		}
		return LocalRef{Slug: slug}, true
	case isDigits(s):
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, false
		}
		return ExternalRef{ID: id}, true
	}
	return nil, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
