// Package sources reads raw post records from the three content origins.
package sources

import (
	"errors"
	"fmt"

	"github.com/Kush-Singh-26/folio/builder/devto"
	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/store"
)

// ErrNoCredential marks an origin that is not configured and was skipped.
var ErrNoCredential = errors.New("source not configured")

// SourceError reports that one origin could not be read.
type SourceError struct {
	Origin models.Origin
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Origin, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Unavailable wraps err as a SourceError unless it already is one.
func Unavailable(origin models.Origin, err error) error {
	if err == nil {
		return nil
	}
	var se *SourceError
	if errors.As(err, &se) {
		return err
	}
	return &SourceError{Origin: origin, Err: err}
}

// Record is a raw record in its origin's native shape.
type Record interface {
	Origin() models.Origin
}

// StaticRecord is one parsed content file.
type StaticRecord struct {
	Slug      string
	Path      string
	Meta      map[string]interface{}
	Body      string
	WordCount int
}

// AdminRecord is one admin store entry with its key.
type AdminRecord struct {
	ID   string
	Post *store.AdminPost
}

// ExternalRecord is one third-party article.
type ExternalRecord struct {
	Article *devto.Article
}

func (StaticRecord) Origin() models.Origin   { return models.OriginStatic }
func (AdminRecord) Origin() models.Origin    { return models.OriginAdmin }
func (ExternalRecord) Origin() models.Origin { return models.OriginExternal }
