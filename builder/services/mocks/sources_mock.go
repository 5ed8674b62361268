// Package mocks provides mock implementations for testing
package mocks

import (
	"context"
	"sync"

	"github.com/Kush-Singh-26/folio/builder/devto"
	"github.com/Kush-Singh-26/folio/builder/sources"
	"github.com/Kush-Singh-26/folio/builder/store"
)

type calls struct {
	mu        sync.Mutex
	CallCount map[string]int
}

func (c *calls) recordCall(method string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.CallCount == nil {
		c.CallCount = make(map[string]int)
	}
	c.CallCount[method]++
}

// Calls returns how often method was invoked
func (c *calls) Calls(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CallCount[method]
}

// MockStaticSource is a mock implementation of services.StaticSource
type MockStaticSource struct {
	calls
	Records []sources.StaticRecord
	Err     error
}

// NewMockStaticSource creates a new mock static source
func NewMockStaticSource(records ...sources.StaticRecord) *MockStaticSource {
	return &MockStaticSource{Records: records}
}

// ListStaticPosts returns the configured records
func (m *MockStaticSource) ListStaticPosts(ctx context.Context) ([]sources.StaticRecord, error) {
	m.recordCall("ListStaticPosts")
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]sources.StaticRecord, len(m.Records))
	copy(out, m.Records)
	return out, nil
}

// FindBySlug returns the record with the given slug
func (m *MockStaticSource) FindBySlug(ctx context.Context, slug string) (*sources.StaticRecord, error) {
	m.recordCall("FindBySlug")
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Records {
		if m.Records[i].Slug == slug {
			rec := m.Records[i]
			return &rec, nil
		}
	}
	return nil, nil
}

// MockAdminSource is a mock implementation of services.AdminSource
type MockAdminSource struct {
	calls
	Posts   map[string]*store.AdminPost
	Skipped []string
	Err     error
}

// NewMockAdminSource creates a new mock admin source
func NewMockAdminSource(posts ...*store.AdminPost) *MockAdminSource {
	m := &MockAdminSource{Posts: make(map[string]*store.AdminPost)}
	for _, p := range posts {
		m.Posts[p.ID] = p
	}
	return m
}

// ListAdminPosts returns every configured post
func (m *MockAdminSource) ListAdminPosts(ctx context.Context) (map[string]*store.AdminPost, []string, error) {
	m.recordCall("ListAdminPosts")
	if m.Err != nil {
		return nil, nil, m.Err
	}
	out := make(map[string]*store.AdminPost, len(m.Posts))
	for id, p := range m.Posts {
		out[id] = p
	}
	return out, m.Skipped, nil
}

// GetAdminPost returns a post by ID
func (m *MockAdminSource) GetAdminPost(ctx context.Context, id string) (*store.AdminPost, error) {
	m.recordCall("GetAdminPost")
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Posts[id], nil
}

// MockExternalSource is a mock implementation of services.ExternalSource
type MockExternalSource struct {
	calls
	Articles   []devto.Article
	Credential bool
	ListErr    error
	GetErr     error
	// Block makes every call wait for ctx to be done.
	Block bool
}

// NewMockExternalSource creates a mock with a credential configured
func NewMockExternalSource(articles ...devto.Article) *MockExternalSource {
	return &MockExternalSource{Articles: articles, Credential: true}
}

// HasCredential reports the configured credential state
func (m *MockExternalSource) HasCredential() bool {
	return m.Credential
}

// ListArticles returns the configured articles
func (m *MockExternalSource) ListArticles(ctx context.Context) ([]devto.Article, error) {
	m.recordCall("ListArticles")
	if m.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if !m.Credential {
		return nil, devto.ErrNoAPIKey
	}
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]devto.Article, len(m.Articles))
	copy(out, m.Articles)
	return out, nil
}

// GetArticle returns the article with the given id
func (m *MockExternalSource) GetArticle(ctx context.Context, id int64) (*devto.Article, error) {
	m.recordCall("GetArticle")
	if m.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if !m.Credential {
		return nil, devto.ErrNoAPIKey
	}
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	for i := range m.Articles {
		if m.Articles[i].ID == id {
			a := m.Articles[i]
			return &a, nil
		}
	}
	return nil, devto.ErrArticleNotFound
}
