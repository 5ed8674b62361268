// Package server exposes the ranked feed and post lookups over HTTP.
package server

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/zeebo/blake3"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/metrics"
	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/services"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

const gzipMinSize = 512

// Server serves the feed API. hub is nil unless content watching is on.
type Server struct {
	cfg        *config.Config
	feed       services.FeedService
	hub        *Hub
	logger     *slog.Logger
	handler    http.Handler
	httpServer *http.Server
}

// PostView is a post as returned by the API.
type PostView struct {
	models.Post
	Permalink string `json:"permalink"`
}

// FeedResponse is the body of GET /api/posts.
type FeedResponse struct {
	Posts       []PostView            `json:"posts"`
	Sources     []metrics.SourceStats `json:"sources"`
	GeneratedAt time.Time             `json:"generatedAt"`
}

func New(cfg *config.Config, feed services.FeedService, hub *Hub, logger *slog.Logger) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		feed:   feed,
		hub:    hub,
		logger: logger,
	}

	gz, err := gzhttp.NewWrapper(gzhttp.MinSize(gzipMinSize))
	if err != nil {
		return nil, fmt.Errorf("gzip wrapper: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /api/posts", gz(http.HandlerFunc(s.handlePosts)))
	mux.Handle("GET /api/posts/{postId}", gz(http.HandlerFunc(s.handlePost)))
	mux.Handle("GET /blog/{slug}", gz(http.HandlerFunc(s.handlePermalink)))
	mux.HandleFunc("GET /health", s.handleHealth)
	if hub != nil {
		mux.Handle("GET /events", hub)
	}
	s.handler = withLogging(logger, mux)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if hub != nil {
		s.httpServer.RegisterOnShutdown(hub.Close)
	}
	return s, nil
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.handler }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Serving", "addr", "http://"+s.httpServer.Addr, "reload", s.hub != nil)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Tune.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := parseLimit(q.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var result *services.FeedResult
	if raw, ok := q["bucket"]; ok {
		bucket, err := ParseBucket(raw[0], s.cfg.Buckets)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		result, err = s.feed.FeedByBucket(r.Context(), bucket)
		if err != nil {
			s.feedFailed(w, err)
			return
		}
	} else {
		result, err = s.feed.Feed(r.Context())
		if err != nil {
			s.feedFailed(w, err)
			return
		}
	}

	posts := result.Posts
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	resp := FeedResponse{
		Posts:       make([]PostView, len(posts)),
		Sources:     result.Report.Sources(),
		GeneratedAt: result.GeneratedAt,
	}
	for i, p := range posts {
		resp.Posts[i] = PostView{Post: p, Permalink: p.Permalink()}
	}
	writeCachedJSON(w, r, resp)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	s.resolve(w, r, r.PathValue("postId"))
}

// handlePermalink serves /blog/{slug}?id={postId}. Links without an id are
// treated as local posts.
func (s *Server) handlePermalink(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		id = models.LocalRef{Slug: r.PathValue("slug")}.String()
	}
	s.resolve(w, r, id)
}

func (s *Server) resolve(w http.ResponseWriter, r *http.Request, postID string) {
	post, err := s.feed.Resolve(r.Context(), postID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			s.logger.Debug("Post not found", "postId", postID)
			writeError(w, http.StatusNotFound, "not_found", "no post matches "+postID)
			return
		}
		s.logger.Error("Resolve failed", "postId", postID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to load post")
		return
	}
	writeCachedJSON(w, r, PostView{Post: *post, Permalink: post.Permalink()})
}

func (s *Server) feedFailed(w http.ResponseWriter, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	s.logger.Error("Feed failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal", "failed to build feed")
}

// writeCachedJSON writes v with a content hash ETag and answers a matching
// If-None-Match with 304.
func writeCachedJSON(w http.ResponseWriter, r *http.Request, v any) {
	buf := utils.SharedBufferPool.Get()
	defer utils.SharedBufferPool.Put(buf)
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "encode response")
		return
	}
	body := buf.Bytes()
	sum := blake3.Sum256(body)
	etag := `"` + hex.EncodeToString(sum[:16]) + `"`

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, map[string]string{
		"error":   errType,
		"message": message,
	})
}

func withLogging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration", time.Since(start),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Unwrap lets http.ResponseController reach the Flusher underneath.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
