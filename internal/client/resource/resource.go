// Package resource implements the CRUD clients for customers, jobs and
// technicians on top of the api package. Every call goes through
// WithPathFallback and every body through the normalization helpers.
package resource

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/UnknownOlympus/zynor/internal/client/api"
	"github.com/UnknownOlympus/zynor/internal/metrics"
)

// Doer is the part of *api.Client the resource clients depend on.
type Doer interface {
	Do(ctx context.Context, method, path string, body any) (*api.Response, error)
	ResolvePath(path string) string
	Prefixed(path string) string
}

// Resource is a generic CRUD client for the collection mounted at /name.
type Resource[T any] struct {
	doer    Doer
	log     *slog.Logger
	metrics *metrics.Metrics
	name    string
}

// NewResource creates a Resource for the named collection. m may be nil.
func NewResource[T any](doer Doer, log *slog.Logger, m *metrics.Metrics, name string) *Resource[T] {
	return &Resource[T]{
		doer:    doer,
		log:     log.With("resource", name),
		metrics: m,
		name:    strings.Trim(name, "/"),
	}
}

// Name returns the collection name, e.g. "customers".
func (r *Resource[T]) Name() string {
	return r.name
}

// List fetches the collection. query may be nil.
func (r *Resource[T]) List(ctx context.Context, query url.Values) ([]T, error) {
	path := "/" + r.name
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	resp, err := r.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	shape := ClassifyList(resp.Body)
	if shape.Kind == ShapeUnrecognized {
		r.log.WarnContext(ctx, "Unrecognized list response shape, treating as empty",
			"status", resp.Status, "bytes", len(resp.Body))
	}

	items, err := DecodeList[T](shape)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Get fetches a single record. It returns nil when the body carries no record.
func (r *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	resp, err := r.send(ctx, http.MethodGet, r.itemPath(id), nil)
	if err != nil {
		return nil, err
	}
	return UnwrapItem[T](resp.Body)
}

// Create posts payload and returns the created record.
func (r *Resource[T]) Create(ctx context.Context, payload any) (*T, error) {
	resp, err := r.send(ctx, http.MethodPost, "/"+r.name, payload)
	if err != nil {
		return nil, err
	}
	return UnwrapItem[T](resp.Body)
}

// Update puts payload to the record and returns the updated record.
func (r *Resource[T]) Update(ctx context.Context, id string, payload any) (*T, error) {
	resp, err := r.send(ctx, http.MethodPut, r.itemPath(id), payload)
	if err != nil {
		return nil, err
	}
	return UnwrapItem[T](resp.Body)
}

// Delete removes the record.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	_, err := r.send(ctx, http.MethodDelete, r.itemPath(id), nil)
	return err
}

func (r *Resource[T]) itemPath(id string) string {
	return "/" + r.name + "/" + url.PathEscape(id)
}

// send issues the request on path and, on 404, once more under the API root.
// No retry is made when both paths end up at the same URL.
func (r *Resource[T]) send(ctx context.Context, method, path string, body any) (*api.Response, error) {
	fallback := r.doer.Prefixed(path)
	if r.doer.ResolvePath(path) == r.doer.ResolvePath(fallback) {
		fallback = ""
	}

	return WithPathFallback(ctx, path, fallback, func(ctx context.Context, p string) (*api.Response, error) {
		if fallback != "" && p == fallback {
			r.noteFallback(ctx, method, path, fallback)
		}
		return r.doer.Do(ctx, method, p, body)
	})
}

func (r *Resource[T]) noteFallback(ctx context.Context, method, primary, fallback string) {
	r.log.InfoContext(ctx, "Path not found, retrying under the API root",
		"method", method, "path", primary, "fallback", fallback)
	if r.metrics != nil {
		r.metrics.PathFallbacks.WithLabelValues(r.name).Inc()
	}
}
