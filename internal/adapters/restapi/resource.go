package restapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
)

// resource is the CRUD surface every collection of the persistence service
// shares.
type resource[T any] struct {
	client     *Client
	collection string
	idOf       func(T) domain.ID
}

func (r resource[T]) find(ctx context.Context, id domain.ID) (*T, error) {
	var out T
	if err := r.client.do(ctx, request{method: http.MethodGet, path: itemPath(r.collection, id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r resource[T]) list(ctx context.Context, query url.Values) ([]T, error) {
	var out []T
	if err := r.client.do(ctx, request{method: http.MethodGet, path: r.collection, query: query}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (r resource[T]) create(ctx context.Context, v T) (*T, error) {
	var out T
	if err := r.client.do(ctx, request{method: http.MethodPost, path: r.collection, body: v}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r resource[T]) update(ctx context.Context, v T) (*T, error) {
	var out T
	if err := r.client.do(ctx, request{method: http.MethodPut, path: itemPath(r.collection, r.idOf(v)), body: v}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r resource[T]) delete(ctx context.Context, id domain.ID) error {
	return r.client.do(ctx, request{method: http.MethodDelete, path: itemPath(r.collection, id)}, nil)
}
