package profile

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/zenify/companion/internal/database"
)

// Registry hands out exactly one Store per namespace, so each document has a
// single in-process writer.
type Registry struct {
	mu      sync.Mutex
	backend database.Store
	opts    []Option
	stores  map[string]*Store
}

// NewRegistry creates a Registry whose Stores share backend and opts.
func NewRegistry(backend database.Store, opts ...Option) *Registry {
	return &Registry{
		backend: backend,
		opts:    opts,
		stores:  make(map[string]*Store),
	}
}

// Get returns the Store of namespace, creating it on first use.
func (r *Registry) Get(namespace string) (*Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores[namespace]; ok {
		return s, nil
	}
	s, err := NewStore(r.backend, namespace, r.opts...)
	if err != nil {
		return nil, err
	}
	r.stores[namespace] = s
	return s, nil
}

// Namespaces lists every namespace that has a stored profile, sorted.
func (r *Registry) Namespaces(ctx context.Context) ([]string, error) {
	keys, err := r.backend.Keys(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list namespaces: %w", err)
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		ns, ok := strings.CutSuffix(k, profileSuffix)
		if !ok || ns == "" || strings.Contains(ns, "/") {
			continue
		}
		out = append(out, ns)
	}
	sort.Strings(out)
	return out, nil
}
