package ingest

import (
	"context"
	"fmt"

	"CosmeticsWatch/internal/domain"
)

// Request carries all parameters required to load one dataset.
type Request struct {
	Name string
	Path string
}

// Loader parses a single regulatory dataset kind (notification list,
// cancellation list, etc.) into catalog records.
type Loader interface {
	Kind() string
	Load(ctx context.Context, req Request) ([]domain.NotificationRecord, error)
}

// Registry keeps a mapping from dataset kinds to their loaders.
type Registry struct {
	loaders map[string]Loader
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{loaders: map[string]Loader{}}
}

// Register adds or replaces a loader implementation.
func (r *Registry) Register(loader Loader) {
	if r.loaders == nil {
		r.loaders = map[string]Loader{}
	}
	r.loaders[loader.Kind()] = loader
}

// Resolve returns a loader by kind or an error if it is absent.
func (r *Registry) Resolve(kind string) (Loader, error) {
	if loader, ok := r.loaders[kind]; ok {
		return loader, nil
	}
	return nil, fmt.Errorf("dataset kind %s is not registered", kind)
}
