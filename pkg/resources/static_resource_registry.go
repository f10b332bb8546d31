package resources

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// ResourceProvider provides the contents of a resource on read.
type ResourceProvider func(ctx context.Context, uri string) ([]ResourceContents, error)

// StaticResourceRegistry holds a fixed set of resources keyed by URI.
type StaticResourceRegistry struct {
	mu        sync.RWMutex
	resources map[string]Resource
	providers map[string]ResourceProvider
}

// NewStaticResourceRegistry creates a new static resource registry
func NewStaticResourceRegistry() *StaticResourceRegistry {
	return &StaticResourceRegistry{
		resources: make(map[string]Resource),
		providers: make(map[string]ResourceProvider),
	}
}

// RegisterResource registers a resource with the registry
func (r *StaticResourceRegistry) RegisterResource(resource Resource, provider ResourceProvider) error {
	if resource.URI == "" {
		return fmt.Errorf("resource URI cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.resources[resource.URI] = resource
	if provider != nil {
		r.providers[resource.URI] = provider
	}

	slog.Debug("Registered resource", "uri", resource.URI, "name", resource.Name)
	return nil
}

// RegisterStaticText registers a resource whose content is a fixed string.
func (r *StaticResourceRegistry) RegisterStaticText(resource Resource, text string) error {
	return r.RegisterResource(resource, func(ctx context.Context, uri string) ([]ResourceContents, error) {
		return []ResourceContents{NewTextResourceContents(uri, resource.MimeType, text)}, nil
	})
}

// ListResources returns a paginated list of resources sorted by URI.
func (r *StaticResourceRegistry) ListResources(ctx context.Context, opts ResourceListOptions) ResourceListResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	uris := make([]string, 0, len(r.resources))
	for uri := range r.resources {
		uris = append(uris, uri)
	}
	sort.Strings(uris)

	startPos := 0
	if opts.Cursor != "" {
		for i, uri := range uris {
			if uri == opts.Cursor {
				startPos = i + 1
				break
			}
		}
	}

	endPos := startPos + listPageSize
	if endPos > len(uris) {
		endPos = len(uris)
	}

	var result ResourceListResult
	if startPos >= len(uris) {
		return result
	}

	result.Resources = make([]Resource, 0, endPos-startPos)
	for i := startPos; i < endPos; i++ {
		result.Resources = append(result.Resources, r.resources[uris[i]])
	}

	if endPos < len(uris) {
		result.NextCursor = uris[endPos-1]
	}

	return result
}

// ReadResource reads a resource by URI
func (r *StaticResourceRegistry) ReadResource(ctx context.Context, uri string) ([]ResourceContents, error) {
	r.mu.RLock()
	provider, providerExists := r.providers[uri]
	_, resourceExists := r.resources[uri]
	r.mu.RUnlock()

	if !resourceExists {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, uri)
	}
	if !providerExists {
		return nil, fmt.Errorf("%w: no provider for %s", ErrResourceNotFound, uri)
	}

	contents, err := provider(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("failed to read resource %s: %w", uri, err)
	}
	return contents, nil
}

var _ ResourceRegistry = (*StaticResourceRegistry)(nil)
