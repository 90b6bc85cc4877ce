// Package extract isolates clean article content from loaded pages.
package extract

import (
	"context"
	"fmt"

	"github.com/sh1dan/infoseek/internal/domain"
	"github.com/sh1dan/infoseek/internal/ports"
)

// Strategy is one way of pulling article content out of the active tab.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, sess ports.Session, sourceURL string) (domain.ExtractedArticle, error)
}

// Registry keeps a mapping from strategy names to their implementations so
// call sites select extraction behavior by name.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: map[string]Strategy{}}
}

// Register adds or replaces a strategy implementation.
func (r *Registry) Register(s Strategy) {
	if r.strategies == nil {
		r.strategies = map[string]Strategy{}
	}
	r.strategies[s.Name()] = s
}

// Resolve returns a strategy by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Strategy, error) {
	if s, ok := r.strategies[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("extraction strategy %s is not registered", name)
}
