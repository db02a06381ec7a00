package graph

import (
	"context"

	"github.com/archlens/archlens/internal/archgraph"
)

// Repository provides persistent storage for analyzed dependency graphs.
type Repository interface {
	// StoreAnalysis persists the modules, edges and cycle membership of one
	// analysis run under a project identifier.
	StoreAnalysis(ctx context.Context, projectID string, modules []archgraph.Module, edges []archgraph.Edge, result *archgraph.Result) error
	// LoadModules retrieves the stored module list for a project.
	LoadModules(ctx context.Context, projectID string) ([]archgraph.Module, error)
	// LoadEdges retrieves the stored dependency edges for a project.
	LoadEdges(ctx context.Context, projectID string) ([]archgraph.Edge, error)
	// Close releases resources.
	Close(ctx context.Context) error
}
