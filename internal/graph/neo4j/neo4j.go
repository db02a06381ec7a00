package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/archlens/archlens/internal/archgraph"
	"github.com/archlens/archlens/internal/graph"
)

// Neo4jRepository implements graph.Repository using Neo4j.
type Neo4jRepository struct {
	driver neo4j.DriverWithContext
}

// NewNeo4j creates a Neo4j-backed repository.
func NewNeo4j(ctx context.Context, uri, username, password string) (*Neo4jRepository, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("neo4j connectivity: %w", err)
	}
	return &Neo4jRepository{driver: driver}, nil
}

func (r *Neo4jRepository) StoreAnalysis(ctx context.Context, projectID string, modules []archgraph.Module, edges []archgraph.Edge, result *archgraph.Result) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	cyclic := make(map[string]bool)
	if result != nil {
		for _, c := range result.Cycles {
			for _, m := range c.Members {
				cyclic[m] = true
			}
		}
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, mod := range modules {
			_, err := tx.Run(ctx,
				"MERGE (m:Module {id: $id, project: $project}) SET m.layer = $layer, m.cyclic = $cyclic",
				map[string]any{
					"id":      mod.ID,
					"project": projectID,
					"layer":   mod.Layer,
					"cyclic":  cyclic[mod.ID],
				})
			if err != nil {
				return nil, fmt.Errorf("store module %s: %w", mod.ID, err)
			}
		}
		for _, e := range edges {
			_, err := tx.Run(ctx,
				"MERGE (a:Module {id: $from, project: $project}) "+
					"MERGE (b:Module {id: $to, project: $project}) "+
					"MERGE (a)-[:DEPENDS_ON]->(b)",
				map[string]any{"from": e.From, "to": e.To, "project": projectID})
			if err != nil {
				return nil, fmt.Errorf("store edge %s->%s: %w", e.From, e.To, err)
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("store analysis %s: %w", projectID, err)
	}
	return nil
}

func (r *Neo4jRepository) LoadModules(ctx context.Context, projectID string) ([]archgraph.Module, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx,
			"MATCH (m:Module {project: $project}) RETURN m.id, m.layer ORDER BY m.id",
			map[string]any{"project": projectID})
		if err != nil {
			return nil, err
		}

		var modules []archgraph.Module
		for records.Next(ctx) {
			rec := records.Record()
			id, _ := rec.Get("m.id")
			layer, _ := rec.Get("m.layer")

			mod := archgraph.Module{ID: id.(string)}
			if layer != nil {
				mod.Layer = layer.(string)
			}
			modules = append(modules, mod)
		}
		return modules, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]archgraph.Module), nil
}

func (r *Neo4jRepository) LoadEdges(ctx context.Context, projectID string) ([]archgraph.Edge, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx,
			"MATCH (a:Module {project: $project})-[:DEPENDS_ON]->(b:Module {project: $project}) "+
				"RETURN a.id, b.id ORDER BY a.id, b.id",
			map[string]any{"project": projectID})
		if err != nil {
			return nil, err
		}
		var edges []archgraph.Edge
		for records.Next(ctx) {
			rec := records.Record()
			from, _ := rec.Get("a.id")
			to, _ := rec.Get("b.id")
			edges = append(edges, archgraph.Edge{From: from.(string), To: to.(string)})
		}
		return edges, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]archgraph.Edge), nil
}

func (r *Neo4jRepository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

var _ graph.Repository = (*Neo4jRepository)(nil)
