package archgraph

import (
	"context"
	"log/slog"

	"github.com/archlens/archlens/internal/observability"
)

// Options control a single analysis run.
type Options struct {
	DetectCircular     bool
	GenerateGraph      bool
	Diagram            DiagramFormat
	MaxGraphEdges      int
	HighCouplingDegree int
	Layers             *LayerRules
}

// Analyze runs the full pipeline once: build the graph, detect cycles,
// validate layers, compute metrics and optionally render a diagram.
//
// Every stage is pure and deterministic; the only failure mode is malformed
// input rejected by the builder. The computation is synchronous and holds no
// state across invocations, so independent analyses may run concurrently as
// long as each receives its own input slices.
func Analyze(ctx context.Context, modules []Module, edges []Edge, opts Options) (*Result, error) {
	ctx, span := observability.StartStageSpan(ctx, "build")
	g, err := Build(modules, edges)
	span.End()
	if err != nil {
		return nil, err
	}

	result := &Result{
		Summary: Summary{
			ModuleCount: g.NodeCount(),
			EdgeCount:   g.EdgeCount(),
		},
	}
	slog.Debug("graph built", "modules", g.NodeCount(), "edges", g.EdgeCount())

	if opts.DetectCircular {
		ctx, span = observability.StartStageSpan(ctx, "cycles")
		result.Cycles = DetectCycles(g)
		span.End()
		slog.Debug("cycle detection done", "cycles", len(result.Cycles))
	}

	ctx, span = observability.StartStageSpan(ctx, "layers")
	result.Violations = ValidateLayers(g, opts.Layers)
	span.End()

	ctx, span = observability.StartStageSpan(ctx, "metrics")
	result.Metrics = ComputeMetrics(g, opts.HighCouplingDegree)
	span.End()

	if opts.GenerateGraph {
		_, span = observability.StartStageSpan(ctx, "render")
		result.Diagram = Render(g, opts.Diagram, opts.MaxGraphEdges)
		span.End()
	}

	return result, nil
}
