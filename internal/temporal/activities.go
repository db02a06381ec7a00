package temporal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/archlens/archlens/internal/archgraph"
	"github.com/archlens/archlens/internal/graph"
	"github.com/archlens/archlens/internal/observability"
	"github.com/archlens/archlens/internal/scanner"
)

// ActivityResult is the serializable result passed between activities.
type ActivityResult struct {
	ModulesJSON string
	EdgesJSON   string
	ResultJSON  string

	ModuleCount int
	EdgeCount   int
	CycleCount  int
	Violations  int
	Coupling    float64
	Cohesion    float64
}

// Dependencies holds shared resources injected into activities.
type Dependencies struct {
	Scanner    *scanner.Scanner
	Repository graph.Repository
	Options    archgraph.Options
}

var deps *Dependencies

// SetDependencies injects shared resources (called during worker setup).
func SetDependencies(d *Dependencies) {
	deps = d
}

func ScanActivity(ctx context.Context, input AnalysisInput) (ActivityResult, error) {
	observability.Audit().LogScanStart(ctx, input.ProjectID, input.Path)

	start := time.Now()
	modules, edges, err := deps.Scanner.Scan(ctx, input.Path)
	observability.Metrics().RecordScan(time.Since(start), len(modules), err)
	if err != nil {
		observability.Audit().LogScanError(ctx, input.ProjectID, err)
		return ActivityResult{}, fmt.Errorf("scan %s: %w", input.Path, err)
	}
	observability.Audit().LogScanComplete(ctx, input.ProjectID, time.Since(start), len(modules), len(edges))

	modulesJSON, err := json.Marshal(modules)
	if err != nil {
		return ActivityResult{}, fmt.Errorf("marshal modules: %w", err)
	}
	edgesJSON, err := json.Marshal(edges)
	if err != nil {
		return ActivityResult{}, fmt.Errorf("marshal edges: %w", err)
	}

	return ActivityResult{
		ModulesJSON: string(modulesJSON),
		EdgesJSON:   string(edgesJSON),
	}, nil
}

func AnalyzeActivity(ctx context.Context, input AnalysisInput, modulesJSON, edgesJSON string) (ActivityResult, error) {
	var modules []archgraph.Module
	if err := json.Unmarshal([]byte(modulesJSON), &modules); err != nil {
		return ActivityResult{}, err
	}
	var edges []archgraph.Edge
	if err := json.Unmarshal([]byte(edgesJSON), &edges); err != nil {
		return ActivityResult{}, err
	}

	ctx, span := observability.StartStageSpan(ctx, "run")
	defer span.End()

	start := time.Now()
	result, err := archgraph.Analyze(ctx, modules, edges, deps.Options)
	if err != nil {
		observability.RecordError(span, err)
		return ActivityResult{}, err
	}
	observability.RecordAnalysisStats(span, result.Summary.ModuleCount, result.Summary.EdgeCount, len(result.Cycles), len(result.Violations))
	observability.Metrics().RecordAnalysis(time.Since(start), len(result.Cycles), len(result.Violations))
	observability.Audit().LogAnalysisRun(ctx, input.ProjectID, time.Since(start), len(result.Cycles), len(result.Violations))

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return ActivityResult{}, err
	}

	return ActivityResult{
		ResultJSON:  string(resultJSON),
		ModuleCount: result.Summary.ModuleCount,
		EdgeCount:   result.Summary.EdgeCount,
		CycleCount:  len(result.Cycles),
		Violations:  len(result.Violations),
		Coupling:    result.Metrics.Coupling,
		Cohesion:    result.Metrics.Cohesion,
	}, nil
}

func StoreActivity(ctx context.Context, input AnalysisInput, modulesJSON, edgesJSON, resultJSON string) error {
	if deps.Repository == nil {
		return fmt.Errorf("no repository configured")
	}

	var modules []archgraph.Module
	if err := json.Unmarshal([]byte(modulesJSON), &modules); err != nil {
		return err
	}
	var edges []archgraph.Edge
	if err := json.Unmarshal([]byte(edgesJSON), &edges); err != nil {
		return err
	}
	var result archgraph.Result
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return err
	}

	start := time.Now()
	err := deps.Repository.StoreAnalysis(ctx, input.ProjectID, modules, edges, &result)
	observability.Metrics().RecordStore(time.Since(start), err)
	observability.Audit().LogStoreWrite(ctx, input.ProjectID, time.Since(start), err)
	return err
}
