package temporal

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/workflow"
)

// AnalysisInput holds the workflow parameters.
type AnalysisInput struct {
	ProjectID string
	Path      string

	// StoreResult persists the analyzed graph to the repository.
	StoreResult bool
}

// AnalysisOutput holds the workflow result.
type AnalysisOutput struct {
	ProjectID   string
	ModuleCount int
	EdgeCount   int
	CycleCount  int
	Violations  int
	Coupling    float64
	Cohesion    float64
	ResultJSON  string
}

// AnalysisWorkflow orchestrates the scan → analyze → store pipeline.
func AnalysisWorkflow(ctx workflow.Context, input AnalysisInput) (*AnalysisOutput, error) {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	// Step 1: scan the project tree
	var scanResult ActivityResult
	if err := workflow.ExecuteActivity(ctx, ScanActivity, input).Get(ctx, &scanResult); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	// Step 2: run the analysis
	var analyzeResult ActivityResult
	if err := workflow.ExecuteActivity(ctx, AnalyzeActivity, input, scanResult.ModulesJSON, scanResult.EdgesJSON).Get(ctx, &analyzeResult); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	// Step 3: persist if requested
	if input.StoreResult {
		if err := workflow.ExecuteActivity(ctx, StoreActivity, input, scanResult.ModulesJSON, scanResult.EdgesJSON, analyzeResult.ResultJSON).Get(ctx, nil); err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
	}

	return &AnalysisOutput{
		ProjectID:   input.ProjectID,
		ModuleCount: analyzeResult.ModuleCount,
		EdgeCount:   analyzeResult.EdgeCount,
		CycleCount:  analyzeResult.CycleCount,
		Violations:  analyzeResult.Violations,
		Coupling:    analyzeResult.Coupling,
		Cohesion:    analyzeResult.Cohesion,
		ResultJSON:  analyzeResult.ResultJSON,
	}, nil
}
