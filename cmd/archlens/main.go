package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/archlens/archlens/internal/archgraph"
	"github.com/archlens/archlens/internal/config"
	"github.com/archlens/archlens/internal/graph"
	"github.com/archlens/archlens/internal/graph/neo4j"
	"github.com/archlens/archlens/internal/observability"
	"github.com/archlens/archlens/internal/report"
	"github.com/archlens/archlens/internal/scanner"
)

func main() {
	var (
		path       string
		configPath string
		projectID  string
		jsonReport bool
		diagram    string
		store      bool
	)

	rootCmd := &cobra.Command{
		Use:   "archlens",
		Short: "Dependency graph analysis for multi-language codebases",
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Scan a project and run the full analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(configPath, path, projectID, diagram, jsonReport, store)
		},
	}
	analyzeCmd.Flags().StringVar(&path, "path", "", "Project root to analyze")
	analyzeCmd.Flags().StringVar(&configPath, "config", "configs/archlens.yaml", "Config file path")
	analyzeCmd.Flags().StringVar(&projectID, "project", "default", "Project identifier for the graph store")
	analyzeCmd.Flags().StringVar(&diagram, "diagram", "", "Diagram format override (mermaid or dot)")
	analyzeCmd.Flags().BoolVar(&jsonReport, "json", false, "Output the result as JSON")
	analyzeCmd.Flags().BoolVar(&store, "store", false, "Persist the analysis to Neo4j")
	_ = analyzeCmd.MarkFlagRequired("path")

	graphCmd := &cobra.Command{
		Use:   "graph",
		Short: "Print a dependency diagram for a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(configPath, path, diagram)
		},
	}
	graphCmd.Flags().StringVar(&path, "path", "", "Project root to analyze")
	graphCmd.Flags().StringVar(&configPath, "config", "configs/archlens.yaml", "Config file path")
	graphCmd.Flags().StringVar(&diagram, "diagram", "mermaid", "Diagram format (mermaid or dot)")
	_ = graphCmd.MarkFlagRequired("path")

	rootCmd.AddCommand(analyzeCmd, graphCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAnalyze(configPath, path, projectID, diagram string, jsonReport, store bool) error {
	cfg := loadConfig(configPath)
	setupLogger(cfg.Log)

	ctx := context.Background()

	if cfg.Log.AuditLog != "" {
		if err := observability.InitGlobalAuditLogger(&observability.AuditConfig{
			Enabled:    true,
			OutputPath: cfg.Log.AuditLog,
		}); err != nil {
			return fmt.Errorf("audit log: %w", err)
		}
		defer observability.Audit().Close()
	}

	tp, err := observability.InitTracing(ctx, &observability.TracingConfig{
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
		Environment:  cfg.Tracing.Environment,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer tp.Shutdown(ctx)

	modules, edges, err := scanProject(ctx, cfg, path)
	if err != nil {
		return err
	}

	opts := analysisOptions(cfg)
	if diagram != "" {
		opts.GenerateGraph = true
		opts.Diagram = archgraph.DiagramFormat(diagram)
	}

	start := time.Now()
	result, err := archgraph.Analyze(ctx, modules, edges, opts)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	observability.Audit().LogAnalysisRun(ctx, projectID, time.Since(start), len(result.Cycles), len(result.Violations))

	if store {
		if err := storeResult(ctx, cfg, projectID, modules, edges, result); err != nil {
			return err
		}
	}

	if jsonReport {
		data, err := report.ExportJSON(result)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		observability.Audit().LogReportExport(ctx, projectID, "json", len(data))
	} else {
		text := report.FormatText(result)
		fmt.Print(text)
		observability.Audit().LogReportExport(ctx, projectID, "text", len(text))
	}

	if len(result.Cycles) > 0 || len(result.Violations) > 0 {
		os.Exit(1)
	}
	return nil
}

func runGraph(configPath, path, diagram string) error {
	cfg := loadConfig(configPath)
	setupLogger(cfg.Log)

	ctx := context.Background()

	modules, edges, err := scanProject(ctx, cfg, path)
	if err != nil {
		return err
	}

	opts := analysisOptions(cfg)
	opts.DetectCircular = false
	opts.Layers = nil
	opts.GenerateGraph = true
	opts.Diagram = archgraph.DiagramFormat(diagram)

	result, err := archgraph.Analyze(ctx, modules, edges, opts)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	fmt.Println(result.Diagram)
	return nil
}

func loadConfig(configPath string) *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config load failed (%v), using defaults\n", err)
		cfg = &config.Config{
			Analysis: config.AnalysisConfig{
				DetectCircular:     true,
				Diagram:            "mermaid",
				MaxGraphEdges:      archgraph.DefaultMaxGraphEdges,
				HighCouplingDegree: archgraph.DefaultHighCouplingDegree,
			},
		}
	}
	return cfg
}

func analysisOptions(cfg *config.Config) archgraph.Options {
	return archgraph.Options{
		DetectCircular:     cfg.Analysis.DetectCircular,
		GenerateGraph:      cfg.Analysis.GenerateGraph,
		Diagram:            archgraph.DiagramFormat(cfg.Analysis.Diagram),
		MaxGraphEdges:      cfg.Analysis.MaxGraphEdges,
		HighCouplingDegree: cfg.Analysis.HighCouplingDegree,
		Layers:             cfg.Layers.LayerRules(),
	}
}

func scanProject(ctx context.Context, cfg *config.Config, path string) ([]archgraph.Module, []archgraph.Edge, error) {
	s := &scanner.Scanner{MaxDepth: cfg.Analysis.MaxDepth}

	ctx, span := observability.StartScanSpan(ctx, path)
	defer span.End()

	modules, edges, err := s.Scan(ctx, path)
	if err != nil {
		observability.RecordError(span, err)
		return nil, nil, err
	}
	slog.Info("scanned project", "path", path, "modules", len(modules), "edges", len(edges))
	return modules, edges, nil
}

func storeResult(ctx context.Context, cfg *config.Config, projectID string, modules []archgraph.Module, edges []archgraph.Edge, result *archgraph.Result) error {
	if cfg.Graph.URI == "" {
		return fmt.Errorf("no graph store configured (set graph.uri)")
	}

	var repo graph.Repository
	repo, err := neo4j.NewNeo4j(ctx, cfg.Graph.URI, cfg.Graph.Username, cfg.Graph.Password)
	if err != nil {
		return fmt.Errorf("connect graph store: %w", err)
	}
	defer repo.Close(ctx)

	ctx, span := observability.StartStoreSpan(ctx, projectID)
	defer span.End()

	if err := repo.StoreAnalysis(ctx, projectID, modules, edges, result); err != nil {
		observability.RecordError(span, err)
		return fmt.Errorf("store analysis: %w", err)
	}
	slog.Info("stored analysis", "project", projectID)
	return nil
}

func setupLogger(cfg config.LogConfig) {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}
