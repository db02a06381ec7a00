package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/archlens/archlens/internal/archgraph"
	"github.com/archlens/archlens/internal/config"
	"github.com/archlens/archlens/internal/graph"
	"github.com/archlens/archlens/internal/graph/neo4j"
	"github.com/archlens/archlens/internal/observability"
	"github.com/archlens/archlens/internal/scanner"
	temporalmod "github.com/archlens/archlens/internal/temporal"

	temporalclient "go.temporal.io/sdk/client"
)

func main() {
	configPath := "configs/archlens.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	if cfg.Log.AuditLog != "" {
		if err := observability.InitGlobalAuditLogger(&observability.AuditConfig{
			Enabled:    true,
			OutputPath: cfg.Log.AuditLog,
		}); err != nil {
			log.Fatalf("audit log: %v", err)
		}
	}

	if cfg.Metrics.Addr != "" {
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Addr, observability.Metrics().Handler()); err != nil {
				log.Printf("metrics endpoint: %v", err)
			}
		}()
	}

	// The repository is optional; workflows without StoreResult run fine
	// without it.
	var repo graph.Repository
	if cfg.Graph.URI != "" {
		repo, err = neo4j.NewNeo4j(ctx, cfg.Graph.URI, cfg.Graph.Username, cfg.Graph.Password)
		if err != nil {
			log.Fatalf("graph store: %v", err)
		}
		defer repo.Close(ctx)
	}

	temporalmod.SetDependencies(&temporalmod.Dependencies{
		Scanner:    &scanner.Scanner{MaxDepth: cfg.Analysis.MaxDepth},
		Repository: repo,
		Options: archgraph.Options{
			DetectCircular:     cfg.Analysis.DetectCircular,
			GenerateGraph:      cfg.Analysis.GenerateGraph,
			Diagram:            archgraph.DiagramFormat(cfg.Analysis.Diagram),
			MaxGraphEdges:      cfg.Analysis.MaxGraphEdges,
			HighCouplingDegree: cfg.Analysis.HighCouplingDegree,
			Layers:             cfg.Layers.LayerRules(),
		},
	})

	c, err := temporalclient.Dial(temporalclient.Options{
		HostPort:  cfg.Temporal.Host,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w, err := temporalmod.StartWorker(c, cfg.Temporal.TaskQueue)
	if err != nil {
		log.Fatalf("worker: %v", err)
	}

	observability.Metrics().ActiveWorkers.Inc()
	fmt.Printf("Worker started on task queue: %s\n", cfg.Temporal.TaskQueue)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	w.Stop()
	observability.Metrics().ActiveWorkers.Dec()
	fmt.Println("Worker stopped")
}
