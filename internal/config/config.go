package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/archlens/archlens/internal/archgraph"
)

// Config holds all application configuration.
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Layers   LayersConfig   `mapstructure:"layers"`
	Graph    GraphConfig    `mapstructure:"graph"`
	Temporal TemporalConfig `mapstructure:"temporal"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
}

// AnalysisConfig controls one analysis run.
type AnalysisConfig struct {
	DetectCircular     bool   `mapstructure:"detect_circular"`
	GenerateGraph      bool   `mapstructure:"generate_graph"`
	Diagram            string `mapstructure:"diagram"` // "mermaid" or "dot"
	MaxGraphEdges      int    `mapstructure:"max_graph_edges"`
	HighCouplingDegree int    `mapstructure:"high_coupling_degree"`
	MaxDepth           int    `mapstructure:"max_depth"` // scanner recursion bound, 0 = unlimited
}

// LayersConfig declares architectural layers and permitted transitions.
type LayersConfig struct {
	// Rules maps a layer to the layers it may depend on. A layer absent
	// from the map is unconstrained; an empty list forbids all cross-layer
	// dependencies.
	Rules map[string][]string `mapstructure:"rules"`

	// Patterns assign layers by module path, first match wins.
	Patterns []LayerPatternConfig `mapstructure:"patterns"`
}

type LayerPatternConfig struct {
	Pattern string `mapstructure:"pattern"`
	Layer   string `mapstructure:"layer"`
}

// LayerRules converts the configuration into engine layer rules, or nil when
// no layers are configured.
func (l LayersConfig) LayerRules() *archgraph.LayerRules {
	if len(l.Rules) == 0 && len(l.Patterns) == 0 {
		return nil
	}
	rules := &archgraph.LayerRules{Allowed: l.Rules}
	for _, p := range l.Patterns {
		rules.Patterns = append(rules.Patterns, archgraph.LayerPattern{
			Pattern: p.Pattern,
			Layer:   p.Layer,
		})
	}
	return rules
}

// GraphConfig configures the optional Neo4j graph store.
type GraphConfig struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type TemporalConfig struct {
	Host      string `mapstructure:"host"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
}

type TracingConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate"`
	Environment  string  `mapstructure:"environment"`
}

// MetricsConfig configures the Prometheus metrics endpoint. An empty Addr
// disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`

	// AuditLog is the audit trail destination: a file path, "stdout" or
	// "stderr". Empty disables audit logging.
	AuditLog string `mapstructure:"audit_log"`
}

// Validate checks configuration for issues and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	if c.Analysis.MaxGraphEdges < 0 {
		warnings = append(warnings, fmt.Sprintf("analysis max_graph_edges %d is negative", c.Analysis.MaxGraphEdges))
	}
	if c.Analysis.HighCouplingDegree < 0 {
		warnings = append(warnings, fmt.Sprintf("analysis high_coupling_degree %d is negative", c.Analysis.HighCouplingDegree))
	}
	if c.Analysis.Diagram != "" && c.Analysis.Diagram != "mermaid" && c.Analysis.Diagram != "dot" {
		warnings = append(warnings, fmt.Sprintf("unknown diagram format '%s' (expected mermaid or dot)", c.Analysis.Diagram))
	}

	// A rule allowing a layer nothing declares usually indicates a typo.
	if len(c.Layers.Rules) > 0 {
		declared := make(map[string]bool)
		for layer := range c.Layers.Rules {
			declared[layer] = true
		}
		for _, p := range c.Layers.Patterns {
			declared[p.Layer] = true
		}
		for layer, targets := range c.Layers.Rules {
			for _, target := range targets {
				if !declared[target] {
					warnings = append(warnings, fmt.Sprintf("layer rule '%s' allows undeclared layer '%s'", layer, target))
				}
			}
		}
	}

	return warnings
}

// Load reads configuration from file and environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("ARCHLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("analysis.detect_circular", true)
	v.SetDefault("analysis.diagram", "mermaid")
	v.SetDefault("analysis.max_graph_edges", archgraph.DefaultMaxGraphEdges)
	v.SetDefault("analysis.high_coupling_degree", archgraph.DefaultHighCouplingDegree)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Validate configuration and print warnings
	if warnings := cfg.Validate(); len(warnings) > 0 {
		for _, warning := range warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
		}
	}

	return &cfg, nil
}
