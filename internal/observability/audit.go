// Package observability provides tracing, metrics and audit logging for
// analysis runs.
package observability

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// AuditEventType categorizes audit events.
type AuditEventType string

const (
	AuditEventScanStart     AuditEventType = "scan.start"
	AuditEventScanComplete  AuditEventType = "scan.complete"
	AuditEventScanError     AuditEventType = "scan.error"
	AuditEventAnalysisRun   AuditEventType = "analysis.run"
	AuditEventCycleFound    AuditEventType = "analysis.cycle_found"
	AuditEventViolation     AuditEventType = "analysis.layer_violation"
	AuditEventStoreWrite    AuditEventType = "store.write"
	AuditEventReportExport  AuditEventType = "report.export"
	AuditEventWorkflowStart AuditEventType = "workflow.start"
	AuditEventWorkflowEnd   AuditEventType = "workflow.end"
)

// AuditEvent represents a single audit log entry.
type AuditEvent struct {
	Timestamp   time.Time              `json:"timestamp"`
	EventType   AuditEventType         `json:"event_type"`
	SessionID   string                 `json:"session_id"`
	ProjectID   string                 `json:"project_id,omitempty"`
	WorkflowID  string                 `json:"workflow_id,omitempty"`
	Success     bool                   `json:"success"`
	Duration    time.Duration          `json:"duration_ms,omitempty"`
	Message     string                 `json:"message,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
	ErrorDetail string                 `json:"error_detail,omitempty"`
}

// AuditLogger handles audit event logging.
type AuditLogger struct {
	mu        sync.Mutex
	writer    io.Writer
	sessionID string
	enabled   bool
}

// AuditConfig configures the audit logger.
type AuditConfig struct {
	Enabled    bool
	OutputPath string // File path or "stdout"/"stderr"
	SessionID  string
}

// DefaultAuditConfig returns default audit configuration.
func DefaultAuditConfig() *AuditConfig {
	return &AuditConfig{
		Enabled:    true,
		OutputPath: "stderr",
	}
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(config *AuditConfig) (*AuditLogger, error) {
	if config == nil {
		config = DefaultAuditConfig()
	}

	var writer io.Writer
	switch config.OutputPath {
	case "stdout":
		writer = os.Stdout
	case "stderr", "":
		writer = os.Stderr
	default:
		f, err := os.OpenFile(config.OutputPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open audit log: %w", err)
		}
		writer = f
	}

	sessionID := config.SessionID
	if sessionID == "" {
		sessionID = fmt.Sprintf("session-%d", time.Now().UnixNano())
	}

	return &AuditLogger{
		writer:    writer,
		sessionID: sessionID,
		enabled:   config.Enabled,
	}, nil
}

// Log writes an audit event.
func (l *AuditLogger) Log(event *AuditEvent) error {
	if !l.enabled {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.SessionID == "" {
		event.SessionID = l.sessionID
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	_, err = fmt.Fprintf(l.writer, "%s\n", data)
	return err
}

// LogScanStart logs the start of a project scan.
func (l *AuditLogger) LogScanStart(ctx context.Context, projectID, root string) {
	l.Log(&AuditEvent{
		EventType: AuditEventScanStart,
		ProjectID: projectID,
		Success:   true,
		Message:   fmt.Sprintf("Scan started: %s", root),
		Details: map[string]interface{}{
			"root": root,
		},
	})
}

// LogScanComplete logs a finished project scan.
func (l *AuditLogger) LogScanComplete(ctx context.Context, projectID string, duration time.Duration, moduleCount, edgeCount int) {
	l.Log(&AuditEvent{
		EventType: AuditEventScanComplete,
		ProjectID: projectID,
		Success:   true,
		Duration:  duration,
		Message:   fmt.Sprintf("Scan completed: %d modules, %d edges", moduleCount, edgeCount),
		Details: map[string]interface{}{
			"module_count": moduleCount,
			"edge_count":   edgeCount,
		},
	})
}

// LogScanError logs a failed project scan.
func (l *AuditLogger) LogScanError(ctx context.Context, projectID string, err error) {
	l.Log(&AuditEvent{
		EventType:   AuditEventScanError,
		ProjectID:   projectID,
		Success:     false,
		Message:     "Scan failed",
		ErrorDetail: err.Error(),
	})
}

// LogAnalysisRun logs a completed analysis.
func (l *AuditLogger) LogAnalysisRun(ctx context.Context, projectID string, duration time.Duration, cycleCount, violationCount int) {
	l.Log(&AuditEvent{
		EventType: AuditEventAnalysisRun,
		ProjectID: projectID,
		Success:   cycleCount == 0 && violationCount == 0,
		Duration:  duration,
		Message:   fmt.Sprintf("Analysis completed: %d cycles, %d violations", cycleCount, violationCount),
		Details: map[string]interface{}{
			"cycle_count":     cycleCount,
			"violation_count": violationCount,
		},
	})
}

// LogStoreWrite logs a graph store write.
func (l *AuditLogger) LogStoreWrite(ctx context.Context, projectID string, duration time.Duration, err error) {
	event := &AuditEvent{
		EventType: AuditEventStoreWrite,
		ProjectID: projectID,
		Success:   err == nil,
		Duration:  duration,
		Message:   fmt.Sprintf("Stored analysis for %s", projectID),
	}
	if err != nil {
		event.ErrorDetail = err.Error()
	}
	l.Log(event)
}

// LogReportExport logs a report serialization.
func (l *AuditLogger) LogReportExport(ctx context.Context, projectID, format string, size int) {
	l.Log(&AuditEvent{
		EventType: AuditEventReportExport,
		ProjectID: projectID,
		Success:   true,
		Message:   fmt.Sprintf("Exported %s report", format),
		Details: map[string]interface{}{
			"format": format,
			"size":   size,
		},
	})
}

// LogWorkflowStart logs a workflow start event.
func (l *AuditLogger) LogWorkflowStart(ctx context.Context, workflowID, projectID, path string) {
	l.Log(&AuditEvent{
		EventType:  AuditEventWorkflowStart,
		WorkflowID: workflowID,
		ProjectID:  projectID,
		Success:    true,
		Message:    fmt.Sprintf("Workflow started: %s", path),
		Details: map[string]interface{}{
			"path": path,
		},
	})
}

// LogWorkflowEnd logs a workflow completion event.
func (l *AuditLogger) LogWorkflowEnd(ctx context.Context, workflowID, projectID string, success bool, duration time.Duration) {
	l.Log(&AuditEvent{
		EventType:  AuditEventWorkflowEnd,
		WorkflowID: workflowID,
		ProjectID:  projectID,
		Success:    success,
		Duration:   duration,
		Message:    "Workflow completed",
	})
}

// Close closes the audit logger (if using a file).
func (l *AuditLogger) Close() error {
	if closer, ok := l.writer.(io.Closer); ok {
		if closer != os.Stdout && closer != os.Stderr {
			return closer.Close()
		}
	}
	return nil
}

// Global audit logger instance
var globalAuditLogger *AuditLogger
var auditOnce sync.Once

// InitGlobalAuditLogger initializes the global audit logger.
func InitGlobalAuditLogger(config *AuditConfig) error {
	var err error
	auditOnce.Do(func() {
		globalAuditLogger, err = NewAuditLogger(config)
	})
	return err
}

// Audit returns the global audit logger.
func Audit() *AuditLogger {
	if globalAuditLogger == nil {
		// Return a disabled logger if not initialized
		return &AuditLogger{enabled: false}
	}
	return globalAuditLogger
}
