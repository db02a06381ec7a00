package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// ==================== AuditConfig Tests ====================

func TestDefaultAuditConfig(t *testing.T) {
	cfg := DefaultAuditConfig()
	if !cfg.Enabled {
		t.Fatal("expected enabled by default")
	}
	if cfg.OutputPath != "stderr" {
		t.Fatalf("expected stderr, got %s", cfg.OutputPath)
	}
}

// ==================== AuditLogger Tests ====================

func TestAuditLogger_New_Stdout(t *testing.T) {
	l, err := NewAuditLogger(&AuditConfig{
		Enabled:    true,
		OutputPath: "stdout",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestAuditLogger_New_File(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "audit.log")

	l, err := NewAuditLogger(&AuditConfig{
		Enabled:    true,
		OutputPath: logPath,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer l.Close()

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Fatal("expected log file to be created")
	}
}

func TestAuditLogger_New_NilConfig(t *testing.T) {
	l, err := NewAuditLogger(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l == nil {
		t.Fatal("expected non-nil logger with default config")
	}
}

func TestAuditLogger_Log_Disabled(t *testing.T) {
	var buf bytes.Buffer
	l := &AuditLogger{
		writer:  &buf,
		enabled: false,
	}

	err := l.Log(&AuditEvent{EventType: AuditEventScanStart})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() > 0 {
		t.Fatal("expected no output when disabled")
	}
}

func TestAuditLogger_Log_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := &AuditLogger{
		writer:    &buf,
		sessionID: "test-session",
		enabled:   true,
	}

	err := l.Log(&AuditEvent{
		EventType: AuditEventScanStart,
		ProjectID: "demo",
		Success:   true,
		Message:   "test message",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var event AuditEvent
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if event.EventType != AuditEventScanStart {
		t.Errorf("expected %s, got %s", AuditEventScanStart, event.EventType)
	}
	if event.SessionID != "test-session" {
		t.Errorf("expected session from logger, got %s", event.SessionID)
	}
	if event.ProjectID != "demo" {
		t.Errorf("expected project demo, got %s", event.ProjectID)
	}
	if event.Timestamp.IsZero() {
		t.Error("expected timestamp to be filled in")
	}
}

func TestAuditLogger_Log_KeepsExplicitSession(t *testing.T) {
	var buf bytes.Buffer
	l := &AuditLogger{
		writer:    &buf,
		sessionID: "default-session",
		enabled:   true,
	}

	l.Log(&AuditEvent{
		EventType: AuditEventAnalysisRun,
		SessionID: "explicit-session",
	})

	var event AuditEvent
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatal(err)
	}
	if event.SessionID != "explicit-session" {
		t.Errorf("expected explicit session preserved, got %s", event.SessionID)
	}
}

// ==================== Event helper Tests ====================

func TestAuditLogger_ScanEvents(t *testing.T) {
	var buf bytes.Buffer
	l := &AuditLogger{writer: &buf, enabled: true}
	ctx := context.Background()

	l.LogScanStart(ctx, "demo", "/src/project")
	l.LogScanComplete(ctx, "demo", 120*time.Millisecond, 42, 99)
	l.LogScanError(ctx, "demo", errors.New("permission denied"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 events, got %d", len(lines))
	}

	var complete AuditEvent
	if err := json.Unmarshal([]byte(lines[1]), &complete); err != nil {
		t.Fatal(err)
	}
	if complete.EventType != AuditEventScanComplete {
		t.Errorf("expected scan.complete, got %s", complete.EventType)
	}
	if complete.Details["module_count"].(float64) != 42 {
		t.Errorf("expected 42 modules in details, got %v", complete.Details["module_count"])
	}

	var scanErr AuditEvent
	if err := json.Unmarshal([]byte(lines[2]), &scanErr); err != nil {
		t.Fatal(err)
	}
	if scanErr.Success {
		t.Error("expected scan error event to be unsuccessful")
	}
	if scanErr.ErrorDetail != "permission denied" {
		t.Errorf("unexpected error detail: %s", scanErr.ErrorDetail)
	}
}

func TestAuditLogger_AnalysisRun_SuccessReflectsFindings(t *testing.T) {
	var buf bytes.Buffer
	l := &AuditLogger{writer: &buf, enabled: true}
	ctx := context.Background()

	l.LogAnalysisRun(ctx, "demo", time.Second, 0, 0)
	l.LogAnalysisRun(ctx, "demo", time.Second, 2, 1)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	var clean, dirty AuditEvent
	if err := json.Unmarshal([]byte(lines[0]), &clean); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &dirty); err != nil {
		t.Fatal(err)
	}

	if !clean.Success {
		t.Error("analysis with no findings should be successful")
	}
	if dirty.Success {
		t.Error("analysis with cycles should not be successful")
	}
	if dirty.Details["cycle_count"].(float64) != 2 {
		t.Errorf("expected 2 cycles in details, got %v", dirty.Details["cycle_count"])
	}
}

func TestAuditLogger_StoreWrite(t *testing.T) {
	var buf bytes.Buffer
	l := &AuditLogger{writer: &buf, enabled: true}
	ctx := context.Background()

	l.LogStoreWrite(ctx, "demo", 50*time.Millisecond, nil)
	l.LogStoreWrite(ctx, "demo", 50*time.Millisecond, errors.New("connection refused"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	var ok, failed AuditEvent
	json.Unmarshal([]byte(lines[0]), &ok)
	json.Unmarshal([]byte(lines[1]), &failed)

	if !ok.Success {
		t.Error("expected successful store event")
	}
	if failed.Success {
		t.Error("expected failed store event")
	}
	if failed.ErrorDetail != "connection refused" {
		t.Errorf("unexpected error detail: %s", failed.ErrorDetail)
	}
}

func TestAuditLogger_WorkflowEvents(t *testing.T) {
	var buf bytes.Buffer
	l := &AuditLogger{writer: &buf, enabled: true}
	ctx := context.Background()

	l.LogWorkflowStart(ctx, "wf-1", "demo", "/src/project")
	l.LogWorkflowEnd(ctx, "wf-1", "demo", true, 3*time.Second)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 events, got %d", len(lines))
	}

	var end AuditEvent
	if err := json.Unmarshal([]byte(lines[1]), &end); err != nil {
		t.Fatal(err)
	}
	if end.EventType != AuditEventWorkflowEnd {
		t.Errorf("expected workflow.end, got %s", end.EventType)
	}
	if end.WorkflowID != "wf-1" {
		t.Errorf("expected workflow id wf-1, got %s", end.WorkflowID)
	}
}

func TestAudit_Uninitialized(t *testing.T) {
	l := Audit()
	if l == nil {
		t.Fatal("expected non-nil fallback logger")
	}
	// Must be safe to call without output
	if err := l.Log(&AuditEvent{EventType: AuditEventScanStart}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
