package core

import (
	"context"
	"time"
)

// Logger is the minimal structured logging surface the service emits to.
// Implementations receive a message plus alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Clock supplies the service time source.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// AuditStatus reports whether an audited operation committed.
type AuditStatus string

// Audit entry statuses.
const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusError   AuditStatus = "error"
)

// AuditEntry records one service operation for the audit trail.
type AuditEntry struct {
	Operation string
	Entity    EntityType
	Action    Action
	EntityID  string
	Status    AuditStatus
	Error     string
	Duration  time.Duration
	Timestamp time.Time
}

// AuditRecorder consumes audit entries emitted around service mutations.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

// MetricsRecorder observes per-operation outcomes and latencies.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// TraceSpan ends an in-flight trace with the operation outcome.
type TraceSpan interface {
	End(err error)
}

// Tracer starts spans around service operations.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

type noopSpan struct{}

func (noopSpan) End(error) {}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

type auditOperation struct {
	entity EntityType
	action Action
}

// auditCatalog maps audited operation names to their entity and action.
// Operations not listed here are not audited.
var auditCatalog = map[string]auditOperation{
	"create_guardian":           {EntityGuardian, ActionCreate},
	"create_seedling":           {EntitySeedling, ActionCreate},
	"create_shelter":            {EntityShelter, ActionCreate},
	"reflect_on_child":          {EntityGuardian, ActionUpdate},
	"receive_child_care":        {EntityGuardian, ActionUpdate},
	"attempt_learning":          {EntitySeedling, ActionUpdate},
	"receive_care":              {EntitySeedling, ActionUpdate},
	"give_care":                 {EntitySeedling, ActionUpdate},
	"experience_emotional_event": {EntitySeedling, ActionUpdate},
	"assign_parent":             {EntitySeedling, ActionUpdate},
	"request_access":            {EntityShelter, ActionUpdate},
	"log_emotional_event":       {EntityShelter, ActionUpdate},
	"activate_shelter_mode":     {EntityShelter, ActionUpdate},
	"update_trust_threshold":    {EntityShelter, ActionUpdate},
	"add_trusted_entity":        {EntityShelter, ActionUpdate},
	"block_entity":              {EntityShelter, ActionUpdate},
}
