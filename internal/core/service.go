package core

import (
	"context"
	"fmt"
	"time"
)

// Service exposes the transactional operations of the guardian, seedling,
// and shelter engines, instrumented with logging, audit, metrics, and
// tracing hooks.
type Service struct {
	store   *MemoryStore
	logger  Logger
	audit   AuditRecorder
	metrics MetricsRecorder
	tracer  Tracer
	clock   Clock
}

// ServiceOption customises service construction.
type ServiceOption func(*Service)

// WithLogger attaches a structured logger. Nil loggers are ignored.
func WithLogger(logger Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAuditRecorder attaches an audit sink for service mutations.
func WithAuditRecorder(rec AuditRecorder) ServiceOption {
	return func(s *Service) {
		if rec != nil {
			s.audit = rec
		}
	}
}

// WithMetricsRecorder attaches a metrics sink.
func WithMetricsRecorder(rec MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if rec != nil {
			s.metrics = rec
		}
	}
}

// WithTracer attaches a tracer.
func WithTracer(tracer Tracer) ServiceOption {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithClock overrides the service and store time source.
func WithClock(clock Clock) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
			s.store.SetNowFunc(clock.Now)
		}
	}
}

// WithRand overrides the uniform random source used by probabilistic
// operations. The function must return values in [0,1).
func WithRand(fn func() float64) ServiceOption {
	return func(s *Service) {
		s.store.SetRandFunc(fn)
	}
}

// NewService constructs a service backed by the supplied store.
func NewService(store *MemoryStore, opts ...ServiceOption) *Service {
	svc := &Service{
		store:  store,
		logger: noopLogger{},
		tracer: noopTracer{},
		clock:  ClockFunc(func() time.Time { return time.Now().UTC() }),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// NewInMemoryService creates a service and in-memory store with the given rules engine.
func NewInMemoryService(engine *RulesEngine, opts ...ServiceOption) *Service {
	return NewService(NewMemoryStore(engine), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() *MemoryStore {
	return s.store
}

// ErrNotFound is returned when an operation references an unknown entity.
type ErrNotFound struct {
	Entity EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// instrument wraps a service mutation with tracing, metrics, audit, and
// warn-level logging of rule violations. fn returns the affected entity id.
func (s *Service) instrument(ctx context.Context, operation string, fn func(ctx context.Context) (string, Result, error)) (Result, error) {
	ctx, span := s.tracer.Start(ctx, operation)
	started := s.clock.Now()

	entityID, res, err := fn(ctx)
	duration := s.clock.Now().Sub(started)

	span.End(err)
	if s.metrics != nil {
		s.metrics.Observe(ctx, operation, err == nil, duration)
	}
	if err != nil {
		s.logger.Error("operation failed", "operation", operation, "entity_id", entityID, "error", err)
		s.recordAudit(ctx, operation, entityID, AuditStatusError, err, duration)
		return res, err
	}
	for _, warn := range res.Warnings() {
		s.logger.Warn("rule warning", "operation", operation, "rule", warn.Rule, "message", warn.Message)
	}
	s.logger.Debug("operation committed", "operation", operation, "entity_id", entityID, "duration", duration)
	s.recordAudit(ctx, operation, entityID, AuditStatusSuccess, nil, duration)
	return res, nil
}

func (s *Service) recordAudit(ctx context.Context, operation, entityID string, status AuditStatus, opErr error, duration time.Duration) {
	if s.audit == nil {
		return
	}
	meta, ok := auditCatalog[operation]
	if !ok {
		return
	}
	entry := AuditEntry{
		Operation: operation,
		Entity:    meta.entity,
		Action:    meta.action,
		EntityID:  entityID,
		Status:    status,
		Duration:  duration,
		Timestamp: s.clock.Now(),
	}
	if opErr != nil {
		entry.Error = opErr.Error()
	}
	s.audit.Record(ctx, entry)
}
