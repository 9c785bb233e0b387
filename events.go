package replicas

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type LogEvent interface {
	EventName() string
	Message() string
	LogLevel() slog.Level
	LogAttrs() []slog.Attr
}

type baseEvent struct {
	EventTime time.Time
}

func newBaseEvent() baseEvent {
	return baseEvent{EventTime: time.Now()}
}

func (e baseEvent) baseAttrs(name string) []slog.Attr {
	return []slog.Attr{
		slog.String("component", "replicas.pool"),
		slog.String("event", name),
		slog.Time("event_time", e.EventTime),
	}
}

// RouteEvent is reported for every routing decision made by Conn.Delegate.
type RouteEvent struct {
	baseEvent
	Operation string
	Role      Role
	Backend   string
	// Redirected is true when a replica connection handed the operation
	// to the primary.
	Redirected bool
}

func (e RouteEvent) EventName() string { return "route" }
func (e RouteEvent) Message() string {
	return fmt.Sprintf("Routed %s operation %q to %s", e.Role, e.Operation, e.Backend)
}
func (e RouteEvent) LogLevel() slog.Level { return slog.LevelDebug }
func (e RouteEvent) LogAttrs() []slog.Attr {
	return append(e.baseAttrs(e.EventName()),
		slog.String("operation", e.Operation),
		slog.String("role", e.Role.String()),
		slog.String("backend", e.Backend),
		slog.Bool("redirected", e.Redirected),
	)
}

// OverrideEnteredEvent is reported when a WithPrimary scope starts.
type OverrideEnteredEvent struct {
	baseEvent
	ScopeID uuid.UUID
	Nested  bool
}

func (e OverrideEnteredEvent) EventName() string    { return "override_entered" }
func (e OverrideEnteredEvent) Message() string      { return "Primary override entered" }
func (e OverrideEnteredEvent) LogLevel() slog.Level { return slog.LevelDebug }
func (e OverrideEnteredEvent) LogAttrs() []slog.Attr {
	return append(e.baseAttrs(e.EventName()),
		slog.String("scope_id", e.ScopeID.String()),
		slog.Bool("nested", e.Nested),
	)
}

// OverrideExitedEvent is reported when a WithPrimary scope ends, whatever
// the outcome of the scoped function.
type OverrideExitedEvent struct {
	baseEvent
	ScopeID uuid.UUID
	Error   error
}

func (e OverrideExitedEvent) EventName() string    { return "override_exited" }
func (e OverrideExitedEvent) Message() string      { return "Primary override exited" }
func (e OverrideExitedEvent) LogLevel() slog.Level { return slog.LevelDebug }
func (e OverrideExitedEvent) LogAttrs() []slog.Attr {
	attrs := append(e.baseAttrs(e.EventName()), slog.String("scope_id", e.ScopeID.String()))
	if e.Error != nil {
		attrs = append(attrs, slog.String("error", e.Error.Error()))
	}
	return attrs
}

// ProviderFailedEvent is reported when a provider could not produce a handle.
type ProviderFailedEvent struct {
	baseEvent
	Backend string
	Error   error
}

func (e ProviderFailedEvent) EventName() string { return "provider_failed" }
func (e ProviderFailedEvent) Message() string {
	return fmt.Sprintf("Failed to get a handle for %s", e.Backend)
}
func (e ProviderFailedEvent) LogLevel() slog.Level { return slog.LevelError }
func (e ProviderFailedEvent) LogAttrs() []slog.Attr {
	attrs := append(e.baseAttrs(e.EventName()), slog.String("backend", e.Backend))
	if e.Error != nil {
		attrs = append(attrs, slog.String("error", e.Error.Error()))
	}
	return attrs
}

// UnrecognizedOperationEvent is reported when an undeclared operation is
// forwarded.
type UnrecognizedOperationEvent struct {
	baseEvent
	Operation string
}

func (e UnrecognizedOperationEvent) EventName() string { return "unrecognized_operation" }
func (e UnrecognizedOperationEvent) Message() string {
	return fmt.Sprintf("Operation %q has no declared role", e.Operation)
}
func (e UnrecognizedOperationEvent) LogLevel() slog.Level { return slog.LevelWarn }
func (e UnrecognizedOperationEvent) LogAttrs() []slog.Attr {
	return append(e.baseAttrs(e.EventName()), slog.String("operation", e.Operation))
}
