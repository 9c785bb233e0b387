package replicas

// Observer receives routing decisions, for example to export metrics.
// Implementations must be safe for concurrent use.
type Observer interface {
	// ObserveRoute is called once per Conn.Delegate call, after the target
	// has been resolved.
	ObserveRoute(op string, role Role, backend string, redirected bool)
	// ObserveProviderError is called when a provider fails to produce a
	// handle.
	ObserveProviderError(backend string)
}
