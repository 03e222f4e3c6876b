package sse

// Broadcaster sends one event to every stream whose key matches a glob
// pattern. Handlers depend on this rather than on *Registry.
type Broadcaster interface {
	BroadcastToPattern(pattern string, ev Event) (int, error)
}
