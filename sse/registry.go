package sse

import (
	"path"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/kbukum/streamhub/logger"
)

// Registry maps keys to live streams. At most one stream is held per key;
// a stream attached with Attach is removed automatically when it closes.
type Registry struct {
	streams map[string]Stream
	mu      sync.RWMutex
	log     *logger.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		streams: make(map[string]Stream),
		log:     logger.WithComponent("sse_registry"),
	}
}

// Set stores stream under key. If key held a different stream, that stream
// is ended with reason replaced after the lock is released.
func (r *Registry) Set(key string, stream Stream) {
	r.mu.Lock()
	prev, existed := r.streams[key]
	r.streams[key] = stream
	total := len(r.streams)
	r.mu.Unlock()

	if existed && prev.ID() != stream.ID() {
		r.log.Info("stream replaced", logger.Fields(
			logger.FieldStreamKey, key,
			"previous_id", prev.ID(),
			logger.FieldStreamID, stream.ID(),
		))
		prev.Close(ReasonReplaced)
		return
	}
	r.log.Debug("stream registered", logger.Fields(
		logger.FieldStreamKey, key,
		logger.FieldStreamID, stream.ID(),
		"total_streams", total,
	))
}

// Attach stores stream under key and removes the entry when the stream
// closes, but only if key still maps to this same stream.
func (r *Registry) Attach(key string, stream Stream) {
	r.Set(key, stream)
	id := stream.ID()
	stream.OnClose(func(reason CloseReason) {
		if r.deleteIf(key, id) {
			r.log.Debug("stream deregistered", logger.Fields(
				logger.FieldStreamKey, key,
				logger.FieldStreamID, id,
				logger.FieldCloseReason, string(reason),
			))
		}
	})
}

func (r *Registry) deleteIf(key, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.streams[key]
	if !ok || cur.ID() != id {
		return false
	}
	delete(r.streams, key)
	return true
}

// Get returns the stream stored under key.
func (r *Registry) Get(key string) (Stream, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.streams[key]
	return s, ok
}

// Delete removes key if present. It does not end the stream.
func (r *Registry) Delete(key string) {
	r.mu.Lock()
	delete(r.streams, key)
	r.mu.Unlock()
}

// Size returns the number of registered keys.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.streams)
}

// Keys returns a sorted snapshot of the registered keys.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	keys := make([]string, 0, len(r.streams))
	for k := range r.streams {
		keys = append(keys, k)
	}
	r.mu.RUnlock()
	slices.Sort(keys)
	return keys
}

// CloseAll ends every registered stream with reason shutdown and returns
// how many were ended.
func (r *Registry) CloseAll() int {
	r.mu.RLock()
	streams := make([]Stream, 0, len(r.streams))
	for _, s := range r.streams {
		streams = append(streams, s)
	}
	r.mu.RUnlock()

	for _, s := range streams {
		s.Close(ReasonShutdown)
	}
	if len(streams) > 0 {
		r.log.Debug("all streams closed", logger.Fields("count", len(streams)))
	}
	return len(streams)
}

// BroadcastToPattern writes ev to every stream whose key matches the glob
// pattern (path.Match syntax, e.g. "room:*"). It returns how many streams
// accepted the event. Writes happen outside the registry lock and in
// parallel, so one slow client does not hold up the others.
func (r *Registry) BroadcastToPattern(pattern string, ev Event) (int, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return 0, err
	}
	if err := ev.Validate(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	targets := make([]Stream, 0)
	for key, s := range r.streams {
		if ok, _ := path.Match(pattern, key); ok {
			targets = append(targets, s)
		}
	}
	r.mu.RUnlock()

	var delivered atomic.Int64
	var wg sync.WaitGroup
	for _, s := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.WriteEvent(ev); err == nil {
				delivered.Add(1)
			}
		}()
	}
	wg.Wait()
	r.log.Debug("broadcast sent", logger.Fields(
		"pattern", pattern,
		"match_count", len(targets),
		"delivered", delivered.Load(),
	))
	return int(delivered.Load()), nil
}

var _ Broadcaster = (*Registry)(nil)
