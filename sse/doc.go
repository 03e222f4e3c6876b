// Package sse tracks long-lived Server-Sent Events connections by key and
// manages each connection's lifecycle.
//
// A Session wraps one client's streaming response. It moves through
// Opening, Streaming and Closed, serializes writes, and fires its close
// observers exactly once whether the producer ends it, the client goes
// away, or a write fails. A Registry maps caller-chosen keys to live
// sessions so that any handler can address another client's stream, and
// removes each entry when its session closes. Closing never waits on a
// client that has stopped reading; WriteTimeout drops such clients.
//
// # Usage
//
//	reg := sse.NewRegistry()
//	h := sse.NewHandler(reg, sse.Options{KeepAlive: 30 * time.Second, WriteTimeout: 10 * time.Second})
//
//	// owning handler
//	router.GET("/streams/:key", func(c *gin.Context) {
//	    h.Serve(c.Writer, c.Request, c.Param("key"), nil)
//	})
//
//	// any other handler
//	if s, ok := reg.Get(key); ok {
//	    err := s.Write("hello")
//	}
package sse
