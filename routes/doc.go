// Package routes exposes the stream registry over HTTP.
//
//	GET    /sse                   demo feed, keyed by the request ID
//	GET    /streams               open stream keys
//	GET    /streams/:key          open a stream under key and hold it
//	POST   /streams/:key/events   write one frame to the stream at key
//	DELETE /streams/:key          end the stream at key
//	POST   /broadcast             write one event to every key matching a glob
//	GET    /hello                 {"Hello":"World"}
//
// The write routes (POST and DELETE) can be guarded with a token validator
// and a per-client rate limit. Producer tokens that list stream patterns
// may only touch matching keys.
package routes
