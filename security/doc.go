// Package security builds TLS settings for outbound stream connections.
//
//	cfg := security.ClientTLS{CAFile: "/etc/streamhub/ca.pem"}
//	client, err := cfg.HTTPClient()
package security
