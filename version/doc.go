// Package version reports build information for the streamhub binary.
//
// Release builds stamp the variables through -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/streamhub/version.Version=1.2.0 \
//	  -X github.com/kbukum/streamhub/version.BuildTime=$(date -u +%FT%TZ)" ./cmd/streamhub
//
// Unstamped builds fall back to the VCS data Go embeds in the binary.
package version
