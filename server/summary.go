package server

import "strings"

// systemPaths are the routes registered by RegisterDefaultEndpoints and
// RegisterPrometheus.
var systemPaths = map[string]bool{
	"/health":             true,
	"/ready":              true,
	"/alive":              true,
	"/info":               true,
	"/version":            true,
	"/metrics":            true,
	"/metrics/prometheus": true,
}

// formatHandlerName extracts a readable handler name from Gin's full
// handler path, e.g.
//
//	"github.com/kbukum/streamhub/routes.(*Streams).Publish-fm" -> "Streams.Publish"
//	"github.com/kbukum/streamhub/server/endpoint.Health.func1"  -> "health"
func formatHandlerName(fullPath string) string {
	name := strings.TrimSuffix(fullPath, "-fm")

	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}

	name = strings.ReplaceAll(name, "(*", "")
	name = strings.ReplaceAll(name, ")", "")

	// Closures: keep the last name before the funcN suffixes.
	if strings.Contains(name, ".func") {
		parts := strings.Split(name, ".")
		for i := len(parts) - 1; i >= 0; i-- {
			if !strings.HasPrefix(parts[i], "func") {
				return strings.ToLower(parts[i])
			}
		}
	}

	// Drop a lowercase package prefix: "routes.Streams.Publish" -> "Streams.Publish".
	if pkg, rest, ok := strings.Cut(name, "."); ok && rest != "" && strings.ToLower(pkg) == pkg {
		name = rest
	}
	return name
}

// methodOrder returns a sort key for HTTP methods (GET first, DELETE last).
func methodOrder(method string) int {
	switch method {
	case "GET":
		return 0
	case "POST":
		return 1
	case "PUT":
		return 2
	case "PATCH":
		return 3
	case "DELETE":
		return 4
	default:
		return 5
	}
}
