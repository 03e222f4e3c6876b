package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/kbukum/streamhub/component"
)

// InfrastructureInfo is one Describable component in the summary.
type InfrastructureInfo struct {
	Name    string
	Type    string
	Details string
	Port    int
}

// RouteInfo represents a registered HTTP route.
type RouteInfo struct {
	Method  string
	Path    string
	Handler string
}

// Summary renders the startup report: infrastructure, routes and live
// health, all collected from the component registry.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	out             io.Writer
	infrastructure  []InfrastructureInfo
	routes          []RouteInfo
}

// NewSummary creates a summary that writes to stdout.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{
		serviceName: serviceName,
		version:     version,
		out:         os.Stdout,
	}
}

// SetOutput redirects the summary.
func (s *Summary) SetOutput(w io.Writer) {
	s.out = w
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// collect reads descriptions and routes from the registered components.
func (s *Summary) collect(registry *component.Registry) {
	s.infrastructure = s.infrastructure[:0]
	s.routes = s.routes[:0]
	for _, c := range registry.All() {
		if d, ok := c.(component.Describable); ok {
			desc := d.Describe()
			name := desc.Name
			if name == "" {
				name = c.Name()
			}
			s.infrastructure = append(s.infrastructure, InfrastructureInfo{
				Name:    name,
				Type:    desc.Type,
				Details: desc.Details,
				Port:    desc.Port,
			})
		}
		if rp, ok := c.(component.RouteProvider); ok {
			for _, r := range rp.Routes() {
				s.routes = append(s.routes, RouteInfo(r))
			}
		}
	}
}

// DisplaySummary writes the summary, including live health from registry.
func (s *Summary) DisplaySummary(registry *component.Registry) {
	if registry != nil {
		s.collect(registry)
	}
	w := s.out

	fmt.Fprintf(w, "\n%s %s started in %.2fs\n\n",
		color.New(color.Bold).Sprint(s.serviceName), s.version, s.startupDuration.Seconds())

	if len(s.infrastructure) > 0 {
		fmt.Fprintf(w, "Infrastructure\n")
		for i, inf := range s.infrastructure {
			details := inf.Details
			if inf.Port > 0 && !strings.Contains(details, fmt.Sprintf(":%d", inf.Port)) {
				details = fmt.Sprintf("%s (:%d)", details, inf.Port)
			}
			fmt.Fprintf(w, "   %s %s [%s]: %s\n", treePrefix(i, len(s.infrastructure)), inf.Name, inf.Type, details)
		}
		fmt.Fprintf(w, "\n")
	}

	if len(s.routes) > 0 {
		fmt.Fprintf(w, "Routes (%d)\n", len(s.routes))
		for i, r := range s.routes {
			fmt.Fprintf(w, "   %s %s %s -> %s\n", treePrefix(i, len(s.routes)),
				methodColor(r.Method).Sprintf("%-7s", r.Method), r.Path, r.Handler)
		}
		fmt.Fprintf(w, "\n")
	}

	if registry == nil {
		return
	}
	results := registry.HealthAll(context.Background())
	if len(results) == 0 {
		fmt.Fprintf(w, "   %s No components registered\n\n", treePrefix(0, 1))
		return
	}
	healthy := 0
	fmt.Fprintf(w, "Health\n")
	for i, h := range results {
		msg := ""
		if h.Message != "" {
			msg = " (" + h.Message + ")"
		}
		fmt.Fprintf(w, "   %s %s %s%s\n", treePrefix(i, len(results)), h.Name, healthColor(h.Status).Sprint(h.Status), msg)
		if h.Status == component.StatusHealthy {
			healthy++
		}
	}
	fmt.Fprintf(w, "\n%d/%d components healthy\n\n", healthy, len(results))
}

// treePrefix returns the branch glyph for item i of n.
func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func methodColor(method string) *color.Color {
	switch method {
	case "GET":
		return color.New(color.FgGreen)
	case "POST":
		return color.New(color.FgYellow)
	case "PUT", "PATCH":
		return color.New(color.FgBlue)
	case "DELETE":
		return color.New(color.FgRed)
	default:
		return color.New(color.FgWhite)
	}
}

func healthColor(status component.HealthStatus) *color.Color {
	switch status {
	case component.StatusHealthy:
		return color.New(color.FgGreen)
	case component.StatusDegraded:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}
