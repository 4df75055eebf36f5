package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
)

// SetupPrometheus returns a registry with the runtime and build info
// collectors and the given extra collectors (db pool stats). A collector that
// fails to register is reported, the rest stay registered.
func SetupPrometheus(extra ...prometheus.Collector) (*prometheus.Registry, error) {
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var errs error
	for i, c := range extra {
		if err := promRegistry.Register(c); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("register collector %d: %w", i, err))
		}
	}
	return promRegistry, errs
}
