package metrics

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"

	"akasha/internal/proxy"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector tallies render outcomes per protocol. The same counts are kept in
// a private Prometheus registry for WriteTextfile.
type Collector struct {
	mu sync.Mutex

	registry *prometheus.Registry
	rendered *prometheus.CounterVec
	failed   *prometheus.CounterVec
	skipped  *prometheus.CounterVec

	successByKind map[proxy.Kind]int
	totalSuccess  int

	errorCounts map[string]int
	totalErrors int

	unsupported map[string]int
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		rendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "akasha",
			Name:      "links_rendered_total",
			Help:      "Share links rendered, by protocol.",
		}, []string{"kind"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "akasha",
			Name:      "render_failures_total",
			Help:      "Descriptors that could not be rendered, by reason.",
		}, []string{"reason"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "akasha",
			Name:      "proxies_unsupported_total",
			Help:      "Proxies skipped because their type has no link form.",
		}, []string{"type"}),
		successByKind: make(map[proxy.Kind]int),
		errorCounts:   make(map[string]int),
		unsupported:   make(map[string]int),
	}
	c.registry.MustRegister(c.rendered, c.failed, c.skipped)
	return c
}

func (c *Collector) RecordSuccess(kind proxy.Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.successByKind[kind]++
	c.totalSuccess++
	c.rendered.WithLabelValues(string(kind)).Inc()
}

func (c *Collector) RecordFailure(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	reason := classify(err)
	c.totalErrors++
	c.errorCounts[reason]++
	c.failed.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordUnsupported(types []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range types {
		c.unsupported[t]++
		c.skipped.WithLabelValues(t).Inc()
	}
}

// Successes returns the number of rendered links.
func (c *Collector) Successes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalSuccess
}

// Failures returns failure counts keyed by error class.
func (c *Collector) Failures() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]int, len(c.errorCounts))
	for k, v := range c.errorCounts {
		out[k] = v
	}
	return out
}

// WriteTextfile writes the counters in the node_exporter textfile format.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

func classify(err error) string {
	switch {
	case errors.Is(err, proxy.ErrMissingPort):
		return "Missing Port"
	case errors.Is(err, proxy.ErrInvalidPorts):
		return "Malformed Ports"
	case errors.Is(err, proxy.ErrInvalidPort):
		return "Invalid Port"
	default:
		return "Unknown"
	}
}

func (c *Collector) PrintReport(out io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(out, "\n📊 \033[1mRENDER REPORT\033[0m")
	fmt.Fprintln(out, "────────────────────────────────────────")

	fmt.Fprintln(w, "\033[1;36m[ RENDERED ]\033[0m\t")
	fmt.Fprintf(w, "  Total Links:\t%d\n", c.totalSuccess)
	for _, k := range sortedKeys(c.successByKind) {
		fmt.Fprintf(w, "  %s:\t%d\n", k, c.successByKind[proxy.Kind(k)])
	}
	fmt.Fprintln(w, "\t")

	fmt.Fprintln(w, "\033[1;36m[ FAILURES ]\033[0m\t")
	fmt.Fprintf(w, "  Total Failures:\t%d\n", c.totalErrors)
	for _, k := range sortedKeys(c.errorCounts) {
		fmt.Fprintf(w, "  %s:\t%d\n", k, c.errorCounts[k])
	}

	if len(c.unsupported) > 0 {
		fmt.Fprintln(w, "\t")
		fmt.Fprintln(w, "\033[1;36m[ SKIPPED (Unsupported Type) ]\033[0m\t")
		for _, k := range sortedKeys(c.unsupported) {
			fmt.Fprintf(w, "  %s:\t%d\n", k, c.unsupported[k])
		}
	}

	w.Flush()
	fmt.Fprintln(out, "")
}

func sortedKeys[K ~string, V any](m map[K]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return keys
}
