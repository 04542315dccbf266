// Package metrics records service outcomes as Prometheus counters
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements services.Metrics
type Collector struct {
	authAttempts        *prometheus.CounterVec
	workflowTransitions *prometheus.CounterVec
	permissionCache     *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its counters with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clubhub_auth_attempts_total",
			Help: "Identity operations by operation and outcome",
		}, []string{"operation", "outcome"}),
		workflowTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clubhub_workflow_transitions_total",
			Help: "Workflow transitions by entity, transition and outcome",
		}, []string{"entity", "transition", "outcome"}),
		permissionCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clubhub_permission_cache_total",
			Help: "Permission cache lookups by result",
		}, []string{"result"}),
	}

	reg.MustRegister(
		c.authAttempts,
		c.workflowTransitions,
		c.permissionCache,
	)
	return c
}

// NewRegistry returns a registry with the Go runtime and process collectors
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func (c *Collector) AuthAttempt(operation, outcome string) {
	c.authAttempts.WithLabelValues(operation, outcome).Inc()
}

func (c *Collector) WorkflowTransition(entity, transition, outcome string) {
	c.workflowTransitions.WithLabelValues(entity, transition, outcome).Inc()
}

func (c *Collector) PermissionCacheLookup(result string) {
	c.permissionCache.WithLabelValues(result).Inc()
}

// Handler serves the gatherer's metrics for scraping
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
