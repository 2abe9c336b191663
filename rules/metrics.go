package rules

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector is a Collector that exposes evaluation activity as
// Prometheus counters, for engines embedded in a long-running service
// rather than invoked from a CLI.
type PrometheusCollector struct {
	factsInserted *prometheus.CounterVec
	fired         *prometheus.CounterVec
	skipped       *prometheus.CounterVec
	validations   *prometheus.CounterVec
	evaluations   prometheus.Counter
}

// NewPrometheusCollector registers its metrics on reg and returns the
// Collector. Callers typically keep one PrometheusCollector per Engine and
// pass it to every Evaluate/EvaluateAsync call.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	c := &PrometheusCollector{
		factsInserted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rules_facts_inserted_total",
			Help: "Facts added to working memory, labeled by whether they were derived.",
		}, []string{"derived"}),
		fired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rules_fired_total",
			Help: "Producer firings that yielded at least one new fact, labeled by rule name.",
		}, []string{"rule"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rules_skipped_total",
			Help: "Rules skipped by a failing guard, labeled by rule name.",
		}, []string{"rule"}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rules_validations_total",
			Help: "Validator evaluations, labeled by rule name and outcome.",
		}, []string{"rule", "outcome"}),
		evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rules_evaluations_total",
			Help: "Completed Evaluate/EvaluateAsync calls.",
		}),
	}
	reg.MustRegister(c.factsInserted, c.fired, c.skipped, c.validations, c.evaluations)
	return c
}

func (c *PrometheusCollector) Emit(e Event) {
	switch e.Kind {
	case FactInsertedEvent:
		label := "false"
		if e.IsDerived {
			label = "true"
		}
		c.factsInserted.WithLabelValues(label).Inc()
	case RuleFiredEvent:
		c.fired.WithLabelValues(e.RuleName).Inc()
	case RuleSkippedEvent:
		c.skipped.WithLabelValues(e.RuleName).Inc()
	case ValidationPassedEvent:
		c.validations.WithLabelValues(e.RuleName, "passed").Inc()
	case ValidationFailedEvent:
		c.validations.WithLabelValues(e.RuleName, "failed").Inc()
	case CompletedEvent:
		c.evaluations.Inc()
	}
}
