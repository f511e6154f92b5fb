package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "certmaker"

// Collector counts submissions and validation failures. A nil *Collector is
// valid and records nothing.
type Collector struct {
	submissions        *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
}

func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Submission attempts by certificate type and result.",
		}, []string{"certificate_type", "result"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Rejected subject fields by field name.",
		}, []string{"field"}),
	}

	for _, col := range []prometheus.Collector{c.submissions, c.validationFailures} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Collector) ObserveSubmission(certificateType, result string) {
	if c == nil {
		return
	}
	c.submissions.WithLabelValues(certificateType, result).Inc()
}

func (c *Collector) ObserveValidationFailure(fields ...string) {
	if c == nil {
		return
	}
	for _, f := range fields {
		c.validationFailures.WithLabelValues(f).Inc()
	}
}
