package folio

import "github.com/prometheus/client_golang/prometheus"

const metricsNamespace = "folio"

type metrics struct {
	contactSubmissions *prometheus.CounterVec
	renderFailures     *prometheus.CounterVec
	thumbnails         *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		contactSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "contact_submissions_total",
			Help:      "Contact form submissions by outcome.",
		}, []string{"result"}),
		renderFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "render_failures_total",
			Help:      "Views that failed to render and were replaced by an error panel.",
		}, []string{"view"}),
		thumbnails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "thumbnails_total",
			Help:      "Thumbnail requests by cache outcome.",
		}, []string{"cache"}),
	}
	reg.MustRegister(m.contactSubmissions, m.renderFailures, m.thumbnails)
	return m
}
