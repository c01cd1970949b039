package folio

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// counterValue returns the value of the counter name{label="value"} in reg,
// or 0 when it has not been observed.
func counterValue(t *testing.T, reg *prometheus.Registry, name, label, value string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestNewMetricsRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newMetrics(reg)
	m.contactSubmissions.WithLabelValues("sent").Inc()
	m.contactSubmissions.WithLabelValues("sent").Inc()

	require.Equal(t, 2.0, counterValue(t, reg, "folio_contact_submissions_total", "result", "sent"))
	require.Panics(t, func() { newMetrics(reg) })
}
