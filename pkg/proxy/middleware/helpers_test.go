package middleware

import (
	"testing"

	"lovepaws/gateway/pkg/telemetry/metrics"
)

// rateLimitCount reads one series of the rate limit decision counter.
func rateLimitCount(t *testing.T, c *metrics.Collector, result string) float64 {
	t.Helper()
	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range families {
		if mf.GetName() != "lovepaws_rate_limit_decisions_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "result" && lp.GetValue() == result {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
