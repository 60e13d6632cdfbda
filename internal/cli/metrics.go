package cli

import (
	"fmt"
	"sort"
	"strings"

	dto "github.com/prometheus/client_model/go"
)

// metricRow is one printed sample of the resolver metrics.
type metricRow struct {
	Name   string            `json:"name" yaml:"name"`
	Type   string            `json:"type" yaml:"type"`
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	Value  float64           `json:"value" yaml:"value"`
	Count  uint64            `json:"count,omitempty" yaml:"count,omitempty"`
}

// printMetrics gathers the metrics recorded while the command ran.
func (a *app) printMetrics(p *printer) error {
	families, err := a.metrics.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	var out []metricRow
	var rows [][]string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			r := metricRow{
				Name:   mf.GetName(),
				Type:   strings.ToLower(mf.GetType().String()),
				Labels: labelMap(m.GetLabel()),
			}
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				r.Value = m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				r.Value = m.GetGauge().GetValue()
			case dto.MetricType_HISTOGRAM:
				r.Value = m.GetHistogram().GetSampleSum()
				r.Count = m.GetHistogram().GetSampleCount()
			default:
				continue
			}
			out = append(out, r)
			rows = append(rows, []string{r.Name, orDash(formatLabels(r.Labels)), fmt.Sprint(r.Value), fmt.Sprint(r.Count)})
		}
	}
	return p.print(out, []string{"METRIC", "LABELS", "VALUE", "COUNT"}, rows)
}

func labelMap(pairs []*dto.LabelPair) map[string]string {
	if len(pairs) == 0 {
		return nil
	}
	labels := make(map[string]string, len(pairs))
	for _, lp := range pairs {
		labels[lp.GetName()] = lp.GetValue()
	}
	return labels
}

func formatLabels(labels map[string]string) string {
	parts := make([]string, 0, len(labels))
	for k, v := range labels {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
