package service

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// DefaultAnomalyThreshold is the relative change above which a metric move
// between consecutive snapshots is flagged.
const DefaultAnomalyThreshold = 0.20

// AnomalySeverity grades a detected anomaly
type AnomalySeverity string

const (
	SeverityWarning  AnomalySeverity = "WARNING"
	SeverityCritical AnomalySeverity = "CRITICAL"
)

// Anomaly describes a suspicious change between two consecutive snapshots
type Anomaly struct {
	Severity AnomalySeverity `json:"severity"`
	Field    string          `json:"field"`
	Previous float64         `json:"previous"`
	Current  float64         `json:"current"`
	Message  string          `json:"message"`
}

// AnomalyDetector compares each new snapshot to its immediate predecessor.
// Detection only observes; it never blocks or alters the pipeline.
type AnomalyDetector struct {
	threshold float64
	log       *logrus.Logger
}

// NewAnomalyDetector creates a detector with the given relative-change
// threshold; zero falls back to DefaultAnomalyThreshold.
func NewAnomalyDetector(threshold float64, log *logrus.Logger) *AnomalyDetector {
	if threshold <= 0 {
		threshold = DefaultAnomalyThreshold
	}
	return &AnomalyDetector{threshold: threshold, log: log}
}

// Compare evaluates every rule independently against the previous snapshot
// and returns all anomalies found. A nil previous snapshot is a no-op.
func (d *AnomalyDetector) Compare(prev, cur *MetricsSnapshot) []Anomaly {
	if prev == nil || cur == nil {
		return nil
	}

	var anomalies []Anomaly
	fields := []struct {
		name string
		prev float64
		cur  float64
	}{
		{"monthly_revenue", decimalToFloat(prev.MonthlyRevenue), decimalToFloat(cur.MonthlyRevenue)},
		{"total_outstanding", decimalToFloat(prev.TotalOutstanding), decimalToFloat(cur.TotalOutstanding)},
		{"paid_revenue", decimalToFloat(prev.PaidRevenue), decimalToFloat(cur.PaidRevenue)},
		{"active_orders", float64(prev.ActiveOrders), float64(cur.ActiveOrders)},
		{"total_customers", float64(prev.TotalCustomers), float64(cur.TotalCustomers)},
	}

	for _, f := range fields {
		if change := percentChange(f.prev, f.cur); change > d.threshold {
			anomalies = append(anomalies, Anomaly{
				Severity: SeverityWarning,
				Field:    f.name,
				Previous: f.prev,
				Current:  f.cur,
				Message:  fmt.Sprintf("%s moved %.1f%% between consecutive snapshots", f.name, change*100),
			})
		}
	}

	// Outstanding is invariant-non-negative, so any sign flip means a
	// negative reading got through and is itself a bug signal.
	prevOut := decimalToFloat(prev.TotalOutstanding)
	curOut := decimalToFloat(cur.TotalOutstanding)
	if (prevOut >= 0 && curOut < 0) || (prevOut < 0 && curOut >= 0) {
		anomalies = append(anomalies, Anomaly{
			Severity: SeverityCritical,
			Field:    "total_outstanding",
			Previous: prevOut,
			Current:  curOut,
			Message:  fmt.Sprintf("total_outstanding flipped sign: %.2f -> %.2f", prevOut, curOut),
		})
	}

	for _, a := range anomalies {
		entry := d.log.WithFields(logrus.Fields{
			"field":    a.Field,
			"previous": a.Previous,
			"current":  a.Current,
			"severity": a.Severity,
		})
		if a.Severity == SeverityCritical {
			entry.Error("metrics anomaly detected")
		} else {
			entry.Warn("metrics anomaly detected")
		}
	}
	return anomalies
}

// percentChange measures relative movement with the denominator floored at 1
// so small absolute values do not explode the ratio.
func percentChange(prev, cur float64) float64 {
	return math.Abs(cur-prev) / math.Max(math.Abs(prev), 1)
}
