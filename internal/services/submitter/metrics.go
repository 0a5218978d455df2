package submitter

import "time"

// MetricsCollector receives submission outcome metrics.
type MetricsCollector interface {
	RecordSubmission(category string, duration time.Duration)
	RecordReplay(category string)
	RecordError(category, errType string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSubmission(string, time.Duration) {}
func (NoopMetricsCollector) RecordReplay(string)                    {}
func (NoopMetricsCollector) RecordError(string, string)             {}
