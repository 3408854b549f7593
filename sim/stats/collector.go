package stats

import "slices"

// Collector accumulates append-only sequences of records during a run.
// It never influences scheduling: recording is synchronous and cannot fail.
type Collector struct {
	completions []CompletionRecord
	utilization []UtilizationSample
	aborts      []AbortRecord
}

// NewCollector creates a Collector ready for recording.
func NewCollector() *Collector {
	return &Collector{
		completions: make([]CompletionRecord, 0),
		utilization: make([]UtilizationSample, 0),
		aborts:      make([]AbortRecord, 0),
	}
}

// RecordCompletion appends a completion record. The wait map is copied so
// later changes by the caller cannot alter the stored record.
func (c *Collector) RecordCompletion(record CompletionRecord) {
	c.completions = append(c.completions, record.clone())
}

// RecordUtilization appends a utilization sample.
func (c *Collector) RecordUtilization(sample UtilizationSample) {
	c.utilization = append(c.utilization, sample)
}

// RecordAbort appends an abort record.
func (c *Collector) RecordAbort(record AbortRecord) {
	c.aborts = append(c.aborts, record)
}

// Completions returns a copy of the completion records in emission order.
func (c *Collector) Completions() []CompletionRecord {
	out := make([]CompletionRecord, len(c.completions))
	for i, r := range c.completions {
		out[i] = r.clone()
	}
	return out
}

// Utilization returns a copy of the utilization samples in emission order.
func (c *Collector) Utilization() []UtilizationSample {
	return slices.Clone(c.utilization)
}

// Aborts returns a copy of the abort records in emission order.
func (c *Collector) Aborts() []AbortRecord {
	return slices.Clone(c.aborts)
}

// Len returns the number of completion records.
func (c *Collector) Len() int {
	return len(c.completions)
}
