// Package stats provides the passive statistics sink for emergency-room runs.
// The package does not import sim or sim/emergency. It stores pure
// data types and computes aggregates on demand.
package stats

import "maps"

// CompletionRecord captures one patient's journey once it is discharged.
// Waits maps stage name to wait duration in minutes; stages the patient
// skipped are absent rather than zero.
type CompletionRecord struct {
	PatientID int                `json:"patient_id"`
	Severity  int                `json:"severity"`
	EntryTime float64            `json:"entry_time"`
	ExitTime  float64            `json:"exit_time"`
	Waits     map[string]float64 `json:"waits"`
}

// TimeInSystem returns exit minus entry, in minutes.
func (r CompletionRecord) TimeInSystem() float64 {
	return r.ExitTime - r.EntryTime
}

// Visited reports whether the patient passed through stage.
func (r CompletionRecord) Visited(stage string) bool {
	_, ok := r.Waits[stage]
	return ok
}

func (r CompletionRecord) clone() CompletionRecord {
	r.Waits = maps.Clone(r.Waits)
	return r
}

// UtilizationSample is a point-in-time observation of one resource pool.
type UtilizationSample struct {
	Pool     string  `json:"pool"`
	Capacity int     `json:"capacity"`
	InUse    int     `json:"in_use"`
	QueueLen int     `json:"queue_len"`
	Time     float64 `json:"time"`
}

// Utilization returns InUse/Capacity, or 0 for a zero-capacity sample.
func (u UtilizationSample) Utilization() float64 {
	if u.Capacity <= 0 {
		return 0
	}
	return float64(u.InUse) / float64(u.Capacity)
}

// AbortRecord captures a patient whose process stopped on a protocol error.
type AbortRecord struct {
	PatientID int     `json:"patient_id"`
	Severity  int     `json:"severity"`
	Stage     string  `json:"stage"`
	Time      float64 `json:"time"`
	Reason    string  `json:"reason"`
}
