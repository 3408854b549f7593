package stats

import (
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/stat"
)

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
)

// Summary aggregates a Collector's records. All durations are in minutes.
type Summary struct {
	TotalPatients      int             `json:"total_patients"`
	AbortedPatients    int             `json:"aborted_patients"`
	MeanTimeInSystem   float64         `json:"mean_time_in_system"`
	MedianTimeInSystem float64         `json:"median_time_in_system"`
	StdTimeInSystem    float64         `json:"std_time_in_system"`
	BySeverity         []SeverityStats `json:"by_severity"`
	Stages             []StageStats    `json:"stages"`
	Resources          []ResourceStats `json:"resources"`
	DailyArrivals      [7]int          `json:"daily_arrivals"`
	HourlyArrivals     [24]int         `json:"hourly_arrivals"`
}

// SeverityStats summarizes time in system for one severity level.
type SeverityStats struct {
	Severity int     `json:"severity"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`
}

// StageStats summarizes waits at one stage across the patients that visited it.
type StageStats struct {
	Stage              string          `json:"stage"`
	Visits             int             `json:"visits"`
	MeanWait           float64         `json:"mean_wait"`
	MaxWait            float64         `json:"max_wait"`
	MeanWaitBySeverity map[int]float64 `json:"mean_wait_by_severity"`
}

// ResourceStats summarizes the utilization samples of one pool.
type ResourceStats struct {
	Pool            string  `json:"pool"`
	Capacity        int     `json:"capacity"`
	Samples         int     `json:"samples"`
	MeanUtilization float64 `json:"mean_utilization"`
	PeakInUse       int     `json:"peak_in_use"`
	MeanQueueLen    float64 `json:"mean_queue_len"`
}

// Summarize computes aggregate statistics from a Collector.
// Safe for nil or empty collectors (returns zero-value fields).
func Summarize(c *Collector) *Summary {
	summary := &Summary{
		BySeverity: make([]SeverityStats, 0),
		Stages:     make([]StageStats, 0),
		Resources:  make([]ResourceStats, 0),
	}
	if c == nil {
		return summary
	}

	summary.TotalPatients = len(c.completions)
	summary.AbortedPatients = len(c.aborts)

	times := make([]float64, 0, len(c.completions))
	bySeverity := make(map[int][]float64)
	for _, r := range c.completions {
		tis := r.TimeInSystem()
		times = append(times, tis)
		bySeverity[r.Severity] = append(bySeverity[r.Severity], tis)

		day := int(math.Floor(r.EntryTime/minutesPerDay)) % 7
		hour := int(math.Floor(math.Mod(r.EntryTime, minutesPerDay) / minutesPerHour))
		summary.DailyArrivals[day]++
		summary.HourlyArrivals[hour]++
	}
	summary.MeanTimeInSystem, summary.MedianTimeInSystem, summary.StdTimeInSystem = describe(times)

	severities := make([]int, 0, len(bySeverity))
	for sev := range bySeverity {
		severities = append(severities, sev)
	}
	sort.Ints(severities)
	for _, sev := range severities {
		mean, median, std := describe(bySeverity[sev])
		summary.BySeverity = append(summary.BySeverity, SeverityStats{
			Severity: sev,
			Count:    len(bySeverity[sev]),
			Mean:     mean,
			Median:   median,
			StdDev:   std,
		})
	}

	summary.Stages = summarizeStages(c.completions)
	summary.Resources = summarizeResources(c.utilization)
	return summary
}

func summarizeStages(completions []CompletionRecord) []StageStats {
	waits := make(map[string][]float64)
	bySeverity := make(map[string]map[int][]float64)
	for _, r := range completions {
		for stage, w := range r.Waits {
			waits[stage] = append(waits[stage], w)
			if bySeverity[stage] == nil {
				bySeverity[stage] = make(map[int][]float64)
			}
			bySeverity[stage][r.Severity] = append(bySeverity[stage][r.Severity], w)
		}
	}

	names := make([]string, 0, len(waits))
	for stage := range waits {
		names = append(names, stage)
	}
	sort.Strings(names)

	out := make([]StageStats, 0, len(names))
	for _, stage := range names {
		ws := waits[stage]
		st := StageStats{
			Stage:              stage,
			Visits:             len(ws),
			MeanWait:           stat.Mean(ws, nil),
			MaxWait:            slices.Max(ws),
			MeanWaitBySeverity: make(map[int]float64, len(bySeverity[stage])),
		}
		for sev, sw := range bySeverity[stage] {
			st.MeanWaitBySeverity[sev] = stat.Mean(sw, nil)
		}
		out = append(out, st)
	}
	return out
}

// summarizeResources keeps pools in the order their first sample appeared.
func summarizeResources(samples []UtilizationSample) []ResourceStats {
	index := make(map[string]int)
	utils := make(map[string][]float64)
	queues := make(map[string][]float64)
	out := make([]ResourceStats, 0)
	for _, s := range samples {
		i, ok := index[s.Pool]
		if !ok {
			i = len(out)
			index[s.Pool] = i
			out = append(out, ResourceStats{Pool: s.Pool, Capacity: s.Capacity})
		}
		out[i].Samples++
		if s.InUse > out[i].PeakInUse {
			out[i].PeakInUse = s.InUse
		}
		utils[s.Pool] = append(utils[s.Pool], s.Utilization())
		queues[s.Pool] = append(queues[s.Pool], float64(s.QueueLen))
	}
	for i := range out {
		out[i].MeanUtilization = stat.Mean(utils[out[i].Pool], nil)
		out[i].MeanQueueLen = stat.Mean(queues[out[i].Pool], nil)
	}
	return out
}

// describe returns mean, median and sample standard deviation. Empty input
// yields zeros and a single value has zero deviation, keeping the summary
// free of NaN so it always encodes as JSON.
func describe(xs []float64) (mean, median, std float64) {
	if len(xs) == 0 {
		return 0, 0, 0
	}
	sorted := slices.Clone(xs)
	sort.Float64s(sorted)
	mean = stat.Mean(sorted, nil)
	median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	if len(sorted) > 1 {
		std = stat.StdDev(sorted, nil)
	}
	return mean, median, std
}
