package bench

import (
	"encoding/csv"
	"fmt"
	"time"
)

// RunSuite loads n sequential keys into b, then replays the OLTP, OLAP
// and Reporting workloads against it, recording every stage's latency
// and memory footprint under name/config as rows in w, and returns the
// same rows for callers that also want to chart them.
func RunSuite(w *csv.Writer, name, config string, b Baseline, n int) ([]Result, error) {
	fmt.Printf("Running %s (%s), n=%d\n", name, config, n)
	var results []Result

	record := func(r Result) error {
		results = append(results, r)
		return Record(w, r)
	}

	start := time.Now()
	for k := 0; k < n; k++ {
		if err := b.Insert(uint32(k), []byte("v")); err != nil {
			return results, fmt.Errorf("%s: load: %w", name, err)
		}
	}
	insertLatency := time.Since(start).Nanoseconds() / int64(n)

	stats := GetDetailedMem()
	if err := record(Result{
		Engine:    name,
		Config:    config,
		Operation: "Footprint_SteadyState",
		LatencyNs: insertLatency,
		MemMB:     stats.AllocMB,
		Objects:   stats.HeapObjects,
	}); err != nil {
		return results, err
	}

	stages := []struct {
		op  string
		wl  WorkloadType
		ops int
	}{
		{"Workload_OLTP", OLTP, n / 2},
		{"Workload_OLAP", OLAP, n / 2},
		{"Workload_Range", Reporting, 100},
	}
	for _, s := range stages {
		start = time.Now()
		if err := ExecuteWorkload(b, s.wl, s.ops); err != nil {
			return results, fmt.Errorf("%s: %s: %w", name, s.op, err)
		}
		if err := record(Result{
			Engine:    name,
			Config:    config,
			Operation: s.op,
			LatencyNs: time.Since(start).Nanoseconds() / int64(s.ops),
			MemMB:     GetDetailedMem().AllocMB,
		}); err != nil {
			return results, err
		}
	}
	return results, nil
}
