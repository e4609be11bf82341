package bench

import (
	"encoding/csv"
	"runtime"
	"strconv"
)

// Result is one recorded measurement, written as one CSV row.
type Result struct {
	Engine    string
	Config    string
	Operation string
	LatencyNs int64
	MemMB     uint64
	Objects   uint64
}

// MemStats is a snapshot of the live heap, sampled after forcing a GC so
// it reflects retained data rather than transient garbage.
type MemStats struct {
	AllocMB      uint64
	TotalAllocMB uint64
	HeapObjects  uint64
}

// GetDetailedMem forces a GC and reads runtime.MemStats.
func GetDetailedMem() MemStats {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	return MemStats{
		AllocMB:      m.Alloc / 1024 / 1024,
		TotalAllocMB: m.TotalAlloc / 1024 / 1024,
		HeapObjects:  m.HeapObjects,
	}
}

// Record appends one row to w.
func Record(w *csv.Writer, r Result) error {
	return w.Write([]string{
		r.Engine,
		r.Config,
		r.Operation,
		strconv.FormatInt(r.LatencyNs, 10),
		strconv.FormatUint(r.MemMB, 10),
		strconv.FormatUint(r.Objects, 10),
	})
}

// Header is the CSV column header, written once per report file.
var Header = []string{"Engine", "Config", "Operation", "LatencyNs", "MemMB", "HeapObjects"}
