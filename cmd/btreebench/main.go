// Command btreebench sweeps the project's B+ tree against a Pebble
// baseline across a mixed OLTP/OLAP/Reporting workload, writing a CSV
// report and a latency chart.
package main

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/bptreedb/bptreedb/bench"
)

func main() {
	scale := 200000
	capacities := []int{100, 1000, 10000}

	f, err := os.Create("bench_results.csv")
	if err != nil {
		fmt.Println("create results file:", err)
		os.Exit(1)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(bench.Header); err != nil {
		fmt.Println("write header:", err)
		os.Exit(1)
	}

	dbDir, err := os.MkdirTemp("", "btreebench")
	if err != nil {
		fmt.Println("mkdir temp:", err)
		os.Exit(1)
	}
	defer os.RemoveAll(dbDir)

	var allResults []bench.Result

	for _, cap := range capacities {
		bt, err := bench.OpenBTreeBaseline(fmt.Sprintf("%s/btree-%d.db", dbDir, cap), cap)
		if err != nil {
			fmt.Println("open btree baseline:", err)
			os.Exit(1)
		}
		results, err := bench.RunSuite(w, "BPlusTree", fmt.Sprintf("cap=%d", cap), bt, scale)
		allResults = append(allResults, results...)
		if err != nil {
			fmt.Println("run suite:", err)
		}
		bt.Close()
	}

	pb, err := bench.OpenPebbleBaseline(dbDir + "/pebble")
	if err != nil {
		fmt.Println("open pebble baseline:", err)
		os.Exit(1)
	}
	results, err := bench.RunSuite(w, "Pebble", "default", pb, scale)
	allResults = append(allResults, results...)
	if err != nil {
		fmt.Println("run suite:", err)
	}
	pb.Close()

	w.Flush()
	fmt.Println("Benchmark complete. Data ready for analysis.")

	if err := bench.RenderLatencyChart(allResults, "bench_latency.png"); err != nil {
		fmt.Println("render chart:", err)
	}
}
