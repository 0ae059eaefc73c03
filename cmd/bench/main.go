package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"harshagw/qanun/internal/app"
	"harshagw/qanun/internal/config"
	"harshagw/qanun/internal/extract"
	"harshagw/qanun/internal/index"
	"harshagw/qanun/internal/search"
)

const numDocs = 3000

func main() {
	configPath := flag.String("config", "", "path to a YAML or JSON config file")
	synthetic := flag.Bool("synthetic", false, "benchmark a generated corpus instead of the data directory")
	flag.Parse()

	fmt.Println("Legal Search Benchmark")
	fmt.Println("======================")
	fmt.Println()

	benchStart := time.Now()

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	docs := loadDocs(cfg, *synthetic)
	if len(docs) == 0 {
		fmt.Println("Error: no articles found, run with -synthetic to generate a corpus")
		os.Exit(1)
	}
	fmt.Printf("Loaded %d articles\n\n", len(docs))

	// Run indexing benchmark
	config := app.IndexConfig(cfg)
	idx := runIndexingBenchmark(docs, config)
	defer idx.Close()

	// Show index info
	printIndexInfo(idx, config)

	searcher := search.New(idx, search.Options{})
	runAllQueryBenchmarks(searcher)

	fmt.Printf("Total time: %.2f seconds\n", time.Since(benchStart).Seconds())
}

func loadDocs(cfg config.Config, synthetic bool) []extract.Record {
	if synthetic {
		return synthesize(numDocs)
	}
	lib, err := app.Library(cfg, zerolog.Nop(), nil)
	if err != nil {
		fmt.Printf("Error opening library: %v\n", err)
		os.Exit(1)
	}
	defer lib.Close()

	records, err := lib.Records()
	if err != nil {
		fmt.Printf("Error reading %s: %v\n", cfg.DataDir, err)
		os.Exit(1)
	}
	return records
}

func runIndexingBenchmark(docs []extract.Record, config index.Config) *index.Index {
	fmt.Println("INDEXING")
	fmt.Println("--------")

	// Warm up run
	if idx, err := index.Build(docs[:min(100, len(docs))], config); err == nil {
		idx.Close()
	}

	// Benchmark runs
	var totalTime time.Duration
	runs := 3

	var lastIdx *index.Index
	for range runs {
		start := time.Now()
		idx, err := index.Build(docs, config)
		if err != nil {
			fmt.Printf("Error building index: %v\n", err)
			os.Exit(1)
		}
		totalTime += time.Since(start)

		if lastIdx != nil {
			lastIdx.Close()
		}
		lastIdx = idx
	}

	avgTime := totalTime / time.Duration(runs)
	throughput := float64(len(docs)) / avgTime.Seconds()

	fmt.Printf("  Articles:   %d\n", len(docs))
	fmt.Printf("  Time:       %v\n", avgTime.Round(time.Millisecond))
	fmt.Printf("  Throughput: %.0f articles/sec\n", throughput)
	fmt.Println()

	return lastIdx
}

func formatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	if bytes >= MB {
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	}
	if bytes >= KB {
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	}
	return fmt.Sprintf("%d B", bytes)
}

// printIndexInfo reports dictionary sizes and the cost of a snapshot round
// trip.
func printIndexInfo(idx *index.Index, config index.Config) {
	fmt.Println("INDEX INFO")
	fmt.Println("----------")
	fmt.Printf("  Articles:   %d\n", idx.Len())
	fmt.Printf("  Vocabulary: %d terms\n", idx.Vocabulary())

	dir, err := os.MkdirTemp("", "bench-snapshot-*")
	if err != nil {
		fmt.Printf("  Snapshot: %v\n\n", err)
		return
	}
	defer os.RemoveAll(dir)

	start := time.Now()
	if err := idx.Save(dir, "bench"); err != nil {
		fmt.Printf("  Snapshot: %v\n\n", err)
		return
	}
	saved := time.Since(start)

	start = time.Now()
	reopened, found, err := index.Open(dir, "bench", config)
	if err != nil || !found {
		fmt.Printf("  Snapshot reopen failed: %v\n\n", err)
		return
	}
	opened := time.Since(start)
	reopened.Close()

	var size int64
	segs, _ := filepath.Glob(filepath.Join(dir, "*.seg"))
	for _, p := range segs {
		if fi, err := os.Stat(p); err == nil {
			size += fi.Size()
		}
	}

	fmt.Printf("  Snapshot:   %s (%s/article)\n", formatBytes(size), formatBytes(size/int64(max(1, idx.Len()))))
	fmt.Printf("  Save:       %v\n", saved.Round(time.Microsecond))
	fmt.Printf("  Open:       %v\n", opened.Round(time.Microsecond))
	fmt.Println()
}

func runAllQueryBenchmarks(s *search.Searcher) {
	fmt.Println("IDENTIFIER QUERIES")
	fmt.Println("------------------")
	runQueries(s, "", false, []string{
		"12",
		"250",
		"1024",
	})

	fmt.Println("CONTENT QUERIES")
	fmt.Println("---------------")
	runQueries(s, "", false, []string{
		// Very common
		"المحكمة",
		"النيابة العامة",
		// Rare
		"الكفالة",
		"الرشوة",
		// Long phrase
		"الاعتقال الاحتياطي والمراقبة القضائية",
	})

	fmt.Println("TYPO QUERIES")
	fmt.Println("------------")
	runQueries(s, "", false, []string{
		"المحكمه",
		"التفتييش",
		"الاستءناف",
	})

	fmt.Println("SOURCE-SCOPED QUERIES")
	fmt.Println("---------------------")
	runQueries(s, "cpp", false, []string{"المحكمة", "الطعن بالنقض"})
	runQueries(s, "dp", false, []string{"السرقة", "خيانة الأمانة"})

	fmt.Println("EXTENDED QUERIES")
	fmt.Println("----------------")
	runQueries(s, "", true, []string{
		"'الكفالة",
		"^المحكمة",
		"النقض$",
		"'الحبس !الغرامة",
		"'السرقة | 'النصب",
	})
}

func runQueries(s *search.Searcher, source string, extended bool, queries []string) {
	for _, q := range queries {
		latency, hits := benchmarkQuery(s, search.Request{Query: q, Source: source, Extended: extended})
		label := q
		if source != "" {
			label = source + ": " + q
		}
		fmt.Printf("  %-45s %s  (%d hits)\n", label, formatLatency(latency), hits)
	}
	fmt.Println()
}

func benchmarkQuery(s *search.Searcher, req search.Request) (time.Duration, int) {
	var hits int

	// Warm up
	for range 3 {
		resp, _ := s.Run(req)
		hits = len(resp.Results)
	}

	// Benchmark
	iterations := 20
	start := time.Now()
	for range iterations {
		s.Run(req)
	}
	return time.Since(start) / time.Duration(iterations), hits
}

func formatLatency(d time.Duration) string {
	return fmt.Sprintf("%10.2f ms", float64(d.Microseconds())/1000)
}
