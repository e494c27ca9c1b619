package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/memtab/arena"
)

var previousPause time.Duration

func gcPause() time.Duration {
	runtime.GC()
	var stats debug.GCStats
	debug.ReadGCStats(&stats)
	pause := stats.PauseTotal - previousPause
	previousPause = stats.PauseTotal
	return pause
}

var latency = arena.NewPercentile()

func main() {
	alloc := ""
	entries := 0
	repeat := 0
	valueSize := 0
	flag.StringVar(&alloc, "alloc", "arena", "allocation strategy to bench.")
	flag.IntVar(&entries, "entries", 1000000, "number of allocations per round")
	flag.IntVar(&repeat, "repeat", 20, "number of rounds")
	flag.IntVar(&valueSize, "value-size", 100, "size of a single allocation in bytes")
	flag.Parse()

	debug.SetGCPercent(10)
	fmt.Println("Strategy:          ", alloc)
	fmt.Println("Number of entries: ", entries)
	fmt.Println("Number of repeats: ", repeat)
	fmt.Println("Value size:        ", valueSize)

	var benchFunc func(entries, valueSize int)

	switch alloc {
	case "heap":
		benchFunc = heapAlloc
	case "arena":
		benchFunc = arenaAlloc
	case "arena-mmap":
		benchFunc = arenaMmapAlloc
	case "bigcache":
		benchFunc = bigCacheStore
	default:
		fmt.Printf("unknown strategy: %s", alloc)
		os.Exit(1)
	}

	benchFunc(entries, valueSize)
	fmt.Println("GC pause for startup: ", gcPause())
	for i := 0; i < repeat; i++ {
		benchFunc(entries, valueSize)
	}

	fmt.Printf("GC pause for %s: %s\n", alloc, gcPause())
	fmt.Printf("alloc latency avg: %.0fns p50: %.0fns p99: %.0fns max: %.0fns\n",
		latency.Avg(), latency.Percentile(50), latency.Percentile(99), latency.Max())
}

func heapAlloc(entries, valueSize int) {
	bufs := make([][]byte, 0, entries)
	for i := 0; i < entries; i++ {
		start := time.Now()
		b := make([]byte, valueSize)
		latency.Add(float64(time.Since(start)))
		bufs = append(bufs, b)
	}
	_ = bufs
}

func arenaAlloc(entries, valueSize int) {
	a, err := arena.Default()
	if err != nil {
		panic(err)
	}
	defer a.Release()

	for i := 0; i < entries; i++ {
		start := time.Now()
		if _, err := a.Alloc(valueSize); err != nil {
			panic(err)
		}
		latency.Add(float64(time.Since(start)))
	}
}

func arenaMmapAlloc(entries, valueSize int) {
	a, err := arena.New(arena.Options{
		BlockSize: 4096,
		Backend:   arena.MmapBackend{},
	})
	if err != nil {
		panic(err)
	}
	defer a.Release()

	for i := 0; i < entries; i++ {
		start := time.Now()
		if _, err := a.Alloc(valueSize); err != nil {
			panic(err)
		}
		latency.Add(float64(time.Since(start)))
	}
}

func bigCacheStore(entries, valueSize int) {
	config := bigcache.Config{
		Shards:             256,
		LifeWindow:         100 * time.Minute,
		MaxEntriesInWindow: entries,
		MaxEntrySize:       valueSize * 2,
	}

	bc, _ := bigcache.New(context.Background(), config)
	val := make([]byte, valueSize)
	for i := 0; i < entries; i++ {
		key := fmt.Sprintf("key-%010d", i)
		start := time.Now()
		_ = bc.Set(key, val)
		latency.Add(float64(time.Since(start)))
	}
}
