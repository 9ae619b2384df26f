package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/alitto/pond/v2"

	"github.com/feral-file/ff-smartdial/internal/adapter"
	"github.com/feral-file/ff-smartdial/internal/directory"
	"github.com/feral-file/ff-smartdial/internal/domain"
	"github.com/feral-file/ff-smartdial/internal/logger"
	"github.com/feral-file/ff-smartdial/internal/query"
	"github.com/feral-file/ff-smartdial/internal/store"
	"github.com/feral-file/ff-smartdial/internal/syncer"
)

const (
	defaultContacts    = 5000
	defaultQueries     = 2000
	defaultConcurrency = 4
	defaultDSN         = "file::memory:"
)

type Config struct {
	Contacts    int    // Number of synthetic contacts
	Queries     int    // Number of lookups to run
	Concurrency int    // Number of concurrent lookups
	Seed        uint64 // Seed of the synthetic directory and queries
	Driver      string // Index store driver
	DSN         string // Index store DSN
	OutputFile  string // Output markdown file path (optional)
	Debug       bool
}

// Results holds what the benchmark measured
type Results struct {
	Config        Config
	SyncDuration  time.Duration
	SyncStats     domain.SyncStats
	Index         store.IndexStats
	QueryDuration time.Duration
	Latencies     map[QueryKind][]time.Duration
	Matches       int
	EmptyResults  int
}

func main() {
	cfg := parseFlags()

	if err := logger.Initialize(logger.Config{Debug: cfg.Debug}); err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	fmt.Printf("Benchmarking smart-dial lookups: %d contacts, %d queries, concurrency %d (seed %d)\n",
		cfg.Contacts, cfg.Queries, cfg.Concurrency, cfg.Seed)

	results, err := run(ctx, cfg)
	if err != nil {
		fmt.Printf("Error running benchmark: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("BENCHMARK RESULTS")
	fmt.Println(strings.Repeat("=", 80))
	printResults(os.Stdout, results)

	// Write to markdown file if specified
	if cfg.OutputFile != "" {
		if err := writeMarkdownReport(cfg.OutputFile, results); err != nil {
			fmt.Printf("\n⚠️  Warning: Failed to write markdown file: %v\n", err)
		} else {
			fmt.Printf("\n✓ Report written to: %s\n", cfg.OutputFile)
		}
	}
}

func parseFlags() *Config {
	cfg := &Config{}

	flag.IntVar(&cfg.Contacts, "contacts", defaultContacts, "Number of synthetic contacts")
	flag.IntVar(&cfg.Queries, "queries", defaultQueries, "Number of lookups to run")
	flag.IntVar(&cfg.Concurrency, "concurrency", defaultConcurrency, "Number of concurrent lookups")
	flag.Uint64Var(&cfg.Seed, "seed", uint64(time.Now().UnixNano()), "Seed of the synthetic workload")
	flag.StringVar(&cfg.Driver, "driver", store.DriverSQLite, "Index store driver (sqlite or postgres)")
	flag.StringVar(&cfg.DSN, "dsn", defaultDSN, "Index store DSN")
	flag.StringVar(&cfg.OutputFile, "output", "", "Output markdown file path (optional)")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")

	configFile := flag.String("config", "", "Path to config file (optional)")

	flag.Parse()

	// Load from config file if specified
	if *configFile != "" {
		fileCfg, err := LoadConfig(*configFile)
		if err != nil {
			fmt.Printf("Warning: failed to load config file: %v\n", err)
		} else {
			// Override with file values if not set via flags
			if cfg.Contacts == defaultContacts && fileCfg.Contacts > 0 {
				cfg.Contacts = fileCfg.Contacts
			}
			if cfg.Queries == defaultQueries && fileCfg.Queries > 0 {
				cfg.Queries = fileCfg.Queries
			}
			if cfg.Concurrency == defaultConcurrency && fileCfg.Concurrency > 0 {
				cfg.Concurrency = fileCfg.Concurrency
			}
			if cfg.Driver == store.DriverSQLite && fileCfg.Driver != "" {
				cfg.Driver = fileCfg.Driver
			}
			if cfg.DSN == defaultDSN && fileCfg.DSN != "" {
				cfg.DSN = fileCfg.DSN
			}
		}
	}

	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}

	return cfg
}

// run seeds a synthetic directory, indexes it with one sync pass and times the lookups
func run(ctx context.Context, cfg *Config) (*Results, error) {
	db, err := store.OpenDB(cfg.Driver, cfg.DSN, false)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = store.CloseDB(db)
	}()
	if err := store.ConfigureConnectionPool(db, cfg.Concurrency, cfg.Concurrency, 0, 0); err != nil {
		return nil, err
	}

	st := store.NewSQLStore(db)
	if err := st.Rebuild(ctx); err != nil {
		return nil, err
	}

	clock := adapter.NewClock()
	now := domain.Millis(clock.Now())
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x5eed))

	contacts := generateContacts(rng, cfg.Contacts, now)
	dir := directory.NewMemory(directory.WithStartTime(now))
	for _, c := range contacts {
		dir.UpsertContact(c)
	}

	syncEngine := syncer.NewEngine(syncer.Config{}, st, dir, nil, clock)
	defer syncEngine.Close()

	results := &Results{
		Config:    *cfg,
		Latencies: make(map[QueryKind][]time.Duration),
	}

	syncStart := time.Now()
	event, err := syncEngine.RunPass(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to index directory: %w", err)
	}
	results.SyncDuration = time.Since(syncStart)
	results.SyncStats = event.Stats

	stats, err := st.Stats(ctx)
	if err != nil {
		return nil, err
	}
	results.Index = *stats

	queries := generateQueries(rng, contacts, cfg.Queries)
	queryEngine := query.NewEngine(query.Config{}, st, syncEngine, clock)

	var mu sync.Mutex
	pool := pond.NewPool(cfg.Concurrency)
	queryStart := time.Now()
	for _, q := range queries {
		pool.Submit(func() {
			if ctx.Err() != nil {
				return
			}

			start := time.Now()
			result := queryEngine.Lookup(ctx, q.Text)
			elapsed := time.Since(start)

			mu.Lock()
			defer mu.Unlock()
			results.Latencies[q.Kind] = append(results.Latencies[q.Kind], elapsed)
			results.Matches += len(result.Matches)
			if len(result.Matches) == 0 {
				results.EmptyResults++
			}
		})
	}
	pool.StopAndWait()
	results.QueryDuration = time.Since(queryStart)

	if errors.Is(ctx.Err(), context.Canceled) {
		fmt.Println("INTERRUPTED - PARTIAL RESULTS")
	}

	return results, nil
}
