// Copyright 2026 The sqlitekit Authors
// SPDX-License-Identifier: Apache-2.0

// sqlitekit-bench is a small demonstration binary that drives each of
// sqlitekit's three connection models (Conn, SharedConn, Pool) against
// a temporary database and reports how many inserts per second each
// sustains. It exists to exercise the library end to end, not as a
// serious benchmarking harness.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/lucerna-dev/sqlitekit"
	"github.com/lucerna-dev/sqlitekit/sqlitepool"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var inserts int
	var workers int
	var dir string
	var verbose bool

	flagSet := pflag.NewFlagSet("sqlitekit-bench", pflag.ContinueOnError)
	flagSet.IntVar(&inserts, "inserts", 2000, "total rows to insert per model")
	flagSet.IntVar(&workers, "workers", 4, "concurrent goroutines for the SharedConn and Pool runs")
	flagSet.StringVar(&dir, "dir", "", "directory for the scratch database (default: a fresh temp dir)")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "enable info-level logging")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		flagSet.PrintDefaults()
		return nil
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if dir == "" {
		d, err := os.MkdirTemp("", "sqlitekit-bench-*")
		if err != nil {
			return fmt.Errorf("creating scratch dir: %w", err)
		}
		defer os.RemoveAll(d)
		dir = d
	}

	if err := benchConn(dir, logger, inserts); err != nil {
		return fmt.Errorf("Conn: %w", err)
	}
	if err := benchShared(dir, logger, inserts, workers); err != nil {
		return fmt.Errorf("SharedConn: %w", err)
	}
	if err := benchPool(dir, logger, inserts, workers); err != nil {
		return fmt.Errorf("Pool: %w", err)
	}
	return nil
}

func dbPath(dir, label string) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%s.db", label, uuid.NewString()))
}

const createTable = `CREATE TABLE IF NOT EXISTS events (id INTEGER PRIMARY KEY, payload TEXT NOT NULL);`

func report(label string, n int, elapsed time.Duration) {
	fmt.Printf("%-12s %6d inserts in %10s  (%.0f/s)\n", label, n, elapsed.Round(time.Millisecond), float64(n)/elapsed.Seconds())
}

func benchConn(dir string, logger *slog.Logger, inserts int) error {
	conn, err := sqlitekit.Open(dbPath(dir, "conn"), sqlitekit.OpenReadWrite(true), sqlitekit.DefaultPragmaProfile(), logger)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.Execute(createTable); err != nil {
		return err
	}

	start := time.Now()
	err = conn.Transaction(sqlitekit.TxImmediate, func(tx *sqlitekit.Tx) error {
		for i := 0; i < inserts; i++ {
			q, err := sqlitekit.NewBuilder().
				Text("INSERT INTO events (payload) VALUES (").
				Bind(uuid.NewString()).
				Text(")").
				Build()
			if err != nil {
				return err
			}
			if _, err := tx.Run(q); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	report("Conn", inserts, time.Since(start))
	return nil
}

func benchShared(dir string, logger *slog.Logger, inserts, workers int) error {
	shared, err := sqlitepool.OpenShared(sqlitepool.SharedConfig{
		Path:    dbPath(dir, "shared"),
		Profile: sqlitekit.DefaultPragmaProfile(),
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer shared.Close()
	if err := shared.Execute(createTable); err != nil {
		return err
	}

	start := time.Now()
	if err := runConcurrently(workers, inserts, func() error {
		q, err := sqlitekit.NewBuilder().
			Text("INSERT INTO events (payload) VALUES (").
			Bind(uuid.NewString()).
			Text(")").
			Build()
		if err != nil {
			return err
		}
		_, err = shared.Run(q)
		return err
	}); err != nil {
		return err
	}
	report("SharedConn", inserts, time.Since(start))
	return nil
}

func benchPool(dir string, logger *slog.Logger, inserts, workers int) error {
	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:        dbPath(dir, "pool"),
		MaxPoolSize: workers,
		Profile:     sqlitekit.DefaultPragmaProfile(),
		Logger:      logger,
		OnOpen: func(conn *sqlitekit.Conn) error {
			return conn.Execute(createTable)
		},
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	start := time.Now()
	if err := runConcurrently(workers, inserts, func() error {
		ctx := context.Background()
		conn, err := pool.Take(ctx)
		if err != nil {
			return err
		}
		defer pool.Put(conn)

		q, err := sqlitekit.NewBuilder().
			Text("INSERT INTO events (payload) VALUES (").
			Bind(uuid.NewString()).
			Text(")").
			Build()
		if err != nil {
			return err
		}
		_, err = conn.Run(q)
		return err
	}); err != nil {
		return err
	}
	report("Pool", inserts, time.Since(start))
	return nil
}

// runConcurrently spreads total calls to work across workers
// goroutines and returns the first error, if any.
func runConcurrently(workers, total int, work func() error) error {
	if workers < 1 {
		workers = 1
	}
	var waitGroup sync.WaitGroup
	errs := make(chan error, workers)
	perWorker := total / workers
	remainder := total % workers

	for i := 0; i < workers; i++ {
		n := perWorker
		if i == 0 {
			n += remainder
		}
		waitGroup.Add(1)
		go func(n int) {
			defer waitGroup.Done()
			for j := 0; j < n; j++ {
				if err := work(); err != nil {
					errs <- err
					return
				}
			}
		}(n)
	}
	waitGroup.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
