// Command import-pool loads a line-delimited word pool file into the
// word_pools table, replacing any previous content of that pool. Lines are
// stored raw; normalization happens when the pool is read.
//
// Flags:
//
//	--pool  pool id to write, e.g. "kids"
//	--file  path to the pool file
//	--list  print stored pools and their sizes, then exit
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/wordtier/internal/adapter/postgres"
	"github.com/heartmarshall/wordtier/internal/adapter/postgres/wordpool"
	"github.com/heartmarshall/wordtier/internal/app"
	"github.com/heartmarshall/wordtier/internal/config"
)

func main() {
	poolFlag := flag.String("pool", "", "pool id to write")
	fileFlag := flag.String("file", "", "path to the pool file")
	listFlag := flag.Bool("list", false, "list stored pools and exit")
	flag.Parse()

	if !*listFlag && (*poolFlag == "" || *fileFlag == "") {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Database.DSN == "" {
		log.Fatal("database.dsn is required")
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	repo := wordpool.New(pool)

	if *listFlag {
		pools, err := repo.List(ctx)
		if err != nil {
			logger.Error("list pools", slog.String("error", err.Error()))
			os.Exit(1)
		}
		for _, p := range pools {
			fmt.Printf("%s\t%d\n", p.PoolID, p.Words)
		}
		return
	}

	lines, err := readLines(*fileFlag)
	if err != nil {
		logger.Error("read pool file", slog.String("file", *fileFlag), slog.String("error", err.Error()))
		os.Exit(1)
	}

	written, err := repo.Replace(ctx, *poolFlag, lines)
	if err != nil {
		logger.Error("import pool", slog.String("pool", *poolFlag), slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("pool imported",
		slog.String("pool", *poolFlag),
		slog.String("file", *fileFlag),
		slog.Int64("lines", written),
	)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
