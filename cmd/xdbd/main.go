// Command xdbd runs the XDB document store as a TCP server.
//
// Configuration comes from flags, with environment-variable fallbacks:
//
//	-addr   / XDB_ADDR       listen address (default ":8080")
//	-data   / XDB_DATA       durable file path (default "data/production.json")
//	-id     / XDB_ID_FORMAT  identifier format: "token" or "uuid"
//	-log    / XDB_LOG_LEVEL  debug|info|warn|error
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/xdb-io/xdb"
	"github.com/xdb-io/xdb/ids"
	"github.com/xdb-io/xdb/server"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	var (
		addr     = flag.String("addr", env("XDB_ADDR", ":8080"), "listen address")
		dataPath = flag.String("data", env("XDB_DATA", "data/production.json"), "durable file path")
		idFormat = flag.String("id", env("XDB_ID_FORMAT", "token"), "identifier format: token or uuid")
		logLevel = flag.String("log", env("XDB_LOG_LEVEL", "info"), "log level: debug, info, warn or error")
	)
	flag.Parse()

	logger := xdb.NewTextLogger(parseLevel(*logLevel))
	logger.Info("starting xdbd")

	var gen ids.Generator
	switch strings.ToLower(*idFormat) {
	case "uuid":
		gen = ids.UUID
	case "token":
		gen = ids.Token
	default:
		logger.Error("unknown identifier format", "format", *idFormat)
		os.Exit(1)
	}

	db, err := xdb.Open(*dataPath,
		xdb.WithLogger(logger),
		xdb.WithIDGenerator(gen),
	)
	if err != nil {
		logger.Error("open store failed", "path", *dataPath, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(db, func(o *server.Options) {
		o.Logger = logger
	})

	if err := srv.ListenAndServe(ctx, *addr); err != nil {
		logger.Error("server error", "error", err)
	}

	logger.Warn("shutdown initiated")
	if err := db.Close(); err != nil {
		logger.Error("final flush failed", "error", err)
		os.Exit(1)
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
