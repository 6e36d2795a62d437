// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command navigator starts the ComponentNav API server.
//
// ComponentNav maps namespaced component tags in template documents to
// their logic and template files, with:
//   - Cursor-position resolution over configurable path rules
//   - Component name completion from a scanned inventory
//   - Tag attribute formatting
//   - Persistent inventory snapshots (BadgerDB)
//
// Usage:
//
//	go run ./cmd/navigator -root /path/to/project
//	go run ./cmd/navigator -root /path/a -root /path/b -port 9090
//
// Example requests:
//
//	# Health check
//	curl http://localhost:8080/v1/nav/health
//
//	# Resolve the reference under line 3, column 12
//	curl -X POST http://localhost:8080/v1/nav/resolve \
//	  -H "Content-Type: application/json" \
//	  -d '{"text": "...", "line": 3, "column": 12}'
//
//	# Complete a partial component name
//	curl 'http://localhost:8080/v1/nav/complete?q=Card'
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/AleutianAI/ComponentNav/services/navigator"
	"github.com/AleutianAI/ComponentNav/services/navigator/cache"
)

// rootsFlag collects repeated -root flags.
type rootsFlag []string

func (r *rootsFlag) String() string {
	return fmt.Sprintf("%v", []string(*r))
}

func (r *rootsFlag) Set(value string) error {
	abs, err := filepath.Abs(value)
	if err != nil {
		return err
	}
	*r = append(*r, abs)
	return nil
}

func main() {
	var roots rootsFlag
	flag.Var(&roots, "root", "Workspace root directory (repeatable)")
	port := flag.Int("port", 8080, "Port to listen on")
	debug := flag.Bool("debug", false, "Enable debug mode")
	watch := flag.Bool("watch", true, "Watch configured base paths for changes")
	flag.Parse()

	if len(roots) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			slog.Error("Failed to determine working directory", slog.String("error", err.Error()))
			os.Exit(1)
		}
		roots = rootsFlag{cwd}
	}

	if *debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// W3C TraceContext propagation, so trace context flows from incoming
	// HTTP headers through all handlers.
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	// Open the snapshot BadgerDB. Graceful degradation: if unavailable,
	// inventories are rebuilt from scratch on every cold start.
	var snapshots *cache.SnapshotStore
	var snapshotDB *badger.DB
	snapshotDir := os.Getenv("NAV_SNAPSHOT_DIR")
	if snapshotDir == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			snapshotDir = filepath.Join(home, ".componentnav", "snapshots")
		}
	}
	if snapshotDir != "" {
		db, err := badger.Open(badger.DefaultOptions(snapshotDir).WithLogger(nil))
		if err != nil {
			slog.Warn("Snapshot BadgerDB unavailable, inventory persistence disabled",
				slog.String("path", snapshotDir),
				slog.String("error", err.Error()),
			)
		} else {
			snapshotDB = db
			snapshots, err = cache.NewSnapshotStore(db, slog.Default())
			if err != nil {
				slog.Warn("Snapshot store disabled", slog.String("error", err.Error()))
			} else {
				slog.Info("Snapshot BadgerDB opened", slog.String("path", snapshotDir))
			}
		}
	}

	svc, err := navigator.NewService(navigator.ServiceConfig{
		Roots:     roots,
		Logger:    slog.Default(),
		Snapshots: snapshots,
	})
	if err != nil {
		slog.Error("Failed to create navigator service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Wire filesystem watching into cache invalidation.
	var watcher *cache.Watcher
	if *watch {
		watcher, err = cache.NewWatcher(svc.Cache(), slog.Default())
		if err != nil {
			slog.Warn("Filesystem watching disabled", slog.String("error", err.Error()))
		} else {
			for _, root := range roots {
				if err := watcher.Add(root); err != nil {
					slog.Warn("Failed to watch root",
						slog.String("root", root),
						slog.String("error", err.Error()),
					)
				}
			}
		}
	}

	handlers := navigator.NewHandlers(svc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("componentnav"))
	if *debug {
		router.Use(gin.Logger())
	}

	v1 := router.Group("/v1")
	navigator.RegisterRoutes(v1, handlers)

	printBanner(*port, roots, snapshots != nil)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		slog.Info("Shutting down ComponentNav server")
		if watcher != nil {
			if err := watcher.Close(); err != nil {
				slog.Warn("Failed to close watcher", slog.String("error", err.Error()))
			}
		}
		if snapshotDB != nil {
			if err := snapshotDB.Close(); err != nil {
				slog.Warn("Failed to close snapshot BadgerDB", slog.String("error", err.Error()))
			}
		}
		os.Exit(0)
	}()

	addr := fmt.Sprintf(":%d", *port)
	slog.Info("Starting ComponentNav server", slog.String("address", addr))
	if err := router.Run(addr); err != nil {
		slog.Error("Failed to start server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// printBanner prints the startup banner.
func printBanner(port int, roots []string, persistent bool) {
	fmt.Printf("\nComponentNav server\n")
	fmt.Printf("  Listening:  http://localhost:%d/v1/nav\n", port)
	for _, root := range roots {
		fmt.Printf("  Root:       %s\n", root)
	}
	fmt.Printf("  Snapshots:  %v\n\n", persistent)
}
