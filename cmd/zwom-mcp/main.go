package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/sco1/zwom/internal/mcp"
	"github.com/sco1/zwom/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "zwomd base URL for remote library access (e.g. https://zwom.tail1234.ts.net)")
	dsn := flag.String("dsn", "", "Postgres DSN for direct library access")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("zwom-mcp", Version)
		return
	}

	// Logs go to stderr: stdout carries the stdio transport.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Library backend: remote REST, direct Postgres, or none (conversion
	// tools only).
	var ds mcp.DataSource
	switch {
	case *serverURL != "":
		ds = mcp.NewHTTPClient(*serverURL)
		log.Info("using remote library", "server", *serverURL)
	case *dsn != "":
		db, err := storage.New(context.Background(), *dsn)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = db
		log.Info("using local library")
	default:
		log.Info("no library configured, conversion tools only")
	}

	s := mcp.New(ds, Version, log)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
