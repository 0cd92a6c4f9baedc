package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/claude/gain/internal/config"
	gainmcp "github.com/claude/gain/internal/mcp"
	"github.com/claude/gain/internal/storage"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	serverURL := flag.String("server", "", "GAIN server URL for remote mode (e.g. https://gain.tail1234.ts.net)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("gain-mcp", Version)
		return
	}

	// Logs go to stderr; stdout is the MCP stdio transport.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds gainmcp.DataSource
	analyticsCfg := config.AnalyticsConfig{}
	config.ApplyAnalyticsDefaults(&analyticsCfg)

	if *serverURL != "" {
		// Remote mode: data comes from the REST API.
		ds = gainmcp.NewHTTPClient(strings.TrimRight(*serverURL, "/"))
		log.Info("remote mode", "server", *serverURL)
	} else {
		// Local mode: connect straight to the database.
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		analyticsCfg = cfg.Analytics

		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = db
		log.Info("local mode", "database", cfg.Database.Name)
	}

	s := gainmcp.New(ds, analyticsCfg, Version, log)

	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
