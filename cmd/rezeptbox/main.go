package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"rezeptbox/internal/config"
	"rezeptbox/internal/logsink"
	"rezeptbox/internal/recipes"
	"rezeptbox/internal/telemetry"
)

func main() {
	var (
		serve    bool
		addr     string
		pdfOut   string
		search   string
		category string
		help     bool
	)

	flag.BoolVar(&serve, "serve", false, "Run HTTP server mode")
	flag.StringVar(&addr, "addr", "", "Address to bind in server mode (overrides ADDR)")
	flag.StringVar(&pdfOut, "pdf", "", "Write recipe cards to this file and exit")
	flag.StringVar(&search, "q", "", "Only print recipes whose name contains this text")
	flag.StringVar(&category, "category", "", "Only print recipes of this category, empty for uncategorised")
	flag.BoolVar(&help, "help", false, "Show help message")
	flag.BoolVar(&help, "h", false, "Show help message")
	flag.Parse()

	if help {
		showHelp()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	ctx := context.Background()
	tel, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatalf("failed to set up telemetry: %v", err)
	}
	closeLogs, err := setupLogging(ctx, cfg.LogSink, tel.Logs)
	if err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}
	closeLogs = flushTelemetry(tel, closeLogs)

	switch {
	case serve:
		err = runServer(cfg, tel)
	case pdfOut != "":
		q := recipes.Query{Search: search}
		flag.Visit(func(f *flag.Flag) {
			if f.Name == "category" {
				q.Category = &category
			}
		})
		err = exportCards(ctx, cfg, tel, pdfOut, q)
	default:
		fmt.Println("Error: choose -serve or -pdf <file>")
		showHelp()
		closeLogs()
		os.Exit(1)
	}

	if err != nil {
		slog.Error("rezeptbox failed", "error", err)
		closeLogs()
		os.Exit(1)
	}
	closeLogs()
}

// setupLogging installs a JSON stdout logger as the default, fanned out to the
// append blob sink and the OTLP handler when those are configured.
func setupLogging(ctx context.Context, cfg config.LogSinkConfig, otlp slog.Handler) (func(), error) {
	handlers := []slog.Handler{slog.NewJSONHandler(os.Stdout, nil)}
	if otlp != nil {
		handlers = append(handlers, otlp)
	}
	closer := func() {}
	if cfg.Enabled() {
		sink, err := logsink.New(ctx, cfg, slog.LevelInfo)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, sink)
		closer = func() { _ = sink.Close() }
	}
	slog.SetDefault(slog.New(slog.NewMultiHandler(handlers...)))
	return closer, nil
}

func flushTelemetry(tel *telemetry.Providers, next func()) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(ctx); err != nil {
			slog.Warn("failed to flush telemetry", "error", err)
		}
		next()
	}
}

func showHelp() {
	fmt.Println("Rezeptbox - recipe cards")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  rezeptbox -serve [-addr :8080]")
	fmt.Println("  rezeptbox -pdf cards.pdf [-q text] [-category name]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -serve          Run the HTTP API")
	fmt.Println("  -addr           Address to bind in server mode")
	fmt.Println("  -pdf            Write recipe cards to a file")
	fmt.Println("  -q              Filter by recipe name")
	fmt.Println("  -category       Filter by category, empty for uncategorised")
	fmt.Println("  -help, -h       Show this help message")
	fmt.Println()
	fmt.Println("Storage is configured through DATA_BACKEND, DATA_DIR, CATEGORIES_FILE and RECIPES_FILE.")
}
