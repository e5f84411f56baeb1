package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/SuadeLabs/enumchecker/internal/analysis"
	"github.com/SuadeLabs/enumchecker/internal/config"
	"github.com/SuadeLabs/enumchecker/internal/observability"
	"github.com/SuadeLabs/enumchecker/internal/report"
)

var (
	configPath = flag.String("config", "./enumchecker.toml", "Path to config file")
	watchMode  = flag.Bool("watch", false, "Re-run checks when watched files change")
	ui         = flag.Bool("ui", false, "Enable terminal UI mode (implies -watch)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	quiet      = flag.Bool("quiet", false, "Only log warnings and errors")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("enumchecker v%s\n", VERSION)
		os.Exit(0)
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	if *quiet {
		logLevel = slog.LevelWarn
	}

	output := os.Stderr
	if *ui {
		// In UI mode, avoid stderr logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
			if err == nil {
				output = f
			} else {
				fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		if os.IsNotExist(err) && *configPath == "./enumchecker.toml" {
			cfg = config.Default()
		} else {
			slog.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(2)
		}
	}

	if flag.NArg() > 0 {
		cfg.CheckPaths = flag.Args()
	}

	ctx := context.Background()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Observability.OTLPEndpoint, VERSION)
	if err != nil {
		slog.Warn("tracing setup failed", "error", err)
	} else {
		defer shutdownTracing(ctx)
	}

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(2)
	}
	defer app.Close()

	result, err := app.RunOnce(ctx)
	if err != nil {
		slog.Error("analysis failed", "error", err)
		os.Exit(2)
	}

	if !*ui {
		if err := report.WriteText(os.Stdout, result.Diagnostics); err != nil {
			slog.Error("failed to write diagnostics", "error", err)
			os.Exit(2)
		}
		summarize(result)
	}

	if !*watchMode && !*ui {
		if result.HasFindings() {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Watch mode
	if cfg.Observability.MetricsAddr != "" {
		srv := observability.NewServer(cfg.Observability.MetricsAddr)
		srv.Start()
		defer srv.Stop(ctx)
	}

	onResult := func(r *analysis.Result) {
		if *ui {
			app.PushResult(r)
			return
		}
		if err := report.WriteText(os.Stdout, r.Diagnostics); err != nil {
			slog.Error("failed to write diagnostics", "error", err)
		}
		summarize(r)
	}

	if err := app.StartWatcher(ctx, onResult); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(2)
	}

	if *ui {
		if err := app.RunUI(result); err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(2)
		}
		os.Exit(0)
	}

	// Block forever
	select {}
}

func summarize(result *analysis.Result) {
	slog.Info("analysis complete",
		"run_id", result.RunID,
		"files", result.Files,
		"enums", result.EnumCount,
		"diagnostics", len(result.Diagnostics),
		"duration", result.Duration)
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "enumchecker", "enumchecker.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "enumchecker", "enumchecker.log")
	}

	return "enumchecker.log"
}
