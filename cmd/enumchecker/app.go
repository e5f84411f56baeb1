package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SuadeLabs/enumchecker/internal/analysis"
	"github.com/SuadeLabs/enumchecker/internal/config"
	"github.com/SuadeLabs/enumchecker/internal/history"
	"github.com/SuadeLabs/enumchecker/internal/parser"
	"github.com/SuadeLabs/enumchecker/internal/scanner"
	"github.com/SuadeLabs/enumchecker/internal/util"
	"github.com/SuadeLabs/enumchecker/internal/watcher"
)

type App struct {
	Config   *config.Config
	Parser   *parser.Parser
	Scanner  *scanner.Scanner
	Analyzer *analysis.Analyzer
	History  *history.Store

	watcher    *watcher.Watcher
	teaProgram *tea.Program
}

func NewApp(cfg *config.Config) (*App, error) {
	p := parser.NewParser(parser.NewGrammarLoader())

	s, err := scanner.New(p, cfg.Exclude.Dirs, cfg.Exclude.Files, cfg.IncludeTests)
	if err != nil {
		return nil, err
	}

	roots := make([]string, 0, len(cfg.CheckPaths))
	for _, path := range cfg.CheckPaths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve check path %q: %w", path, err)
		}
		roots = append(roots, abs)
	}

	app := &App{
		Config:  cfg,
		Parser:  p,
		Scanner: s,
		Analyzer: analysis.NewAnalyzer(p, roots, analysis.Options{
			ExtraEnumBases: cfg.ExtraBases,
			CheckMembers:   *cfg.Checks.Members,
			CheckConflicts: *cfg.Checks.Conflicts,
		}),
	}

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		app.History = store
	}

	return app, nil
}

// RunOnce scans the configured roots, analyzes every discovered file, writes
// the configured report outputs and records the run in history.
func (a *App) RunOnce(ctx context.Context) (*analysis.Result, error) {
	roots := a.absCheckPaths()
	files, err := a.Scanner.Scan(roots)
	if err != nil {
		return nil, err
	}
	slog.Info("checking enum values", "files", len(files), "roots", roots)

	result, err := a.Analyzer.Run(ctx, files)
	if err != nil {
		return nil, err
	}

	if err := a.GenerateOutputs(result); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}
	if a.History != nil {
		if err := a.History.SaveSnapshot(history.SnapshotFromResult(result)); err != nil {
			slog.Warn("failed to record run history", "error", err)
		}
	}

	return result, nil
}

// StartWatcher re-runs the analysis whenever watched files change, throttled
// by the configured rescan limiter. Each batch triggers a full re-analysis:
// cross-file conflict detection cannot be updated incrementally without
// keeping mutable global state.
func (a *App) StartWatcher(ctx context.Context, onResult func(*analysis.Result)) error {
	limiter := util.NewLimiter(a.Config.Watch.RescanRate, a.Config.Watch.RescanBurst)

	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		func(changed []string) {
			if err := limiter.Wait(ctx, 1); err != nil {
				return
			}
			slog.Debug("change detected, re-analyzing", "changed", len(changed))
			result, err := a.RunOnce(ctx)
			if err != nil {
				slog.Error("re-analysis failed", "error", err)
				return
			}
			onResult(result)
		},
	)
	if err != nil {
		return err
	}

	a.watcher = w
	return w.Watch(a.absCheckPaths())
}

func (a *App) GenerateOutputs(result *analysis.Result) error {
	return writeReports(a.Config, result)
}

func (a *App) Close() error {
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	if a.History != nil {
		return a.History.Close()
	}
	return nil
}

func (a *App) absCheckPaths() []string {
	roots := make([]string, 0, len(a.Config.CheckPaths))
	for _, path := range a.Config.CheckPaths {
		abs, err := filepath.Abs(path)
		if err != nil {
			slog.Warn("skipping unresolvable check path", "path", path, "error", err)
			continue
		}
		if _, err := os.Stat(abs); err != nil {
			slog.Warn("skipping missing check path", "path", abs, "error", err)
			continue
		}
		roots = append(roots, abs)
	}
	return roots
}
