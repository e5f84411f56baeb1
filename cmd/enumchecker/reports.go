package main

import (
	"log/slog"
	"path/filepath"

	"github.com/SuadeLabs/enumchecker/internal/analysis"
	"github.com/SuadeLabs/enumchecker/internal/config"
	"github.com/SuadeLabs/enumchecker/internal/report"
	"github.com/SuadeLabs/enumchecker/internal/util"
)

// writeReports renders every configured output file. Unconfigured formats
// are skipped.
func writeReports(cfg *config.Config, result *analysis.Result) error {
	if cfg.Output.TSV != "" {
		content, err := report.GenerateTSV(result.Diagnostics)
		if err != nil {
			return err
		}
		if err := util.WriteFileWithDirs(cfg.Output.TSV, []byte(content), 0644); err != nil {
			return err
		}
		slog.Debug("wrote TSV report", "path", cfg.Output.TSV)
	}

	if cfg.Output.Markdown != "" {
		gen := report.NewMarkdownGenerator()
		content, err := gen.Generate(result, report.MarkdownOptions{
			ProjectName: projectName(cfg),
			Version:     VERSION,
		})
		if err != nil {
			return err
		}
		if err := util.WriteFileWithDirs(cfg.Output.Markdown, []byte(content), 0644); err != nil {
			return err
		}
		slog.Debug("wrote markdown report", "path", cfg.Output.Markdown)
	}

	if cfg.Output.SARIF != "" {
		root := "."
		if len(cfg.CheckPaths) > 0 {
			root = cfg.CheckPaths[0]
		}
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
		content, err := report.GenerateSARIF(root, VERSION, result.Diagnostics)
		if err != nil {
			return err
		}
		if err := util.WriteFileWithDirs(cfg.Output.SARIF, content, 0644); err != nil {
			return err
		}
		slog.Debug("wrote SARIF report", "path", cfg.Output.SARIF)
	}

	return nil
}

func projectName(cfg *config.Config) string {
	if len(cfg.CheckPaths) == 0 {
		return "project"
	}
	abs, err := filepath.Abs(cfg.CheckPaths[0])
	if err != nil {
		return filepath.Base(cfg.CheckPaths[0])
	}
	return filepath.Base(abs)
}
