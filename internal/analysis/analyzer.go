package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/SuadeLabs/enumchecker/internal/observability"
	"github.com/SuadeLabs/enumchecker/internal/parser"
)

// Options control one analysis run.
type Options struct {
	ExtraEnumBases []string
	CheckConflicts bool
	CheckMembers   bool
	Workers        int // 0 means GOMAXPROCS
}

// Result is the outcome of one run. Diagnostics are in deterministic order;
// running twice on unchanged input yields identical results.
type Result struct {
	RunID       string
	Files       int
	EnumCount   int
	Diagnostics []Diagnostic
	Duration    time.Duration
}

// HasFindings reports whether the run produced any diagnostics.
func (r *Result) HasFindings() bool {
	return len(r.Diagnostics) > 0
}

// Analyzer runs the two-phase pipeline: phase 1 parses and extracts facts
// from every file (parallel, one file per task), phase 2 builds the
// definition index and resolves references against it. The barrier between
// the phases is what lets phase 2 treat the index as immutable.
type Analyzer struct {
	parser *parser.Parser
	roots  []string
	opts   Options
}

func NewAnalyzer(p *parser.Parser, roots []string, opts Options) *Analyzer {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Analyzer{parser: p, roots: roots, opts: opts}
}

// Run analyzes the given files and returns all diagnostics together. A file
// that fails to parse contributes a parse-failure diagnostic and is excluded
// from cross-file analysis; it never aborts the run.
func (a *Analyzer) Run(ctx context.Context, paths []string) (*Result, error) {
	runID := uuid.New().String()
	start := time.Now()

	ctx, span := observability.Tracer.Start(ctx, "analyzer.Run", trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.Int("files.total", len(paths)),
	))
	defer span.End()

	files, parseDiags := a.extractAll(ctx, paths)

	phase2Start := time.Now()
	collector := NewCollector(a.opts.ExtraEnumBases)
	index, diags := collector.Collect(files)
	diags = append(diags, parseDiags...)

	if a.opts.CheckConflicts {
		diags = append(diags, DetectConflicts(index)...)
	}

	if a.opts.CheckMembers {
		checker := NewChecker(index)
		for _, file := range files {
			binder := NewBinder(index, a.resolverFor(file.Path))
			diags = append(diags, checker.Check(binder.Bind(file))...)
		}
	}
	observability.AnalysisDuration.WithLabelValues("resolve").Observe(time.Since(phase2Start).Seconds())

	SortDiagnostics(diags)
	for _, d := range diags {
		observability.DiagnosticsTotal.WithLabelValues(string(d.Kind)).Inc()
	}
	observability.FilesAnalyzed.Set(float64(len(paths)))
	observability.EnumDefinitions.Set(float64(len(index.All())))
	observability.RunsTotal.Inc()

	result := &Result{
		RunID:       runID,
		Files:       len(paths),
		EnumCount:   len(index.All()),
		Diagnostics: diags,
		Duration:    time.Since(start),
	}
	span.SetAttributes(attribute.Int("diagnostics.total", len(diags)))
	slog.Debug("analysis run complete",
		"run_id", runID,
		"files", result.Files,
		"enums", result.EnumCount,
		"diagnostics", len(diags),
		"duration", result.Duration,
	)
	return result, nil
}

// extractAll is phase 1: parse every file and build its fact record. Files
// are independent, so extraction fans out over a bounded worker pool.
func (a *Analyzer) extractAll(ctx context.Context, paths []string) ([]*parser.SourceFile, []Diagnostic) {
	ctx, span := observability.Tracer.Start(ctx, "analyzer.extractAll")
	defer span.End()
	_ = ctx

	phaseStart := time.Now()
	defer func() {
		observability.AnalysisDuration.WithLabelValues("extract").Observe(time.Since(phaseStart).Seconds())
	}()

	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	type outcome struct {
		file *parser.SourceFile
		diag *Diagnostic
	}
	outcomes := make([]outcome, len(sorted))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < a.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				file, diag := a.extractOne(sorted[i])
				outcomes[i] = outcome{file: file, diag: diag}
			}
		}()
	}
	for i := range sorted {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	files := make([]*parser.SourceFile, 0, len(sorted))
	var diags []Diagnostic
	for _, out := range outcomes {
		if out.diag != nil {
			diags = append(diags, *out.diag)
			continue
		}
		if out.file != nil {
			files = append(files, out.file)
		}
	}
	return files, diags
}

func (a *Analyzer) extractOne(path string) (*parser.SourceFile, *Diagnostic) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &Diagnostic{
			Kind:      KindParseFailure,
			Message:   fmt.Sprintf("cannot read file: %v", err),
			Locations: []parser.Location{{File: path, Line: 1, Column: 1}},
		}
	}

	file, err := a.parser.ParseFile(path, content)
	if err != nil {
		var syntaxErr *parser.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, &Diagnostic{
				Kind:      KindParseFailure,
				Message:   "syntax error",
				Locations: []parser.Location{syntaxErr.Location},
			}
		}
		slog.Warn("failed to process file", "path", path, "error", err)
		return nil, &Diagnostic{
			Kind:      KindParseFailure,
			Message:   fmt.Sprintf("cannot parse file: %v", err),
			Locations: []parser.Location{{File: path, Line: 1, Column: 1}},
		}
	}

	file.Module = a.resolverFor(path).ModuleName(path)
	return file, nil
}

// resolverFor picks the check root containing path so module names stay
// stable regardless of how many roots one run covers.
func (a *Analyzer) resolverFor(path string) *parser.ModuleResolver {
	for _, root := range a.roots {
		if root == "" {
			continue
		}
		if strings.HasPrefix(path, strings.TrimSuffix(root, "/")+"/") || path == root {
			return parser.NewModuleResolver(root)
		}
	}
	if len(a.roots) > 0 {
		return parser.NewModuleResolver(a.roots[0])
	}
	return parser.NewModuleResolver(".")
}
