// Package driver runs a translation batch: it collects and loads the
// sources, optionally removes dead code and follows the build closure,
// declares every type into one symbol table and then translates the units
// in parallel, writing an Objective-C header and implementation for each.
package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/j2objc/config"
	"github.com/dhamidi/j2objc/deadcode"
	"github.com/dhamidi/j2objc/diag"
	"github.com/dhamidi/j2objc/format"
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/convert"
	"github.com/dhamidi/j2objc/java/types"
	"github.com/dhamidi/j2objc/naming"
	"github.com/dhamidi/j2objc/project"
	"github.com/dhamidi/j2objc/translate"
)

var log = commonlog.GetLogger("j2objc.driver")

// Driver holds what stays fixed across the batches it runs.
type Driver struct {
	opts       *config.Options
	mappings   *config.Mappings
	filters    *config.Filters
	dead       *deadcode.DeadCodeMap
	sourcePath *project.SourcePath
	metrics    *Metrics
	plugins    []translate.Plugin
}

// New loads the mapping files and dead code report the options name.
func New(opts *config.Options) (*Driver, error) {
	if opts == nil {
		opts = config.Default()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	mappings, err := config.LoadMappings(opts.MappingFiles...)
	if err != nil {
		return nil, fmt.Errorf("load mappings: %w", err)
	}
	d := &Driver{
		opts:       opts,
		mappings:   mappings,
		filters:    config.NewFilters(opts),
		sourcePath: project.NewSourcePath(opts.SourcePath),
		metrics:    NewMetrics(),
	}
	if opts.DeadCodeReport != "" {
		dead, err := deadcode.ReadReport(opts.DeadCodeReport)
		if err != nil {
			return nil, fmt.Errorf("load dead code report: %w", err)
		}
		d.dead = dead
	}
	return d, nil
}

func (d *Driver) Options() *config.Options { return d.opts }

func (d *Driver) Metrics() *Metrics { return d.metrics }

func (d *Driver) Filters() *config.Filters { return d.filters }

// RegisterPlugin adds a pass to the pipeline of every later batch.
func (d *Driver) RegisterPlugin(p translate.Plugin) {
	d.plugins = append(d.plugins, p)
}

// Summary is the outcome of one batch.
type Summary struct {
	RunID       string
	Files       int
	Translated  int
	Failed      []string
	Errors      int
	Warnings    int
	Outputs     []string
	Diagnostics []diag.Diagnostic
}

// OK reports whether the batch finished without errors.
func (s *Summary) OK() bool { return s.Errors == 0 && len(s.Failed) == 0 }

func (s *Summary) String() string {
	return fmt.Sprintf("Translated %d files: %d errors, %d warnings", s.Files, s.Errors, s.Warnings)
}

// batch is the state of one Run. Every Run gets a fresh symbol table.
type batch struct {
	*Driver
	id       string
	diags    *diag.Collector
	table    *types.Table
	namer    *naming.Namer
	pipeline *translate.Pipeline

	mu      sync.Mutex
	seen    map[string]bool // source root relative paths
	failed  []string
	unread  int
	outputs []string
}

// Run translates the sources named by paths, files or directories. Unit
// failures are reported in the summary; the error is reserved for
// failures of the batch itself.
func (d *Driver) Run(ctx context.Context, paths []string) (*Summary, error) {
	d.metrics.runs.Inc()
	files, err := project.Collect(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("no source files")
	}
	b, err := d.newBatch()
	if err != nil {
		return nil, err
	}
	sources, err := b.load(ctx, files, true)
	if err != nil {
		return nil, err
	}
	if d.opts.BuildClosure {
		extra, err := b.closure(ctx, sources)
		if err != nil {
			return nil, err
		}
		sources = append(sources, extra...)
	}

	convert.Declare(b.table, sources, b.diags)
	translated, err := b.translateAll(ctx, sources)
	if err != nil {
		return nil, err
	}

	s := &Summary{
		RunID:       b.id,
		Files:       len(sources) + b.unread,
		Translated:  translated,
		Failed:      b.failed,
		Errors:      b.diags.ErrorCount(),
		Warnings:    b.diags.WarningCount(),
		Outputs:     b.outputs,
		Diagnostics: b.diags.Diagnostics(),
	}
	d.metrics.diagnostics.WithLabelValues(diag.Error.String()).Add(float64(s.Errors))
	d.metrics.diagnostics.WithLabelValues(diag.Warning.String()).Add(float64(s.Warnings))
	if d.opts.MetricsFile != "" {
		if err := d.metrics.WriteTextfile(d.opts.MetricsFile); err != nil {
			log.Warningf("write metrics: %s", err)
		}
	}
	log.Infof("run %s: %s", s.RunID, s)
	return s, nil
}

func (d *Driver) newBatch() (*batch, error) {
	table, err := convert.NewTable()
	if err != nil {
		return nil, fmt.Errorf("load core types: %w", err)
	}
	b := &batch{
		Driver: d,
		id:     uuid.NewString(),
		diags:  diag.NewCollector(d.opts.TreatWarningsAsErrors),
		table:  table,
		namer:  naming.New(table, d.opts, d.filters, d.mappings),
		seen:   make(map[string]bool),
	}
	b.pipeline = translate.NewPipeline(d.opts)
	for _, p := range d.plugins {
		b.pipeline.RegisterPlugin(p)
	}
	b.pipeline.Observe(d.metrics.observePass)
	return b, nil
}

// Inspection is a unit translated without writing output.
type Inspection struct {
	Unit        *ast.Unit
	Namer       *naming.Namer
	Diagnostics []diag.Diagnostic
}

// Inspect runs the pipeline over the single file at path. The unit is nil
// when translation failed; the diagnostics say why.
func (d *Driver) Inspect(path string) (*Inspection, error) {
	b, err := d.newBatch()
	if err != nil {
		return nil, err
	}
	f, err := b.loadFile(path)
	if err != nil {
		return nil, err
	}
	convert.Declare(b.table, []*convert.File{f}, b.diags)
	u, _ := b.unit(f)
	return &Inspection{Unit: u, Namer: b.namer, Diagnostics: b.diags.Diagnostics()}, nil
}

func (b *batch) fail(path string) {
	b.mu.Lock()
	b.failed = append(b.failed, path)
	b.mu.Unlock()
}

// claim records rel as part of the batch and reports whether it was new.
func (b *batch) claim(rel string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.seen[rel] {
		return false
	}
	b.seen[rel] = true
	return true
}

// load reads, dead-code-eliminates and parses paths in parallel. Files
// that cannot be loaded are reported and left out. With claim set, every
// loaded file is entered into the seen set; a second file with the same
// package and name is dropped.
func (b *batch) load(ctx context.Context, paths []string, claim bool) ([]*convert.File, error) {
	out := make([]*convert.File, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := b.loadFile(path)
			if err != nil {
				var malformed *deadcode.MalformedError
				if errors.As(err, &malformed) {
					b.metrics.unit(ResultInternal)
				}
				b.diags.Errorf(path, 0, "%s", err)
				b.fail(path)
				b.mu.Lock()
				b.unread++
				b.mu.Unlock()
				return nil
			}
			out[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var files []*convert.File
	for _, f := range out {
		if f == nil {
			continue
		}
		if claim && !b.claim(project.RelPath(f.Package, f.Path)) {
			b.diags.Warnf(f.Path, 0, "duplicate source for %s, skipped", project.RelPath(f.Package, f.Path))
			continue
		}
		files = append(files, f)
	}
	return files, nil
}

func (b *batch) loadFile(path string) (*convert.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if b.dead != nil {
		res, err := deadcode.Eliminate(path, data, b.dead)
		if err != nil {
			return nil, err
		}
		if res.Changed() {
			b.metrics.deadCode.Add(float64(len(res.Removed)))
			data = res.Source
		}
	}
	return convert.Parse(path, data)
}

func (b *batch) translateAll(ctx context.Context, files []*convert.File) (int, error) {
	var mu sync.Mutex
	translated := 0
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Jobs)
	for _, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result := b.translateFile(f)
			b.metrics.unit(result)
			if result != ResultTranslated {
				b.fail(f.Path)
				return nil
			}
			mu.Lock()
			translated++
			mu.Unlock()
			return nil
		})
	}
	return translated, g.Wait()
}

// translateFile runs one unit from conversion to written output. A panic
// fails the unit, never the batch.
func (b *batch) translateFile(f *convert.File) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = b.panicked(f.Path, r)
		}
	}()
	u, result := b.unit(f)
	if u == nil {
		return result
	}
	enc := format.NewObjCEncoder(b.namer, b.opts)
	header, err := enc.MarshalHeader(u)
	if err != nil {
		b.internal(f.Path, err)
		return ResultInternal
	}
	impl, err := enc.MarshalImplementation(u)
	if err != nil {
		b.internal(f.Path, err)
		return ResultInternal
	}
	if err := b.write(format.HeaderPath(u), header); err != nil {
		b.diags.Errorf(f.Path, 0, "%s", err)
		return ResultFailed
	}
	if err := b.write(format.ImplementationPath(u), impl); err != nil {
		b.diags.Errorf(f.Path, 0, "%s", err)
		return ResultFailed
	}
	return ResultTranslated
}

// unit converts f and runs the pipeline over it. It returns a nil unit
// with the failure class when any step fails.
func (b *batch) unit(f *convert.File) (u *ast.Unit, result string) {
	defer func() {
		if r := recover(); r != nil {
			u, result = nil, b.panicked(f.Path, r)
		}
	}()
	if b.diags.FileErrors(f.Path) > 0 {
		return nil, ResultFailed
	}
	u, err := convert.Convert(b.table, f, b.diags)
	if err != nil || b.diags.FileErrors(f.Path) > 0 {
		return nil, ResultFailed
	}
	ctx := translate.NewContext(b.opts, b.table, b.diags, b.namer)
	if err := b.pipeline.Run(ctx, u); err != nil {
		var ie *translate.InternalError
		var ve *ast.ValidationError
		if errors.As(err, &ie) || errors.As(err, &ve) {
			b.internal(f.Path, err)
			return nil, ResultInternal
		}
		return nil, ResultFailed
	}
	return u, ResultTranslated
}

func (b *batch) panicked(path string, r any) string {
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("%v", r)
	}
	log.Debugf("%s: panic: %s\n%s", path, err, debug.Stack())
	b.internal(path, err)
	return ResultInternal
}

func (b *batch) internal(path string, err error) {
	msg := strings.TrimPrefix(err.Error(), path+": ")
	b.diags.Errorf(path, 0, "internal error: %s", msg)
}

func (b *batch) write(rel string, data []byte) error {
	path := filepath.Join(b.opts.OutputDir, filepath.FromSlash(rel))
	if err := project.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	b.metrics.filesWritten.Inc()
	b.mu.Lock()
	b.outputs = append(b.outputs, path)
	b.mu.Unlock()
	log.Debugf("wrote %s", path)
	return nil
}
