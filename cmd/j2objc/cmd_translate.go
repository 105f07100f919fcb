package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/dhamidi/j2objc/config"
	"github.com/dhamidi/j2objc/driver"
	"github.com/dhamidi/j2objc/project"
)

// errFailed makes the command exit non-zero once the diagnostics have
// been printed.
var errFailed = errors.New("translation failed")

// optionFlags are the command line overrides of a config file.
type optionFlags struct {
	configFile     string
	outputDir      string
	sourcePath     []string
	memory         string
	sourceLevel    string
	jobs           int
	deadCodeReport string
	mappings       []string
	prefixes       []string
	metricsFile    string
	buildClosure   bool
	werror         bool
	functionize    bool
	unsequenced    bool
	keepGwt        bool
}

func (f *optionFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.configFile, "config", "", "YAML options file")
	fl.StringVarP(&f.outputDir, "output", "d", ".", "directory for generated files")
	fl.StringSliceVar(&f.sourcePath, "sourcepath", nil, "source roots searched by the build closure")
	fl.StringVar(&f.memory, "memory", config.MemoryRC, "memory management of the generated code (rc, arc)")
	fl.StringVar(&f.sourceLevel, "source", "1.8", "Java source level")
	fl.IntVarP(&f.jobs, "jobs", "j", 1, "units translated in parallel")
	fl.StringVar(&f.deadCodeReport, "dead-code-report", "", "ProGuard usage report of unused code to remove")
	fl.StringSliceVar(&f.mappings, "mapping", nil, "method and class mapping file")
	fl.StringArrayVar(&f.prefixes, "prefix", nil, "class name prefix for a package, as package=Prefix")
	fl.StringVar(&f.metricsFile, "metrics-file", "", "write metrics in the Prometheus text format to this file")
	fl.BoolVar(&f.buildClosure, "build-closure", false, "also translate sources the inputs depend on")
	fl.BoolVar(&f.werror, "Werror", false, "treat warnings as errors")
	fl.BoolVar(&f.functionize, "functionize", false, "emit C functions for private methods")
	fl.BoolVar(&f.unsequenced, "extract-unsequenced", false, "split expressions with unsequenced side effects")
	fl.BoolVar(&f.keepGwt, "keep-gwt-incompatible", false, "keep members annotated @GwtIncompatible")
}

// options loads the config file and applies the flags the user set.
func (f *optionFlags) options(cmd *cobra.Command) (*config.Options, error) {
	opts, err := config.Load(f.configFile)
	if err != nil {
		return nil, err
	}
	fl := cmd.Flags()
	if fl.Changed("output") || f.configFile == "" {
		opts.OutputDir = f.outputDir
	}
	if fl.Changed("sourcepath") {
		opts.SourcePath = f.sourcePath
	}
	if fl.Changed("memory") {
		opts.Memory = f.memory
	}
	if fl.Changed("source") {
		opts.SourceLevel = f.sourceLevel
	}
	if fl.Changed("jobs") {
		opts.Jobs = f.jobs
	}
	if fl.Changed("dead-code-report") {
		opts.DeadCodeReport = f.deadCodeReport
	}
	opts.MappingFiles = append(opts.MappingFiles, f.mappings...)
	for _, p := range f.prefixes {
		pkg, prefix, err := config.ParsePrefix(p)
		if err != nil {
			return nil, err
		}
		if opts.Prefixes == nil {
			opts.Prefixes = make(map[string]string)
		}
		opts.Prefixes[pkg] = prefix
	}
	if fl.Changed("metrics-file") {
		opts.MetricsFile = f.metricsFile
	}
	if fl.Changed("build-closure") {
		opts.BuildClosure = f.buildClosure
	}
	if fl.Changed("Werror") {
		opts.TreatWarningsAsErrors = f.werror
	}
	if fl.Changed("functionize") {
		opts.Functionize = f.functionize
	}
	if fl.Changed("extract-unsequenced") {
		opts.ExtractUnsequenced = f.unsequenced
	}
	if fl.Changed("keep-gwt-incompatible") {
		opts.StripGwtIncompatible = !f.keepGwt
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func newTranslateCmd() *cobra.Command {
	var flags optionFlags
	var watch bool
	var projectDir string

	cmd := &cobra.Command{
		Use:   "translate [file or directory...]",
		Short: "Translate Java sources into Objective-C headers and implementations",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			if projectDir != "" {
				proj, err := project.LoadFrom(projectDir)
				if err != nil {
					return err
				}
				args = append(args, proj.SourceRoots()...)
				opts.SourcePath = append(opts.SourcePath, proj.SourceRoots()...)
			}
			if len(args) == 0 {
				return fmt.Errorf("no sources given")
			}

			d, err := driver.New(opts)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			if watch {
				return d.Watch(ctx, args, func(s *driver.Summary, err error) {
					if err != nil {
						fmt.Fprintln(cmd.ErrOrStderr(), err)
						return
					}
					printSummary(cmd, s)
				})
			}

			s, err := d.Run(ctx, args)
			if err != nil {
				return err
			}
			printSummary(cmd, s)
			if !s.OK() {
				return errFailed
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&watch, "watch", false, "translate again whenever a source changes")
	cmd.Flags().StringVar(&projectDir, "project", "", "translate the modules of a src/<project>/<module> tree")

	return cmd
}

func printSummary(cmd *cobra.Command, s *driver.Summary) {
	w := cmd.ErrOrStderr()
	for _, d := range s.Diagnostics {
		fmt.Fprintln(w, d)
	}
	fmt.Fprintln(w, s)
}
