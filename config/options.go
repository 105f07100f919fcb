// Package config holds the translator's immutable options and the
// import filter tables consulted while translating.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
	"github.com/tliron/commonlog"
	"gopkg.in/yaml.v3"
)

var log = commonlog.GetLogger("j2objc.config")

// Memory management modes.
const (
	MemoryRC  = "rc"
	MemoryARC = "arc"
)

// MaxConfigSize bounds the size of a YAML options or mapping file.
const MaxConfigSize = 1024 * 1024

var validate = validator.New()

// Options is read-only once Load returns.
type Options struct {
	OutputDir  string   `yaml:"output_dir"`
	SourcePath []string `yaml:"sourcepath"`

	Memory      string `yaml:"memory" validate:"oneof=rc arc"`
	SourceLevel string `yaml:"source_level" validate:"required"`
	Jobs        int    `yaml:"jobs" validate:"min=1"`

	ExtractUnsequenced    bool `yaml:"extract_unsequenced"`
	Functionize           bool `yaml:"functionize"`
	StripGwtIncompatible  bool `yaml:"strip_gwt_incompatible"`
	TreatWarningsAsErrors bool `yaml:"treat_warnings_as_errors"`
	BuildClosure          bool `yaml:"build_closure"`

	// ComplexExpressionLimit is the receiver chain depth above which an
	// invocation is split into temporaries.
	ComplexExpressionLimit int `yaml:"complex_expression_limit" validate:"min=1"`

	DeadCodeReport string   `yaml:"dead_code_report"`
	MappingFiles   []string `yaml:"mappings" validate:"dive,required"`
	MetricsFile    string   `yaml:"metrics_file"`

	// Prefixes maps Java packages to Objective-C class name prefixes. A
	// key ending in ".*" covers the package and its subpackages.
	Prefixes map[string]string `yaml:"prefixes" validate:"dive,keys,required,endkeys,required"`

	PureObjCPackages []string `yaml:"pure_objc_packages"`
	PureObjCClasses  []string `yaml:"pure_objc_classes"`
	NoImportPackages []string `yaml:"no_import_packages"`
	NoImportClasses  []string `yaml:"no_import_classes"`

	source *semver.Version
}

// Default returns the options used when no configuration file is given.
func Default() *Options {
	return &Options{
		OutputDir:              ".",
		Memory:                 MemoryRC,
		SourceLevel:            "1.8",
		Jobs:                   1,
		StripGwtIncompatible:   true,
		ComplexExpressionLimit: 8,
	}
}

// Load reads a YAML options file over the defaults. An empty path yields
// the defaults. The result is validated.
func Load(path string) (*Options, error) {
	opts := Default()
	if path != "" {
		data, err := readLimited(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, opts); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		log.Debugf("loaded options from %s", path)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func readLimited(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > MaxConfigSize {
		return nil, fmt.Errorf("%s: file too large (%d bytes, max %d)", path, info.Size(), MaxConfigSize)
	}
	return os.ReadFile(path)
}

// Validate checks the options and parses the source level. Flag overlays
// must call it again before the options are used.
func (o *Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s: failed %q (%v)", fe.Namespace(), fe.Tag(), fe.Value())
			}
			return fmt.Errorf("invalid options: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid options: %w", err)
	}
	v, err := ParseSourceLevel(o.SourceLevel)
	if err != nil {
		return err
	}
	o.source = v
	return nil
}

// ParseSourceLevel accepts "1.8", "8", "11" or "17.0" and returns the Java
// feature release as a major version.
func ParseSourceLevel(level string) (*semver.Version, error) {
	v, err := semver.NewVersion(level)
	if err != nil {
		return nil, fmt.Errorf("invalid source level %q: %w", level, err)
	}
	if v.Major() == 1 {
		v, err = semver.NewVersion(fmt.Sprintf("%d", v.Minor()))
		if err != nil {
			return nil, err
		}
	}
	if v.Major() < 5 {
		return nil, fmt.Errorf("unsupported source level %q", level)
	}
	return v, nil
}

// SourceAtLeast reports whether the configured source level satisfies
// ">= release".
func (o *Options) SourceAtLeast(release string) bool {
	if o.source == nil {
		if err := o.Validate(); err != nil {
			return false
		}
	}
	c, err := semver.NewConstraint(">= " + release)
	if err != nil {
		return false
	}
	return c.Check(o.source)
}

func (o *Options) ARC() bool { return o.Memory == MemoryARC }

// Prefix returns the class name prefix configured for pkg, or "" when the
// default camel-cased package name applies.
func (o *Options) Prefix(pkg string) string {
	if p, ok := o.Prefixes[pkg]; ok {
		return p
	}
	best, prefix := -1, ""
	for key, p := range o.Prefixes {
		base, ok := strings.CutSuffix(key, ".*")
		if !ok {
			continue
		}
		if (pkg == base || strings.HasPrefix(pkg, base+".")) && len(base) > best {
			best, prefix = len(base), p
		}
	}
	return prefix
}

// ParsePrefix parses a "package=Prefix" command line value.
func ParsePrefix(s string) (pkg, prefix string, err error) {
	pkg, prefix, ok := strings.Cut(s, "=")
	if !ok || pkg == "" || prefix == "" {
		return "", "", fmt.Errorf("invalid prefix %q: want package=Prefix", s)
	}
	return strings.TrimSpace(pkg), strings.TrimSpace(prefix), nil
}
