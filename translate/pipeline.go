package translate

import (
	"errors"
	"fmt"
	"time"

	"github.com/dhamidi/j2objc/config"
	"github.com/dhamidi/j2objc/java/ast"
)

// A Pass rewrites a unit in place. Errors are reported through the
// context's collector; broken invariants panic with *InternalError.
type Pass interface {
	Name() string
	Run(ctx *Context, u *ast.Unit)
}

// A Plugin is a pass supplied by an embedder. Plugins run after the
// built-in passes and before validation.
type Plugin interface {
	Pass
}

// ErrUnitFailed is wrapped by the error Run returns when a pass reported
// errors for the unit.
var ErrUnitFailed = errors.New("translation failed")

// Pipeline is the ordered pass list. It is built once per batch and may be
// run on many units concurrently, each with its own Context.
type Pipeline struct {
	passes  []Pass
	plugins []Plugin
	observe func(pass string, elapsed time.Duration)
}

func NewPipeline(opts *config.Options) *Pipeline {
	if opts == nil {
		opts = config.Default()
	}
	p := &Pipeline{}
	p.passes = append(p.passes,
		OuterReferenceResolve{},
		GwtConvert{},
		Rewrite{},
		AbstractMethodStub{},
		VariableRename{},
		EnhancedForLower{},
		Autobox{},
		AnonymousClassConvert{},
		InnerClassExtract{},
		InitNormalize{},
		OuterReferenceFix{},
	)
	if opts.ExtractUnsequenced {
		p.passes = append(p.passes, UnsequencedExpressionRewrite{})
	}
	p.passes = append(p.passes,
		NilCheckInsert{},
		VarargsRewrite{},
		TypeSort{},
		DestructorGenerate{},
		CopyAllFieldsWrite{},
		ConstantBranchPrune{},
		OcniExtract{},
	)
	if opts.Functionize {
		p.passes = append(p.passes, Functionize{})
	}
	p.passes = append(p.passes,
		MethodMappingTranslate{},
		StaticVarRewrite{},
		OperatorRewrite{},
		ArrayRewrite{},
		EnumRewrite{},
		ComplexExpressionExtract{},
		CastResolve{},
	)
	return p
}

func (p *Pipeline) RegisterPlugin(pl Plugin) {
	p.plugins = append(p.plugins, pl)
}

// Observe installs a callback receiving the duration of every pass run.
func (p *Pipeline) Observe(fn func(pass string, elapsed time.Duration)) {
	p.observe = fn
}

// Passes returns the complete run order, plugins and validation included.
func (p *Pipeline) Passes() []Pass {
	out := make([]Pass, 0, len(p.passes)+len(p.plugins)+1)
	out = append(out, p.passes...)
	for _, pl := range p.plugins {
		out = append(out, pl)
	}
	return append(out, Validate{})
}

// Run applies every pass to u. It stops at the first pass that reports an
// error and returns an error wrapping ErrUnitFailed; internal errors and
// validation failures are returned as *InternalError or
// *ast.ValidationError.
func (p *Pipeline) Run(ctx *Context, u *ast.Unit) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch e := r.(type) {
		case *InternalError:
			err = e
		case *ast.ValidationError:
			err = e
		default:
			panic(r)
		}
	}()
	for _, pass := range p.Passes() {
		ctx.pass = pass.Name()
		before := ctx.Diags.FileErrors(u.Path)
		start := time.Now()
		pass.Run(ctx, u)
		elapsed := time.Since(start)
		if p.observe != nil {
			p.observe(pass.Name(), elapsed)
		}
		log.Debugf("%s: %s took %s", u.Path, pass.Name(), elapsed)
		if ctx.Diags.FileErrors(u.Path) > before {
			return fmt.Errorf("%s: %s: %w", u.Path, pass.Name(), ErrUnitFailed)
		}
	}
	return nil
}

// Validate checks the structural invariants of the finished tree.
type Validate struct{}

func (Validate) Name() string { return "Validate" }

func (Validate) Run(ctx *Context, u *ast.Unit) {
	if err := ast.Validate(u); err != nil {
		panic(err)
	}
}
