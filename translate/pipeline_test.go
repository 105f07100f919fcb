package translate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/j2objc/config"
	"github.com/dhamidi/j2objc/diag"
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/convert"
)

func convertWith(t *testing.T, opts *config.Options, src string) (*ast.Unit, *Context) {
	t.Helper()
	table, err := convert.NewTable()
	require.NoError(t, err)
	f, err := convert.Parse("Test.java", []byte(src))
	require.NoError(t, err)
	diags := diag.NewCollector(false)
	convert.Declare(table, []*convert.File{f}, diags)
	u, err := convert.Convert(table, f, diags)
	require.NoError(t, err)
	require.Zero(t, diags.ErrorCount(), diags.Diagnostics())
	return u, NewContext(opts, table, diags, nil)
}

func convertUnit(t *testing.T, src string) (*ast.Unit, *Context) {
	t.Helper()
	return convertWith(t, config.Default(), src)
}

func run(ctx *Context, u *ast.Unit, passes ...Pass) {
	for _, p := range passes {
		ctx.pass = p.Name()
		p.Run(ctx, u)
	}
}

// typeDecl returns the declaration of the type with the given simple name.
func typeDecl(t *testing.T, u *ast.Unit, simple string) ast.NodeID {
	t.Helper()
	for _, td := range u.AllTypeDecls() {
		if u.Table.Type(u.Node(td).Type).Simple == simple {
			return td
		}
	}
	require.FailNow(t, "no type "+simple)
	return ast.NoNode
}

// member returns the first member of td of the given kind and name.
func member(u *ast.Unit, td ast.NodeID, kind ast.Kind, name string) ast.NodeID {
	for _, m := range u.Kids(td) {
		if n := u.Node(m); n.Kind == kind && n.Name == name {
			return m
		}
	}
	return ast.NoNode
}

func names(u *ast.Unit, root ast.NodeID, kind ast.Kind) []string {
	var out []string
	for _, id := range u.Collect(root, kind) {
		out = append(out, u.Node(id).Name)
	}
	return out
}

func passNames(p *Pipeline) []string {
	var out []string
	for _, pass := range p.Passes() {
		out = append(out, pass.Name())
	}
	return out
}

func TestPipelinePassOrder(t *testing.T) {
	assert.Equal(t, []string{
		"OuterReferenceResolve", "GwtConvert", "Rewrite", "AbstractMethodStub",
		"VariableRename", "EnhancedForLower", "Autobox", "AnonymousClassConvert",
		"InnerClassExtract", "InitNormalize", "OuterReferenceFix", "NilCheckInsert",
		"VarargsRewrite", "TypeSort", "DestructorGenerate", "CopyAllFieldsWrite",
		"ConstantBranchPrune", "OcniExtract", "MethodMappingTranslate", "StaticVarRewrite",
		"OperatorRewrite", "ArrayRewrite", "EnumRewrite", "ComplexExpressionExtract",
		"CastResolve", "Validate",
	}, passNames(NewPipeline(config.Default())))

	opts := config.Default()
	opts.ExtractUnsequenced = true
	opts.Functionize = true
	got := passNames(NewPipeline(opts))
	assert.Equal(t, "UnsequencedExpressionRewrite", got[11])
	assert.Equal(t, "NilCheckInsert", got[12])
	assert.Equal(t, "Functionize", got[19])
	assert.Equal(t, "MethodMappingTranslate", got[20])
}

type countingPlugin struct{ runs int }

func (p *countingPlugin) Name() string              { return "Counting" }
func (p *countingPlugin) Run(ctx *Context, u *ast.Unit) { p.runs++ }

func TestPipelineRunsPluginsBeforeValidation(t *testing.T) {
	u, ctx := convertUnit(t, `class Empty {}`)
	p := NewPipeline(ctx.Options)
	plugin := &countingPlugin{}
	p.RegisterPlugin(plugin)
	var observed []string
	p.Observe(func(pass string, _ time.Duration) { observed = append(observed, pass) })

	require.NoError(t, p.Run(ctx, u))
	assert.Equal(t, 1, plugin.runs)
	require.GreaterOrEqual(t, len(observed), 2)
	assert.Equal(t, "Counting", observed[len(observed)-2])
	assert.Equal(t, "Validate", observed[len(observed)-1])
}

func TestPipelineProducesValidTree(t *testing.T) {
	for _, memory := range []string{config.MemoryRC, config.MemoryARC} {
		t.Run(memory, func(t *testing.T) {
			opts := config.Default()
			opts.Memory = memory
			u, ctx := convertWith(t, opts, `enum Color { RED, GREEN }

class Counter {
  private int count;
  private String label = "c";

  int next() {
    count++;
    return count;
  }

  String describe() {
    return label + count;
  }
}
`)
			require.NoError(t, NewPipeline(opts).Run(ctx, u))
			require.NoError(t, ast.Validate(u))
			assert.Zero(t, ctx.Diags.ErrorCount(), ctx.Diags.Diagnostics())

			counter := typeDecl(t, u, "Counter")
			assert.NotEqual(t, ast.NoNode, member(u, counter, ast.KindMethodDecl, "copyAllFieldsTo"))
			hasDealloc := member(u, counter, ast.KindMethodDecl, "dealloc") != ast.NoNode
			assert.Equal(t, memory == config.MemoryRC, hasDealloc)
			assert.Contains(t, names(u, counter, ast.KindFunctionInvocation), "JreStrcat")
		})
	}
}

func TestBoxingAndCastsSettleAfterPipeline(t *testing.T) {
	u, ctx := convertUnit(t, `import java.util.List;

class Box {
  private Integer total = 0;
  private String name;

  int add(int x, List<String> names) {
    total = total + x;
    name = names.get(0);
    return names.get(0).length() + total;
  }
}
`)
	require.NoError(t, NewPipeline(ctx.Options).Run(ctx, u))
	size, dump := u.Size(), u.Dump(u.Root)

	run(ctx, u, Autobox{}, CastResolve{})
	assert.Equal(t, size, u.Size())
	assert.Equal(t, dump, u.Dump(u.Root))
}

func TestBoxedArgumentUnderReferenceCounting(t *testing.T) {
	opts := config.Default()
	opts.Memory = config.MemoryRC
	u, ctx := convertWith(t, opts, `class R {
  void take(Integer i) {}

  void call() {
    take(5);
  }
}
`)
	require.NoError(t, NewPipeline(opts).Run(ctx, u))

	call := member(u, typeDecl(t, u, "R"), ast.KindMethodDecl, "call")
	require.NotEqual(t, ast.NoNode, call)
	assert.Empty(t, u.Collect(call, ast.KindFunctionInvocation))
	assert.Equal(t, []string{"take", "valueOf"}, names(u, call, ast.KindInvocation))

	take := u.Collect(call, ast.KindInvocation)[0]
	args := u.KidsFrom(take, 1)
	require.Len(t, args, 1)
	assert.Equal(t, ast.KindInvocation, u.Kind(args[0]))
	assert.Equal(t, "valueOf", u.Node(args[0]).Name)
}

func TestPipelineStopsOnError(t *testing.T) {
	u, ctx := convertUnit(t, `interface Shape { double area(); }

class Square implements Shape {}
`)
	err := NewPipeline(ctx.Options).Run(ctx, u)
	require.ErrorIs(t, err, ErrUnitFailed)
	assert.Contains(t, err.Error(), "AbstractMethodStub")
}

func TestTypeSortPutsSupertypesFirst(t *testing.T) {
	u, ctx := convertUnit(t, `class C extends B {}
class X implements I {}
class B extends A {}
interface I {}
class A {}
`)
	run(ctx, u, TypeSort{})
	var order []string
	for _, td := range u.TypeDecls() {
		order = append(order, u.Table.Type(u.Node(td).Type).Simple)
	}
	assert.Equal(t, []string{"I", "X", "A", "B", "C"}, order)
}
