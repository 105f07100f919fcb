package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/j2objc/config"
	"github.com/dhamidi/j2objc/java/ast"
)

const deallocSource = `class Holder {
  private String a;
  private Object b;
  private int n;
  private static String shared;
}

class Finalizing {
  private String name;
  protected void finalize() {}
}
`

func releasedNames(u *ast.Unit, decl ast.NodeID) []string {
	var out []string
	for _, call := range u.Collect(decl, ast.KindFunctionInvocation) {
		if u.Node(call).Name == "RELEASE_" {
			out = append(out, u.Node(u.Kid(call, 0)).Name)
		}
	}
	return out
}

func TestDestructorReleasesStrongFields(t *testing.T) {
	u, ctx := convertUnit(t, deallocSource)
	run(ctx, u, DestructorGenerate{})

	dealloc := member(u, typeDecl(t, u, "Holder"), ast.KindMethodDecl, "dealloc")
	require.NotEqual(t, ast.NoNode, dealloc)
	assert.Equal(t, []string{"a", "b"}, releasedNames(u, dealloc))

	dealloc = member(u, typeDecl(t, u, "Finalizing"), ast.KindMethodDecl, "dealloc")
	require.NotEqual(t, ast.NoNode, dealloc)
	assert.Equal(t, []string{"finalize"}, names(u, dealloc, ast.KindInvocation))
	assert.Equal(t, []string{"name"}, releasedNames(u, dealloc))
	require.NoError(t, ast.Validate(u))
}

func TestDestructorSkipsInheritedAndWeakFields(t *testing.T) {
	u, ctx := convertUnit(t, `import com.google.j2objc.annotations.Weak;

class Base {
  protected Object inherited;
}

class H extends Base {
  private Object own;
  @Weak private Object back;
}
`)
	run(ctx, u, DestructorGenerate{})
	require.NoError(t, ast.Validate(u))

	dealloc := member(u, typeDecl(t, u, "H"), ast.KindMethodDecl, "dealloc")
	require.NotEqual(t, ast.NoNode, dealloc)
	assert.Equal(t, []string{"own"}, releasedNames(u, dealloc))

	dealloc = member(u, typeDecl(t, u, "Base"), ast.KindMethodDecl, "dealloc")
	require.NotEqual(t, ast.NoNode, dealloc)
	assert.Equal(t, []string{"inherited"}, releasedNames(u, dealloc))
}

func TestDestructorUnderARCOnlyRunsFinalize(t *testing.T) {
	opts := config.Default()
	opts.Memory = config.MemoryARC
	u, ctx := convertWith(t, opts, deallocSource)
	run(ctx, u, DestructorGenerate{})

	assert.Equal(t, ast.NoNode, member(u, typeDecl(t, u, "Holder"), ast.KindMethodDecl, "dealloc"))
	dealloc := member(u, typeDecl(t, u, "Finalizing"), ast.KindMethodDecl, "dealloc")
	require.NotEqual(t, ast.NoNode, dealloc)
	assert.Empty(t, releasedNames(u, dealloc))
	assert.Len(t, u.Collect(dealloc, ast.KindInvocation), 1)
}

func TestCopyAllFields(t *testing.T) {
	u, ctx := convertUnit(t, `class C {
  int x;
  String s;
  static int count;
}

class E extends C {
  long y;
}

class NoFields {
  static int z;
}
`)
	run(ctx, u, CopyAllFieldsWrite{})
	require.NoError(t, ast.Validate(u))

	c := member(u, typeDecl(t, u, "C"), ast.KindMethodDecl, "copyAllFieldsTo")
	require.NotEqual(t, ast.NoNode, c)
	assert.Len(t, u.Collect(c, ast.KindAssign), 2)
	assert.Empty(t, u.Collect(c, ast.KindSuperInvocation))

	e := member(u, typeDecl(t, u, "E"), ast.KindMethodDecl, "copyAllFieldsTo")
	require.NotEqual(t, ast.NoNode, e)
	first := u.Kid(u.Kid(u.Body(e), 0), 0)
	require.Equal(t, ast.KindSuperInvocation, u.Kind(first))
	assert.Equal(t, "copyAllFieldsTo:", u.Node(first).Value)
	assert.Len(t, u.Collect(e, ast.KindAssign), 1)

	assert.Equal(t, ast.NoNode, member(u, typeDecl(t, u, "NoFields"), ast.KindMethodDecl, "copyAllFieldsTo"))
}

func TestInitNormalizeMovesInitializers(t *testing.T) {
	u, ctx := convertUnit(t, `class Init {
  static final int LIMIT = 4;
  static int[] table = new int[LIMIT];
  String name = "x";
  int size;

  { size = 2; }

  Init() {}

  Init(int size) {
    this();
    this.size = size;
  }
}
`)
	run(ctx, u, InitNormalize{})
	require.NoError(t, ast.Validate(u))

	td := typeDecl(t, u, "Init")
	assert.Empty(t, u.Collect(td, ast.KindInitializer))
	var ctors []ast.NodeID
	for _, m := range u.Kids(td) {
		if u.Kind(m) == ast.KindMethodDecl && u.Node(m).Name == "<init>" {
			ctors = append(ctors, m)
		}
	}
	require.Len(t, ctors, 2)

	plain := u.Body(ctors[0])
	assert.Equal(t, ast.KindSuperCtorCall, u.Kind(u.Kid(plain, 0)))
	assert.Len(t, u.Collect(plain, ast.KindAssign), 2, "field initializer and initializer block")
	delegating := u.Body(ctors[1])
	assert.Equal(t, ast.KindThisCtorCall, u.Kind(u.Kid(delegating, 0)))
	assert.Len(t, u.Collect(delegating, ast.KindAssign), 1)

	initialize := member(u, td, ast.KindMethodDecl, "initialize")
	require.NotEqual(t, ast.NoNode, initialize)
	assert.Len(t, u.Collect(initialize, ast.KindAssign), 1, "constants stay in place")
	assert.Len(t, u.Collect(initialize, ast.KindArrayCreation), 1)
}

func TestAnonymousClassCapturesLocals(t *testing.T) {
	u, ctx := convertUnit(t, `class Outer {
  int hits;

  Runnable make(final int x) {
    return new Runnable() {
      int y = x;

      public void run() {
        hits++;
      }
    };
  }
}
`)
	run(ctx, u, OuterReferenceResolve{}, AnonymousClassConvert{}, InnerClassExtract{},
		InitNormalize{}, OuterReferenceFix{})
	require.NoError(t, ast.Validate(u))

	require.Len(t, u.TypeDecls(), 2)
	anon := u.TypeDecls()[1]
	assert.True(t, ctx.Table.Type(u.Node(anon).Type).Anonymous)
	assert.NotEqual(t, ast.NoNode, member(u, anon, ast.KindFieldDecl, "val$x"))
	assert.NotEqual(t, ast.NoNode, member(u, anon, ast.KindFieldDecl, "this$0"))

	ctor := member(u, anon, ast.KindMethodDecl, "<init>")
	require.NotEqual(t, ast.NoNode, ctor)
	var params []string
	for _, p := range u.Params(ctor) {
		params = append(params, u.Node(p).Name)
	}
	assert.Equal(t, []string{"outer$", "capture$0"}, params)

	var storesY ast.NodeID
	for _, a := range u.Collect(ctor, ast.KindAssign) {
		if u.Node(u.Kid(a, 0)).Name == "y" {
			storesY = a
		}
	}
	require.NotEqual(t, ast.NoNode, storesY)
	rhs := u.Kid(storesY, 1)
	assert.Equal(t, ast.KindFieldAccess, u.Kind(rhs))
	assert.Equal(t, "val$x", u.Node(rhs).Name)

	creations := u.Collect(typeDecl(t, u, "Outer"), ast.KindNew)
	require.Len(t, creations, 1)
	args := u.Args(creations[0])
	require.Len(t, args, 2)
	assert.Equal(t, ast.KindThis, u.Kind(args[0]))
	assert.Equal(t, "x", u.Node(args[1]).Name)

	hits := u.Collect(member(u, anon, ast.KindMethodDecl, "run"), ast.KindFieldAccess)
	require.NotEmpty(t, hits)
	assert.Equal(t, "hits", u.Node(hits[0]).Name)
	assert.Equal(t, "this$0", u.Node(u.Kid(hits[0], 0)).Name)
}

func TestOuterChainCrossesEveryBoundary(t *testing.T) {
	u, ctx := convertUnit(t, `class O {
  int v;

  class I {
    class J {
      int get() { return v; }
    }
  }
}
`)
	run(ctx, u, OuterReferenceResolve{}, AnonymousClassConvert{}, InnerClassExtract{},
		InitNormalize{}, OuterReferenceFix{})
	require.NoError(t, ast.Validate(u))
	require.Len(t, u.TypeDecls(), 3)

	get := member(u, typeDecl(t, u, "J"), ast.KindMethodDecl, "get")
	ret := u.Collect(get, ast.KindReturn)
	require.Len(t, ret, 1)
	access := u.Kid(ret[0], 0)
	var chain []string
	for u.Kind(access) == ast.KindFieldAccess {
		chain = append(chain, u.Node(access).Name)
		access = u.Kid(access, 0)
	}
	assert.Equal(t, []string{"v", "this$0", "this$0"}, chain)
	assert.Equal(t, ast.KindThis, u.Kind(access))
}

func TestEnumRewrite(t *testing.T) {
	u, ctx := convertUnit(t, `enum Color {
  RED, GREEN;
}
`)
	run(ctx, u, InitNormalize{}, EnumRewrite{})
	require.NoError(t, ast.Validate(u))

	td := typeDecl(t, u, "Color")
	ctor := member(u, td, ast.KindMethodDecl, "<init>")
	require.NotEqual(t, ast.NoNode, ctor)
	var params []string
	for _, p := range u.Params(ctor) {
		params = append(params, u.Node(p).Name)
	}
	assert.Equal(t, []string{"__name", "__ordinal"}, params)
	call := u.Kid(u.Body(ctor), 0)
	require.Equal(t, ast.KindSuperCtorCall, u.Kind(call))
	assert.Len(t, u.Args(call), 2)

	initialize := member(u, td, ast.KindMethodDecl, "initialize")
	require.NotEqual(t, ast.NoNode, initialize)
	stmts := u.Kids(u.Body(initialize))
	require.Len(t, stmts, 2)
	create := u.Kid(u.Kid(stmts[1], 0), 1)
	require.Equal(t, ast.KindNew, u.Kind(create))
	assert.True(t, u.Node(create).Flags.Has(ast.FlagConsumes))
	args := u.Args(create)
	require.Len(t, args, 2)
	assert.Equal(t, `"GREEN"`, u.Node(args[0]).Value)
	assert.Equal(t, "1", u.Node(args[1]).Value)

	values := member(u, td, ast.KindMethodDecl, "values")
	require.NotEqual(t, ast.NoNode, values)
	assert.Len(t, u.Collect(values, ast.KindStaticVarLoad), 2)
	valueOf := member(u, td, ast.KindMethodDecl, "valueOf")
	require.NotEqual(t, ast.NoNode, valueOf)
	assert.Len(t, u.Collect(valueOf, ast.KindIf), 2)
	assert.Len(t, u.Collect(valueOf, ast.KindThrow), 1)
}

func TestFunctionizeNamesFunctions(t *testing.T) {
	u, ctx := convertUnit(t, `class F {
  private int twice(int n) { return n * 2; }
  static int one() { return 1; }
  int run() { return twice(one()); }
}
`)
	run(ctx, u, Functionize{})
	require.NoError(t, ast.Validate(u))

	td := typeDecl(t, u, "F")
	assert.True(t, u.Node(member(u, td, ast.KindMethodDecl, "twice")).Flags.Has(ast.FlagFunctionized))
	assert.True(t, u.Node(member(u, td, ast.KindMethodDecl, "one")).Flags.Has(ast.FlagFunctionized))
	assert.False(t, u.Node(member(u, td, ast.KindMethodDecl, "run")).Flags.Has(ast.FlagFunctionized))

	body := member(u, td, ast.KindMethodDecl, "run")
	assert.Empty(t, u.Collect(body, ast.KindInvocation))
	assert.Equal(t, []string{"F_twiceWithInt_", "F_one"}, names(u, body, ast.KindFunctionInvocation))
	twice := u.Collect(body, ast.KindFunctionInvocation)[0]
	assert.Equal(t, ast.KindThis, u.Kind(u.Kid(twice, 0)))
}

func TestMethodMappingSetsSelectors(t *testing.T) {
	u, ctx := convertUnit(t, `class M {
  public boolean equals(Object o) { return o == this; }
  boolean same(M m) { return m.equals(this); }
}
`)
	run(ctx, u, MethodMappingTranslate{})
	td := typeDecl(t, u, "M")
	assert.Equal(t, "isEqual:", u.Node(member(u, td, ast.KindMethodDecl, "equals")).Value)
	calls := u.Collect(td, ast.KindInvocation)
	require.Len(t, calls, 1)
	assert.Equal(t, "isEqual:", u.Node(calls[0]).Value)
	assert.Empty(t, u.Node(member(u, td, ast.KindMethodDecl, "same")).Value)
}
