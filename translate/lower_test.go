package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/j2objc/config"
	"github.com/dhamidi/j2objc/java/ast"
)

func TestConstantBranchPrune(t *testing.T) {
	u, ctx := convertUnit(t, `class P {
  static final boolean DEBUG = false;

  int f(boolean b, int x) {
    if (DEBUG) {
      x = 1;
    }
    if (DEBUG && b) {
      x = 2;
    }
    boolean c = DEBUG && b;
    while (DEBUG) {
      x--;
    }
    if (true) {
      return 1;
    }
    x++;
    return x;
  }
}
`)
	run(ctx, u, ConstantBranchPrune{})
	require.NoError(t, ast.Validate(u))

	f := member(u, typeDecl(t, u, "P"), ast.KindMethodDecl, "f")
	assert.Empty(t, u.Collect(f, ast.KindIf))
	assert.Empty(t, u.Collect(f, ast.KindWhile))
	assert.Empty(t, u.Collect(f, ast.KindAssign))
	assert.Empty(t, u.Collect(f, ast.KindPostfix))
	assert.Len(t, u.Collect(f, ast.KindReturn), 1)

	locals := u.Collect(f, ast.KindLocalVar)
	require.Len(t, locals, 1)
	init := u.Kid(locals[0], 0)
	assert.Equal(t, ast.KindLiteral, u.Kind(init))
	assert.Equal(t, "false", u.Node(init).Value)
}

func TestConstantBranchPruneKeepsSwitchDeclarations(t *testing.T) {
	u, ctx := convertUnit(t, `class Q {
  int f(int k) {
    switch (k) {
      case 1:
        return 1;
        int y = 3;
      case 2:
        y = 4;
        return y;
    }
    return 0;
  }
}
`)
	run(ctx, u, ConstantBranchPrune{})
	require.NoError(t, ast.Validate(u))

	locals := u.Collect(u.Root, ast.KindLocalVar)
	require.Len(t, locals, 1)
	assert.Equal(t, ast.NoNode, u.Kid(locals[0], 0))
	assert.Len(t, u.Collect(u.Root, ast.KindReturn), 3)
}

func TestAutoboxIsIdempotent(t *testing.T) {
	u, ctx := convertUnit(t, `class B {
  Integer box(int i) {
    return i;
  }

  int unbox(Integer j) {
    return j;
  }
}
`)
	run(ctx, u, Autobox{})
	require.NoError(t, ast.Validate(u))
	assert.Equal(t, []string{"valueOf", "intValue"}, names(u, u.Root, ast.KindInvocation))

	run(ctx, u, Autobox{})
	assert.Equal(t, []string{"valueOf", "intValue"}, names(u, u.Root, ast.KindInvocation))
}

func TestAutoboxIncrementOfWrapper(t *testing.T) {
	u, ctx := convertUnit(t, `class C {
  int bump(Integer n) {
    n++;
    return n;
  }
}
`)
	run(ctx, u, Autobox{})
	require.NoError(t, ast.Validate(u))
	assert.Empty(t, u.Collect(u.Root, ast.KindPostfix))
	assert.Equal(t, []string{"valueOf", "intValue", "intValue"}, names(u, u.Root, ast.KindInvocation))
}

func TestNilCheckOnFirstDereference(t *testing.T) {
	u, ctx := convertUnit(t, `class N {
  int len(String s) {
    return s.length() + s.length();
  }

  int own() {
    return this.toString().length() + "x".length();
  }
}
`)
	run(ctx, u, NilCheckInsert{})
	require.NoError(t, ast.Validate(u))

	td := typeDecl(t, u, "N")
	checks := u.Collect(member(u, td, ast.KindMethodDecl, "len"), ast.KindNilCheck)
	require.Len(t, checks, 1)
	assert.Equal(t, "s", u.Node(u.Kid(checks[0], 0)).Name)

	own := u.Collect(member(u, td, ast.KindMethodDecl, "own"), ast.KindNilCheck)
	require.Len(t, own, 1, "only the toString result may be null")
	assert.Equal(t, ast.KindInvocation, u.Kind(u.Kid(own[0], 0)))
}

func TestVarargsPacksTrailingArguments(t *testing.T) {
	u, ctx := convertUnit(t, `class V {
  void h(String... parts) {}

  void test(String[] arr) {
    h("a", "b");
    h("a");
    h(arr);
  }
}
`)
	run(ctx, u, VarargsRewrite{})
	require.NoError(t, ast.Validate(u))

	creations := u.Collect(u.Root, ast.KindArrayCreation)
	require.Len(t, creations, 2)
	assert.Len(t, u.Kids(u.Kid(creations[0], 0)), 2)
	assert.Len(t, u.Kids(u.Kid(creations[1], 0)), 1)
}

func TestUnsequencedExtractsEarlierOperand(t *testing.T) {
	opts := config.Default()
	opts.ExtractUnsequenced = true
	u, ctx := convertWith(t, opts, `class U {
  int f(int i) {
    return i++ + i;
  }
}
`)
	run(ctx, u, UnsequencedExpressionRewrite{})
	require.NoError(t, ast.Validate(u))

	locals := u.Collect(u.Root, ast.KindLocalVar)
	require.Len(t, locals, 1)
	assert.Equal(t, "unseq$0", u.Node(locals[0]).Name)
	assert.Equal(t, ast.KindPostfix, u.Kind(u.Kid(locals[0], 0)))

	ret := u.Collect(u.Root, ast.KindReturn)
	require.Len(t, ret, 1)
	sum := u.Kid(ret[0], 0)
	assert.Equal(t, "unseq$0", u.Node(u.Kid(sum, 0)).Name)
}

func TestStaticVarRewrite(t *testing.T) {
	u, ctx := convertUnit(t, `class S {
  static int count;
  static final int MAX = 10;

  int f() {
    count = MAX;
    count++;
    return count;
  }
}
`)
	run(ctx, u, StaticVarRewrite{})
	require.NoError(t, ast.Validate(u))

	f := member(u, typeDecl(t, u, "S"), ast.KindMethodDecl, "f")
	assert.Len(t, u.Collect(f, ast.KindStaticVarRef), 2)
	assert.Len(t, u.Collect(f, ast.KindDeref), 2)
	assert.Len(t, u.Collect(f, ast.KindStaticVarLoad), 1)
	assert.Equal(t, []string{"MAX"}, names(u, f, ast.KindName))
}

func TestOperatorRewriteUnderReferenceCounting(t *testing.T) {
	u, ctx := convertUnit(t, `class Op {
  String s;
  Object o;
  int bits;

  void set() {
    s = "x";
    o = new Object();
    bits <<= 2;
  }

  String describe(int i, long j) {
    return "v" + i + j;
  }

  double rem(double a, double b) {
    return a % b;
  }

  int shift(int x) {
    return x >>> 3;
  }
}
`)
	run(ctx, u, OperatorRewrite{})
	require.NoError(t, ast.Validate(u))

	td := typeDecl(t, u, "Op")
	set := member(u, td, ast.KindMethodDecl, "set")
	assert.Equal(t, []string{"JreStrongAssign", "JreStrongAssignAndConsume", "JreLShiftAssignInt"},
		names(u, set, ast.KindFunctionInvocation))
	news := u.Collect(set, ast.KindNew)
	require.Len(t, news, 1)
	assert.True(t, u.Node(news[0]).Flags.Has(ast.FlagConsumes))
	assert.Len(t, u.Collect(set, ast.KindAddressOf), 3)

	describe := member(u, td, ast.KindMethodDecl, "describe")
	calls := u.Collect(describe, ast.KindFunctionInvocation)
	require.Len(t, calls, 1)
	assert.Equal(t, "JreStrcat", u.Node(calls[0]).Name)
	kids := u.Kids(calls[0])
	require.Len(t, kids, 4)
	assert.Equal(t, `"$IJ"`, u.Node(kids[0]).Value)

	assert.Equal(t, []string{"fmod"}, names(u, member(u, td, ast.KindMethodDecl, "rem"), ast.KindFunctionInvocation))
	assert.Equal(t, []string{"JreURShift32"}, names(u, member(u, td, ast.KindMethodDecl, "shift"), ast.KindFunctionInvocation))
}

func TestOperatorRewriteUnderARCKeepsStores(t *testing.T) {
	opts := config.Default()
	opts.Memory = config.MemoryARC
	u, ctx := convertWith(t, opts, `class Op {
  String s;

  void set() {
    s = "x";
  }
}
`)
	run(ctx, u, OperatorRewrite{})
	assert.Empty(t, u.Collect(u.Root, ast.KindFunctionInvocation))
	assert.Len(t, u.Collect(u.Root, ast.KindAssign), 1)
}

func TestArrayRewrite(t *testing.T) {
	u, ctx := convertUnit(t, `class A {
  int sum(int[] xs) {
    xs[0] = 1;
    xs[1] += 2;
    return xs[0] + xs.length;
  }

  void put(Object[] os, Object o) {
    os[0] = o;
  }

  String[] names() {
    return new String[] {"a", "b"};
  }

  int[][] grid(int n) {
    return new int[n][3];
  }

  int[] ints() {
    return new int[] {1, 2};
  }
}
`)
	run(ctx, u, ArrayRewrite{})
	require.NoError(t, ast.Validate(u))

	td := typeDecl(t, u, "A")
	assert.Empty(t, u.Collect(td, ast.KindArrayAccess))
	assert.Empty(t, u.Collect(td, ast.KindArrayCreation))
	assert.Empty(t, u.Collect(td, ast.KindArrayInit))

	sum := member(u, td, ast.KindMethodDecl, "sum")
	assert.Equal(t, []string{"IOSIntArray_GetRef", "IOSIntArray_GetRef", "IOSIntArray_Get"},
		names(u, sum, ast.KindFunctionInvocation))
	assert.Len(t, u.Collect(sum, ast.KindDeref), 2)
	natives := u.Collect(sum, ast.KindNativeExpr)
	require.Len(t, natives, 1)
	assert.Equal(t, "$0->size_", u.Node(natives[0]).Value)

	assert.Equal(t, []string{"IOSObjectArray_Set"}, names(u, member(u, td, ast.KindMethodDecl, "put"), ast.KindFunctionInvocation))

	template := func(method string) string {
		ns := u.Collect(member(u, td, ast.KindMethodDecl, method), ast.KindNativeExpr)
		require.Len(t, ns, 1, method)
		return u.Node(ns[0]).Value
	}
	assert.Contains(t, template("names"), "[IOSObjectArray arrayWithObjects:(id[]){ $0, $1 } count:2 type:")
	assert.Equal(t, "[IOSIntArray arrayWithDimensions:2 lengths:(jint[]){ $0, $1 }]", template("grid"))
	assert.Equal(t, "[IOSIntArray arrayWithInts:(jint[]){ $0, $1 } count:2]", template("ints"))
}

func TestArrayRewriteUnderARCReturnsRetainedArrays(t *testing.T) {
	opts := config.Default()
	opts.Memory = config.MemoryARC
	u, ctx := convertWith(t, opts, `class A {
  long[] make(int n) {
    return new long[n];
  }
}
`)
	run(ctx, u, ArrayRewrite{})
	natives := u.Collect(u.Root, ast.KindNativeExpr)
	require.Len(t, natives, 1)
	assert.Equal(t, "[IOSLongArray newArrayWithLength:$0]", u.Node(natives[0]).Value)
}

func TestComplexExpressionExtract(t *testing.T) {
	opts := config.Default()
	opts.ComplexExpressionLimit = 2
	u, ctx := convertWith(t, opts, `class K {
  K next() {
    return this;
  }

  void f() {
    next().next().next().next();
  }
}
`)
	run(ctx, u, ComplexExpressionExtract{})
	require.NoError(t, ast.Validate(u))

	f := member(u, typeDecl(t, u, "K"), ast.KindMethodDecl, "f")
	stmts := u.Kids(u.Body(f))
	require.Len(t, stmts, 2)
	assert.Equal(t, ast.KindLocalVar, u.Kind(stmts[0]))
	assert.Equal(t, "complex$0", u.Node(stmts[0]).Name)
	assert.Len(t, u.Collect(stmts[0], ast.KindInvocation), 2)
	assert.Len(t, u.Collect(stmts[1], ast.KindInvocation), 2)
}

func TestCastResolve(t *testing.T) {
	u, ctx := convertUnit(t, `import java.util.List;

class G {
  int first(List<String> names) {
    return names.get(0).length();
  }

  String narrow(Object o) {
    return (String) o;
  }
}
`)
	run(ctx, u, CastResolve{})
	require.NoError(t, ast.Validate(u))

	td := typeDecl(t, u, "G")
	casts := u.Collect(member(u, td, ast.KindMethodDecl, "first"), ast.KindCast)
	require.Len(t, casts, 1)
	assert.True(t, u.Node(casts[0]).Flags.Has(ast.FlagSynthetic))
	assert.Equal(t, ctx.Table.StringType(), u.Node(casts[0]).Type)

	explicit := u.Collect(member(u, td, ast.KindMethodDecl, "narrow"), ast.KindCast)
	require.Len(t, explicit, 1)
	assert.True(t, u.Node(explicit[0]).Flags.Has(ast.FlagChecked))

	run(ctx, u, CastResolve{})
	assert.Len(t, u.Collect(td, ast.KindCast), 2)
}
