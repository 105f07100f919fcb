package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseUnit(t *testing.T, file, src string) *Node {
	t.Helper()
	root := ParseCompilationUnit(strings.NewReader(src), WithFile(file)).Finish()
	require.NotNil(t, root)
	return root
}

func parseExpr(t *testing.T, src string) *Node {
	t.Helper()
	root := ParseExpression(strings.NewReader(src)).Finish()
	require.NotNil(t, root)
	return root
}

// collect returns the nodes of kind below n in source order.
func collect(n *Node, kind NodeKind) []*Node {
	var out []*Node
	if n.Kind == kind {
		out = append(out, n)
	}
	for _, c := range n.Children {
		out = append(out, collect(c, kind)...)
	}
	return out
}

func requireClean(t *testing.T, root *Node) {
	t.Helper()
	for _, e := range collect(root, KindError) {
		require.Fail(t, "syntax error", "%s at %s", e.Error.Message, e.Span.Start)
	}
}

// operators returns the operator literals of the binary or assignment
// nodes below n.
func operators(n *Node, kind NodeKind) []string {
	var out []string
	for _, b := range collect(n, kind) {
		out = append(out, b.Children[1].TokenLiteral())
	}
	return out
}

func TestParseExpression(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a + b * c", `BinaryExpr
  Identifier a
  Identifier +
  BinaryExpr
    Identifier b
    Identifier *
    Identifier c
`},
		{"a || b && !c", `BinaryExpr
  Identifier a
  Identifier ||
  BinaryExpr
    Identifier b
    Identifier &&
    UnaryExpr
      Identifier !
      Identifier c
`},
		{"x >> 2 > y", `BinaryExpr
  BinaryExpr
    Identifier x
    Identifier >>
    Literal 2
  Identifier >
  Identifier y
`},
		{"i++ - --j", `BinaryExpr
  PostfixExpr
    Identifier i
    Identifier ++
  Identifier -
  UnaryExpr
    Identifier --
    Identifier j
`},
		{"a = b += c", `AssignExpr
  Identifier a
  Identifier =
  AssignExpr
    Identifier b
    Identifier +=
    Identifier c
`},
		{"ok ? 1 : 2", `TernaryExpr
  Identifier ok
  Literal 1
  Literal 2
`},
		{"new HashMap<>(16)", `NewExpr
  QualifiedName
    Identifier HashMap
  TypeArguments
  Parameters
    Literal 16
`},
		{"new ArrayList<String>()", `NewExpr
  QualifiedName
    Identifier ArrayList
  TypeArguments
    Type
      QualifiedName
        Identifier String
  Parameters
`},
		{"new int[n][]", `NewArrayExpr
  Type int
  Identifier n
`},
		{"(String) o", `CastExpr
  Type
    Type
      QualifiedName
        Identifier String
  Identifier o
`},
		{"(a) + b", `BinaryExpr
  ParenExpr
    Identifier a
  Identifier +
  Identifier b
`},
		{"(int) -x", `CastExpr
  Type
    Type
      Identifier int
  UnaryExpr
    Identifier -
    Identifier x
`},
		{"o instanceof String s", `InstanceofExpr
  Identifier o
  Type
    QualifiedName
      Identifier String
  Identifier s
`},
		{"list.get(0).name", `FieldAccess
  CallExpr
    FieldAccess
      Identifier list
      Identifier get
    Parameters
      Literal 0
  Identifier name
`},
		{"Collections.<String>emptyList()", `CallExpr
  FieldAccess
    Identifier Collections
    TypeArguments
      Type
        QualifiedName
          Identifier String
    Identifier emptyList
  Parameters
`},
		{"x -> x + 1", `LambdaExpr
  Parameters
    Identifier x
  BinaryExpr
    Identifier x
    Identifier +
    Literal 1
`},
		{"List<String>::size", `MethodRef
  Type
    QualifiedName
      Identifier List
    TypeArguments
      Type
        QualifiedName
          Identifier String
  Identifier size
`},
		{"String[]::new", `MethodRef
  ArrayType
    Type
      QualifiedName
        Identifier String
  Identifier new
`},
		{"int[].class", `ClassLiteral
  ArrayType
    Type
      Identifier int
`},
		{"Outer.this", `FieldAccess
  Identifier Outer
  This this
`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseExpr(t, tt.input).String())
		})
	}
}

func TestShiftsAndNestedTypeArguments(t *testing.T) {
	root := parseUnit(t, "G.java", `class G {
  Map<String, List<Integer>> m = build(x >> 2, y >>> 1);
  List<List<List<String>>> deep;
  void f() {
    x >>= 1;
    y >>>= 2;
    ok = x >= y;
  }
}
`)
	requireClean(t, root)
	assert.Equal(t, []string{">>", ">>>", ">="}, operators(root, KindBinaryExpr))
	assert.Equal(t, []string{">>=", ">>>=", "="}, operators(root, KindAssignExpr))

	fields := collect(root, KindFieldDecl)
	require.Len(t, fields, 2)
	typ := fields[0].FirstChildOfKind(KindType)
	require.NotNil(t, typ)
	args := typ.FirstChildOfKind(KindTypeArguments)
	require.NotNil(t, args)
	require.Len(t, args.Children, 2)
	assert.NotNil(t, args.Children[1].FirstChildOfKind(KindTypeArguments))
	assert.Len(t, collect(fields[1], KindTypeArguments), 3)
}

func TestDiamondKeepsArguments(t *testing.T) {
	root := parseUnit(t, "D.java", `class D {
  Map<String, Integer> m() { return new HashMap<>(16); }
  Object o() { return new Outer().new Inner<>(1, 2) { }; }
}
`)
	requireClean(t, root)
	news := collect(root, KindNewExpr)
	require.Len(t, news, 3)

	diamond := news[0]
	targs := diamond.FirstChildOfKind(KindTypeArguments)
	require.NotNil(t, targs)
	assert.Empty(t, targs.Children)
	assert.Len(t, diamond.FirstChildOfKind(KindParameters).Children, 1)

	inner := news[1]
	require.Len(t, inner.Children, 5)
	assert.Equal(t, KindNewExpr, inner.Children[0].Kind)
	assert.Equal(t, "Inner", inner.Children[1].TokenLiteral())
	assert.Equal(t, KindTypeArguments, inner.Children[2].Kind)
	assert.Len(t, inner.Children[3].Children, 2)
	assert.Equal(t, KindBlock, inner.Children[4].Kind)
}

func TestCompilationUnit(t *testing.T) {
	root := parseUnit(t, "Main.java", `package com.example;

import java.util.List;
import static java.lang.Math.*;

/** Docs. */
@SuppressWarnings("unchecked")
public final class Main<T extends Comparable<? super T>> extends Base implements Runnable, Cloneable {
  private static final int MAX = 10, MIN[] = {1, 2,};
  static { init(); }
  { count = 0; }

  public Main(int size) throws Exception { super(size); }

  @Override
  public <R> R run(final T... items) { return null; }

  interface Inner { default void go() {} }
}
`)
	requireClean(t, root)
	assert.Len(t, root.ChildrenOfKind(KindImportDecl), 2)
	static := root.ChildrenOfKind(KindImportDecl)[1]
	assert.Equal(t, "static", static.Children[0].TokenLiteral())
	assert.Equal(t, "*", static.Children[2].TokenLiteral())

	classes := root.ChildrenOfKind(KindClassDecl)
	require.Len(t, classes, 1)
	class := classes[0]
	mods := class.Children[0]
	require.Equal(t, KindModifiers, mods.Kind)
	assert.Equal(t, KindAnnotation, mods.Children[0].Kind)
	assert.Equal(t, 7, class.Span.Start.Line, "declaration starts at its annotation")
	assert.Len(t, class.ChildrenOfKind(KindType), 3)

	body := class.FirstChildOfKind(KindBlock)
	require.NotNil(t, body)
	var kinds []NodeKind
	for _, m := range body.Children {
		kinds = append(kinds, m.Kind)
	}
	assert.Equal(t, []NodeKind{KindFieldDecl, KindBlock, KindBlock, KindConstructorDecl, KindMethodDecl, KindInterfaceDecl}, kinds)

	ctor := body.Children[3]
	assert.NotNil(t, ctor.FirstChildOfKind(KindThrowsList))
	ctorBody := ctor.FirstChildOfKind(KindBlock)
	assert.Equal(t, KindExplicitConstructorInvocation, ctorBody.Children[0].Kind)

	params := collect(body.Children[4], KindParameter)
	require.Len(t, params, 1)
	assert.Equal(t, "...", params[0].Children[2].TokenLiteral())
}

func TestEnumAndRecordDeclarations(t *testing.T) {
	root := parseUnit(t, "Color.java", `enum Color implements Named {
  RED("r"), GREEN("g") { }, BLUE;
  private final String code;
  Color() { this("x"); }
  Color(String c) { code = c; }
}

record Point(int x, int y) implements Comparable<Point> {
  Point {
    if (x < 0) throw new IllegalArgumentException();
  }
}
`)
	requireClean(t, root)
	enum := root.FirstChildOfKind(KindEnumDecl)
	require.NotNil(t, enum)
	assert.Len(t, enum.ChildrenOfKind(KindFieldDecl), 4)
	assert.Len(t, enum.ChildrenOfKind(KindConstructorDecl), 2)
	assert.Nil(t, enum.FirstChildOfKind(KindModifiers).Children)
	assert.Nil(t, enum.ChildrenOfKind(KindFieldDecl)[0].FirstChildOfKind(KindModifiers), "constants have no modifiers")

	record := root.FirstChildOfKind(KindRecordDecl)
	require.NotNil(t, record)
	assert.Len(t, record.FirstChildOfKind(KindParameters).Children, 2)
	compact := collect(record, KindConstructorDecl)
	require.Len(t, compact, 1)
	assert.Empty(t, compact[0].FirstChildOfKind(KindParameters).Children)
}

func TestStatements(t *testing.T) {
	root := parseUnit(t, "S.java", `class S {
  int f(Object o, int k, int[] xs) throws Exception {
    outer:
    for (int i = 0, j = 1; i < k; i++, j--) {
      for (final int x : xs) { if (x > i) continue outer; else break; }
    }
    for (;;) { break; }
    while (k > 0) k--;
    do { k++; } while (k < 10);
    try (Resource r = open(); other) {
      assert k > 0 : "positive";
    } catch (IllegalStateException | IllegalArgumentException e) {
      throw e;
    } finally {
      synchronized (this) { k = 0; }
    }
    class Local {}
    int[] arr = new int[] {1, 2};
    return k;
  }
}
`)
	requireClean(t, root)
	assert.Len(t, collect(root, KindLabeledStmt), 1)
	fors := collect(root, KindForStmt)
	require.Len(t, fors, 2)
	assert.Len(t, fors[0].Children, 4)
	assert.Equal(t, KindLocalVarDecl, fors[0].Children[0].Children[0].Kind)
	assert.Len(t, fors[0].Children[2].Children, 2, "two updates")
	assert.Len(t, fors[1].Children, 3, "no condition")
	assert.Len(t, collect(root, KindEnhancedForStmt), 1)

	try := collect(root, KindTryStmt)
	require.Len(t, try, 1)
	assert.Equal(t, KindLocalVarDecl, try[0].Children[0].Kind)
	assert.Equal(t, KindIdentifier, try[0].Children[1].Kind)
	catch := try[0].FirstChildOfKind(KindCatchClause)
	require.NotNil(t, catch)
	assert.Len(t, catch.FirstChildOfKind(KindType).Children, 2)
	assert.NotNil(t, try[0].FirstChildOfKind(KindFinallyClause))

	assert.Len(t, collect(root, KindAssertStmt)[0].Children, 2)
	assert.Len(t, collect(root, KindLocalClassDecl), 1)
	assert.Len(t, collect(root, KindArrayInit), 1)
	assert.Len(t, collect(root, KindDoStmt), 1)
	assert.Len(t, collect(root, KindSynchronizedStmt), 1)
}

func TestSwitch(t *testing.T) {
	root := parseUnit(t, "S.java", `class S {
  int f(Object o, int k) {
    switch (k) {
      case 1, 2 -> { return 1; }
      case 3: case 4: k++; break;
      default -> throw new IllegalStateException();
    }
    switch (o) {
      case String s when s.isEmpty() -> k = 0;
      case null, default -> k = 1;
    }
    return switch (k) { case 0 -> 1; default -> { yield 2; } };
  }
}
`)
	requireClean(t, root)
	switches := collect(root, KindSwitchStmt)
	require.Len(t, switches, 2)

	cases := switches[0].ChildrenOfKind(KindSwitchCase)
	require.Len(t, cases, 3)
	first := cases[0].FirstChildOfKind(KindSwitchLabel)
	assert.Len(t, first.Children, 3, "two constants and the arrow")
	assert.Len(t, cases[1].ChildrenOfKind(KindSwitchLabel), 2)
	assert.Len(t, cases[1].ChildrenOfKind(KindExprStmt), 1)
	assert.Len(t, cases[1].ChildrenOfKind(KindBreakStmt), 1)
	assert.Equal(t, KindThrowStmt, cases[2].Children[1].Kind)
	assert.Equal(t, "->", cases[2].Children[0].Children[0].TokenLiteral())

	assert.Len(t, collect(switches[1], KindTypePattern), 1)
	assert.Len(t, collect(switches[1], KindGuard), 1)
	nullDefault := switches[1].Children[2].FirstChildOfKind(KindSwitchLabel)
	assert.Equal(t, "default", nullDefault.Children[1].TokenLiteral())

	assert.Len(t, collect(root, KindSwitchExpr), 1)
	assert.Len(t, collect(root, KindYieldStmt), 1)
}

func TestExplicitConstructorInvocation(t *testing.T) {
	root := parseUnit(t, "B.java", `class B extends A {
  B() { this(1); }
  B(int x) { super(x); foo(); }
  B(Outer o) { o.super(); }
  B(long l) { this.x = l; }
}
`)
	requireClean(t, root)
	calls := collect(root, KindExplicitConstructorInvocation)
	require.Len(t, calls, 3)
	assert.Equal(t, KindThis, calls[0].Children[0].Kind)
	assert.Equal(t, KindSuper, calls[1].Children[0].Kind)
	require.Len(t, calls[2].Children, 3)
	assert.Equal(t, "o", calls[2].Children[0].TokenLiteral())
	assert.Equal(t, KindSuper, calls[2].Children[1].Kind)
	assert.Equal(t, KindParameters, calls[2].Children[2].Kind)
}

func TestReceiverAndUnnamedParameters(t *testing.T) {
	root := parseUnit(t, "R.java", `class R {
  void f(R this, int _) {}
  class I { I(R R.this) {} }
  void g() { for (var _ : list) {} int _ = 1; }
}
`)
	requireClean(t, root)
	receivers := collect(root, KindReceiverParameter)
	require.Len(t, receivers, 2)
	assert.Equal(t, KindThis, receivers[0].Children[len(receivers[0].Children)-1].Kind)
	assert.Len(t, collect(root, KindUnnamedVariable), 3)
}

func TestContextualWordsAsNames(t *testing.T) {
	root := parseUnit(t, "C.java", `import a.to.b;
import with.module.open;

class C {
  int module, to, with, requires;
  void f() {
    var var = 1;
    int yield = 2;
    yield++;
    int record = 3;
    String when = "w";
    sealed = permits;
  }
}
`)
	requireClean(t, root)
	assert.Equal(t, "a.to.b", strings.Join(literals(root.Children[0].Children[0]), "."))
	assert.Len(t, collect(root, KindYieldStmt), 0)
	assert.Len(t, collect(root, KindLocalVarDecl), 4)
}

func literals(n *Node) []string {
	var out []string
	for _, c := range n.Children {
		out = append(out, c.TokenLiteral())
	}
	return out
}

func TestModuleDeclaration(t *testing.T) {
	src := `@Deprecated
open module com.example.app {
  requires transitive com.example.base;
  requires static lombok;
  exports com.example.api to com.example.client, com.example.other;
  opens com.example.impl;
  uses com.example.Service;
  provides com.example.Service with com.example.impl.ServiceImpl;
}
`
	root := parseUnit(t, "src/module-info.java", src)
	requireClean(t, root)
	module := root.FirstChildOfKind(KindModuleDecl)
	require.NotNil(t, module)
	assert.Equal(t, "open", module.FirstChildOfKind(KindIdentifier).TokenLiteral())

	requires := module.ChildrenOfKind(KindRequiresDirective)
	require.Len(t, requires, 2)
	assert.Equal(t, "transitive", requires[0].Children[0].TokenLiteral())
	assert.Equal(t, "lombok", literals(requires[1].Children[1])[0])
	assert.Len(t, module.FirstChildOfKind(KindExportsDirective).ChildrenOfKind(KindQualifiedName), 3)
	assert.Len(t, module.FirstChildOfKind(KindProvidesDirective).ChildrenOfKind(KindQualifiedName), 2)
	assert.NotNil(t, module.FirstChildOfKind(KindOpensDirective))
	assert.NotNil(t, module.FirstChildOfKind(KindUsesDirective))

	other := ParseCompilationUnit(strings.NewReader(src), WithFile("src/Module.java")).Finish()
	require.NotNil(t, other)
	assert.Nil(t, other.FirstChildOfKind(KindModuleDecl))
	assert.NotEmpty(t, collect(other, KindError))
}

func TestSpans(t *testing.T) {
	root := parseUnit(t, "A.java", "class A { @Deprecated public int x = a + b; }")
	field := collect(root, KindFieldDecl)[0]
	assert.Equal(t, "A.java:1:11", field.Span.Start.String())
	assert.Equal(t, 44, field.Span.End.Column)

	sum := collect(root, KindBinaryExpr)[0]
	assert.Equal(t, 38, sum.Span.Start.Column, "binary expressions start at their left operand")
	assert.Equal(t, 43, sum.Span.End.Column)

	plain := parseUnit(t, "B.java", "class B { int y; }")
	decl := collect(plain, KindFieldDecl)[0]
	mods := decl.Children[0]
	assert.Equal(t, KindModifiers, mods.Kind)
	assert.Equal(t, mods.Span.Start, mods.Span.End, "empty modifiers are zero width")
	assert.Equal(t, 11, decl.Span.Start.Column)
}

func TestErrorRecovery(t *testing.T) {
	root := parseUnit(t, "A.java", "class A { int x = ; }\nclass B { void f() { g(; } }\nclass C {}")
	errs := collect(root, KindError)
	require.NotEmpty(t, errs)
	assert.Equal(t, "expected expression", errs[0].Error.Message)
	assert.Equal(t, ";", errs[0].Error.Got.Literal)
	assert.Len(t, root.ChildrenOfKind(KindClassDecl), 3)
}

func TestIncompleteInput(t *testing.T) {
	for _, src := range []string{"", "class A { void f() {", "class A { int x = "} {
		assert.Nil(t, ParseCompilationUnit(strings.NewReader(src)).Finish(), src)
	}
	assert.Nil(t, ParseExpression(strings.NewReader("a +")).Finish())
}

func TestComments(t *testing.T) {
	src := "// head\nclass A { /** doc */ int x; }"
	p := ParseCompilationUnit(strings.NewReader(src), WithComments())
	root := p.Finish()
	require.NotNil(t, root)
	comments := p.Comments()
	require.Len(t, comments, 2)
	assert.Equal(t, TokenLineComment, comments[0].Kind)
	assert.Equal(t, "/** doc */", comments[1].Literal)

	p = ParseCompilationUnit(strings.NewReader(src))
	require.NotNil(t, p.Finish())
	assert.Empty(t, p.Comments())
	assert.False(t, p.IncludesPositions())
	assert.True(t, ParseCompilationUnit(strings.NewReader(src), WithPositions()).IncludesPositions())
}

func TestTypeAnnotationsOnArrayDimensions(t *testing.T) {
	root := parseUnit(t, "A.java", "class A { String @NonNull [] names; void f(String @A ... args) {} }")
	requireClean(t, root)
	arr := collect(root, KindArrayType)
	require.Len(t, arr, 1)
	assert.Equal(t, KindAnnotation, arr[0].Children[0].Kind)
	assert.Equal(t, KindType, arr[0].Children[1].Kind)
	assert.Equal(t, "...", collect(root, KindParameter)[0].Children[3].TokenLiteral())
}
