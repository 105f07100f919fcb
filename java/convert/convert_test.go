package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/j2objc/diag"
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
)

func convertSource(t *testing.T, path, src string) (*ast.Unit, *diag.Collector) {
	t.Helper()
	table, err := NewTable()
	require.NoError(t, err)
	f, err := Parse(path, []byte(src))
	require.NoError(t, err)
	diags := diag.NewCollector(false)
	Declare(table, []*File{f}, diags)
	u, err := Convert(table, f, diags)
	require.NoError(t, err)
	return u, diags
}

// find returns the first node of kind whose Name is name.
func find(u *ast.Unit, kind ast.Kind, name string) ast.NodeID {
	for _, id := range u.Collect(u.Root, kind) {
		if u.Node(id).Name == name {
			return id
		}
	}
	return ast.NoNode
}

func TestNewTableDeclaresCoreTypes(t *testing.T) {
	table, err := NewTable()
	require.NoError(t, err)

	for _, name := range []string{"java.lang.Object", "java.lang.String", "java.util.ArrayList", "java.util.Map.Entry"} {
		_, ok := table.Lookup(name)
		assert.True(t, ok, name)
	}
	str := table.StringType()
	assert.NotEmpty(t, table.FindMethods(str, "length"))
	assert.Equal(t, table.ObjectType(), table.Type(str).Super)
}

func TestConvertSimpleClass(t *testing.T) {
	u, diags := convertSource(t, "p/Foo.java", `package p;

/** A counter. */
public class Foo {
  private int count;

  public String describe(String prefix) {
    count++;
    return prefix + count;
  }
}
`)
	require.Zero(t, diags.ErrorCount(), diags.Diagnostics())
	require.NoError(t, ast.Validate(u))

	assert.Equal(t, "Foo", u.Name)
	assert.Equal(t, "p", u.Package)
	decls := u.TypeDecls()
	require.Len(t, decls, 1)
	assert.Contains(t, u.Node(decls[0]).Doc, "A counter.")

	ret := u.Collect(u.Root, ast.KindReturn)
	require.Len(t, ret, 1)
	plus := u.Kid(ret[0], 0)
	assert.Equal(t, ast.KindInfix, u.Kind(plus))
	assert.Equal(t, u.Table.StringType(), u.Node(plus).Type)

	name := find(u, ast.KindName, "count")
	require.NotEqual(t, ast.NoNode, name)
	assert.NotZero(t, u.Node(name).Flags&ast.FlagImplicitThis)
}

func TestConvertReportsUnresolvedNames(t *testing.T) {
	_, diags := convertSource(t, "Bad.java", `class Bad {
  void f() {
    int x = missing + 1;
  }
}
`)
	require.Equal(t, 1, diags.ErrorCount())
	assert.Contains(t, diags.Diagnostics()[0].Message, "cannot find symbol: variable missing")
}

func TestConvertSyntaxError(t *testing.T) {
	table, err := NewTable()
	require.NoError(t, err)
	f, err := Parse("Broken.java", []byte("class Broken { void f( }"))
	require.NoError(t, err)
	diags := diag.NewCollector(false)
	_, err = Convert(table, f, diags)
	assert.ErrorIs(t, err, ErrSyntax)
	assert.NotZero(t, diags.ErrorCount())
}

func TestOverloadSelection(t *testing.T) {
	u, diags := convertSource(t, "O.java", `class O {
  void f(int a) {}
  void f(long a) {}
  void g(long a) {}
  void g(Integer a) {}
  void h(String... parts) {}
  void test() {
    f(1);
    f(1L);
    g(1);
    h("a", "b");
  }
}
`)
	require.Zero(t, diags.ErrorCount(), diags.Diagnostics())
	calls := u.Collect(u.Root, ast.KindInvocation)
	require.Len(t, calls, 4)
	param := func(call ast.NodeID) types.TypeID {
		return u.Table.Method(u.Node(call).Method).Params[0]
	}
	prim := u.Table.Primitive
	assert.Equal(t, prim(types.Int), param(calls[0]))
	assert.Equal(t, prim(types.Long), param(calls[1]))
	assert.Equal(t, prim(types.Long), param(calls[2]), "widening wins over boxing")
	assert.True(t, u.Table.Method(u.Node(calls[3]).Method).IsVarargs())
}

func TestGenericMemberTypes(t *testing.T) {
	u, diags := convertSource(t, "G.java", `import java.util.*;

class G {
  String first(List<String> names) {
    return names.get(0);
  }
  Map<String, Integer> make() {
    return new HashMap<>();
  }
}
`)
	require.Zero(t, diags.ErrorCount(), diags.Diagnostics())
	get := find(u, ast.KindInvocation, "get")
	require.NotEqual(t, ast.NoNode, get)
	assert.Equal(t, u.Table.StringType(), u.Node(get).Type)

	news := u.Collect(u.Root, ast.KindNew)
	require.Len(t, news, 1)
	typ := u.Table.Type(u.Node(news[0]).Type)
	assert.Equal(t, types.KindParameterized, typ.Kind)
	assert.Equal(t, "java.util.HashMap<java.lang.String,java.lang.Integer>", typ.Name)
}

func TestInstanceCreationTypeArguments(t *testing.T) {
	u, diags := convertSource(t, "G.java", `import java.util.*;

class G {
  Map<String, Integer> sized() {
    return new HashMap<>(16);
  }
  List<String> explicit() {
    return new ArrayList<String>(4);
  }
  List raw() {
    return new ArrayList(4);
  }
}
`)
	require.Zero(t, diags.ErrorCount(), diags.Diagnostics())
	news := u.Collect(u.Root, ast.KindNew)
	require.Len(t, news, 3)

	names := make([]string, len(news))
	for i, id := range news {
		names[i] = u.Table.Type(u.Node(id).Type).Name
		assert.Len(t, u.Node(id).Kids, 3, "constructor argument kept")
	}
	assert.Equal(t, []string{
		"java.util.HashMap<java.lang.String,java.lang.Integer>",
		"java.util.ArrayList<java.lang.String>",
		"java.util.ArrayList",
	}, names)
}

func TestAnonymousAndLocalClasses(t *testing.T) {
	u, diags := convertSource(t, "A.java", `class A {
  Runnable make() {
    class Helper {}
    return new Runnable() {
      public void run() {}
    };
  }
}
`)
	require.Zero(t, diags.ErrorCount(), diags.Diagnostics())
	table := u.Table

	anon, ok := table.Lookup("A$1")
	require.True(t, ok)
	typ := table.Type(anon)
	assert.True(t, typ.Anonymous)
	assert.Equal(t, table.ObjectType(), typ.Super)
	runnable := table.MustLookup("java.lang.Runnable")
	assert.Equal(t, []types.TypeID{runnable}, typ.Interfaces)

	local, ok := table.Lookup("A$1Helper")
	require.True(t, ok)
	assert.True(t, table.Type(local).Local)
	assert.Len(t, u.Collect(u.Root, ast.KindLocalTypeDecl), 1)
}

func TestEnumSwitchLabels(t *testing.T) {
	u, diags := convertSource(t, "E.java", `enum Color { RED, GREEN }

class E {
  int code(Color c) {
    switch (c) {
      case RED: return 1;
      default: return 0;
    }
  }
}
`)
	require.Zero(t, diags.ErrorCount(), diags.Diagnostics())
	cases := u.Collect(u.Root, ast.KindSwitchCase)
	require.Len(t, cases, 2)
	label := u.Kid(cases[0], 0)
	assert.Equal(t, "RED", u.Node(label).Name)
	assert.Empty(t, u.Kids(cases[1]))

	color := u.Table.MustLookup("Color")
	assert.NotEmpty(t, u.Table.FindMethods(color, "values"))
	assert.NotEmpty(t, u.Table.FindMethods(color, "valueOf"))
}

func TestTextBlockLiteral(t *testing.T) {
	block := "\"\"\"\n    Hello,\n      \"World\"\n    \"\"\""
	assert.Equal(t, `"Hello,\n  \"World\"\n"`, TextBlockLiteral(block))
}
