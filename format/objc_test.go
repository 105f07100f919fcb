package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/j2objc/config"
	"github.com/dhamidi/j2objc/diag"
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/convert"
	"github.com/dhamidi/j2objc/java/types"
	"github.com/dhamidi/j2objc/translate"
)

// translated converts and translates a single source file.
func translated(t *testing.T, opts *config.Options, path, src string) (*ast.Unit, *ObjCEncoder) {
	t.Helper()
	table, err := convert.NewTable()
	require.NoError(t, err)
	f, err := convert.Parse(path, []byte(src))
	require.NoError(t, err)
	diags := diag.NewCollector(false)
	convert.Declare(table, []*convert.File{f}, diags)
	u, err := convert.Convert(table, f, diags)
	require.NoError(t, err)
	ctx := translate.NewContext(opts, table, diags, nil)
	require.NoError(t, translate.NewPipeline(opts).Run(ctx, u), diags.Diagnostics())
	return u, NewObjCEncoder(ctx.Namer, opts)
}

func printBoth(t *testing.T, opts *config.Options, path, src string) (string, string) {
	t.Helper()
	u, enc := translated(t, opts, path, src)
	h, err := enc.MarshalHeader(u)
	require.NoError(t, err)
	m, err := enc.MarshalImplementation(u)
	require.NoError(t, err)
	return string(h), string(m)
}

const counterSrc = `package com.example;

public class Counter {
  private int count;

  public void add(int n) {
    count += n;
  }

  public int get() {
    return count;
  }
}
`

func TestObjCHeaderDeclaresClass(t *testing.T) {
	h, _ := printBoth(t, config.Default(), "Counter.java", counterSrc)

	for _, want := range []string{
		`#include "J2ObjC_header.h"`,
		"@interface ComExampleCounter : NSObject {",
		"  jint count_;",
		"- (instancetype)init;",
		"- (void)addWithInt:(jint)n;",
		"- (jint)get;",
		"J2OBJC_EMPTY_STATIC_INIT(ComExampleCounter)",
		"FOUNDATION_EXPORT void ComExampleCounter_init(ComExampleCounter *self);",
		"FOUNDATION_EXPORT ComExampleCounter *new_ComExampleCounter_init(void) NS_RETURNS_RETAINED;",
		"FOUNDATION_EXPORT ComExampleCounter *create_ComExampleCounter_init(void);",
		"J2OBJC_TYPE_LITERAL_HEADER(ComExampleCounter)",
	} {
		assert.Contains(t, h, want)
	}
	assert.NotContains(t, h, "@implementation")
}

func TestObjCImplementationDefinesMethods(t *testing.T) {
	_, m := printBoth(t, config.Default(), "Counter.java", counterSrc)

	for _, want := range []string{
		`#include "J2ObjC_source.h"`,
		`#include "com/example/Counter.h"`,
		"@implementation ComExampleCounter",
		"- (void)addWithInt:(jint)n {",
		"self->count_ += n;",
		"return self->count_;",
		"void ComExampleCounter_init(ComExampleCounter *self) {",
		"NSObject_init(self);",
		"J2OBJC_NEW_IMPL(ComExampleCounter, init)",
		"J2OBJC_CREATE_IMPL(ComExampleCounter, init)",
		"J2OBJC_CLASS_TYPE_LITERAL_SOURCE(ComExampleCounter)",
	} {
		assert.Contains(t, m, want)
	}
}

func TestObjCEnum(t *testing.T) {
	src := `package com.example;

public enum Color { RED, GREEN }
`
	h, m := printBoth(t, config.Default(), "Color.java", src)

	assert.Contains(t, h, "typedef NS_ENUM(jint, ComExampleColor_Enum) {")
	assert.Contains(t, h, "ComExampleColor_Enum_RED = 0,")
	assert.Contains(t, h, "ComExampleColor_Enum_GREEN = 1,")
	assert.Contains(t, h, "J2OBJC_STATIC_FIELD_OBJ_FINAL(ComExampleColor, RED, ComExampleColor *)")
	assert.Contains(t, h, "J2OBJC_STATIC_INIT(ComExampleColor)")

	assert.Contains(t, m, "ComExampleColor *ComExampleColor_RED;")
	assert.Contains(t, m, "+ (void)initialize {")
	assert.Contains(t, m, "if (self == [ComExampleColor class]) {")
	assert.Contains(t, m, "J2OBJC_SET_INITIALIZED(ComExampleColor)")
}

func TestObjCLabeledJumps(t *testing.T) {
	src := `class Loops {
  int find(int[][] grid) {
    outer:
    for (int i = 0; i < grid.length; i++) {
      for (int j = 0; j < grid[i].length; j++) {
        if (grid[i][j] == 0) continue outer;
        if (grid[i][j] < 0) break outer;
      }
    }
    return -1;
  }
}
`
	_, m := printBoth(t, config.Default(), "Loops.java", src)

	assert.Contains(t, m, "goto continue_outer;")
	assert.Contains(t, m, "continue_outer: ;")
	assert.Contains(t, m, "goto break_outer;")
	assert.Contains(t, m, "break_outer: ;")
}

func TestObjCStringSwitch(t *testing.T) {
	src := `class Switches {
  int code(String s) {
    switch (s) {
      case "a": return 1;
      case "b": return 2;
      default: return 0;
    }
  }
}
`
	_, m := printBoth(t, config.Default(), "Switches.java", src)

	assert.Contains(t, m, `(id[]){ @"a", @"b" }, 2)) {`)
	assert.Contains(t, m, "case 0:")
	assert.Contains(t, m, "case 1:")
	assert.Contains(t, m, "default:")
}

func TestObjCDeallocOnlyUnderReferenceCounting(t *testing.T) {
	src := `class Holder {
  Object value;
}
`
	_, rc := printBoth(t, config.Default(), "Holder.java", src)
	assert.Contains(t, rc, "- (void)dealloc {")
	assert.Contains(t, rc, "[super dealloc];")

	arc := config.Default()
	arc.Memory = config.MemoryARC
	_, m := printBoth(t, arc, "Holder.java", src)
	assert.NotContains(t, m, "[super dealloc];")
}

func TestCLiteral(t *testing.T) {
	table, err := convert.NewTable()
	require.NoError(t, err)
	str := table.StringType()
	prim := table.Primitive

	tests := []struct {
		value string
		typ   types.TypeID
		want  string
	}{
		{`"a\"b\n"`, str, `@"a\"b\n"`},
		{`"café"`, str, `@"café"`},
		{`'a'`, prim(types.Char), `'a'`},
		{`'\n'`, prim(types.Char), `0x000a`},
		{`'\''`, prim(types.Char), `0x0027`},
		{`10L`, prim(types.Long), `10LL`},
		{`1_000`, prim(types.Int), `1000`},
		{`1f`, prim(types.Float), `1.0f`},
		{`2.5F`, prim(types.Float), `2.5f`},
		{`3d`, prim(types.Double), `3.0`},
		{`1e3`, prim(types.Double), `1e3`},
		{`true`, prim(types.Boolean), `true`},
		{`null`, table.Null(), `nil`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cLiteral(table, tt.value, tt.typ), tt.value)
	}
}

func TestOutputPaths(t *testing.T) {
	u := ast.NewUnit("src/com/example/Counter.java", nil, nil)
	u.Name = "Counter"
	u.Package = "com.example"
	assert.Equal(t, "com/example/Counter.h", HeaderPath(u))
	assert.Equal(t, "com/example/Counter.m", ImplementationPath(u))
}
