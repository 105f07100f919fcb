package naming_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/j2objc/config"
	"github.com/dhamidi/j2objc/diag"
	"github.com/dhamidi/j2objc/java/convert"
	"github.com/dhamidi/j2objc/java/types"
	"github.com/dhamidi/j2objc/naming"
)

const barSrc = `package com.foo;

public class Bar {
  private int count;
  static int total;

  public int add(int a, String b) { return a; }
  public void retain() {}

  public class Inner {
    public Inner() {}
  }
}
`

func declared(t *testing.T, opts *config.Options) (*types.Table, *naming.Namer) {
	t.Helper()
	table, err := convert.NewTable()
	require.NoError(t, err)
	f, err := convert.Parse("com/foo/Bar.java", []byte(barSrc))
	require.NoError(t, err)
	diags := diag.NewCollector(false)
	convert.Declare(table, []*convert.File{f}, diags)
	require.Zero(t, diags.ErrorCount(), diags.Diagnostics())
	return table, naming.New(table, opts, nil, nil)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "Foo", naming.Capitalize("foo"))
	assert.Equal(t, "", naming.Capitalize(""))
	assert.Equal(t, "JavaUtilLogging", naming.CamelCaseQualifiedName("java.util.logging"))
	assert.True(t, naming.IsReserved("id"))
	assert.True(t, naming.IsReserved("inout"))
	assert.False(t, naming.IsReserved("count"))
	assert.True(t, naming.IsReservedMethod("retain"))
	assert.Equal(t, []string{"addWithInt:", "withNSString:"}, naming.SelectorParts("addWithInt:withNSString:"))
	assert.Equal(t, []string{"get"}, naming.SelectorParts("get"))
}

func TestTypeNames(t *testing.T) {
	table, namer := declared(t, nil)
	bar := table.MustLookup("com.foo.Bar")
	inner := table.MustLookup("com.foo.Bar.Inner")

	assert.Equal(t, "ComFooBar", namer.FullName(bar))
	assert.Equal(t, "ComFooBar_Inner", namer.FullName(inner))
	assert.Equal(t, "NSString", namer.FullName(table.StringType()))

	assert.Equal(t, "ComFooBar *", namer.ObjCType(bar))
	assert.Equal(t, "NSString *", namer.ObjCType(table.StringType()))
	assert.Equal(t, "id", namer.ObjCType(table.ObjectType()))
	assert.Equal(t, "jint", namer.ObjCType(table.Primitive(types.Int)))
	assert.Equal(t, "IOSIntArray *", namer.ObjCType(table.ArrayOf(table.Primitive(types.Int))))
	assert.Equal(t, "void", namer.ObjCType(table.Void()))

	assert.Equal(t, "com/foo/Bar.h", namer.IncludePath(bar))
	assert.Equal(t, "com/foo/Bar.h", namer.IncludePath(inner))

	assert.Equal(t, "[IOSClass intClass]", namer.ClassExpr(table.Primitive(types.Int)))
	assert.Equal(t, "IOSClass_arrayType(ComFooBar_class_(), 2)", namer.ClassExpr(table.ArrayOf(table.ArrayOf(bar))))
}

func TestPackagePrefix(t *testing.T) {
	opts := config.Default()
	opts.Prefixes = map[string]string{"com.foo": "CF"}
	table, namer := declared(t, opts)

	assert.Equal(t, "CFBar", namer.FullName(table.MustLookup("com.foo.Bar")))
	assert.Equal(t, "CF", namer.PackagePrefix("com.foo"))
	assert.Equal(t, "ComBar", namer.PackagePrefix("com.bar"))
}

func TestMethodNames(t *testing.T) {
	table, namer := declared(t, nil)
	bar := table.MustLookup("com.foo.Bar")
	inner := table.MustLookup("com.foo.Bar.Inner")

	add := table.FindMethods(bar, "add")
	require.Len(t, add, 1)
	assert.Equal(t, "addWithInt:withNSString:", namer.Selector(add[0]))
	assert.Equal(t, "ComFooBar_addWithInt_withNSString_", namer.FunctionName(add[0]))

	retain := table.FindMethods(bar, "retain")
	require.Len(t, retain, 1)
	assert.Equal(t, "retain__", namer.Selector(retain[0]))

	ctors := table.Constructors(inner)
	require.Len(t, ctors, 1)
	assert.Equal(t, "initWithComFooBar:", namer.Selector(ctors[0]))
	assert.Equal(t, "new_ComFooBar_Inner_initWithComFooBar_", namer.AllocatingConstructorName(ctors[0]))

	equals := table.FindMethods(table.ObjectType(), "equals")
	require.NotEmpty(t, equals)
	assert.Equal(t, "isEqual:", namer.Selector(equals[0]))
}

func TestVariableNames(t *testing.T) {
	table, namer := declared(t, nil)
	bar := table.MustLookup("com.foo.Bar")

	count := table.FindField(bar, "count")
	require.NotEqual(t, types.NoVar, count)
	assert.Equal(t, "count_", namer.IvarName(count))
	assert.Equal(t, "count", namer.VarName(count))

	total := table.FindField(bar, "total")
	require.NotEqual(t, types.NoVar, total)
	assert.Equal(t, "ComFooBar_total", namer.StaticVarName(total))
}
