package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/j2objc/java/convert"
	"github.com/dhamidi/j2objc/java/types"
)

func coreTable(t *testing.T) *types.Table {
	t.Helper()
	table, err := convert.NewTable()
	require.NoError(t, err)
	return table
}

func TestBoxing(t *testing.T) {
	table := coreTable(t)
	intType := table.Primitive(types.Int)
	integer := table.MustLookup("java.lang.Integer")

	box, ok := table.Box(intType)
	require.True(t, ok)
	assert.Equal(t, integer, box)

	prim, ok := table.Unbox(integer)
	require.True(t, ok)
	assert.Equal(t, intType, prim)

	_, ok = table.Unbox(table.StringType())
	assert.False(t, ok)
	assert.True(t, table.IsNumeric(integer))
	assert.False(t, table.IsNumeric(table.StringType()))
}

func TestPromotion(t *testing.T) {
	table := coreTable(t)
	p := table.Primitive

	assert.Equal(t, p(types.Int), table.BinaryPromote(p(types.Byte), p(types.Short)))
	assert.Equal(t, p(types.Long), table.BinaryPromote(p(types.Int), p(types.Long)))
	assert.Equal(t, p(types.Double), table.BinaryPromote(table.MustLookup("java.lang.Integer"), p(types.Double)))
	assert.Equal(t, p(types.Int), table.UnaryPromote(p(types.Char)))
	assert.Equal(t, table.StringType(), table.UnaryPromote(table.StringType()))
}

func TestSubtyping(t *testing.T) {
	table := coreTable(t)
	object := table.ObjectType()
	str := table.StringType()
	charSeq := table.MustLookup("java.lang.CharSequence")
	integer := table.MustLookup("java.lang.Integer")

	assert.True(t, table.IsSubtype(str, charSeq))
	assert.True(t, table.IsSubtype(str, object))
	assert.False(t, table.IsSubtype(charSeq, str))
	assert.True(t, table.IsSubtype(table.Null(), str))
	assert.True(t, table.IsSubtype(table.ArrayOf(str), table.ArrayOf(object)))
	assert.False(t, table.IsSubtype(table.ArrayOf(table.Primitive(types.Int)), table.ArrayOf(table.Primitive(types.Long))))

	assert.True(t, table.IsAssignable(table.Primitive(types.Int), table.Primitive(types.Long)))
	assert.False(t, table.IsAssignable(table.Primitive(types.Long), table.Primitive(types.Int)))
	assert.True(t, table.IsAssignable(table.Primitive(types.Int), integer))
	assert.True(t, table.IsAssignable(integer, table.Primitive(types.Long)))
	assert.False(t, table.IsStrictlyAssignable(table.Primitive(types.Int), integer))
}

func TestNames(t *testing.T) {
	table := coreTable(t)
	entry := table.MustLookup("java.util.Map.Entry")

	assert.Equal(t, "java.util.Map$Entry", table.BinaryName(entry))
	assert.Equal(t, "Ljava/util/Map$Entry;", table.Descriptor(entry))
	assert.Equal(t, "[I", table.Descriptor(table.ArrayOf(table.Primitive(types.Int))))
	assert.Equal(t, "java.lang.String[]", table.Describe(table.ArrayOf(table.StringType())))

	integer := table.MustLookup("java.lang.Integer")
	var descs []string
	for _, m := range table.FindMethods(integer, "parseInt") {
		descs = append(descs, table.MethodDescriptor(m))
	}
	assert.ElementsMatch(t, []string{"(Ljava/lang/String;)I", "(Ljava/lang/String;I)I"}, descs)
}

func TestArrayOfInterns(t *testing.T) {
	table := coreTable(t)
	a := table.ArrayOf(table.StringType())
	assert.Equal(t, a, table.ArrayOf(table.StringType()))
	assert.NotEqual(t, a, table.ArrayOf(a))
}
