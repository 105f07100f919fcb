package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/j2objc/java/types"
)

type fixture struct {
	u             *Unit
	block, s1, s2 NodeID
	one, two      NodeID
	intType       types.TypeID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	table := types.NewTable()
	f := &fixture{u: NewUnit("A.java", nil, table), intType: table.Primitive(types.Int)}
	u := f.u
	f.one = u.NewLiteral(Pos{Line: 1}, "1", f.intType)
	f.two = u.NewLiteral(Pos{Line: 2}, "2", f.intType)
	f.s1 = u.NewExprStmt(f.one)
	f.s2 = u.NewExprStmt(f.two)
	f.block = u.NewBlock(Pos{Line: 1}, f.s1, f.s2)
	u.Append(u.Root, f.block)
	require.NoError(t, Validate(u))
	return f
}

func TestInsertAndDetach(t *testing.T) {
	f := newFixture(t)
	u := f.u
	three := u.NewExprStmt(u.NewLiteral(Pos{Line: 3}, "3", f.intType))

	u.InsertBefore(f.s2, three)
	assert.Equal(t, []NodeID{f.s1, three, f.s2}, u.Kids(f.block))
	assert.Equal(t, f.block, u.Parent(three))

	u.Detach(three)
	assert.Equal(t, []NodeID{f.s1, f.s2}, u.Kids(f.block))
	assert.Equal(t, NoNode, u.Parent(three))
	assert.Equal(t, -1, u.IndexOf(f.block, three))
	require.NoError(t, Validate(u))
}

func TestReplaceAndWrap(t *testing.T) {
	f := newFixture(t)
	u := f.u
	four := u.NewLiteral(Pos{Line: 2}, "4", f.intType)

	u.Replace(f.two, four)
	assert.Equal(t, four, u.Kid(f.s2, 0))
	assert.Equal(t, NoNode, u.Parent(f.two))

	cast := u.Wrap(four, KindCast, f.intType)
	assert.Equal(t, cast, u.Kid(f.s2, 0))
	assert.Equal(t, []NodeID{four}, u.Kids(cast))
	require.NoError(t, Validate(u))
}

func TestStatementOfAndEnclosing(t *testing.T) {
	f := newFixture(t)
	u := f.u
	assert.Equal(t, f.s1, u.StatementOf(f.one))
	assert.Equal(t, f.block, u.Enclosing(f.one, KindBlock))
	assert.Equal(t, NoNode, u.EnclosingType(f.one))
	assert.Len(t, u.Collect(u.Root, KindLiteral), 2)
}

func TestCloneIsDetachedDeepCopy(t *testing.T) {
	f := newFixture(t)
	u := f.u
	c := u.Clone(f.block)

	assert.NotEqual(t, f.block, c)
	assert.Equal(t, NoNode, u.Parent(c))
	kids := u.Kids(c)
	require.Len(t, kids, 2)
	assert.NotEqual(t, f.s1, kids[0])
	assert.Equal(t, c, u.Parent(kids[0]))
	assert.Equal(t, "1", u.Node(u.Kid(kids[0], 0)).Value)

	u.Append(u.Root, c)
	require.NoError(t, Validate(u))
}

func TestAttachingTwicePanics(t *testing.T) {
	f := newFixture(t)
	assert.Panics(t, func() { f.u.Append(f.block, f.s1) })
	assert.Panics(t, func() { f.u.Node(NodeID(f.u.Size() + 1)) })
}

func TestValidateReportsProblems(t *testing.T) {
	f := newFixture(t)
	u := f.u
	untyped := u.New(KindLiteral, Pos{Line: 9, Column: 4})
	u.Append(f.block, u.NewExprStmt(untyped))
	u.Node(f.s1).Parent = f.s2

	err := Validate(u)
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "A.java", ve.Path)
	assert.Contains(t, err.Error(), "has no type")
	assert.Contains(t, err.Error(), "whose parent is")
}
