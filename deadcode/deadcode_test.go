package deadcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fooSrc = `package com.example;

import static com.example.Util.helper;

public class Foo {
    private int unused;
    private int used = 1;
    static final int CONSTANT = 42;

    public Foo() {
    }

    public void live() {
        used++;
    }

    public void dead(int x, String s) {
        System.out.println(s);
    }

    @Override
    public String toString() {
        return "Foo";
    }
}
`

const fooReport = `com.example.Foo:
    private int unused
    static final int CONSTANT
    12:14:public void dead(int,java.lang.String)
    public java.lang.String toString()
com.example.Util:
    public static void helper()
com.example.Gone
`

func TestParseReport(t *testing.T) {
	m, err := ParseReport(strings.NewReader(fooReport))
	require.NoError(t, err)

	assert.True(t, m.IsDeadClass("com.example.Gone"))
	assert.False(t, m.IsDeadClass("com.example.Foo"))
	assert.True(t, m.IsDeadField("com.example.Foo", "unused"))
	assert.False(t, m.IsDeadField("com.example.Foo", "used"))
	assert.True(t, m.IsDeadMethod("com.example.Foo", "dead", "(ILjava/lang/String;)V"))
	assert.False(t, m.IsDeadMethod("com.example.Foo", "dead", "(I)V"))
	assert.True(t, m.HasDeadMethodNamed("com.example.Util", "helper"))
	assert.True(t, m.IsDeadMethod("com.example.Gone", "anything", "()V"), "members of dead classes are dead")
}

func TestParseReportConstructorsAndNestedClasses(t *testing.T) {
	m, err := ParseReport(strings.NewReader("com.example.Outer$Inner:\n    public Outer$Inner(int)\n"))
	require.NoError(t, err)
	assert.True(t, m.IsDeadMethod("com.example.Outer$Inner", CtorName, "(I)V"))
	assert.True(t, m.IsDeadMethod("com.example.Outer.Inner", CtorName, "(I)V"))
}

func TestParseReportErrors(t *testing.T) {
	_, err := ParseReport(strings.NewReader("    int orphan\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")

	_, err = ParseReport(strings.NewReader("com.example.A:\n    void broken(int\n"))
	require.Error(t, err)
}

func TestDescriptor(t *testing.T) {
	assert.Equal(t, "(I[Ljava/lang/String;Ljava/util/Map$Entry;)V",
		Descriptor([]string{"int", "java.lang.String[]", "java.util.Map$Entry"}, "void"))
	assert.Equal(t, "()[[J", Descriptor(nil, "long[][]"))
	assert.Equal(t, "[Ljava/lang/Object;", TypeDescriptor("java.lang.Object..."))
}

func lineOf(src, substr string) int {
	for i, l := range strings.Split(src, "\n") {
		if strings.Contains(l, substr) {
			return i
		}
	}
	return -1
}

func TestEliminate(t *testing.T) {
	m, err := ParseReport(strings.NewReader(fooReport))
	require.NoError(t, err)

	res, err := Eliminate("com/example/Foo.java", []byte(fooSrc), m)
	require.NoError(t, err)
	require.True(t, res.Changed())
	out := string(res.Source)

	assert.Equal(t, strings.Count(fooSrc, "\n"), strings.Count(out, "\n"))
	assert.Equal(t, lineOf(fooSrc, "public void live()"), lineOf(out, "public void live()"))
	assert.Equal(t, lineOf(fooSrc, "public String toString()"), lineOf(out, "public String toString()"))

	assert.NotContains(t, out, "unused")
	assert.NotContains(t, out, "dead(int")
	assert.NotContains(t, out, "import static")
	assert.Contains(t, out, "private int used = 1;")
	assert.Contains(t, out, "static final int CONSTANT = 42;")
	assert.Contains(t, out, `throw new AssertionError("Cannot invoke dead method");`)
	assert.NotContains(t, out, `return "Foo";`)

	assert.Contains(t, res.Removed, "method com.example.Foo.dead(ILjava/lang/String;)V")
	assert.Contains(t, res.Removed, "field com.example.Foo.unused")
	assert.Contains(t, res.Removed, "import static com.example.Util.helper")
}

func TestEliminateNothingDead(t *testing.T) {
	m, err := ParseReport(strings.NewReader("com.example.Other:\n    void x()\n"))
	require.NoError(t, err)
	res, err := Eliminate("com/example/Foo.java", []byte(fooSrc), m)
	require.NoError(t, err)
	assert.False(t, res.Changed())
	assert.Equal(t, fooSrc, string(res.Source))
}

func TestEliminateDeadEnum(t *testing.T) {
	src := "package com.example;\n\nenum Color {\n    RED,\n    GREEN\n}\n"
	m, err := ParseReport(strings.NewReader("com.example.Color\n"))
	require.NoError(t, err)

	res, err := Eliminate("com/example/Color.java", []byte(src), m)
	require.NoError(t, err)
	out := string(res.Source)
	assert.NotContains(t, out, "RED")
	assert.NotContains(t, out, "GREEN")
	assert.Equal(t, strings.Count(src, "\n"), strings.Count(out, "\n"))
	assert.Contains(t, res.Removed, "enum constants com.example.Color")
}

func TestEliminateInitializesOrphanedFinalFields(t *testing.T) {
	src := `package com.example;

class Box {
    private final int size;
    private final String name;

    Box(int size, String name) {
        this.size = size;
        this.name = name;
    }
}
`
	m, err := ParseReport(strings.NewReader("com.example.Box:\n    Box(int,java.lang.String)\n"))
	require.NoError(t, err)

	res, err := Eliminate("com/example/Box.java", []byte(src), m)
	require.NoError(t, err)
	out := string(res.Source)
	assert.NotContains(t, out, "this.size")
	assert.Contains(t, out, "private final int size = 0;")
	assert.Contains(t, out, "private final String name = null;")
}

func TestDiff(t *testing.T) {
	m, err := ParseReport(strings.NewReader(fooReport))
	require.NoError(t, err)
	res, err := Eliminate("com/example/Foo.java", []byte(fooSrc), m)
	require.NoError(t, err)

	d, err := Diff("com/example/Foo.java", []byte(fooSrc), res.Source)
	require.NoError(t, err)
	text := string(d)
	assert.Contains(t, text, "--- a/com/example/Foo.java")
	assert.Contains(t, text, "+++ b/com/example/Foo.java")
	assert.Contains(t, text, "-    public void dead(int x, String s) {")
	assert.Contains(t, text, "@@ -")

	same, err := Diff("x.java", []byte(fooSrc), []byte(fooSrc))
	require.NoError(t, err)
	assert.Empty(t, same)

	_, err = Diff("x.java", []byte("a\nb\n"), []byte("a\n"))
	require.Error(t, err)
}

func TestDiffMarksMissingNewline(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		want     string
	}{
		{
			name: "both sides",
			old:  "a\nb\nc",
			new:  "a\nb\nC",
			want: "@@ -1,3 +1,3 @@\n a\n b\n-c\n\\ No newline at end of file\n+C\n\\ No newline at end of file\n",
		},
		{
			name: "newline added",
			old:  "a\nb",
			new:  "a\nb\n",
			want: "@@ -1,2 +1,2 @@\n a\n-b\n\\ No newline at end of file\n+b\n",
		},
		{
			name: "unchanged last line",
			old:  "a\nb\nc",
			new:  "A\nb\nc",
			want: "@@ -1,3 +1,3 @@\n-a\n+A\n b\n c\n\\ No newline at end of file\n",
		},
		{
			name: "terminated",
			old:  "a\nb\n",
			new:  "a\nB\n",
			want: "@@ -1,2 +1,2 @@\n a\n-b\n+B\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Diff("x.java", []byte(tt.old), []byte(tt.new))
			require.NoError(t, err)
			assert.Equal(t, "--- a/x.java\n+++ b/x.java\n"+tt.want, string(d))
		})
	}
}

func TestSpliceAppliesEditsInOrder(t *testing.T) {
	src := []byte("abcdef")
	out, err := splice("x.java", src, []edit{{1, 3, "X"}, {4, 4, "+"}, {0, 0, "<"}})
	require.NoError(t, err)
	assert.Equal(t, "<aXd+ef", string(out))

	out, err = splice("x.java", src, []edit{{2, 4, ""}, {2, 2, "I"}})
	require.NoError(t, err)
	assert.Equal(t, "abIef", string(out))
}

func TestSpliceRejectsOverlappingEdits(t *testing.T) {
	_, err := splice("x.java", []byte("abcdef"), []edit{{2, 5, "Y"}, {1, 4, ""}})
	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "x.java", malformed.Path)
	assert.Equal(t, []string{"edit of [2,5) overlaps edit of [1,4)"}, malformed.Problems)
}
