package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "com/foo/Bar.java"), "package com.foo; class Bar {}")
	writeFile(t, filepath.Join(dir, "com/foo/Baz.java"), "package com.foo; class Baz {}")
	writeFile(t, filepath.Join(dir, "com/foo/package-info.java"), "package com.foo;")
	writeFile(t, filepath.Join(dir, "com/foo/notes.txt"), "")
	writeFile(t, filepath.Join(dir, ".hidden/X.java"), "class X {}")

	files, err := Collect([]string{dir, filepath.Join(dir, "com/foo/Bar.java")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "com/foo/Bar.java"),
		filepath.Join(dir, "com/foo/Baz.java"),
	}, files)

	_, err = Collect([]string{filepath.Join(dir, "com/foo/notes.txt")})
	require.Error(t, err)
	_, err = Collect([]string{filepath.Join(dir, "missing")})
	require.Error(t, err)
}

func TestRelPath(t *testing.T) {
	assert.Equal(t, "com/foo/Bar.java", RelPath("com.foo", "/tmp/x/Bar.java"))
	assert.Equal(t, "Bar.java", RelPath("", "Bar.java"))
}

func TestSourcePathFind(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(b, "com/foo/Outer.java"), "package com.foo; class Outer {}")

	sp := NewSourcePath([]string{a, b})
	path, rel, ok := sp.Find("com.foo.Outer.Inner")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(b, "com/foo/Outer.java"), path)
	assert.Equal(t, "com/foo/Outer.java", rel)

	_, _, ok = sp.Find("com.foo.Missing")
	assert.False(t, ok)
}

func TestModulesInOrder(t *testing.T) {
	p := &Project{ID: "demo", Modules: []*Module{
		{Name: "app", SrcDir: "src/demo/app", Dependencies: []string{"core", "util"}},
		{Name: "util", SrcDir: "src/demo/util", Dependencies: []string{"core"}},
		{Name: "core", SrcDir: "src/demo/core"},
	}}
	var names []string
	for _, m := range p.ModulesInOrder() {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"core", "util", "app"}, names)
	assert.Equal(t, []string{"src/demo/core", "src/demo/util", "src/demo/app"}, p.SourceRoots())

	cyclic := &Project{ID: "demo", Modules: []*Module{
		{Name: "a", Dependencies: []string{"b"}},
		{Name: "b", Dependencies: []string{"a"}},
	}}
	assert.Equal(t, cyclic.Modules, cyclic.ModulesInOrder())
}

func TestLoadFrom(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src/demo/core/module-info.java"), "module demo.core {\n}\n")
	writeFile(t, filepath.Join(root, "src/demo/core/demo/core/Util.java"), "package demo.core;\npublic class Util {}\n")

	p, err := LoadFrom(root)
	require.NoError(t, err)
	assert.Equal(t, "demo", p.ID)
	require.Len(t, p.Modules, 1)
	assert.Equal(t, "core", p.Modules[0].Name)

	files, err := p.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "src/demo/core/demo/core/Util.java")}, files)

	_, err = LoadFrom(t.TempDir())
	require.Error(t, err)
}
