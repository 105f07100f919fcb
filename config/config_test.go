package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	opts, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, MemoryRC, opts.Memory)
	assert.False(t, opts.ARC())
	assert.True(t, opts.SourceAtLeast("8"))
	assert.False(t, opts.SourceAtLeast("9"))
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "j2objc.yaml", `
memory: arc
source_level: "11"
jobs: 4
functionize: true
prefixes:
  com.example: EX
  org.acme.*: AC
`)
	opts, err := Load(path)
	require.NoError(t, err)
	assert.True(t, opts.ARC())
	assert.Equal(t, 4, opts.Jobs)
	assert.True(t, opts.Functionize)
	assert.True(t, opts.StripGwtIncompatible, "defaults survive")
	assert.True(t, opts.SourceAtLeast("9"))

	assert.Equal(t, "EX", opts.Prefix("com.example"))
	assert.Equal(t, "", opts.Prefix("com.example.sub"))
	assert.Equal(t, "AC", opts.Prefix("org.acme"))
	assert.Equal(t, "AC", opts.Prefix("org.acme.util"))
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"memory", "memory: gc\n"},
		{"jobs", "jobs: 0\n"},
		{"source level", "source_level: banana\n"},
		{"old source level", "source_level: \"1.4\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "bad.yaml", tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParseSourceLevel(t *testing.T) {
	for level, major := range map[string]uint64{"1.8": 8, "8": 8, "11": 11, "17.0": 17, "1.7": 7} {
		v, err := ParseSourceLevel(level)
		require.NoError(t, err, level)
		assert.Equal(t, major, v.Major(), level)
	}
}

func TestParsePrefix(t *testing.T) {
	pkg, prefix, err := ParsePrefix("com.foo=CF")
	require.NoError(t, err)
	assert.Equal(t, "com.foo", pkg)
	assert.Equal(t, "CF", prefix)

	_, _, err = ParsePrefix("com.foo")
	assert.Error(t, err)
}

func TestFilters(t *testing.T) {
	f := NewFilters(&Options{
		PureObjCClasses:  []string{"com.example.Native"},
		NoImportPackages: []string{"com.example.internal"},
	})
	assert.True(t, f.IsPureObjC("com.example.Native"))
	assert.False(t, f.IsPureObjC("com.example.Other"))
	assert.True(t, f.IsNoImport("com.example.internal.Impl"))
	assert.True(t, f.IsNoImport("com.example.internal.deep.Impl"))
	assert.False(t, f.IsNoImport("com.example.Impl"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.RegisterPureObjCPackage("org.objc")
			_ = f.IsPureObjC("org.objc.Thing")
		}()
	}
	wg.Wait()
	assert.True(t, f.IsPureObjC("org.objc.Thing"))
}

func TestLoadMappings(t *testing.T) {
	path := writeFile(t, "mappings.yaml", `
methods:
  "java.lang.Object.hashCode()I": customHash
  "com.example.Foo.bar(I)V": "barWithInt:"
classes:
  com.example.Foo: EXFoo
`)
	m, err := LoadMappings(path)
	require.NoError(t, err)

	sel, ok := m.Method("java.lang.Object.hashCode()I")
	require.True(t, ok)
	assert.Equal(t, "customHash", sel)
	sel, ok = m.Method("java.lang.Object.equals(Ljava/lang/Object;)Z")
	require.True(t, ok)
	assert.Equal(t, "isEqual:", sel)
	cls, ok := m.Class("com.example.Foo")
	require.True(t, ok)
	assert.Equal(t, "EXFoo", cls)

	fresh := BuiltinMappings()
	sel, _ = fresh.Method("java.lang.Object.hashCode()I")
	assert.Equal(t, "hash", sel, "loading does not mutate the built-ins")
}
