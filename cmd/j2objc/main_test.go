package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/j2objc/config"
)

func parseOptions(t *testing.T, args ...string) (*config.Options, error) {
	t.Helper()
	var f optionFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return f.options(cmd)
}

func TestOptionFlagsOverlay(t *testing.T) {
	out := t.TempDir()
	opts, err := parseOptions(t,
		"-d", out, "--memory", "arc", "-j", "4", "--Werror",
		"--prefix", "com.foo=CF", "--prefix", "com.bar.*=CB",
		"--sourcepath", "lib,vendor", "--keep-gwt-incompatible")
	require.NoError(t, err)

	assert.Equal(t, out, opts.OutputDir)
	assert.True(t, opts.ARC())
	assert.Equal(t, 4, opts.Jobs)
	assert.True(t, opts.TreatWarningsAsErrors)
	assert.False(t, opts.StripGwtIncompatible)
	assert.Equal(t, []string{"lib", "vendor"}, opts.SourcePath)
	assert.Equal(t, "CF", opts.Prefix("com.foo"))
	assert.Equal(t, "CB", opts.Prefix("com.bar.baz"))
}

func TestOptionFlagsConfigFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "j2objc.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("memory: arc\njobs: 3\n"), 0o644))

	opts, err := parseOptions(t, "--config", cfg, "-j", "5")
	require.NoError(t, err)
	assert.True(t, opts.ARC())
	assert.Equal(t, 5, opts.Jobs)
}

func TestOptionFlagsRejectInvalid(t *testing.T) {
	_, err := parseOptions(t, "--memory", "gc")
	require.Error(t, err)
	_, err = parseOptions(t, "--prefix", "nopackage")
	require.Error(t, err)
	_, err = parseOptions(t, "-j", "0")
	require.Error(t, err)
}

func TestDeadCodeCommandDiff(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Foo.java")
	require.NoError(t, os.WriteFile(src, []byte("package com.example;\n\npublic class Foo {\n    public void dead() {\n    }\n\n    public void live() {\n    }\n}\n"), 0o644))
	report := filepath.Join(dir, "usage.txt")
	require.NoError(t, os.WriteFile(report, []byte("com.example.Foo:\n    public void dead()\n"), 0o644))

	var out bytes.Buffer
	cmd := newDeadCodeCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--report", report, src})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, src+": method com.example.Foo.dead()V\n", out.String())

	out.Reset()
	cmd = newDeadCodeCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--report", report, "--diff", src})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "--- a/"+src)
	assert.Contains(t, out.String(), "-    public void dead() {")

	original, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Contains(t, string(original), "dead()", "sources are left untouched")
}
