package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/j2objc/config"
)

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

const holderSrc = `package com.example;

public class Holder {
  private Counter counter;

  public Counter counter() {
    return counter;
  }
}
`

const brokenSrc = `package com.example;

public class Broken {
  void f( {
}
`

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testOptions(t *testing.T) *config.Options {
	t.Helper()
	opts := config.Default()
	opts.OutputDir = t.TempDir()
	opts.Jobs = 2
	return opts
}

func TestRunWritesHeaderAndImplementation(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "com/example/Counter.java"), counterSrc)
	opts := testOptions(t)

	d, err := New(opts)
	require.NoError(t, err)
	s, err := d.Run(context.Background(), []string{src})
	require.NoError(t, err)
	require.True(t, s.OK(), s.Diagnostics)

	assert.Equal(t, 1, s.Files)
	assert.Equal(t, 1, s.Translated)
	assert.Equal(t, "Translated 1 files: 0 errors, 0 warnings", s.String())
	assert.Len(t, s.RunID, 36)

	header, err := os.ReadFile(filepath.Join(opts.OutputDir, "com/example/Counter.h"))
	require.NoError(t, err)
	assert.Contains(t, string(header), "@interface ComExampleCounter : NSObject")
	impl, err := os.ReadFile(filepath.Join(opts.OutputDir, "com/example/Counter.m"))
	require.NoError(t, err)
	assert.Contains(t, string(impl), "@implementation ComExampleCounter")
	assert.Len(t, s.Outputs, 2)
}

func TestRunContinuesPastFailedUnit(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "com/example/Counter.java"), counterSrc)
	broken := writeFile(t, filepath.Join(src, "com/example/Broken.java"), brokenSrc)
	opts := testOptions(t)

	d, err := New(opts)
	require.NoError(t, err)
	s, err := d.Run(context.Background(), []string{src})
	require.NoError(t, err)

	assert.False(t, s.OK())
	assert.Equal(t, 2, s.Files)
	assert.Equal(t, 1, s.Translated)
	assert.Equal(t, []string{broken}, s.Failed)
	assert.Positive(t, s.Errors)
	assert.FileExists(t, filepath.Join(opts.OutputDir, "com/example/Counter.h"))
	assert.NoFileExists(t, filepath.Join(opts.OutputDir, "com/example/Broken.h"))
}

func TestRunBuildClosure(t *testing.T) {
	src, lib := t.TempDir(), t.TempDir()
	holder := writeFile(t, filepath.Join(src, "com/example/Holder.java"), holderSrc)
	writeFile(t, filepath.Join(lib, "com/example/Counter.java"), counterSrc)
	opts := testOptions(t)
	opts.SourcePath = []string{lib}
	opts.BuildClosure = true

	d, err := New(opts)
	require.NoError(t, err)
	s, err := d.Run(context.Background(), []string{holder})
	require.NoError(t, err)
	require.True(t, s.OK(), s.Diagnostics)

	assert.Equal(t, 2, s.Files)
	assert.FileExists(t, filepath.Join(opts.OutputDir, "com/example/Holder.h"))
	assert.FileExists(t, filepath.Join(opts.OutputDir, "com/example/Counter.h"))
}

func TestRunWithoutClosureLeavesSourcepathAlone(t *testing.T) {
	src, lib := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(src, "com/example/Counter.java"), counterSrc)
	writeFile(t, filepath.Join(lib, "com/example/Other.java"), "package com.example;\npublic class Other {}\n")
	opts := testOptions(t)
	opts.SourcePath = []string{lib}

	d, err := New(opts)
	require.NoError(t, err)
	s, err := d.Run(context.Background(), []string{src})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Files)
	assert.NoFileExists(t, filepath.Join(opts.OutputDir, "com/example/Other.h"))
}

func TestRunAppliesDeadCodeReport(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "com/example/Counter.java"), counterSrc)
	report := writeFile(t, filepath.Join(t.TempDir(), "usage.txt"), "com.example.Counter:\n    public int get()\n")
	opts := testOptions(t)
	opts.DeadCodeReport = report

	d, err := New(opts)
	require.NoError(t, err)
	s, err := d.Run(context.Background(), []string{src})
	require.NoError(t, err)
	require.True(t, s.OK(), s.Diagnostics)

	header, err := os.ReadFile(filepath.Join(opts.OutputDir, "com/example/Counter.h"))
	require.NoError(t, err)
	assert.Contains(t, string(header), "- (void)addWithInt:(jint)n;")
	assert.NotContains(t, string(header), "- (jint)get;")
}

func TestRunWritesMetricsTextfile(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "com/example/Counter.java"), counterSrc)
	opts := testOptions(t)
	opts.MetricsFile = filepath.Join(t.TempDir(), "j2objc.prom")

	d, err := New(opts)
	require.NoError(t, err)
	_, err = d.Run(context.Background(), []string{src})
	require.NoError(t, err)

	data, err := os.ReadFile(opts.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `j2objc_units_total{result="translated"} 1`)
	assert.Contains(t, string(data), "j2objc_files_written_total 2")
	assert.Contains(t, string(data), "j2objc_pass_duration_seconds")
}

func TestRunRejectsEmptyInput(t *testing.T) {
	d, err := New(testOptions(t))
	require.NoError(t, err)
	_, err = d.Run(context.Background(), []string{t.TempDir()})
	require.Error(t, err)
}

func TestNewRejectsMissingReport(t *testing.T) {
	opts := testOptions(t)
	opts.DeadCodeReport = filepath.Join(t.TempDir(), "missing.txt")
	_, err := New(opts)
	require.Error(t, err)
}

func TestWatchRerunsOnChange(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "com/example/Counter.java"), counterSrc)
	opts := testOptions(t)
	d, err := New(opts)
	require.NoError(t, err)

	old := Debounce
	Debounce = 20 * time.Millisecond
	t.Cleanup(func() { Debounce = old })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runs := make(chan *Summary, 4)
	done := make(chan error, 1)
	go func() {
		done <- d.Watch(ctx, []string{src}, func(s *Summary, err error) {
			if err == nil {
				runs <- s
			}
		})
	}()

	select {
	case <-runs:
	case <-time.After(5 * time.Second):
		t.Fatal("no initial run")
	}
	writeFile(t, filepath.Join(src, "com/example/Holder.java"), holderSrc)
	select {
	case s := <-runs:
		assert.Equal(t, 2, s.Files)
	case <-time.After(5 * time.Second):
		t.Fatal("no run after change")
	}
	cancel()
	require.NoError(t, <-done)
}
