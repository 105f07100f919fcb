package diag

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	c := NewCollector(false)
	c.Errorf("B.java", 3, "bad %s", "thing")
	c.Warnf("A.java", 7, "odd")
	c.Errorf("A.java", 2, "worse")

	assert.Equal(t, 2, c.ErrorCount())
	assert.Equal(t, 1, c.WarningCount())
	assert.Equal(t, 1, c.FileErrors("A.java"))
	assert.Equal(t, 0, c.FileErrors("C.java"))
	assert.Equal(t, "Translated 2 files: 2 errors, 1 warnings", c.Summary(2))

	var buf bytes.Buffer
	c.Print(&buf)
	assert.Equal(t, "A.java:2: error: worse\nA.java:7: warning: odd\nB.java:3: error: bad thing\n", buf.String())
}

func TestWarningsAsErrors(t *testing.T) {
	c := NewCollector(true)
	c.Warnf("A.java", 1, "odd")
	assert.Equal(t, 1, c.ErrorCount())
	assert.Equal(t, 0, c.WarningCount())
	require.Len(t, c.Diagnostics(), 1)
	assert.Equal(t, Error, c.Diagnostics()[0].Severity)
}

func TestDiagnosticString(t *testing.T) {
	assert.Equal(t, "error: no input", Diagnostic{Severity: Error, Message: "no input"}.String())
	assert.Equal(t, "A.java: warning: empty", Diagnostic{Severity: Warning, File: "A.java", Message: "empty"}.String())
}

func TestCollectorConcurrent(t *testing.T) {
	c := NewCollector(false)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.Errorf("A.java", j, "e")
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 400, c.ErrorCount())
	assert.Equal(t, 400, c.FileErrors("A.java"))
}
