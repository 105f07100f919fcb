// Package diag collects the errors and warnings produced while translating
// a batch of compilation units.
package diag

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("j2objc.diag")

type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Diagnostic is a single message attached to a source line. Line is 0 when
// the message concerns a whole file.
type Diagnostic struct {
	Severity Severity
	File     string
	Line     int
	Message  string
}

func (d Diagnostic) String() string {
	switch {
	case d.File == "":
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	case d.Line <= 0:
		return fmt.Sprintf("%s: %s: %s", d.File, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s:%d: %s: %s", d.File, d.Line, d.Severity, d.Message)
}

// Collector is safe for concurrent use by the units of a batch.
type Collector struct {
	mu         sync.Mutex
	werror     bool
	diags      []Diagnostic
	errors     int
	warnings   int
	fileErrors map[string]int
}

// NewCollector returns an empty collector. With werror set every warning is
// recorded as an error.
func NewCollector(werror bool) *Collector {
	return &Collector{werror: werror, fileErrors: make(map[string]int)}
}

func (c *Collector) Errorf(file string, line int, format string, args ...any) {
	c.add(Diagnostic{Severity: Error, File: file, Line: line, Message: fmt.Sprintf(format, args...)})
}

func (c *Collector) Warnf(file string, line int, format string, args ...any) {
	c.add(Diagnostic{Severity: Warning, File: file, Line: line, Message: fmt.Sprintf(format, args...)})
}

func (c *Collector) add(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d.Severity == Warning && c.werror {
		d.Severity = Error
	}
	c.diags = append(c.diags, d)
	if d.Severity == Error {
		c.errors++
		c.fileErrors[d.File]++
		log.Error(d.String())
	} else {
		c.warnings++
		log.Warning(d.String())
	}
}

func (c *Collector) ErrorCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors
}

func (c *Collector) WarningCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.warnings
}

// FileErrors returns the number of errors recorded against file.
func (c *Collector) FileErrors(file string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fileErrors[file]
}

// Diagnostics returns the recorded messages ordered by file and line.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	out := append([]Diagnostic(nil), c.diags...)
	c.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Line < out[j].Line
	})
	return out
}

// Print writes every diagnostic on its own line.
func (c *Collector) Print(w io.Writer) {
	for _, d := range c.Diagnostics() {
		fmt.Fprintln(w, d.String())
	}
}

// Summary renders the end-of-run line.
func (c *Collector) Summary(files int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("Translated %d files: %d errors, %d warnings", files, c.errors, c.warnings)
}
