// Package translate rewrites a converted compilation unit, pass by pass,
// from Java semantics into the shape the Objective-C generator prints.
package translate

import (
	"fmt"
	"strconv"

	"github.com/dhamidi/j2objc/config"
	"github.com/dhamidi/j2objc/diag"
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
	"github.com/dhamidi/j2objc/naming"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("j2objc.translate")

// Context is the mutable state of one unit's trip through the pipeline.
// It is not shared between units.
type Context struct {
	Options *config.Options
	Table   *types.Table
	Diags   *diag.Collector
	Namer   *naming.Namer

	pass  string
	temps map[string]int
}

func NewContext(opts *config.Options, table *types.Table, diags *diag.Collector, namer *naming.Namer) *Context {
	if opts == nil {
		opts = config.Default()
	}
	if diags == nil {
		diags = diag.NewCollector(opts.TreatWarningsAsErrors)
	}
	if namer == nil {
		namer = naming.New(table, opts, nil, nil)
	}
	return &Context{
		Options: opts,
		Table:   table,
		Diags:   diags,
		Namer:   namer,
		temps:   make(map[string]int),
	}
}

// Reset prepares the context for another unit.
func (c *Context) Reset() {
	c.pass = ""
	clear(c.temps)
}

// Temp returns the next temporary name with the given prefix: "unseq$0",
// "unseq$1", ...
func (c *Context) Temp(prefix string) string {
	n := c.temps[prefix]
	c.temps[prefix] = n + 1
	return prefix + "$" + strconv.Itoa(n)
}

func (c *Context) Errorf(u *ast.Unit, at ast.NodeID, format string, args ...any) {
	c.Diags.Errorf(u.Path, line(u, at), format, args...)
}

func (c *Context) Warnf(u *ast.Unit, at ast.NodeID, format string, args ...any) {
	c.Diags.Warnf(u.Path, line(u, at), format, args...)
}

func line(u *ast.Unit, at ast.NodeID) int {
	if at == ast.NoNode {
		return 0
	}
	return u.Node(at).Pos.Line
}

// InternalError reports a broken invariant detected by a pass. The unit
// it concerns produces no output.
type InternalError struct {
	Pass string
	Path string
	Msg  string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: internal error in %s: %s", e.Path, e.Pass, e.Msg)
}

func (c *Context) internalf(u *ast.Unit, format string, args ...any) {
	panic(&InternalError{Pass: c.pass, Path: u.Path, Msg: fmt.Sprintf(format, args...)})
}
