package convert

import (
	"fmt"

	"github.com/dhamidi/j2objc/java/parser"
)

// InternalError reports a parser node the converter does not know how to
// handle. It is raised with panic and recovered at the unit boundary.
type InternalError struct {
	Path string
	Line int
	Kind parser.NodeKind
	What string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s:%d: internal error: unexpected %s node in %s", e.Path, e.Line, e.Kind, e.What)
}

func (c *converter) unexpected(n *parser.Node, what string) {
	panic(&InternalError{Path: c.file.Path, Line: n.Span.Start.Line, Kind: n.Kind, What: what})
}
