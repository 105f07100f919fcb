// Package format prints translation units: as Objective-C source, and as
// JSON or line-oriented dumps for inspecting the translator's tree.
package format

import (
	"encoding"

	"github.com/dhamidi/j2objc/java/ast"
)

// Encoder writes a textual form of a unit.
type Encoder interface {
	encoding.TextMarshaler
	Encode(u *ast.Unit) error
}

var (
	_ Encoder = (*ASTJSONEncoder)(nil)
	_ Encoder = (*LineEncoder)(nil)
)
