package translate

import (
	"github.com/dhamidi/j2objc/java/ast"
	"github.com/dhamidi/j2objc/java/types"
)

// MethodMappingTranslate records the mapped selector of every call and
// declaration whose method, or a method it overrides, has a mapping.
type MethodMappingTranslate struct{}

func (MethodMappingTranslate) Name() string { return "MethodMappingTranslate" }

func (MethodMappingTranslate) Run(ctx *Context, u *ast.Unit) {
	u.Walk(u.Root, func(id ast.NodeID) bool {
		n := u.Node(id)
		switch n.Kind {
		case ast.KindInvocation, ast.KindSuperInvocation, ast.KindMethodDecl:
			if n.Method == types.NoMethod || n.Value != "" {
				return true
			}
			if sel, ok := ctx.Namer.MappedSelector(n.Method); ok {
				n.Value = sel
			}
		}
		return true
	})
}
