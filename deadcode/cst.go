package deadcode

import (
	"strings"

	"github.com/dhamidi/j2objc/java/parser"
)

func isTypeDecl(n *parser.Node) bool {
	switch n.Kind {
	case parser.KindClassDecl, parser.KindInterfaceDecl, parser.KindEnumDecl,
		parser.KindAnnotationDecl, parser.KindRecordDecl:
		return true
	}
	return false
}

func isTypeNode(n *parser.Node) bool {
	return n.Kind == parser.KindType || n.Kind == parser.KindArrayType
}

// isEnumConstant reports whether a field declaration is an enum constant,
// which has neither modifiers nor a type.
func isEnumConstant(n *parser.Node) bool {
	if n.Kind != parser.KindFieldDecl {
		return false
	}
	for _, c := range n.Children {
		if isTypeNode(c) || c.Kind == parser.KindModifiers {
			return false
		}
	}
	return true
}

func identOf(n *parser.Node) string {
	if id := n.FirstChildOfKind(parser.KindIdentifier); id != nil {
		return id.TokenLiteral()
	}
	return ""
}

func nameParts(n *parser.Node) []string {
	switch n.Kind {
	case parser.KindIdentifier:
		return []string{n.TokenLiteral()}
	case parser.KindQualifiedName, parser.KindFieldAccess:
		var out []string
		for _, c := range n.Children {
			out = append(out, nameParts(c)...)
		}
		return out
	}
	return nil
}

// startOffset is where a declaration begins, modifiers and annotations
// included.
func startOffset(n *parser.Node) int {
	start := n.Span.Start.Offset
	if len(n.Children) > 0 {
		if s := startOffset(n.Children[0]); s < start && s >= 0 {
			start = s
		}
	}
	return start
}

// bodyMembers returns the member declarations of a type declaration.
func bodyMembers(n *parser.Node) []*parser.Node {
	if n.Kind == parser.KindEnumDecl {
		var out []*parser.Node
		for _, c := range n.Children {
			switch c.Kind {
			case parser.KindModifiers, parser.KindIdentifier, parser.KindType, parser.KindArrayType,
				parser.KindTypeParameters:
				continue
			}
			out = append(out, c)
		}
		return out
	}
	if b := classBody(n); b != nil {
		return b.Children
	}
	return nil
}

func classBody(n *parser.Node) *parser.Node {
	for i := len(n.Children) - 1; i >= 0; i-- {
		if c := n.Children[i]; c.Kind == parser.KindBlock {
			return c
		}
	}
	return nil
}

type modifiers struct {
	words  map[string]bool
	annots []string
}

func modifiersOf(n *parser.Node) modifiers {
	m := modifiers{words: make(map[string]bool)}
	collect := func(list []*parser.Node) {
		for _, c := range list {
			switch c.Kind {
			case parser.KindIdentifier:
				m.words[c.TokenLiteral()] = true
			case parser.KindAnnotation:
				if qn := c.FirstChildOfKind(parser.KindQualifiedName); qn != nil {
					m.annots = append(m.annots, strings.Join(nameParts(qn), "."))
				} else if id := c.FirstChildOfKind(parser.KindIdentifier); id != nil {
					m.annots = append(m.annots, id.TokenLiteral())
				}
			}
		}
	}
	if mods := n.FirstChildOfKind(parser.KindModifiers); mods != nil {
		collect(mods.Children)
	}
	collect(n.ChildrenOfKind(parser.KindAnnotation))
	return m
}

func (m modifiers) has(word string) bool { return m.words[word] }

func (m modifiers) annotated(simple string) bool {
	for _, a := range m.annots {
		if a == simple || strings.HasSuffix(a, "."+simple) {
			return true
		}
	}
	return false
}
