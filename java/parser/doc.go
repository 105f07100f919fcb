// Package parser is an error-tolerant Java parser producing a concrete
// syntax tree. It is the front end of the translator: convert binds its
// trees into the symbol table, deadcode edits source text by its spans and
// the parse command dumps them.
//
// A tree is made of homogeneous nodes:
//
//	type Node struct {
//	    Kind     NodeKind
//	    Span     Span     // byte offsets and 1-based lines of first and last token
//	    Children []*Node
//	    Token    *Token   // set on leaves
//	    Error    *Error
//	}
//
// Syntax errors never stop the parse. A construct that cannot be parsed
// becomes a KindError node carrying the expected and actual tokens and
// parsing resumes after it, so a file with errors still yields a tree.
// Input that ends inside a construct yields none: Finish returns nil.
//
// Comments are kept out of the tree. With WithComments they are collected
// in source order and returned by Parser.Comments; convert uses them for
// documentation and native code blocks.
//
//	p := parser.ParseCompilationUnit(r, parser.WithFile(path), parser.WithComments())
//	root := p.Finish()
//	for _, imp := range root.ChildrenOfKind(parser.KindImportDecl) {
//	    ...
//	}
//
// ParseExpression parses a lone expression, which the tests use to check
// precedence and the shape of individual constructs.
package parser
