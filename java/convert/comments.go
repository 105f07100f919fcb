package convert

import (
	"sort"
	"strings"

	"github.com/dhamidi/j2objc/java/parser"
)

// CommentTable indexes the comments of a file by offset.
type CommentTable struct {
	docs   []parser.Token
	native []parser.Token
	used   map[int]bool
}

func NewCommentTable(comments []parser.Token) *CommentTable {
	ct := &CommentTable{used: make(map[int]bool)}
	for _, c := range comments {
		if c.Kind != parser.TokenComment {
			continue
		}
		switch {
		case strings.HasPrefix(c.Literal, "/*-[") && strings.HasSuffix(c.Literal, "]-*/"):
			ct.native = append(ct.native, c)
		case strings.HasPrefix(c.Literal, "/**") && c.Literal != "/**/":
			ct.docs = append(ct.docs, c)
		}
	}
	byOffset := func(list []parser.Token) func(i, j int) bool {
		return func(i, j int) bool { return list[i].Span.Start.Offset < list[j].Span.Start.Offset }
	}
	sort.Slice(ct.docs, byOffset(ct.docs))
	sort.Slice(ct.native, byOffset(ct.native))
	return ct
}

// Doc returns the closest unused doc comment that lies between after and
// the start of the declaration at start. Each comment is handed out once.
func (ct *CommentTable) Doc(after, start int) string {
	if ct == nil {
		return ""
	}
	best := -1
	for i, c := range ct.docs {
		if c.Span.Start.Offset < after {
			continue
		}
		if c.Span.End.Offset > start {
			break
		}
		if !ct.used[i] {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	ct.used[best] = true
	return ct.docs[best].Literal
}

// NativeBlock is a native code comment and its location.
type NativeBlock struct {
	Start, End int
	Code       string
}

// Native returns the native code blocks in [from, to).
func (ct *CommentTable) Native(from, to int) []NativeBlock {
	if ct == nil {
		return nil
	}
	var out []NativeBlock
	for _, c := range ct.native {
		if c.Span.Start.Offset >= from && c.Span.End.Offset <= to {
			out = append(out, NativeBlock{Start: c.Span.Start.Offset, End: c.Span.End.Offset, Code: NativeCode(c.Literal)})
		}
	}
	return out
}

// NativeCode strips the /*-[ ]-*/ delimiters from a native block.
func NativeCode(comment string) string {
	code := strings.TrimSuffix(strings.TrimPrefix(comment, "/*-["), "]-*/")
	return strings.Trim(code, "\n")
}
