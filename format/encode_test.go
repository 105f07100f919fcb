package format

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/j2objc/config"
	"github.com/dhamidi/j2objc/java/parser"
)

func TestASTJSONEncoder(t *testing.T) {
	u, _ := translated(t, config.Default(), "Counter.java", counterSrc)

	var buf bytes.Buffer
	require.NoError(t, NewASTJSONEncoder(&buf).Encode(u))

	var doc struct {
		Path string `json:"path"`
		Root struct {
			Kind     string `json:"kind"`
			Children []struct {
				Kind string `json:"kind"`
				Type string `json:"type"`
			} `json:"children"`
		} `json:"root"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "Counter.java", doc.Path)
	assert.Equal(t, "CompilationUnit", doc.Root.Kind)
	require.Len(t, doc.Root.Children, 1)
	assert.Equal(t, "TypeDecl", doc.Root.Children[0].Kind)
	assert.Equal(t, "com.example.Counter", doc.Root.Children[0].Type)
}

func TestLineEncoder(t *testing.T) {
	u, enc := translated(t, config.Default(), "Counter.java", counterSrc)

	var buf bytes.Buffer
	require.NoError(t, NewLineEncoder(&buf, enc.namer).Encode(u))
	out := buf.String()

	assert.Contains(t, out, "class\tcom.example.Counter\tComExampleCounter\tpublic\n")
	assert.Contains(t, out, "field\tcount\tcount_\tint\tprivate\n")
	assert.Contains(t, out, "method\tadd\taddWithInt:\t-\tpublic\n")
	assert.Contains(t, out, "method\t<init>\tinit\tComExampleCounter_init\t")
}

func TestCSTJSONEncoderReportsErrors(t *testing.T) {
	p := parser.ParseCompilationUnit(bytes.NewReader([]byte("class A { int x = ; }")), parser.WithFile("A.java"))
	root := p.Finish()
	require.NotNil(t, root)

	text, err := NewCSTJSONEncoder(nil).MarshalText(root)
	require.NoError(t, err)
	assert.Contains(t, string(text), `"kind": "CompilationUnit"`)
	assert.Contains(t, string(text), `"error"`)
}
