package convert

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/j2objc/java/types"
)

var log = commonlog.GetLogger("j2objc.convert")

//go:embed jdk/*.java
var jdkSources embed.FS

// NewTable returns a symbol table holding the core library types that
// translated sources may refer to: java.lang, the common java.util
// collections, java.io streams and the translator's own annotations.
func NewTable() (*types.Table, error) {
	table := types.NewTable()
	files, err := coreFiles()
	if err != nil {
		return nil, err
	}
	Declare(table, files, nil)
	return table, nil
}

func coreFiles() ([]*File, error) {
	names, err := fs.Glob(jdkSources, "jdk/*.java")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	var files []*File
	for _, name := range names {
		src, err := jdkSources.ReadFile(name)
		if err != nil {
			return nil, err
		}
		f, err := Parse(path.Join("<jdk>", path.Base(name)), src)
		if err != nil {
			return nil, fmt.Errorf("core library: %w", err)
		}
		if len(f.Errors) > 0 {
			return nil, fmt.Errorf("core library: %s:%d: %s", f.Path, f.Errors[0].Line, f.Errors[0].Message)
		}
		f.core = true
		files = append(files, f)
	}
	log.Debugf("declared %d core library files", len(files))
	return files, nil
}
