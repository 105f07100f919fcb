package driver

import (
	"context"
	"strings"

	"github.com/dhamidi/j2objc/java/convert"
)

// closure follows the type references of files to sources found on the
// sourcepath and loads them, wave after wave, until no new file turns up.
// Each file enters the batch at most once.
func (b *batch) closure(ctx context.Context, files []*convert.File) ([]*convert.File, error) {
	var added []*convert.File
	wave := files
	for len(wave) > 0 {
		var paths []string
		for _, f := range wave {
			for _, name := range candidates(f) {
				if _, ok := b.table.Lookup(name); ok {
					continue
				}
				path, rel, ok := b.sourcePath.Find(name)
				if !ok || !b.claim(rel) {
					continue
				}
				log.Debugf("closure: %s needs %s", f.Path, path)
				paths = append(paths, path)
			}
		}
		if len(paths) == 0 {
			break
		}
		loaded, err := b.load(ctx, paths, false)
		if err != nil {
			return nil, err
		}
		b.metrics.closure.Add(float64(len(loaded)))
		added = append(added, loaded...)
		wave = loaded
	}
	return added, nil
}

// candidates expands the names a file references into the qualified names
// they may denote: as written when qualified, then relative to the file's
// package and to each on-demand import.
func candidates(f *convert.File) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, name := range f.ReferencedNames() {
		if first, _, _ := strings.Cut(name, "."); first != name && isLower(first) {
			add(name)
			continue
		}
		if f.Package != "" {
			add(f.Package + "." + name)
		} else {
			add(name)
		}
		for _, imp := range f.Imports {
			if imp.OnDemand && !imp.Static {
				add(imp.Name + "." + name)
			}
		}
	}
	return out
}

func isLower(s string) bool {
	return s != "" && s[0] >= 'a' && s[0] <= 'z'
}
