package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Collect expands the command line arguments into .java files. A
// directory contributes every .java file below it. The result is sorted
// and free of duplicates.
func Collect(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			out = append(out, clean)
		}
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if !strings.HasSuffix(arg, ".java") {
				return nil, fmt.Errorf("%s: not a .java file", arg)
			}
			add(arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if name := d.Name(); path != arg && strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(path, ".java") && d.Name() != "module-info.java" && d.Name() != "package-info.java" {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", arg, err)
		}
	}
	sort.Strings(out)
	return out, nil
}

// RelPath is the path of a source file relative to its source root, as
// implied by its package: "com/foo/Bar.java". It keys the build closure.
func RelPath(pkg, path string) string {
	base := filepath.Base(path)
	if pkg == "" {
		return base
	}
	return strings.ReplaceAll(pkg, ".", "/") + "/" + base
}

// SourcePath finds the source file declaring a type.
type SourcePath struct {
	roots []string
}

func NewSourcePath(roots []string) *SourcePath {
	return &SourcePath{roots: roots}
}

func (sp *SourcePath) Roots() []string { return sp.roots }

// Find returns the file that declares the qualified type name. Nested
// names ("com.foo.Outer.Inner") are looked up by their outermost type.
func (sp *SourcePath) Find(qualified string) (path, rel string, ok bool) {
	parts := strings.Split(qualified, ".")
	for n := len(parts); n >= 1; n-- {
		if last := parts[n-1]; last == "" || last[0] < 'A' || last[0] > 'Z' {
			continue
		}
		rel := strings.Join(parts[:n], "/") + ".java"
		for _, root := range sp.roots {
			candidate := filepath.Join(root, filepath.FromSlash(rel))
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, rel, true
			}
		}
	}
	return "", "", false
}

// EnsureDir creates dir and its parents.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}
