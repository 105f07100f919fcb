// Package project finds the Java sources a translation batch reads: the
// files named on the command line, the directories walked for them, the
// sourcepath consulted by the build closure and the modules of a
// src/<project>/<module> tree.
package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/j2objc/java/parser"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("j2objc.project")

// Project is a Java source tree laid out as src/<project>/<module>/ with a
// module-info.java per module.
type Project struct {
	ID      string
	RootDir string
	SrcDir  string
	Modules []*Module
}

// Module is one module of a Project.
type Module struct {
	Name         string
	SrcDir       string
	ModuleInfo   string
	Project      *Project
	Dependencies []string // names of modules of the same project
}

// LoadFrom scans rootDir for a modular source tree.
func LoadFrom(rootDir string) (*Project, error) {
	srcDir := filepath.Join(rootDir, "src")
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, fmt.Errorf("read src directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		modules, err := scanModules(filepath.Join(srcDir, entry.Name()))
		if err != nil || len(modules) == 0 {
			continue
		}
		proj := &Project{ID: entry.Name(), RootDir: rootDir, SrcDir: srcDir, Modules: modules}
		for _, m := range proj.Modules {
			m.Project = proj
			deps, err := parseModuleDependencies(m.ModuleInfo, proj.ID)
			if err != nil {
				log.Warningf("%s: %s", m.ModuleInfo, err)
				continue
			}
			m.Dependencies = deps
		}
		log.Debugf("loaded project %s with %d modules", proj.ID, len(proj.Modules))
		return proj, nil
	}
	return nil, fmt.Errorf("no src/<project>/<module>/module-info.java structure under %s", rootDir)
}

func scanModules(projectDir string) ([]*Module, error) {
	entries, err := os.ReadDir(projectDir)
	if err != nil {
		return nil, err
	}
	var modules []*Module
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(projectDir, entry.Name())
		info := filepath.Join(dir, "module-info.java")
		if _, err := os.Stat(info); err != nil {
			continue
		}
		modules = append(modules, &Module{Name: entry.Name(), SrcDir: dir, ModuleInfo: info})
	}
	return modules, nil
}

// parseModuleDependencies returns the modules of the same project that a
// module-info.java requires, by short name.
func parseModuleDependencies(path, projectID string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	root := parser.ParseCompilationUnit(f, parser.WithFile(path)).Finish()
	if root == nil {
		return nil, fmt.Errorf("failed to parse %s", path)
	}
	decl := root.FirstChildOfKind(parser.KindModuleDecl)
	if decl == nil {
		return nil, fmt.Errorf("no module declaration")
	}
	prefix := projectID + "."
	var deps []string
	for _, req := range decl.ChildrenOfKind(parser.KindRequiresDirective) {
		var name *parser.Node
		for _, c := range req.Children {
			if c.Kind == parser.KindQualifiedName {
				name = c
			}
		}
		if name == nil {
			continue
		}
		if short, ok := strings.CutPrefix(dottedName(name), prefix); ok {
			deps = append(deps, short)
		}
	}
	return deps, nil
}

func dottedName(n *parser.Node) string {
	if n.Kind == parser.KindIdentifier {
		return n.TokenLiteral()
	}
	var parts []string
	for _, c := range n.Children {
		switch c.Kind {
		case parser.KindIdentifier:
			parts = append(parts, c.TokenLiteral())
		case parser.KindQualifiedName:
			parts = append(parts, dottedName(c))
		}
	}
	return strings.Join(parts, ".")
}

func (p *Project) Module(name string) *Module {
	for _, m := range p.Modules {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// ModulesInOrder sorts the modules so that every module follows the
// modules it requires. A dependency cycle leaves the scan order.
func (p *Project) ModulesInOrder() []*Module {
	inDegree := make(map[string]int)
	for _, m := range p.Modules {
		inDegree[m.Name] = 0
	}
	for _, m := range p.Modules {
		for _, dep := range m.Dependencies {
			if _, ok := inDegree[dep]; ok {
				inDegree[m.Name]++
			}
		}
	}
	var queue []string
	for _, m := range p.Modules {
		if inDegree[m.Name] == 0 {
			queue = append(queue, m.Name)
		}
	}
	var out []*Module
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if mod := p.Module(name); mod != nil {
			out = append(out, mod)
		}
		for _, m := range p.Modules {
			for _, dep := range m.Dependencies {
				if dep == name {
					inDegree[m.Name]--
					if inDegree[m.Name] == 0 {
						queue = append(queue, m.Name)
					}
				}
			}
		}
	}
	if len(out) != len(p.Modules) {
		log.Warningf("project %s: module dependency cycle, keeping scan order", p.ID)
		return p.Modules
	}
	return out
}

// SourceRoots returns the module source directories in dependency order.
// They form the sourcepath of a project build.
func (p *Project) SourceRoots() []string {
	var roots []string
	for _, m := range p.ModulesInOrder() {
		roots = append(roots, m.SrcDir)
	}
	return roots
}

// JavaFiles returns the module's .java files, module-info.java excluded.
func (m *Module) JavaFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(m.SrcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".java") || path == m.ModuleInfo {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan java files in %s: %w", m.SrcDir, err)
	}
	return files, nil
}

// Files returns the sources of every module in dependency order.
func (p *Project) Files() ([]string, error) {
	var out []string
	for _, m := range p.ModulesInOrder() {
		files, err := m.JavaFiles()
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}
