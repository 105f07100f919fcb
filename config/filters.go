package config

import (
	"strings"
	"sync"
)

// Filters are the import and visibility tables. They are filled from
// Options and read concurrently by every unit of a batch; Register calls
// are the only writers.
type Filters struct {
	mu               sync.RWMutex
	pureObjCPackages map[string]bool
	pureObjCClasses  map[string]bool
	noImportPackages map[string]bool
	noImportClasses  map[string]bool
}

func NewFilters(o *Options) *Filters {
	f := &Filters{
		pureObjCPackages: make(map[string]bool),
		pureObjCClasses:  make(map[string]bool),
		noImportPackages: make(map[string]bool),
		noImportClasses:  make(map[string]bool),
	}
	if o == nil {
		return f
	}
	for _, p := range o.PureObjCPackages {
		f.pureObjCPackages[p] = true
	}
	for _, c := range o.PureObjCClasses {
		f.pureObjCClasses[c] = true
	}
	for _, p := range o.NoImportPackages {
		f.noImportPackages[p] = true
	}
	for _, c := range o.NoImportClasses {
		f.noImportClasses[c] = true
	}
	return f
}

func (f *Filters) RegisterPureObjCPackage(pkg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pureObjCPackages[pkg] = true
}

func (f *Filters) RegisterPureObjCClass(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pureObjCClasses[name] = true
}

func (f *Filters) RegisterNoImportPackage(pkg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.noImportPackages[pkg] = true
}

func (f *Filters) RegisterNoImportClass(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.noImportClasses[name] = true
}

// IsPureObjC reports whether the qualified class name denotes a type
// implemented directly in Objective-C. Such types keep their simple name.
func (f *Filters) IsPureObjC(class string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.pureObjCClasses[class] || f.pureObjCPackages[packageOf(class)]
}

// IsNoImport reports whether no #include is generated for class.
func (f *Filters) IsNoImport(class string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.noImportClasses[class] {
		return true
	}
	for pkg := packageOf(class); pkg != ""; pkg = packageOf(pkg) {
		if f.noImportPackages[pkg] {
			return true
		}
	}
	return false
}

func packageOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return ""
}
