// Package deadcode removes the members a ProGuard usage report lists as
// unused from Java sources before they are translated.
package deadcode

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("j2objc.deadcode")

// CtorName is the member name constructors are recorded under.
const CtorName = "<init>"

// DeadCodeMap is the parsed usage report. Class names are binary names
// ("com.foo.Outer$Inner"); lookups accept the dotted source form as well.
type DeadCodeMap struct {
	classes map[string]bool
	methods map[string]map[string]bool // class -> name + descriptor
	fields  map[string]map[string]bool
}

func newDeadCodeMap() *DeadCodeMap {
	return &DeadCodeMap{
		classes: make(map[string]bool),
		methods: make(map[string]map[string]bool),
		fields:  make(map[string]map[string]bool),
	}
}

func classKey(name string) string {
	return strings.ReplaceAll(name, "$", ".")
}

func descriptorKey(desc string) string {
	return strings.ReplaceAll(desc, "$", "/")
}

// IsDeadClass reports whether the whole class is unused.
func (m *DeadCodeMap) IsDeadClass(class string) bool {
	return m != nil && m.classes[classKey(class)]
}

// IsDeadMethod reports whether the method with the given name and JVM
// descriptor is unused. Every member of a dead class is dead.
func (m *DeadCodeMap) IsDeadMethod(class, name, descriptor string) bool {
	if m == nil {
		return false
	}
	c := classKey(class)
	return m.classes[c] || m.methods[c][name+descriptorKey(descriptor)]
}

// HasDeadMethodNamed reports whether some method of class called name is
// listed, whatever its descriptor.
func (m *DeadCodeMap) HasDeadMethodNamed(class, name string) bool {
	if m == nil {
		return false
	}
	c := classKey(class)
	if m.classes[c] {
		return true
	}
	for key := range m.methods[c] {
		if strings.HasPrefix(key, name+"(") {
			return true
		}
	}
	return false
}

func (m *DeadCodeMap) IsDeadField(class, name string) bool {
	if m == nil {
		return false
	}
	c := classKey(class)
	return m.classes[c] || m.fields[c][name]
}

// Empty reports whether the report listed nothing.
func (m *DeadCodeMap) Empty() bool {
	return m == nil || len(m.classes) == 0 && len(m.methods) == 0 && len(m.fields) == 0
}

func (m *DeadCodeMap) addMethod(class, name, desc string) {
	c := classKey(class)
	if m.methods[c] == nil {
		m.methods[c] = make(map[string]bool)
	}
	m.methods[c][name+descriptorKey(desc)] = true
}

func (m *DeadCodeMap) addField(class, name string) {
	c := classKey(class)
	if m.fields[c] == nil {
		m.fields[c] = make(map[string]bool)
	}
	m.fields[c][name] = true
}

var lineNumbers = regexp.MustCompile(`^\d+:\d+:`)

var memberModifiers = map[string]bool{
	"public": true, "protected": true, "private": true, "static": true, "final": true,
	"abstract": true, "native": true, "synchronized": true, "transient": true,
	"volatile": true, "strictfp": true, "synthetic": true, "bridge": true, "varargs": true,
}

// ReadReport parses the usage report at path.
func ReadReport(path string) (*DeadCodeMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := ParseReport(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseReport reads a ProGuard usage report. An unindented line names a
// class: alone it marks the whole class dead, with a trailing colon it
// introduces the indented member lines that follow, "type name" for a
// field and "type name(params)" for a method. Member lines may carry
// modifiers and a "start:end:" line range.
func ParseReport(r io.Reader) (*DeadCodeMap, error) {
	m := newDeadCodeMap()
	sc := bufio.NewScanner(r)
	class := ""
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if line[0] != ' ' && line[0] != '\t' {
			if name, ok := strings.CutSuffix(line, ":"); ok {
				class = strings.TrimSpace(name)
			} else {
				class = ""
				m.classes[classKey(strings.TrimSpace(line))] = true
			}
			continue
		}
		if class == "" {
			return nil, fmt.Errorf("line %d: member outside of a class: %q", lineNo, strings.TrimSpace(line))
		}
		if err := m.parseMember(class, strings.TrimSpace(line)); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	log.Debugf("usage report: %d dead classes, %d classes with dead members", len(m.classes), len(m.methods)+len(m.fields))
	return m, nil
}

func (m *DeadCodeMap) parseMember(class, text string) error {
	text = lineNumbers.ReplaceAllString(text, "")
	open := strings.IndexByte(text, '(')
	head := text
	params := ""
	if open >= 0 {
		end := strings.LastIndexByte(text, ')')
		if end < open {
			return fmt.Errorf("malformed method %q", text)
		}
		head, params = text[:open], text[open+1:end]
	}
	var words []string
	for _, w := range strings.Fields(head) {
		if !memberModifiers[w] {
			words = append(words, w)
		}
	}
	if open < 0 {
		if len(words) != 2 {
			return fmt.Errorf("malformed field %q", text)
		}
		m.addField(class, words[1])
		return nil
	}
	var ptypes []string
	for _, p := range strings.Split(params, ",") {
		if p = strings.TrimSpace(p); p != "" {
			ptypes = append(ptypes, p)
		}
	}
	switch len(words) {
	case 1:
		m.addMethod(class, CtorName, Descriptor(ptypes, "void"))
	case 2:
		name := words[1]
		if name == CtorName || isCtorName(class, name) {
			name = CtorName
		}
		m.addMethod(class, name, Descriptor(ptypes, words[0]))
	default:
		return fmt.Errorf("malformed method %q", text)
	}
	return nil
}

// isCtorName reports whether name is how a report spells the constructor
// of class: its simple binary name.
func isCtorName(class, name string) bool {
	simple := class[strings.LastIndexByte(class, '.')+1:]
	return name == simple
}

var primitiveCodes = map[string]string{
	"void": "V", "boolean": "Z", "byte": "B", "char": "C", "short": "S",
	"int": "I", "long": "J", "float": "F", "double": "D",
}

// Descriptor builds a JVM method descriptor from Java type names such as
// "int", "java.lang.String[]" or "java.util.Map$Entry".
func Descriptor(params []string, ret string) string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range params {
		b.WriteString(TypeDescriptor(p))
	}
	b.WriteByte(')')
	b.WriteString(TypeDescriptor(ret))
	return b.String()
}

// TypeDescriptor encodes a single Java type name.
func TypeDescriptor(name string) string {
	name = strings.TrimSpace(name)
	if base, ok := strings.CutSuffix(name, "..."); ok {
		return "[" + TypeDescriptor(base)
	}
	if base, ok := strings.CutSuffix(name, "[]"); ok {
		return "[" + TypeDescriptor(base)
	}
	if code, ok := primitiveCodes[name]; ok {
		return code
	}
	return "L" + strings.ReplaceAll(name, ".", "/") + ";"
}
