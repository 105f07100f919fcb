package format

import (
	"fmt"
	"strconv"
)

// finallyContext tracks, for the method being printed, how many
// @finally blocks enclose the current statement and which jump labels
// are in use. It is created per method and must be balanced when the
// method ends.
type finallyContext struct {
	depth  int
	labels map[string]int
}

func newFinallyContext() *finallyContext {
	return &finallyContext{labels: make(map[string]int)}
}

func (f *finallyContext) enter() { f.depth++ }

func (f *finallyContext) leave() {
	if f.depth == 0 {
		panic("finally context left more often than entered")
	}
	f.depth--
}

// label returns a C label unique within the method for the Java label
// name. A Java label reused by a later statement gets a numbered suffix.
func (f *finallyContext) label(kind, name string) string {
	key := kind + "_" + name
	n := f.labels[key]
	f.labels[key] = n + 1
	if n == 0 {
		return key
	}
	return key + "_" + strconv.Itoa(n)
}

// close checks that every entered block was left.
func (f *finallyContext) close() error {
	if f.depth != 0 {
		return fmt.Errorf("unbalanced finally context: depth %d at end of method", f.depth)
	}
	return nil
}
