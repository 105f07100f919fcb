package deadcode

import (
	"bytes"
	"fmt"

	"github.com/sourcegraph/go-diff/diff"
)

// ContextLines is the number of unchanged lines around each hunk.
const ContextLines = 3

// Diff renders the rewrite of path from old to new as a unified diff. It
// relies on elimination keeping line numbers: line i of old corresponds to
// line i of new. An empty result means the sources are equal.
func Diff(path string, old, new []byte) ([]byte, error) {
	a, b := splitLines(old), splitLines(new)
	if len(a.lines) != len(b.lines) {
		return nil, fmt.Errorf("%s: line counts differ (%d and %d)", path, len(a.lines), len(b.lines))
	}
	fd := &diff.FileDiff{OrigName: "a/" + path, NewName: "b/" + path}
	for i := 0; i < len(a.lines); {
		if same(a, b, i) {
			i++
			continue
		}
		hunk, next := buildHunk(a, b, i)
		fd.Hunks = append(fd.Hunks, hunk)
		i = next
	}
	if len(fd.Hunks) == 0 {
		return nil, nil
	}
	return diff.PrintFileDiff(fd)
}

// text is a source split into lines.
type text struct {
	lines [][]byte
	// eol is unset when the last line has no terminating newline.
	eol bool
}

// unterminated reports whether line i is the last line and lacks its
// newline.
func (t text) unterminated(i int) bool {
	return !t.eol && i == len(t.lines)-1
}

// same reports whether line i is unchanged, its terminator included.
func same(a, b text, i int) bool {
	return bytes.Equal(a.lines[i], b.lines[i]) && a.unterminated(i) == b.unterminated(i)
}

// buildHunk collects the changes starting at line first, merging changes
// separated by fewer than 2*ContextLines unchanged lines, and returns the
// hunk with the index to resume scanning from. A last line without a
// newline gets the "\ No newline at end of file" marker on its side.
func buildHunk(a, b text, first int) (*diff.Hunk, int) {
	start := max(first-ContextLines, 0)
	end := first
	for i := first; i < len(a.lines); i++ {
		if !same(a, b, i) {
			end = i + 1
			continue
		}
		if i-end >= 2*ContextLines {
			break
		}
	}
	stop := min(end+ContextLines, len(a.lines))

	var body bytes.Buffer
	var origNoNewline int32
	newNoNewline := false
	for i := start; i < stop; {
		if same(a, b, i) {
			writeLine(&body, ' ', a.lines[i])
			newNoNewline = b.unterminated(i)
			i++
			continue
		}
		j := i
		for j < stop && !same(a, b, j) {
			j++
		}
		for k := i; k < j; k++ {
			writeLine(&body, '-', a.lines[k])
			if a.unterminated(k) {
				origNoNewline = int32(body.Len())
			}
		}
		for k := i; k < j; k++ {
			writeLine(&body, '+', b.lines[k])
			newNoNewline = b.unterminated(k)
		}
		i = j
	}
	if newNoNewline {
		body.Truncate(body.Len() - 1)
	}
	n := int32(stop - start)
	return &diff.Hunk{
		OrigStartLine:   int32(start + 1),
		OrigLines:       n,
		OrigNoNewlineAt: origNoNewline,
		NewStartLine:    int32(start + 1),
		NewLines:        n,
		Body:            body.Bytes(),
	}, stop
}

func writeLine(w *bytes.Buffer, prefix byte, line []byte) {
	w.WriteByte(prefix)
	w.Write(line)
	w.WriteByte('\n')
}

// splitLines splits on '\n'. A trailing newline does not start another
// line.
func splitLines(src []byte) text {
	lines := bytes.Split(src, []byte("\n"))
	n := len(lines)
	if len(lines[n-1]) == 0 {
		return text{lines: lines[:n-1], eol: true}
	}
	return text{lines: lines}
}
