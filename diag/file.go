package diag

import "sort"

// File is a source file known to a Bag. Diagnostics refer to files by path;
// the registration order is the file order used when sorting.
type File struct {
	Path    string
	Content []byte
	lines   []int
}

func NewFile(path string, content []byte) *File {
	f := &File{Path: path, Content: content}
	f.lines = append(f.lines, 0)
	for i, b := range content {
		if b == '\n' {
			f.lines = append(f.lines, i+1)
		}
	}
	return f
}

// LineCount returns the number of lines, counting a trailing partial line.
func (f *File) LineCount() int {
	return len(f.lines)
}

// LineOf maps a byte offset to its 1-based line.
func (f *File) LineOf(offset int) int {
	return sort.Search(len(f.lines), func(i int) bool { return f.lines[i] > offset })
}

// Line returns the text of the 1-based line without its terminator and the
// offset at which it starts.
func (f *File) Line(line int) (string, int) {
	if line < 1 || line > len(f.lines) {
		return "", 0
	}
	start := f.lines[line-1]
	end := len(f.Content)
	if line < len(f.lines) {
		end = f.lines[line] - 1
	}
	if end > start && f.Content[end-1] == '\r' {
		end--
	}
	return string(f.Content[start:end]), start
}
