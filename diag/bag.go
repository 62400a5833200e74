package diag

import (
	"sync"

	"github.com/tidwall/btree"
)

// Bag collects diagnostics for one batch. Items come back ordered by file
// registration order, line, column and then report order, whatever order
// the phases raised them in.
type Bag struct {
	mu     sync.Mutex
	policy Policy
	files  map[string]int
	list   []*File
	tree   *btree.BTreeG[Diagnostic]
	seq    uint64
}

func NewBag(policy Policy) *Bag {
	if policy == nil {
		policy = DefaultPolicy{}
	}
	b := &Bag{
		policy: policy,
		files:  make(map[string]int),
	}
	b.tree = btree.NewBTreeG(b.less)
	return b
}

func (b *Bag) less(x, y Diagnostic) bool {
	fx, fy := b.fileIndex(x.File), b.fileIndex(y.File)
	if fx != fy {
		return fx < fy
	}
	if x.Line != y.Line {
		return x.Line < y.Line
	}
	if x.Start != y.Start {
		return x.Start < y.Start
	}
	return x.seq < y.seq
}

func (b *Bag) fileIndex(path string) int {
	if i, ok := b.files[path]; ok {
		return i
	}
	return len(b.list)
}

// AddFile registers a file. Files must be registered before diagnostics in
// them are reported so that lines and columns can be derived.
func (b *Bag) AddFile(f *File) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.files[f.Path]; ok {
		return
	}
	b.files[f.Path] = len(b.list)
	b.list = append(b.list, f)
}

// File returns the registered file for path, or nil.
func (b *Bag) File(path string) *File {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i, ok := b.files[path]; ok {
		return b.list[i]
	}
	return nil
}

// Files returns the registered files in registration order.
func (b *Bag) Files() []*File {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*File(nil), b.list...)
}

// Report applies the severity policy and stores the diagnostic. Problems the
// policy maps to Ignore are dropped.
func (b *Bag) Report(d Diagnostic) {
	sev := b.policy.Severity(d.Problem)
	if sev == Ignore {
		return
	}
	d.Severity = sev

	b.mu.Lock()
	defer b.mu.Unlock()
	if i, ok := b.files[d.File]; ok {
		f := b.list[i]
		d.Line = f.LineOf(d.Start)
		_, lineStart := f.Line(d.Line)
		d.Column = d.Start - lineStart + 1
	}
	b.seq++
	d.seq = b.seq
	b.tree.Set(d)
}

// Items returns the diagnostics in rendering order.
func (b *Bag) Items() []Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := make([]Diagnostic, 0, b.tree.Len())
	b.tree.Scan(func(d Diagnostic) bool {
		items = append(items, d)
		return true
	})
	return items
}

func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tree.Len()
}

// HasErrors reports whether any stored diagnostic is an ERROR.
func (b *Bag) HasErrors() bool {
	errs, _, _ := b.Counts()
	return errs > 0
}

// Counts returns the number of errors, warnings and infos.
func (b *Bag) Counts() (errs, warnings, infos int) {
	for _, d := range b.Items() {
		switch d.Severity {
		case Error:
			errs++
		case Warning:
			warnings++
		case Info:
			infos++
		}
	}
	return errs, warnings, infos
}
