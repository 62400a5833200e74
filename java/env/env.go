// Package env provides the name environments a compilation resolves
// library types through: the embedded bootstrap library, class paths of
// compiled classes, libraries built from source stubs and chains of these.
//
// Environments are read-only once constructed and may be shared by
// concurrent compilations.
package env

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/javafront/diag"
	"github.com/dhamidi/javafront/java/check"
	"github.com/dhamidi/javafront/java/parser"
	"github.com/dhamidi/javafront/java/types"
	"github.com/dhamidi/javafront/options"
)

var log = commonlog.GetLogger("javafront.env")

// Environment finds classes by qualified source name, such as
// "java.util.Map.Entry".
type Environment interface {
	FindType(name string) *types.ClassSym
	HasPackage(name string) bool
}

// Chain looks names up in each environment in order. Nil entries are
// skipped.
type Chain []Environment

func (c Chain) FindType(name string) *types.ClassSym {
	for _, e := range c {
		if e == nil {
			continue
		}
		if sym := e.FindType(name); sym != nil {
			return sym
		}
	}
	return nil
}

func (c Chain) HasPackage(name string) bool {
	for _, e := range c {
		if e != nil && e.HasPackage(name) {
			return true
		}
	}
	return false
}

// Library is a set of classes declared by source files. Only declarations
// are checked: method bodies may be empty or missing.
type Library struct {
	checker *check.Checker
	// Files and Diagnostics describe problems found in the sources.
	Files       []*diag.File
	Diagnostics []diag.Diagnostic
}

func (l *Library) FindType(name string) *types.ClassSym { return l.checker.FindType(name) }

func (l *Library) HasPackage(name string) bool { return l.checker.HasPackage(name) }

// Classes returns every class the library declares.
func (l *Library) Classes() []*types.ClassSym { return l.checker.Classes() }

// HasErrors reports whether any source of the library failed to compile.
func (l *Library) HasErrors() bool {
	for _, d := range l.Diagnostics {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Log renders the library's diagnostics in the batch compiler format.
func (l *Library) Log() string {
	return diag.Renderer{}.String(l.Files, l.Diagnostics)
}

// LoadSources declares every .java file of fsys as a library. Names the
// sources do not declare resolve through parent, which may be nil.
// Problems in the sources are kept in Diagnostics; the error is only set
// when fsys cannot be read or ctx is done.
func LoadSources(ctx context.Context, fsys fs.FS, parent Environment, opts options.Options) (*Library, error) {
	paths, err := doublestar.Glob(fsys, "**/*.java")
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	sort.Strings(paths)

	bag := diag.NewBag(opts)
	units := make([]*check.Unit, 0, len(paths))
	for _, path := range paths {
		src, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		bag.AddFile(diag.NewFile(path, src))
		p := parser.ParseCompilationUnit(bytes.NewReader(src),
			parser.WithFile(path),
			parser.WithOptions(opts),
			parser.WithReporter(bag),
		)
		units = append(units, check.NewUnit(path, src, p.Finish(), nil))
	}

	var finder types.Finder
	if parent != nil {
		finder = parent
	}
	c := check.New(finder, opts, bag, check.DeclarationsOnly())
	if err := c.Check(ctx, units); err != nil {
		return nil, err
	}
	lib := &Library{checker: c, Files: bag.Files(), Diagnostics: bag.Items()}
	log.Debugf("loaded %d source files, %d classes", len(units), len(c.Classes()))
	return lib, nil
}
