package env

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/javafront/classfile"
	"github.com/dhamidi/javafront/java/types"
)

// ErrNotFound is returned by ClassPath.Stub for names no entry provides.
var ErrNotFound = errors.New("class not found")

// ClassPath resolves names against compiled classes in directories and
// jar files. Class files are decoded on first use; symbol members are
// built when a symbol is first completed.
type ClassPath struct {
	entries []string
	parent  Environment

	mu       sync.Mutex
	files    map[string]classSource
	stubs    map[string]*ClassStub
	syms     map[string]*types.ClassSym
	packages map[string]bool
	closers  []io.Closer
}

// classSource locates one class file: a path on disk or a jar member.
type classSource struct {
	path string
	zip  *zip.File
}

// ClassPathOption configures a ClassPath.
type ClassPathOption func(*ClassPath)

// WithParent resolves types the class path refers to but does not contain,
// typically the bootstrap library.
func WithParent(e Environment) ClassPathOption {
	return func(cp *ClassPath) { cp.parent = e }
}

func newClassPath(entries []string, opts []ClassPathOption) *ClassPath {
	cp := &ClassPath{
		entries:  entries,
		files:    map[string]classSource{},
		stubs:    map[string]*ClassStub{},
		syms:     map[string]*types.ClassSym{},
		packages: map[string]bool{},
	}
	for _, o := range opts {
		o(cp)
	}
	return cp
}

// OpenClassPath indexes the class files below each directory entry and
// inside each jar entry. Earlier entries shadow later ones.
func OpenClassPath(entries []string, opts ...ClassPathOption) (*ClassPath, error) {
	cp := newClassPath(entries, opts)
	for _, e := range entries {
		info, err := os.Stat(e)
		if err != nil {
			cp.Close()
			return nil, fmt.Errorf("class path entry: %w", err)
		}
		if info.IsDir() {
			err = cp.indexDir(e)
		} else {
			err = cp.indexJar(e)
		}
		if err != nil {
			cp.Close()
			return nil, fmt.Errorf("indexing %s: %w", e, err)
		}
	}
	log.Debugf("class path of %d entries has %d classes", len(entries), len(cp.files))
	return cp, nil
}

func (cp *ClassPath) indexDir(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".class") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		cp.add(strings.TrimSuffix(filepath.ToSlash(rel), ".class"), classSource{path: path})
		return nil
	})
}

func (cp *ClassPath) indexJar(path string) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return err
	}
	cp.closers = append(cp.closers, zr)
	for _, f := range zr.File {
		name := f.Name
		if !strings.HasSuffix(name, ".class") || strings.HasPrefix(name, "META-INF/") {
			continue
		}
		cp.add(strings.TrimSuffix(name, ".class"), classSource{zip: f})
	}
	return nil
}

func (cp *ClassPath) add(internal string, src classSource) {
	if _, ok := cp.files[internal]; ok {
		return
	}
	if strings.HasSuffix(internal, "module-info") || strings.HasSuffix(internal, "package-info") {
		return
	}
	cp.files[internal] = src
	cp.addPackage(internal)
}

func (cp *ClassPath) addPackage(internal string) {
	pkg := internal
	for {
		i := strings.LastIndexByte(pkg, '/')
		if i < 0 {
			return
		}
		pkg = pkg[:i]
		cp.packages[strings.ReplaceAll(pkg, "/", ".")] = true
	}
}

// Close releases the jar files of the class path.
func (cp *ClassPath) Close() error {
	var errs []error
	for _, c := range cp.closers {
		errs = append(errs, c.Close())
	}
	cp.closers = nil
	return errors.Join(errs...)
}

// Names returns the internal names of every class on the path, sorted.
func (cp *ClassPath) Names() []string {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	names := make([]string, 0, len(cp.files)+len(cp.stubs))
	seen := map[string]bool{}
	for n := range cp.files {
		names = append(names, n)
		seen[n] = true
	}
	for n := range cp.stubs {
		if !seen[n] {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

// Stub decodes the class file for an internal name.
func (cp *ClassPath) Stub(internal string) (*ClassStub, error) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	return cp.stubLocked(internal)
}

func (cp *ClassPath) stubLocked(internal string) (*ClassStub, error) {
	if s, ok := cp.stubs[internal]; ok {
		return s, nil
	}
	src, ok := cp.files[internal]
	if !ok {
		return nil, fmt.Errorf("%s: %w", internal, ErrNotFound)
	}
	cf, err := src.parse()
	if err != nil {
		return nil, err
	}
	s := NewClassStub(cf)
	cp.stubs[internal] = s
	return s, nil
}

func (src classSource) parse() (*classfile.ClassFile, error) {
	if src.zip == nil {
		return classfile.ParseFile(src.path)
	}
	rc, err := src.zip.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	cf, err := classfile.Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.zip.Name, err)
	}
	return cf, nil
}

// FindType resolves a source name such as "java.util.Map.Entry". Every
// split of the name into a package and nested class names is tried,
// longest package first.
func (cp *ClassPath) FindType(name string) *types.ClassSym {
	parts := strings.Split(name, ".")
	cp.mu.Lock()
	defer cp.mu.Unlock()
	for i := len(parts) - 1; i >= 0; i-- {
		internal := strings.Join(parts[i:], "$")
		if i > 0 {
			internal = strings.Join(parts[:i], "/") + "/" + internal
		}
		if _, ok := cp.files[internal]; !ok {
			if _, ok := cp.stubs[internal]; !ok {
				continue
			}
		}
		if sym := cp.symbolLocked(internal); sym != nil && !sym.IsAnonymous && !sym.IsLocal {
			return sym
		}
	}
	return nil
}

func (cp *ClassPath) HasPackage(name string) bool {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	return cp.packages[name]
}

// symbolLocked returns the symbol for an internal name with its header
// filled in, or nil when the class cannot be read.
func (cp *ClassPath) symbolLocked(internal string) *types.ClassSym {
	if sym, ok := cp.syms[internal]; ok {
		return sym
	}
	s, err := cp.stubLocked(internal)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Warningf("skipping class %s: %s", internal, err)
		}
		return nil
	}
	var outer *types.ClassSym
	if s.Nested && s.Outer != "" {
		outer = cp.symbolLocked(s.Outer)
	}
	name := sourceName(internal)
	if outer != nil && s.Simple != "" {
		name = outer.Name + "." + s.Simple
	}
	sym := types.NewLazyClass(name, func(sym *types.ClassSym) {
		(&completer{cp: cp, stub: s, sym: sym}).complete()
	})
	pkg, simple := packageOf(internal)
	sym.Package = pkg
	sym.SimpleName = simple
	if s.Nested {
		sym.SimpleName = s.Simple
		sym.IsLocal = s.Local
		sym.IsAnonymous = s.Simple == ""
	}
	sym.Outer = outer
	sym.Origin = cp.origin(internal)
	applyFlags(sym, s)
	cp.syms[internal] = sym
	return sym
}

func (cp *ClassPath) origin(internal string) string {
	src, ok := cp.files[internal]
	switch {
	case !ok:
		return internal + ".class"
	case src.zip != nil:
		return src.zip.Name
	}
	return src.path
}

func applyFlags(sym *types.ClassSym, s *ClassStub) {
	f := s.flags()
	switch {
	case f.IsAnnotation():
		sym.Kind = types.ClassKindAnnotation
	case f.IsInterface():
		sym.Kind = types.ClassKindInterface
	case f.IsEnum():
		sym.Kind = types.ClassKindEnum
	case s.Super == "java/lang/Record":
		sym.Kind = types.ClassKindRecord
	default:
		sym.Kind = types.ClassKindClass
	}
	sym.Visibility = visibility(f)
	sym.IsAbstract = f.IsAbstract()
	sym.IsFinal = f.IsFinal()
	sym.IsStatic = f.IsStatic()
	sym.IsSealed = len(s.Permitted) > 0
}

func visibility(f classfile.AccessFlags) types.Visibility {
	switch {
	case f.IsPublic():
		return types.VisibilityPublic
	case f.IsProtected():
		return types.VisibilityProtected
	case f.IsPrivate():
		return types.VisibilityPrivate
	}
	return types.VisibilityPackage
}

// sourceName turns "java/util/Map$Entry" into "java.util.Map.Entry".
func sourceName(internal string) string {
	return strings.NewReplacer("/", ".", "$", ".").Replace(internal)
}

func packageOf(internal string) (pkg, simple string) {
	i := strings.LastIndexByte(internal, '/')
	if i < 0 {
		return "", internal
	}
	return strings.ReplaceAll(internal[:i], "/", "."), internal[i+1:]
}
