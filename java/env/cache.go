package env

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
)

// indexSchema is bumped whenever the layout of Index or ClassStub changes.
const indexSchema uint16 = 1

// Index is a fully decoded class path, suitable for caching.
type Index struct {
	Schema  uint16       `msgpack:"schema"`
	Entries []EntryStamp `msgpack:"entries"`
	Stubs   []*ClassStub `msgpack:"stubs"`
}

// EntryStamp identifies the state of a class path entry when it was
// indexed.
type EntryStamp struct {
	Path    string `msgpack:"path"`
	Size    int64  `msgpack:"size"`
	ModTime int64  `msgpack:"mtime"`
}

func stampEntries(entries []string) ([]EntryStamp, error) {
	stamps := make([]EntryStamp, len(entries))
	for i, e := range entries {
		info, err := os.Stat(e)
		if err != nil {
			return nil, fmt.Errorf("class path entry: %w", err)
		}
		abs, err := filepath.Abs(e)
		if err != nil {
			return nil, err
		}
		stamps[i] = EntryStamp{Path: abs, Size: info.Size(), ModTime: info.ModTime().UnixNano()}
	}
	return stamps, nil
}

// key digests the stamps. A directory's stamp only changes when entries
// are added or removed directly in it, so edits deeper down are missed
// until the cache is cleared.
func key(stamps []EntryStamp) string {
	h := sha256.New()
	for _, s := range stamps {
		io.WriteString(h, s.Path)
		io.WriteString(h, "\x00"+strconv.FormatInt(s.Size, 10))
		io.WriteString(h, "\x00"+strconv.FormatInt(s.ModTime, 10)+"\n")
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Snapshot decodes every class on the path into an Index.
func (cp *ClassPath) Snapshot() (*Index, error) {
	stamps, err := stampEntries(cp.entries)
	if err != nil {
		return nil, err
	}
	idx := &Index{Schema: indexSchema, Entries: stamps}
	for _, name := range cp.Names() {
		s, err := cp.Stub(name)
		if err != nil {
			log.Warningf("not indexing %s: %s", name, err)
			continue
		}
		idx.Stubs = append(idx.Stubs, s)
	}
	return idx, nil
}

// FromIndex builds a class path that serves the stubs of idx without
// reading any class file.
func FromIndex(idx *Index, opts ...ClassPathOption) *ClassPath {
	entries := make([]string, len(idx.Entries))
	for i, e := range idx.Entries {
		entries[i] = e.Path
	}
	cp := newClassPath(entries, opts)
	for _, s := range idx.Stubs {
		cp.stubs[s.Name] = s
		cp.addPackage(s.Name)
	}
	return cp
}

func WriteIndex(w io.Writer, idx *Index) error {
	return msgpack.NewEncoder(w).Encode(idx)
}

func ReadIndex(r io.Reader) (*Index, error) {
	var idx Index
	if err := msgpack.NewDecoder(r).Decode(&idx); err != nil {
		return nil, fmt.Errorf("decoding class path index: %w", err)
	}
	if idx.Schema != indexSchema {
		return nil, fmt.Errorf("class path index schema %d, want %d", idx.Schema, indexSchema)
	}
	return &idx, nil
}

// Cache stores class path indexes in a directory, one file per distinct
// list of entries.
type Cache struct {
	Dir string
}

func (c Cache) path(k string) string {
	return filepath.Join(c.Dir, k+".mp")
}

// Open returns the class path for entries, from the cache when an index
// for their current state exists. Otherwise the entries are indexed and
// the index is stored; failing to store it is only logged.
func (c Cache) Open(entries []string, opts ...ClassPathOption) (*ClassPath, error) {
	stamps, err := stampEntries(entries)
	if err != nil {
		return nil, err
	}
	p := c.path(key(stamps))
	if idx, err := c.read(p); err == nil {
		log.Debugf("class path index %s has %d classes", p, len(idx.Stubs))
		return FromIndex(idx, opts...), nil
	} else if !errors.Is(err, os.ErrNotExist) {
		log.Warningf("ignoring class path index %s: %s", p, err)
	}

	cp, err := OpenClassPath(entries, opts...)
	if err != nil {
		return nil, err
	}
	idx, err := cp.Snapshot()
	if err != nil {
		cp.Close()
		return nil, err
	}
	if err := c.write(p, idx); err != nil {
		log.Warningf("storing class path index: %s", err)
	}
	return cp, nil
}

func (c Cache) read(p string) (*Index, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadIndex(f)
}

func (c Cache) write(p string, idx *Index) error {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(c.Dir, "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	if err := WriteIndex(f, idx); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}
