// Package fsx layers in-memory files over a file system, so that sources
// edited but not saved can be compiled as if they were on disk.
package fsx

import (
	"errors"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var _ fs.FS = (*Overlay)(nil)
var _ fs.ReadDirFS = (*Overlay)(nil)
var _ fs.ReadFileFS = (*Overlay)(nil)

// Overlay is an fs.FS whose files can be replaced in memory. Files written
// to the overlay shadow the files of the base with the same name. It is
// safe for concurrent use.
type Overlay struct {
	mu    sync.RWMutex
	base  fs.FS
	files map[string][]byte
}

// NewOverlay returns an empty overlay over base. base may be nil.
func NewOverlay(base fs.FS) *Overlay {
	return &Overlay{base: base, files: make(map[string][]byte)}
}

// FromFiles returns an overlay holding the given (name, body) pairs and
// nothing else.
func FromFiles(files [][2]string) *Overlay {
	o := NewOverlay(nil)
	for _, f := range files {
		o.files[f[0]] = []byte(f[1])
	}
	return o
}

func (o *Overlay) Write(name string, data []byte) error {
	if !fs.ValidPath(name) || name == "." {
		return &fs.PathError{Op: "write", Path: name, Err: fs.ErrInvalid}
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.files[name] = slices.Clone(data)
	return nil
}

// Remove drops the in-memory version of name, uncovering the base file if
// there is one.
func (o *Overlay) Remove(name string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.files[name]
	delete(o.files, name)
	return ok
}

// Open implements fs.FS
func (o *Overlay) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	o.mu.RLock()
	data, ok := o.files[name]
	o.mu.RUnlock()
	if ok {
		return &file{info: fileInfo(path.Base(name), data), data: data}, nil
	}
	if o.base != nil {
		f, err := o.base.Open(name)
		if err == nil {
			if info, err := f.Stat(); err == nil && info.IsDir() && o.hasChildren(name) {
				f.Close()
				return o.openDir(name)
			}
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	if o.hasChildren(name) {
		return o.openDir(name)
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// ReadFile implements fs.ReadFileFS
func (o *Overlay) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrInvalid}
	}
	o.mu.RLock()
	data, ok := o.files[name]
	o.mu.RUnlock()
	if ok {
		return slices.Clone(data), nil
	}
	if o.base == nil {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrNotExist}
	}
	return fs.ReadFile(o.base, name)
}

// ReadDir implements fs.ReadDirFS
func (o *Overlay) ReadDir(name string) ([]fs.DirEntry, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}
	var entries []fs.DirEntry
	found := false
	if o.base != nil {
		base, err := fs.ReadDir(o.base, name)
		switch {
		case err == nil:
			entries, found = base, true
		case !errors.Is(err, fs.ErrNotExist):
			return nil, err
		}
	}
	mem := o.children(name)
	if !found && len(mem) == 0 {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}
	for _, m := range mem {
		i := slices.IndexFunc(entries, func(e fs.DirEntry) bool { return e.Name() == m.Name() })
		switch {
		case i < 0:
			entries = append(entries, m)
		case !m.IsDir():
			entries[i] = m
		}
	}
	slices.SortFunc(entries, func(a, b fs.DirEntry) bool { return a.Name() < b.Name() })
	return entries, nil
}

func (o *Overlay) hasChildren(dir string) bool {
	return len(o.children(dir)) > 0
}

// children lists the in-memory files and directories directly inside dir.
func (o *Overlay) children(dir string) []fs.DirEntry {
	o.mu.RLock()
	names := maps.Keys(o.files)
	o.mu.RUnlock()
	slices.Sort(names)
	prefix := dir + "/"
	if dir == "." {
		prefix = ""
	}
	var out []fs.DirEntry
	seen := make(map[string]bool)
	for _, name := range names {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok || seen[strings.SplitN(rest, "/", 2)[0]] {
			continue
		}
		child, _, isDir := strings.Cut(rest, "/")
		seen[child] = true
		if isDir {
			out = append(out, dirInfo(child))
			continue
		}
		o.mu.RLock()
		data := o.files[name]
		o.mu.RUnlock()
		out = append(out, fileInfo(child, data))
	}
	return out
}

func (o *Overlay) openDir(name string) (fs.File, error) {
	entries, err := o.ReadDir(name)
	if err != nil {
		return nil, err
	}
	return &dir{info: dirInfo(path.Base(name)), entries: entries}, nil
}

// info describes a file or directory held in memory. It serves both as
// fs.FileInfo and fs.DirEntry.
type info struct {
	name string
	mode fs.FileMode
	size int64
}

var _ fs.FileInfo = (*info)(nil)
var _ fs.DirEntry = (*info)(nil)

func fileInfo(name string, data []byte) *info {
	return &info{name: name, mode: 0o444, size: int64(len(data))}
}

func dirInfo(name string) *info {
	return &info{name: name, mode: fs.ModeDir | 0o555}
}

func (i *info) Name() string               { return i.name }
func (i *info) Size() int64                { return i.size }
func (i *info) Mode() fs.FileMode          { return i.mode }
func (i *info) ModTime() time.Time         { return time.Time{} }
func (i *info) IsDir() bool                { return i.mode.IsDir() }
func (i *info) Sys() any                   { return nil }
func (i *info) Type() fs.FileMode          { return i.mode.Type() }
func (i *info) Info() (fs.FileInfo, error) { return i, nil }

type file struct {
	info   *info
	data   []byte
	offset int
}

func (f *file) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *file) Close() error               { return nil }

func (f *file) Read(p []byte) (int, error) {
	if f.offset >= len(f.data) {
		return 0, io.EOF
	}
	n := copy(p, f.data[f.offset:])
	f.offset += n
	return n, nil
}

type dir struct {
	info    *info
	entries []fs.DirEntry
	offset  int
}

var _ fs.ReadDirFile = (*dir)(nil)

func (d *dir) Stat() (fs.FileInfo, error) { return d.info, nil }
func (d *dir) Close() error               { return nil }

func (d *dir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.info.name, Err: errors.New("is a directory")}
}

// ReadDir implements fs.ReadDirFile
func (d *dir) ReadDir(count int) ([]fs.DirEntry, error) {
	n := len(d.entries) - d.offset
	if n == 0 && count > 0 {
		return nil, io.EOF
	}
	if count > 0 && n > count {
		n = count
	}
	list := make([]fs.DirEntry, n)
	copy(list, d.entries[d.offset:])
	d.offset += n
	return list, nil
}
