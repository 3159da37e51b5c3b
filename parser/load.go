package parser

import (
	"fmt"
	"io/fs"
	"path"

	"github.com/aripiprazole/saph/lexer"
	"github.com/samber/lo"
)

// SourceFiles lists the Sol source files directly inside dir, in directory
// order.
func SourceFiles(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	filenames := lo.FilterMap(entries, func(entry fs.DirEntry, _ int) (string, bool) {
		if entry.IsDir() || path.Ext(entry.Name()) != lexer.Extension {
			return "", false
		}
		return path.Join(dir, entry.Name()), true
	})
	if len(filenames) == 0 {
		return nil, fmt.Errorf("no %s files found in %s", lexer.Extension, dir)
	}
	return filenames, nil
}

// ParseDir parses every source file inside dir. The first read error stops
// the walk.
func ParseDir(fsys fs.FS, dir string) ([]File, error) {
	filenames, err := SourceFiles(fsys, dir)
	if err != nil {
		return nil, err
	}
	files := make([]File, 0, len(filenames))
	for _, filename := range filenames {
		f, err := ParseFile(fsys, filename)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}
