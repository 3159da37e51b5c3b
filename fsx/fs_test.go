package fsx

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"golang.org/x/exp/slices"
)

func Test(t *testing.T) {
	o := FromFiles([][2]string{
		{"a/b/c.sol", "let c = 1"},
		{"a/d/e.sol", "let e = 2"},
		{"f/g/h.sol", "let h = 3"},
	})
	if err := fstest.TestFS(o, "a/b/c.sol", "a/d/e.sol", "f/g/h.sol"); err != nil {
		t.Fatal(err)
	}
}

func TestShadow(t *testing.T) {
	base := fstest.MapFS{
		"src/a.sol": {Data: []byte("let a = 1")},
		"src/b.sol": {Data: []byte("let b = 2")},
	}
	o := NewOverlay(base)
	if err := o.Write("src/a.sol", []byte("let a = 10")); err != nil {
		t.Fatal(err)
	}
	if err := o.Write("src/c.sol", []byte("let c = 3")); err != nil {
		t.Fatal(err)
	}
	data, err := fs.ReadFile(o, "src/a.sol")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "let a = 10" {
		t.Errorf("got %q", data)
	}
	entries, err := fs.ReadDir(o, "src")
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if want := []string{"a.sol", "b.sol", "c.sol"}; !slices.Equal(names, want) {
		t.Errorf("got %v, want %v", names, want)
	}
	if !o.Remove("src/a.sol") {
		t.Fatal("nothing removed")
	}
	data, _ = fs.ReadFile(o, "src/a.sol")
	if string(data) != "let a = 1" {
		t.Errorf("base not uncovered, got %q", data)
	}
}

func TestWriteInvalid(t *testing.T) {
	o := NewOverlay(nil)
	for _, name := range []string{".", "/abs.sol", "a/../b.sol"} {
		if err := o.Write(name, nil); err == nil {
			t.Errorf("%q: expected an error", name)
		}
	}
	if _, err := o.Open("missing.sol"); err == nil {
		t.Error("opened a missing file")
	}
}
