package config_test

import (
	"testing"
	"testing/fstest"

	"github.com/kr/pretty"

	"github.com/aripiprazole/saph/config"
)

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"saph.yaml": {Data: []byte(`
trace: true
parallelism: 2
package:
  name: demo
  version: 1.2.3
  source: src
`)},
	}
	got, err := config.Load(fsys, config.FileName)
	if err != nil {
		t.Fatal(err)
	}
	want := config.Default()
	want.Trace = true
	want.Parallelism = 2
	want.Package = config.Package{Name: "demo", Version: "1.2.3", Source: "src"}
	if diff := pretty.Diff(got, want); len(diff) > 0 {
		t.Errorf("%v", diff)
	}
}

func TestLoadMissing(t *testing.T) {
	got, err := config.Load(fstest.MapFS{}, config.FileName)
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Diff(got, config.Default()); len(diff) > 0 {
		t.Errorf("%v", diff)
	}
}

func TestLoadEmpty(t *testing.T) {
	fsys := fstest.MapFS{"saph.yaml": {Data: nil}}
	if _, err := config.Load(fsys, config.FileName); err != nil {
		t.Fatal(err)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name, src string
	}{
		{"unknown key", "colour: never\n"},
		{"bad color", "color: sometimes\n"},
		{"bad parallelism", "parallelism: 0\n"},
		{"negative max errors", "max_errors: -1\n"},
		{"not yaml", "trace: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{"saph.yaml": {Data: []byte(tt.src)}}
			if _, err := config.Load(fsys, config.FileName); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
