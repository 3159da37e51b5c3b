// Package config reads the saph.yaml file that configures a compilation
// session.
package config

import (
	"io"
	"io/fs"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const FileName = "saph.yaml"

type Config struct {
	// Trace logs every elaboration step.
	Trace bool `yaml:"trace"`
	// Parallelism bounds how many declarations are elaborated at once.
	Parallelism int `yaml:"parallelism"`
	// MaxErrors stops printing diagnostics after this many errors. Zero
	// prints them all.
	MaxErrors int     `yaml:"max_errors"`
	Color     string  `yaml:"color"`
	Package   Package `yaml:"package"`
}

type Package struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	// Source is the directory of the package's .sol files, relative to the
	// configuration file.
	Source string `yaml:"source"`
}

func Default() Config {
	return Config{
		Parallelism: runtime.GOMAXPROCS(0),
		MaxErrors:   10,
		Color:       "auto",
		Package: Package{
			Name:    "main",
			Version: "0.1.0",
			Source:  ".",
		},
	}
}

// Load reads name from fsys over the defaults. A missing file gives the
// defaults; unknown keys are an error.
func Load(fsys fs.FS, name string) (Config, error) {
	cfg := Default()
	f, err := fsys.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(err, "config")
	}
	defer f.Close()
	return Decode(f)
}

func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, errors.Wrap(err, "config: parse")
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Color {
	case "auto", "always", "never":
	default:
		return errors.Errorf("config: color must be auto, always or never, not %q", c.Color)
	}
	if c.Parallelism < 1 {
		return errors.Errorf("config: parallelism must be positive, not %d", c.Parallelism)
	}
	if c.MaxErrors < 0 {
		return errors.Errorf("config: max_errors must not be negative, not %d", c.MaxErrors)
	}
	return nil
}
