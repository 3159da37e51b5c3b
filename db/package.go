package db

import (
	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
	"golang.org/x/mod/module"
)

// Package is the set of source files compiled together.
type Package struct {
	Name    string
	Version *semver.Version
	// Root is the directory holding the package's source files.
	Root string
}

// NewPackage validates name as an import path and parses version.
func NewPackage(name, version, root string) (Package, error) {
	if err := module.CheckImportPath(name); err != nil {
		return Package{}, errors.Wrapf(err, "package name %q", name)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return Package{}, errors.Wrapf(err, "package version %q", version)
	}
	if root == "" {
		root = "."
	}
	return Package{Name: name, Version: v, Root: root}, nil
}

func (p Package) String() string {
	if p.Version == nil {
		return p.Name
	}
	return p.Name + "@v" + p.Version.String()
}
