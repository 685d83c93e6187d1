// Package templates embeds the built-in HCL definition files.
package templates

import (
	"embed"
	"io/fs"
	"path"
	"slices"
	"strings"
)

// builtinDefinitions embeds the definition files shipped with settingsdef.
// The structure is:
//   - definitions/<name>.hcl
//
//go:embed definitions
var builtinDefinitions embed.FS

const (
	dir = "definitions"
	ext = ".hcl"
)

// DefinitionsFS returns the embedded filesystem holding the built-in
// definitions. Names in it are the values returned by Path.
func DefinitionsFS() fs.FS {
	return builtinDefinitions
}

// Path returns the location of the named built-in inside DefinitionsFS.
func Path(name string) string {
	return path.Join(dir, name+ext)
}

// Has reports whether a built-in called name exists.
func Has(name string) bool {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return false
	}
	_, err := fs.Stat(builtinDefinitions, Path(name))
	return err == nil
}

// Names lists the built-in definitions, sorted.
func Names() []string {
	entries, err := fs.ReadDir(builtinDefinitions, dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ext {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}
	slices.Sort(names)
	return names
}
