// Package paths provides path resolution utilities.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ExpandHome replaces a leading "~" or "~/" with the user's home directory.
// Paths that do not start with "~" are returned cleaned but otherwise as is.
//
// Input normalization:
//   - "~" -> "/home/me"
//   - "~/catalogs" -> "/home/me/catalogs"
//   - "~bob/x" -> "~bob/x" (other users are not resolved)
//   - "" -> ""
func ExpandHome(path string) string {
	if path == "" {
		return ""
	}
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return filepath.Clean(path)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(home, path[1:])
}

// ResolveDefinitionFiles expands home prefixes and glob patterns. Relative
// patterns are resolved against base. Plain paths are kept even when they do
// not exist yet so the caller reports the missing file; a glob that matches
// nothing is an error. Duplicates are dropped, keeping the first occurrence.
func ResolveDefinitionFiles(base string, patterns []string) ([]string, error) {
	var out []string
	for _, pattern := range patterns {
		p := ExpandHome(pattern)
		if !filepath.IsAbs(p) && base != "" {
			p = filepath.Join(base, p)
		}

		if !strings.ContainsAny(p, "*?[") {
			if !slices.Contains(out, p) {
				out = append(out, p)
			}
			continue
		}

		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("pattern %q matched no files", pattern)
		}
		for _, m := range matches {
			if !slices.Contains(out, m) {
				out = append(out, m)
			}
		}
	}
	return out, nil
}
