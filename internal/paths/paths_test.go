package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	require.Equal(t, "", ExpandHome(""))
	require.Equal(t, home, ExpandHome("~"))
	require.Equal(t, filepath.Join(home, "catalogs"), ExpandHome("~/catalogs"))
	require.Equal(t, filepath.Clean("~bob/x"), ExpandHome("~bob/x"))
	require.Equal(t, filepath.Clean("/a/b/../c"), ExpandHome("/a/b/../c"))
}

func TestResolveDefinitionFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.hcl", "b.hcl", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	got, err := ResolveDefinitionFiles(dir, []string{"*.hcl", "a.hcl", "missing.hcl"})
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "a.hcl"),
		filepath.Join(dir, "b.hcl"),
		filepath.Join(dir, "missing.hcl"),
	}, got)
}

func TestResolveDefinitionFiles_EmptyGlob(t *testing.T) {
	_, err := ResolveDefinitionFiles(t.TempDir(), []string{"*.hcl"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "matched no files")
}

func TestResolveDefinitionFiles_Absolute(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "x.hcl")
	got, err := ResolveDefinitionFiles("/elsewhere", []string{abs})
	require.NoError(t, err)
	require.Equal(t, []string{abs}, got)
}
