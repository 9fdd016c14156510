package devenv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePathPassthrough(t *testing.T) {
	path, err := ResolvePath("some/dir/itch.db")
	require.NoError(t, err)
	require.Equal(t, "some/dir/itch.db", path)
}

func TestResolvePathDevState(t *testing.T) {
	root, err := GetWorkspaceRoot()
	require.NoError(t, err)

	path, err := ResolvePath("<dev_state>/resty/import")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "dev", ".state", "resty", "import"), path)
}
