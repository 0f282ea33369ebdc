package temp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTempDirHierarchy(t *testing.T) {
	root, err := TempDirDefault()
	require.NoError(t, err)
	defer os.RemoveAll(root.Dir)

	fixed, err := root.FixedDir("fixed")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root.Dir, "fixed"), fixed.Dir)

	again, err := root.FixedDir("fixed")
	require.NoError(t, err, "FixedDir is idempotent")
	assert.Equal(t, fixed.Dir, again.Dir)

	_, err = root.FixedDir("a" + string(os.PathSeparator) + "b")
	assert.Error(t, err)

	sub, err := fixed.TempDir("sub-")
	require.NoError(t, err)
	assert.Equal(t, fixed.Dir, filepath.Dir(sub.Dir))

	f, err := sub.TempFile("file-")
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, sub.Dir, filepath.Dir(f.Name()))
}
