package artifact

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	snaperrors "github.com/twitter/reprosnap/common/errors"
	"github.com/twitter/reprosnap/os/temp"
)

func TestNames(t *testing.T) {
	ts := Timestamp(time.Date(2024, 3, 7, 9, 5, 2, 0, time.UTC))
	assert.Equal(t, "20240307_090502", ts)
	assert.Equal(t, "a.py_20240307_090502.txt", SourceCopyName("a.py", ts))
	assert.Equal(t, "git_commit_20240307_090502.txt", DescriptorName(ts))
	assert.Equal(t, "conda_env_20240307_090502.yml", ManifestName(ts))
}

func Test_TimestampShared(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("all artifact names of a run carry the same timestamp", prop.ForAll(
		func(sec int64, name string) bool {
			ts := Timestamp(time.Unix(sec, 0).UTC())
			return len(ts) == len(TimestampLayout) &&
				strings.HasSuffix(SourceCopyName(name, ts), "_"+ts+".txt") &&
				strings.Contains(DescriptorName(ts), ts) &&
				strings.Contains(ManifestName(ts), ts)
		},
		gen.Int64Range(0, 4102444799),
		gen.Identifier(),
	))
	properties.TestingRun(t)
}

func TestWriteFile(t *testing.T) {
	tmp, err := temp.TempDirDefault()
	require.NoError(t, err)
	defer os.RemoveAll(tmp.Dir)

	path, err := WriteFile(tmp.Dir, "out.txt", strings.NewReader("hello"), 0640)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp.Dir, "out.txt"), path)

	data, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	entries, err := ioutil.ReadDir(tmp.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestWriteFileMissingDir(t *testing.T) {
	_, err := WriteFile(filepath.Join(os.TempDir(), "reprosnap-does-not-exist", "x"), "out.txt", strings.NewReader(""), 0644)
	assert.Equal(t, snaperrors.FileSystemError, snaperrors.KindOf(err))
}
