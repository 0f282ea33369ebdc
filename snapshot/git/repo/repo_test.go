package repo

import (
	"io/ioutil"
	"os"
	osexec "os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	snaperrors "github.com/twitter/reprosnap/common/errors"
	"github.com/twitter/reprosnap/common/os/exec"
	"github.com/twitter/reprosnap/os/temp"
)

func requireGit(t *testing.T) {
	if _, err := osexec.LookPath("git"); err != nil {
		t.Skip("git not on PATH")
	}
}

// Create a new repo in tmp on branch "trunk" with a committer configured.
func createRepo(t *testing.T, tmp *temp.TempDir) *Repository {
	dir, err := tmp.FixedDir("repo")
	require.NoError(t, err)
	r, err := InitRepo(dir.Dir, "git", exec.NewOsExec(), exec.NewRunner(0, 0))
	require.NoError(t, err)
	for _, args := range [][]string{
		{"config", "user.name", "Repro Test"},
		{"config", "user.email", "reprotest@example.com"},
		{"checkout", "-q", "-b", "trunk"},
	} {
		_, err := r.Run(args...)
		require.NoError(t, err)
	}
	return r
}

// Make a commit in repo r with "file.txt" having contents text
func commitText(t *testing.T, r *Repository, text string) string {
	require.NoError(t, ioutil.WriteFile(filepath.Join(r.Dir(), "file.txt"), []byte(text), 0644))
	_, err := r.Run("add", "file.txt")
	require.NoError(t, err)
	_, err = r.Run("commit", "-q", "-m", "created by commitText")
	require.NoError(t, err)
	sha, err := r.Head()
	require.NoError(t, err)
	return sha
}

func TestRealRepository(t *testing.T) {
	requireGit(t)
	tmp, err := temp.TempDirDefault()
	require.NoError(t, err)
	defer os.RemoveAll(tmp.Dir)

	r := createRepo(t, tmp)
	sha := commitText(t, r, "first")
	assert.Len(t, sha, 40)

	branch, err := r.Branch()
	require.NoError(t, err)
	assert.Equal(t, "trunk", branch)

	_, err = r.RemoteURL("origin")
	assert.Error(t, err, "no remote configured")

	_, err = r.Run("remote", "add", "origin", "git@example.com:lab/demo.git")
	require.NoError(t, err)
	url, err := r.RemoteURL("origin")
	require.NoError(t, err)
	assert.Equal(t, "git@example.com:lab/demo.git", url)

	dirty, err := r.IsDirty()
	require.NoError(t, err)
	assert.False(t, dirty)
	require.NoError(t, ioutil.WriteFile(filepath.Join(r.Dir(), "new.txt"), []byte("x"), 0644))
	dirty, err = r.IsDirty()
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestNotAWorkTree(t *testing.T) {
	requireGit(t)
	tmp, err := temp.TempDirDefault()
	require.NoError(t, err)
	defer os.RemoveAll(tmp.Dir)

	_, err = NewRepository(tmp.Dir, "git", exec.NewOsExec(), exec.NewRunner(0, 0))
	assert.Equal(t, snaperrors.NotAVersionControlledTree, snaperrors.KindOf(err))
}

func TestGitMissing(t *testing.T) {
	v := exec.NewValidatingExecer(t, [][]string{
		{"git", "rev-parse", "--is-inside-work-tree"},
	}).SetFakeOutputs(map[int]exec.FakeOutput{
		0: {StartErr: exec.NotFound("git")},
	})
	defer v.CheckAllValidated()

	_, err := NewRepository("/work", "git", v, exec.NewRunner(0, 0))
	assert.Equal(t, snaperrors.NotAVersionControlledTree, snaperrors.KindOf(err))
	assert.True(t, snaperrors.Is(err, snaperrors.ExternalToolUnavailable))
}

func TestInsideGitDir(t *testing.T) {
	v := exec.NewValidatingExecer(t, [][]string{
		{"git", "rev-parse", "--is-inside-work-tree"},
	}).SetFakeOutputs(map[int]exec.FakeOutput{
		0: {Stdout: "false\n"},
	})
	defer v.CheckAllValidated()

	_, err := NewRepository("/work/.git", "git", v, exec.NewRunner(0, 0))
	assert.Equal(t, snaperrors.NotAVersionControlledTree, snaperrors.KindOf(err))
}

func TestValidateSha(t *testing.T) {
	sha, err := validateSha("abc123\n")
	assert.NoError(t, err)
	assert.Equal(t, "abc123", sha)

	_, err = validateSha("\n")
	assert.Error(t, err)
	_, err = validateSha("fatal: bad")
	assert.Error(t, err)
}
