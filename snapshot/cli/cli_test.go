package cli

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	snaperrors "github.com/twitter/reprosnap/common/errors"
	"github.com/twitter/reprosnap/common/os/exec"
	"github.com/twitter/reprosnap/config"
	"github.com/twitter/reprosnap/os/temp"
)

type fakeInjector struct {
	osExec exec.OsExec
	cfg    config.Config
}

func (i *fakeInjector) RegisterFlags(cmd *cobra.Command) {}

func (i *fakeInjector) Inject(cfg config.Config) (exec.OsExec, exec.Runner, error) {
	i.cfg = cfg
	return i.osExec, exec.NewRunner(0, 0), nil
}

func run(t *testing.T, inj *fakeInjector, args ...string) (string, error) {
	cmd := MakeSnapshotCLI(inj)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	return out.String(), cmd.Execute()
}

func workDir(t *testing.T) *temp.TempDir {
	if runtime.GOOS == "windows" {
		t.Skip("conda runs through cmd /C on windows")
	}
	tmp, err := temp.TempDirDefault()
	require.NoError(t, err)
	require.NoError(t, ioutil.WriteFile(filepath.Join(tmp.Dir, "train.py"), []byte("x"), 0644))
	require.NoError(t, ioutil.WriteFile(filepath.Join(tmp.Dir, "model.R"), []byte("y"), 0644))
	return tmp
}

func TestCLIReportsPartialFailure(t *testing.T) {
	tmp := workDir(t)
	defer os.RemoveAll(tmp.Dir)

	v := exec.NewValidatingExecer(t, [][]string{
		{"git", "rev-parse", "--is-inside-work-tree"},
		{"conda", "info", "--envs"},
		{"conda", "env", "export", "-n", "base"},
	}).SetFakeOutputs(map[int]exec.FakeOutput{
		0: {StartErr: exec.NotFound("git")},
		1: {Stdout: "base  *  /opt/conda\n"},
		2: {Stdout: "name: base\n"},
	})
	defer v.CheckAllValidated()

	inj := &fakeInjector{osExec: v}
	cmd := MakeSnapshotCLI(inj)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--include_builds", "--extensions", ".py,.R", "--print_stats", tmp.Dir})
	err := cmd.Execute()

	require.Error(t, err)
	exitErr, ok := err.(*snaperrors.ExitCodeError)
	require.True(t, ok, "got %T", err)
	assert.Equal(t, snaperrors.CaptureFailureExitCode, exitErr.GetExitCode())

	text := out.String()
	assert.Contains(t, text, "Recording git revision failed (NotAVersionControlledTree)")
	assert.Contains(t, text, "train.py_")
	assert.Contains(t, text, "model.R_")
	assert.Contains(t, text, "conda_env_")
	assert.Contains(t, text, "filesCopied")

	assert.True(t, inj.cfg.IncludeBuilds)
	assert.Equal(t, []string{".py", ".R"}, inj.cfg.Extensions)
}

func TestCLIConfigFileAndFlags(t *testing.T) {
	tmp := workDir(t)
	defer os.RemoveAll(tmp.Dir)

	cfgPath := filepath.Join(tmp.Dir, "snap.yaml")
	require.NoError(t, ioutil.WriteFile(cfgPath, []byte("destName: snap\nhostURL: https://git.example.com/lab\ncommandTimeout: 1m\n"), 0644))

	v := exec.NewValidatingExecer(t, [][]string{
		{"git", "rev-parse", "--is-inside-work-tree"},
		{"conda", "info", "--envs"},
	}).SetFakeOutputs(map[int]exec.FakeOutput{
		0: {Stdout: "false\n"},
		1: {Stdout: "base  /opt/conda\n"},
	})
	defer v.CheckAllValidated()

	inj := &fakeInjector{osExec: v}
	_, err := run(t, inj, "--config", cfgPath, "--timeout", "5s", tmp.Dir)
	require.Error(t, err)

	assert.Equal(t, "snap", inj.cfg.DestName)
	assert.Equal(t, "https://git.example.com/lab", inj.cfg.HostURL)
	assert.Equal(t, 5*time.Second, inj.cfg.CommandTimeout, "flags override the file")
	assert.Equal(t, []string{".py"}, inj.cfg.Extensions)

	infos, err := ioutil.ReadDir(filepath.Join(tmp.Dir, "snap"))
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.True(t, strings.HasPrefix(infos[0].Name(), "train.py_"))
}

func TestCLIRejectsBadConfig(t *testing.T) {
	inj := &fakeInjector{osExec: exec.NewValidatingExecer(t, nil)}
	_, err := run(t, inj, "--config", "colour: blue", ".")
	assert.Error(t, err)

	_, err = run(t, inj, "--dest_name", "a/b", ".")
	assert.Error(t, err)

	_, err = run(t, inj, "--log_level", "loud", ".")
	assert.Error(t, err)

	_, err = run(t, inj, "a", "b")
	assert.Error(t, err)
}
