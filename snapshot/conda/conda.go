// Package conda queries the conda command line for the active environment
// and its exported manifest.
package conda

import (
	"path/filepath"
	"strings"

	snaperrors "github.com/twitter/reprosnap/common/errors"
	"github.com/twitter/reprosnap/common/os/exec"
)

// ActiveMarker is the token conda prints in the row of the active environment.
const ActiveMarker = "*"

type Client struct {
	binary string
	osExec exec.OsExec
	runner exec.Runner
}

func NewClient(binary string, osExec exec.OsExec, runner exec.Runner) *Client {
	return &Client{binary: binary, osExec: osExec, runner: runner}
}

// Command creates a Cmd running conda with args, through the platform's
// shell where conda is a script rather than an executable.
func (c *Client) Command(args ...string) exec.Cmd {
	return command(c.osExec, c.binary, args...)
}

func (c *Client) run(args ...string) ([]byte, error) {
	rr := c.runner.Run(c.Command(args...))
	if rr.Error != nil {
		return nil, rr.Error
	}
	return rr.Stdout, nil
}

// ActiveEnv returns the name, or the path for an unnamed environment, of the
// environment `conda info --envs` marks active. Errors are of kind
// ExternalToolUnavailable, ExternalToolFailure or NoActiveEnvironment.
func (c *Client) ActiveEnv() (string, error) {
	out, err := c.run("info", "--envs")
	if err != nil {
		return "", err
	}
	name, ok := ParseActiveEnv(string(out))
	if !ok {
		return "", snaperrors.Ef(snaperrors.NoActiveEnvironment, "conda info --envs",
			"no row marked %q in output", ActiveMarker)
	}
	return name, nil
}

// Export returns the verbatim output of `conda env export` for env. Build
// strings are left out unless includeBuilds is set.
func (c *Client) Export(env string, includeBuilds bool) ([]byte, error) {
	return c.run(ExportArgs(env, includeBuilds)...)
}

// ExportArgs builds the arguments of the export command. An environment given
// as a path is selected with -p, a named one with -n.
func ExportArgs(env string, includeBuilds bool) []string {
	selector := "-n"
	if filepath.IsAbs(env) || strings.ContainsAny(env, `/\`) {
		selector = "-p"
	}
	args := []string{"env", "export", selector, env}
	if !includeBuilds {
		args = append(args, "--no-builds")
	}
	return args
}

// ParseActiveEnv finds the active row of `conda info --envs` output:
//
//	# conda environments:
//	#
//	base                     /opt/conda
//	analysis              *  /opt/conda/envs/analysis
//
// The environment is the first field of the row, or the second when the row
// starts with the marker itself (an unnamed environment listed by path).
func ParseActiveEnv(out string) (string, bool) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if !hasMarker(fields) {
			continue
		}
		if fields[0] != ActiveMarker {
			return fields[0], true
		}
		if len(fields) > 1 {
			return fields[1], true
		}
		return "", false
	}
	return "", false
}

func hasMarker(fields []string) bool {
	for _, f := range fields {
		if f == ActiveMarker {
			return true
		}
	}
	return false
}
