// Package repo provides utilities for querying a git working tree through the
// git command line.
package repo

import (
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	snaperrors "github.com/twitter/reprosnap/common/errors"
	"github.com/twitter/reprosnap/common/os/exec"
)

// Repository represents a directory inside a git working tree.
type Repository struct {
	dir    string
	git    string
	osExec exec.OsExec
	runner exec.Runner
}

// Where r lives on disk
func (r *Repository) Dir() string {
	return r.dir
}

// Run a git command in r, returning its stdout.
// Failures are *errors.Error of kind ExternalToolUnavailable or ExternalToolFailure.
func (r *Repository) Run(args ...string) (string, error) {
	return r.RunCmd(r.Command(args...))
}

// Command creates an exec.Cmd to use to run in this Git Repo
func (r *Repository) Command(args ...string) exec.Cmd {
	cmd := r.osExec.Command(r.git, args...)
	cmd.SetDir(r.dir)
	return cmd
}

// RunCmd runs cmd (that must have been created by Command), returning its output and error
func (r *Repository) RunCmd(cmd exec.Cmd) (string, error) {
	rr := r.runner.Run(cmd)
	log.Debugf("repo.Repository.Run %v exit %d", cmd.Args()[1:], rr.ExitCode)
	if rr.Error != nil {
		log.Debugf("repo.Repository.Run error: %s", rr.Stderr)
		return string(rr.Stdout), rr.Error
	}
	return string(rr.Stdout), nil
}

// Run a git command that returns a sha.
func (r *Repository) RunSha(args ...string) (string, error) {
	out, err := r.Run(args...)
	if err != nil {
		return out, err
	}
	return validateSha(out)
}

// Head returns the commit hash HEAD points at.
func (r *Repository) Head() (string, error) {
	return r.RunSha("rev-parse", "HEAD")
}

// Branch returns the abbreviated ref of HEAD; "HEAD" when detached.
func (r *Repository) Branch() (string, error) {
	out, err := r.Run("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	branch := strings.TrimSpace(out)
	if branch == "" {
		return "", snaperrors.E(snaperrors.ExternalToolFailure, "git rev-parse --abbrev-ref HEAD",
			errors.New("empty branch name"))
	}
	return branch, nil
}

// RemoteURL returns the configured URL of the named remote. git exits 1 when
// the key is unset, which is reported as an error like any other failure.
func (r *Repository) RemoteURL(remote string) (string, error) {
	out, err := r.Run("config", "--get", "remote."+remote+".url")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// IsDirty reports whether the working tree has uncommitted changes or untracked files.
func (r *Repository) IsDirty() (bool, error) {
	out, err := r.Run("status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// validateSha trims and validates sha as a hex object name, returning the valid sha xor an error.
// Abbreviated names are accepted so a caller-pinned hash survives as-is.
func validateSha(out string) (string, error) {
	sha := strings.TrimSpace(out)
	if sha == "" {
		return "", snaperrors.Ef(snaperrors.ExternalToolFailure, "git rev-parse", "empty sha")
	}
	for _, c := range sha {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return "", snaperrors.Ef(snaperrors.ExternalToolFailure, "git rev-parse", "sha is not hex: %q", sha)
		}
	}
	return sha, nil
}

// NewRepository creates a new Repository for path `dir` using the given git binary.
// It checks that `dir` is inside a git working tree; if it is not, or git cannot
// be run, the error is of kind NotAVersionControlledTree (wrapping
// ExternalToolUnavailable when git is missing).
func NewRepository(dir, git string, osExec exec.OsExec, runner exec.Runner) (*Repository, error) {
	const op = "git rev-parse --is-inside-work-tree"
	r := &Repository{dir: dir, git: git, osExec: osExec, runner: runner}
	out, err := r.Run("rev-parse", "--is-inside-work-tree")
	if err != nil {
		return nil, snaperrors.E(snaperrors.NotAVersionControlledTree, op, err)
	}
	if strings.TrimSpace(out) != "true" {
		return nil, snaperrors.Ef(snaperrors.NotAVersionControlledTree, op, "%s is not inside a work tree", dir)
	}
	log.Debug("git.NewRepository: ", dir)
	return r, nil
}

// Try to initialize a new git repo in the given directory.
func InitRepo(dir, git string, osExec exec.OsExec, runner exec.Runner) (*Repository, error) {
	cmd := osExec.Command(git, "init")
	cmd.SetDir(dir)
	if rr := runner.Run(cmd); rr.Error != nil {
		return nil, rr.Error
	}
	return NewRepository(dir, git, osExec, runner)
}
