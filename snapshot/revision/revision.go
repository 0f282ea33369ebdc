// Package revision records which commit of which project a working tree is at.
package revision

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/twitter/reprosnap/common/os/exec"
	"github.com/twitter/reprosnap/snapshot/artifact"
	"github.com/twitter/reprosnap/snapshot/git/repo"
)

// Recorder writes git_commit_<ts>.txt descriptors.
type Recorder struct {
	git     string
	hostURL string
	osExec  exec.OsExec
	runner  exec.Runner
}

func NewRecorder(git, hostURL string, osExec exec.OsExec, runner exec.Runner) *Recorder {
	return &Recorder{git: git, hostURL: hostURL, osExec: osExec, runner: runner}
}

// Describe queries git in dir for its project, branch and commit.
//
// dir must be inside a work tree; otherwise, or if git cannot be run, the error
// is of kind NotAVersionControlledTree. Failing to read HEAD or its branch is
// ExternalToolFailure. A missing or unreadable origin remote is not an error:
// the project name falls back to the base name of dir.
func (r *Recorder) Describe(dir string) (Descriptor, error) {
	rp, err := repo.NewRepository(dir, r.git, r.osExec, r.runner)
	if err != nil {
		return Descriptor{}, err
	}
	hash, err := rp.Head()
	if err != nil {
		return Descriptor{}, err
	}
	branch, err := rp.Branch()
	if err != nil {
		return Descriptor{}, err
	}

	remote, err := rp.RemoteURL("origin")
	if err != nil {
		log.Debugf("No origin remote in %s, using directory name as project: %v", dir, err)
		remote = ""
	}

	if dirty, err := rp.IsDirty(); err == nil && dirty {
		log.Debugf("Working tree %s has changes not in %s", dir, hash)
	}

	return NewDescriptor(r.hostURL, ProjectName(remote, dir), branch, hash), nil
}

// Record describes srcDir and writes the descriptor into destDir, returning
// its path. Nothing is written when Describe fails.
func (r *Recorder) Record(srcDir, destDir, ts string) (string, error) {
	d, err := r.Describe(srcDir)
	if err != nil {
		return "", err
	}
	path, err := artifact.WriteFile(destDir, artifact.DescriptorName(ts), strings.NewReader(d.Render()), 0644)
	if err != nil {
		return "", err
	}
	log.Infof("Git information saved to %s", path)
	return path, nil
}
