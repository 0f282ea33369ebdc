package revision

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DirtyWarning is written as the last line of every descriptor.
const DirtyWarning = `/!\ the files in the directory may have been modified since the last commit!!`

// DefaultHostURL reproduces the placeholder link base; callers substitute their own.
const DefaultHostURL = "https://github.com/<user>"

// Descriptor records the version-control identity of a working tree at capture time.
type Descriptor struct {
	ProjectName     string
	BranchName      string
	CommitHash      string
	RemoteCommitURL string
	RemoteLogURL    string
	DirtyWarning    string
}

// NewDescriptor fills in the hosted-repository links under hostURL.
func NewDescriptor(hostURL, project, branch, hash string) Descriptor {
	if hostURL == "" {
		hostURL = DefaultHostURL
	}
	base := strings.TrimRight(hostURL, "/") + "/" + project
	return Descriptor{
		ProjectName:     project,
		BranchName:      branch,
		CommitHash:      hash,
		RemoteCommitURL: base + "/commit/" + hash,
		RemoteLogURL:    base + "/commits/" + hash,
		DirtyWarning:    DirtyWarning,
	}
}

// Render returns the descriptor file contents, one labeled line per field.
func (d Descriptor) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project Name: %s\n", d.ProjectName)
	fmt.Fprintf(&b, "Branch Name: %s\n", d.BranchName)
	fmt.Fprintf(&b, "Commit Hash: %s\n", d.CommitHash)
	fmt.Fprintf(&b, "View single commit: %s\n", d.RemoteCommitURL)
	fmt.Fprintf(&b, "View log: %s\n", d.RemoteLogURL)
	fmt.Fprintf(&b, "%s\n", d.DirtyWarning)
	return b.String()
}

// ProjectName derives the project from a remote URL: the last path segment
// with any ".git" suffix removed. Both URL (https://host/user/demo.git) and
// scp-like (git@host:user/demo.git) remotes are understood. If nothing usable
// is left, the base name of workDir is used.
func ProjectName(remoteURL, workDir string) string {
	u := strings.TrimRight(strings.TrimSpace(remoteURL), `/\`)
	u = strings.TrimSuffix(u, ".git")
	if i := strings.LastIndexAny(u, `/\:`); i >= 0 {
		u = u[i+1:]
	}
	if u != "" {
		return u
	}
	return dirName(workDir)
}

func dirName(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return filepath.Base(dir)
}
