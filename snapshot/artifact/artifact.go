// Package artifact names and writes the files a snapshot run produces.
//
// Every artifact of one run embeds the same timestamp so the files can be
// correlated by name; there is no manifest tying them together.
package artifact

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	snaperrors "github.com/twitter/reprosnap/common/errors"
	"github.com/twitter/reprosnap/os/temp"
)

// TimestampLayout renders as YYYYMMDD_HHMMSS.
const TimestampLayout = "20060102_150405"

// Timestamp formats t for use in artifact names.
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// SourceCopyName is the name a captured source file is stored under.
func SourceCopyName(name, ts string) string {
	return name + "_" + ts + ".txt"
}

// DescriptorName is the name of the version-control descriptor file.
func DescriptorName(ts string) string {
	return "git_commit_" + ts + ".txt"
}

// ManifestName is the name of the exported environment manifest.
func ManifestName(ts string) string {
	return "conda_env_" + ts + ".yml"
}

// WriteFile streams r into dir/name. The data is written to a temporary file in
// dir and renamed into place, so a failed write never leaves a partial artifact.
// Errors are of kind FileSystemError.
func WriteFile(dir, name string, r io.Reader, perm os.FileMode) (string, error) {
	op := "write " + name
	tmp := &temp.TempDir{Dir: dir}
	f, err := tmp.TempFile("." + name + "-")
	if err != nil {
		return "", snaperrors.E(snaperrors.FileSystemError, op, err)
	}
	tmpName := f.Name()
	fail := func(err error) (string, error) {
		f.Close()
		os.Remove(tmpName)
		return "", snaperrors.E(snaperrors.FileSystemError, op, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		return fail(errors.Wrap(err, "copying data"))
	}
	if err := f.Chmod(perm); err != nil {
		return fail(err)
	}
	if err := f.Close(); err != nil {
		return fail(err)
	}
	path := filepath.Join(dir, name)
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", snaperrors.E(snaperrors.FileSystemError, op, err)
	}
	return path, nil
}
