// Package dest prepares the destination directory of a snapshot run.
package dest

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	snaperrors "github.com/twitter/reprosnap/common/errors"
)

const op = "reset destination"

// Reset leaves an empty directory at path, destroying whatever directory was
// there before. A non-directory at path is never removed. Removal and creation
// are one step: if creation fails after removal, path is left absent and the
// caller must run Reset again.
//
// Errors are of kind FileSystemError.
func Reset(path string) error {
	fi, err := os.Lstat(path)
	switch {
	case err == nil && !fi.IsDir():
		return snaperrors.Ef(snaperrors.FileSystemError, op, "%s exists and is not a directory", path)
	case err == nil:
		log.Infof("Removing previous snapshot at %s", path)
		if err := os.RemoveAll(path); err != nil {
			return snaperrors.E(snaperrors.FileSystemError, op, errors.Wrapf(err, "removing %s", path))
		}
	case !os.IsNotExist(err):
		return snaperrors.E(snaperrors.FileSystemError, op, err)
	}

	if err := os.Mkdir(path, 0755); err != nil {
		return snaperrors.E(snaperrors.FileSystemError, op, errors.Wrapf(err, "creating %s", path))
	}
	return nil
}
