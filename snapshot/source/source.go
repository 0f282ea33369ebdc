// Package source copies the root-level source files of a working directory
// into a snapshot destination.
package source

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	snaperrors "github.com/twitter/reprosnap/common/errors"
	"github.com/twitter/reprosnap/common/stats"
	"github.com/twitter/reprosnap/snapshot/artifact"
)

// DefaultExtensions selects the files copied when none are configured.
var DefaultExtensions = []string{".py"}

// FileFailure is a matching file that could not be copied.
type FileFailure struct {
	Name string
	Err  error
}

// Result lists the copies written and the files that failed, both in name order.
type Result struct {
	Copied []string
	Failed []FileFailure
}

// Err summarizes per-file failures as a FileSystemError, or nil if every file was copied.
func (r Result) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		names = append(names, f.Name)
	}
	return snaperrors.Ef(snaperrors.FileSystemError, "copy source files",
		"%d file(s) not copied: %s", len(r.Failed), strings.Join(names, ", "))
}

type Copier struct {
	extensions []string
	stat       stats.StatsReceiver
}

// NewCopier returns a Copier selecting files whose names end with one of
// extensions, or DefaultExtensions if none are given.
func NewCopier(extensions []string, stat stats.StatsReceiver) *Copier {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	return &Copier{extensions: extensions, stat: stat}
}

// Matches reports whether name ends with one of the configured extensions.
func (c *Copier) Matches(name string) bool {
	for _, ext := range c.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Copy copies every regular file directly in srcDir that Matches into destDir
// as {name}_{ts}.txt, keeping permission bits and modification time. It does
// not descend into subdirectories. A file that cannot be copied, e.g. because
// it disappeared after srcDir was listed, is recorded in Result.Failed and the
// remaining files are still copied. The returned error is only set when srcDir
// itself cannot be listed.
func (c *Copier) Copy(srcDir, destDir, ts string) (Result, error) {
	var result Result
	infos, err := ioutil.ReadDir(srcDir)
	if err != nil {
		return result, snaperrors.E(snaperrors.FileSystemError, "list "+srcDir, err)
	}

	for _, info := range infos {
		name := info.Name()
		mode := info.Mode()
		if !c.Matches(name) || !mode.IsRegular() && mode&os.ModeSymlink == 0 {
			continue
		}
		path, err := c.copyFile(filepath.Join(srcDir, name), destDir, artifact.SourceCopyName(name, ts))
		if err == errNotRegular {
			log.Debugf("Skipping %s: not a regular file", name)
			continue
		}
		if err != nil {
			log.WithField("file", name).Warnf("Could not copy source file: %v", err)
			c.stat.Counter(stats.FileCopyFailuresCounter).Inc(1)
			result.Failed = append(result.Failed, FileFailure{Name: name, Err: err})
			continue
		}
		log.Debugf("Copied %s to %s", name, path)
		c.stat.Counter(stats.FilesCopiedCounter).Inc(1)
		result.Copied = append(result.Copied, path)
	}
	return result, nil
}

var errNotRegular = errors.New("not a regular file")

func (c *Copier) copyFile(src, destDir, destName string) (string, error) {
	f, err := os.Open(src)
	if err != nil {
		return "", snaperrors.E(snaperrors.FileSystemError, "open "+src, err)
	}
	defer f.Close()

	// Stat the open file, following symlinks, so what is copied is what is checked.
	info, err := f.Stat()
	if err != nil {
		return "", snaperrors.E(snaperrors.FileSystemError, "stat "+src, err)
	}
	if !info.Mode().IsRegular() {
		return "", errNotRegular
	}

	path, err := artifact.WriteFile(destDir, destName, f, info.Mode().Perm())
	if err != nil {
		return "", err
	}
	if err := os.Chtimes(path, info.ModTime(), info.ModTime()); err != nil {
		log.Debugf("Could not preserve times on %s: %v", path, err)
	}
	return path, nil
}
