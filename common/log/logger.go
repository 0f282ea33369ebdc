// Package log configures the process-wide logrus logger the way every
// reprosnap binary expects it.
package log

import (
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/twitter/reprosnap/common/log/hooks"
)

// Setup parses level (error|warn|info|debug), sends output to w and installs
// the context hook on the standard logger. Calling it again replaces the
// previous settings.
func Setup(level string, w io.Writer) error {
	l, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(l)
	log.SetOutput(w)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	hs := make(log.LevelHooks)
	hs.Add(hooks.NewContextHook())
	log.StandardLogger().ReplaceHooks(hs)
	return nil
}
