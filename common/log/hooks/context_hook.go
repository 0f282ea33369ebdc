package hooks

import (
	"runtime/debug"
	"strings"

	log "github.com/sirupsen/logrus"
)

type contextHook struct {
}

// NewContextHook returns a hook that tags each entry with the file:line of
// the code that logged it.
func NewContextHook() contextHook {
	return contextHook{}
}

func (hook contextHook) Levels() []log.Level {
	return log.AllLevels
}

func (hook contextHook) Fire(entry *log.Entry) error {
	if line := callerLine(string(debug.Stack())); line != "" {
		entry.Data["file:line"] = line
	}
	return nil
}

// callerLine finds the first frame in stack outside of logrus and this hook,
// trimmed to a path relative to the module root.
func callerLine(stack string) string {
	lines := strings.Split(stack, "\n")
	foundLoggerBlock := false
	for i := 0; i < len(lines); i++ {
		l := lines[i]
		if strings.Contains(l, "context_hook.go:") || strings.Contains(l, "sirupsen/logrus") {
			foundLoggerBlock = true
			continue
		}
		if !foundLoggerBlock || !strings.HasPrefix(l, "\t") {
			continue
		}
		ctx := strings.Split(l, "reprosnap/")
		loc := strings.TrimSpace(ctx[len(ctx)-1])
		// drop the " +0x1f" pc offset
		if idx := strings.Index(loc, " +0x"); idx >= 0 {
			loc = loc[:idx]
		}
		return loc
	}
	return ""
}
