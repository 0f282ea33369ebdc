package hooks

import (
	"bytes"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

const sampleStack = `goroutine 1 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:24 +0x5e
github.com/twitter/reprosnap/common/log/hooks.contextHook.Fire()
	/src/github.com/twitter/reprosnap/common/log/hooks/context_hook.go:25 +0x25
github.com/sirupsen/logrus.LevelHooks.Fire(...)
	/go/pkg/mod/github.com/sirupsen/logrus@v1.9.3/hooks.go:28
github.com/twitter/reprosnap/capture.(*Orchestrator).Run()
	/src/github.com/twitter/reprosnap/capture/orchestrator.go:88 +0x1a4
main.main()
	/src/github.com/twitter/reprosnap/binaries/reprosnap/main.go:20 +0x10
`

func TestCallerLine(t *testing.T) {
	assert.Equal(t, "capture/orchestrator.go:88", callerLine(sampleStack))
	assert.Equal(t, "", callerLine("goroutine 1 [running]:\n"))
}

func TestHookAddsField(t *testing.T) {
	logger := log.New()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.AddHook(NewContextHook())
	logger.Info("hello")
	assert.Contains(t, buf.String(), "file:line")
}
