package exec

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	snaperrors "github.com/twitter/reprosnap/common/errors"
)

var TimeoutError = errors.New("command timeout")

// DefaultKillTimeout is how long a timed out command gets between SIGTERM and Kill.
const DefaultKillTimeout = 2 * time.Second

// RunResult is the outcome of one external command: its exit code, the full
// contents of stdout and stderr, and an *errors.Error when it did not succeed.
type RunResult struct {
	// ExitCode is -1 when the process never started or was killed.
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Error    error
}

func (rr RunResult) String() string {
	return fmt.Sprintf("ExitCode:%d, Error:%v, Stdout:%s, Stderr:%s", rr.ExitCode, rr.Error, rr.Stdout, rr.Stderr)
}

// Runner runs an external command to completion and captures its output.
type Runner interface {
	Run(cmd Cmd) RunResult
}

type runner struct {
	timeout     time.Duration
	killTimeout time.Duration
}

// NewRunner returns a Runner. If timeout > 0 a command running longer than
// timeout is sent SIGTERM, then killed after killTimeout.
func NewRunner(timeout, killTimeout time.Duration) Runner {
	if killTimeout <= 0 {
		killTimeout = DefaultKillTimeout
	}
	return &runner{timeout: timeout, killTimeout: killTimeout}
}

// CommandLine renders cmd as it would be typed, with the program reduced to its base name.
func CommandLine(cmd Cmd) string {
	args := cmd.Args()
	if len(args) > 0 {
		args[0] = filepath.Base(args[0])
	}
	return strings.Join(args, " ")
}

func (r *runner) Run(cmd Cmd) RunResult {
	rr := RunResult{ExitCode: -1}
	line := CommandLine(cmd)

	var outBuf, errBuf bytes.Buffer
	cmd.SetStdout(&outBuf)
	cmd.SetStderr(&errBuf)

	log.WithField("cmd", line).Debug("Running command")
	if err := cmd.Start(); err != nil {
		rr.Error = startError(line, err)
		return rr
	}

	doneCh := make(chan struct{})
	var cmdErr error
	go func() {
		cmdErr = cmd.Wait()
		close(doneCh)
	}()

	var timeoutCh <-chan time.Time
	if r.timeout > 0 {
		timeoutCh = time.After(r.timeout)
	}

	select {
	case <-doneCh:
	case <-timeoutCh:
		log.Infof("command %q timed out after %v. Killing command", line, r.timeout)
		termThenKill(cmd.Process(), r.killTimeout, doneCh)
		// must still wait for cmd.Wait()
		<-doneCh
		cmdErr = TimeoutError
	}

	rr.Stdout = outBuf.Bytes()
	rr.Stderr = errBuf.Bytes()

	switch e := cmdErr.(type) {
	case nil:
		rr.ExitCode = 0
	case ExitError:
		rr.ExitCode = e.ExitStatus()
		rr.Error = snaperrors.E(snaperrors.ExternalToolFailure, line,
			errors.Errorf("exit code %d: %s", rr.ExitCode, strings.TrimSpace(string(rr.Stderr))))
	default:
		rr.Error = snaperrors.E(snaperrors.ExternalToolFailure, line, cmdErr)
	}
	return rr
}

func startError(line string, err error) error {
	if stderrors.Is(err, osexec.ErrNotFound) || stderrors.Is(err, fs.ErrNotExist) {
		return snaperrors.E(snaperrors.ExternalToolUnavailable, line, err)
	}
	return snaperrors.E(snaperrors.ExternalToolFailure, line, err)
}

// termThenKill will SIGTERM a process, then Kill it if it hasn't exited after duration d.
// waitDoneCh must be closed by the caller when the process exits (to avoid double Wait()ing)
func termThenKill(p *os.Process, d time.Duration, waitDoneCh <-chan struct{}) error {
	if p == nil {
		return nil
	}
	if err := terminate(p); err != nil {
		log.Errorf("Failed to terminate process: %s", err)
		return err
	}

	select {
	case <-waitDoneCh:
	case <-time.After(d):
		log.Info("Command hasn't exited, using Kill()")
		if err := p.Kill(); err != nil {
			log.Errorf("Failed to Kill() process: %s", err)
			return err
		}
	}
	return nil
}
