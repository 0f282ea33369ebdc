package exec

import (
	"fmt"
	"io"
	"io/ioutil"
	osexec "os/exec"
	"regexp"
	"strings"
	"testing"
)

type (
	// FakeOutput is what a ValidatingCmd produces for one expected command.
	FakeOutput struct {
		Stdout   string
		Stderr   string
		ExitCode int
		// StartErr, if set, is returned from Start and nothing is written.
		StartErr error
	}

	// ValidatingExecer is an OsExec implementation that instead of running Commands,
	// validates that commands would have been run against an expected set, and
	// plays back a FakeOutput for each.
	ValidatingExecer struct {
		t              *testing.T
		expectedCmdsRe [][]string
		outputs        map[int]FakeOutput
		commandIdx     int
	}

	// ValidatingCmd implements Cmd. It does not actually run commands, but overrides
	// run methods such as Run(), Start() and Wait() to play back the fake output for
	// its position in the expected sequence.
	ValidatingCmd struct {
		Cmd
		execer     *ValidatingExecer
		currentCmd []string
		dir        string
		stdout     io.Writer
		stderr     io.Writer
		exitCode   int
	}

	fakeExitError struct {
		code int
		args []string
	}
)

// NewValidatingExecer returns a ValidatingExecer with a set of expected commands that will be called.
// Each expected command is a list of regexps matched against the command name and its arguments.
func NewValidatingExecer(t *testing.T, expectedCmdsRe [][]string) *ValidatingExecer {
	return &ValidatingExecer{t: t, expectedCmdsRe: expectedCmdsRe, commandIdx: -1}
}

// SetFakeOutputs sets the output played back for each expected command index.
// Commands without an entry succeed with no output.
func (v *ValidatingExecer) SetFakeOutputs(outputs map[int]FakeOutput) *ValidatingExecer {
	v.outputs = outputs
	return v
}

// Command initializes a ValidatingCmd. When started, it is validated against the
// next expected command.
func (v *ValidatingExecer) Command(name string, args ...string) Cmd {
	return &ValidatingCmd{
		// Create a real Command mainly for interface compatibility
		Cmd:        NewOsExec().Command(name, args...),
		execer:     v,
		currentCmd: append([]string{name}, args...),
		stdout:     ioutil.Discard,
		stderr:     ioutil.Discard,
	}
}

// CheckAllValidated verifies that all expected commands were validated. Tests can
// `defer v.CheckAllValidated()` to use this.
func (v *ValidatingExecer) CheckAllValidated() {
	v.t.Helper()
	if v.commandIdx != len(v.expectedCmdsRe)-1 {
		v.t.Fatalf("Number of expected commands: %d did not match validated command count: %d",
			len(v.expectedCmdsRe), v.commandIdx+1)
	}
}

// NotFound is a StartErr that looks like a program missing from PATH.
func NotFound(name string) error {
	return &osexec.Error{Name: name, Err: osexec.ErrNotFound}
}

func (c *ValidatingCmd) Start() error {
	v := c.execer
	v.commandIdx++
	if err := v.validateCmd(c.currentCmd); err != nil {
		v.t.Error(err)
		return err
	}
	out := v.outputs[v.commandIdx]
	if out.StartErr != nil {
		return out.StartErr
	}
	io.WriteString(c.stdout, out.Stdout)
	io.WriteString(c.stderr, out.Stderr)
	c.exitCode = out.ExitCode
	return nil
}

func (c *ValidatingCmd) Wait() error {
	if c.exitCode != 0 {
		return &fakeExitError{code: c.exitCode, args: c.currentCmd}
	}
	return nil
}

func (c *ValidatingCmd) Run() error {
	if err := c.Start(); err != nil {
		return err
	}
	return c.Wait()
}

func (c *ValidatingCmd) Args() []string        { return append([]string(nil), c.currentCmd...) }
func (c *ValidatingCmd) SetStdout(w io.Writer) { c.stdout = w }
func (c *ValidatingCmd) SetStderr(w io.Writer) { c.stderr = w }
func (c *ValidatingCmd) GetDir() string        { return c.dir }
func (c *ValidatingCmd) SetDir(dir string)     { c.dir = dir }

func (v *ValidatingExecer) validateCmd(cmd []string) error {
	if v.commandIdx >= len(v.expectedCmdsRe) {
		return fmt.Errorf("command validation failed.\n\tonly expected %d commands.\n\treceived extra command: %s\n",
			len(v.expectedCmdsRe), cmd)
	}
	commandRes := v.expectedCmdsRe[v.commandIdx]
	if len(commandRes) != len(cmd) {
		return fmt.Errorf("command validation failed.\n\tcmd index: %d\n\texpected: %d args (%s)\n\treceived: %d args (%s)\n",
			v.commandIdx, len(commandRes), strings.Join(commandRes, ","), len(cmd), strings.Join(cmd, ","))
	}
	for i, re := range commandRes {
		if !regexp.MustCompile(re).MatchString(cmd[i]) {
			return fmt.Errorf("command validation failed.\n\tcmd index: %d, entry: %d\n\texpected: %s\n\treceived: %s\n",
				v.commandIdx, i, re, cmd[i])
		}
	}
	return nil
}

func (e *fakeExitError) ExitStatus() int { return e.code }
func (e *fakeExitError) Error() string   { return fmt.Sprintf("exit status %d", e.code) }
func (e *fakeExitError) Path() string    { return e.args[0] }
func (e *fakeExitError) Args() []string  { return e.args }
