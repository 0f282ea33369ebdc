// Package exec provides an interface over os/exec so snapshot steps can run
// external tools (git, conda) against a real process or an injected fake.
package exec

import (
	"io"
	"os"
	osexec "os/exec"
)

type (
	// OsExec provides an interface around os/exec.Command to support injecting fake
	// exec functionality
	OsExec interface {
		// Command creates a Cmd for the program name with the given arguments.
		// name is resolved against PATH the same way os/exec.Command does; a
		// program that cannot be found surfaces as an error from Start or Run.
		Command(name string, args ...string) Cmd
	}

	defaultOsExec struct{}

	// Cmd wraps the os/exec.Cmd struct with our own interface
	Cmd interface {
		// Path returns the path to the executable to run
		Path() string

		// Args returns a copy of the arguments, including the command name.
		Args() []string

		// Run starts the command and waits for it to complete.
		Run() error

		// Start starts the command but does not wait for it to complete.
		Start() error

		// Wait waits for a started command to exit. A non-zero exit status is
		// returned as an ExitError.
		Wait() error

		SetStdout(io.Writer)
		SetStderr(io.Writer)

		// String returns a human-readable description of c. It is intended only for debugging.
		String() string

		// Process returns the underlying os.Process once the command has
		// been started, and nil if it has not been started
		Process() *os.Process

		GetDir() string
		SetDir(string)
	}

	// ExitError is returned from Run and Wait when a process exits with a
	// non-zero status.
	//
	//   err := NewOsExec().Command("false").Run()
	//   if exitErr, ok := err.(ExitError); ok {
	//     code := exitErr.ExitStatus()
	//   }
	ExitError interface {
		// ExitStatus returns the numerical exit status code, or -1 if the
		// process was killed by a signal.
		ExitStatus() int

		Error() string

		// Path contains the path from the Cmd that returned this error
		Path() string

		// Args contains the args from the Cmd that returned this error
		Args() []string
	}

	cmdAdapter struct {
		cmd *osexec.Cmd
	}

	exitErrorAdapter struct {
		err  *osexec.ExitError
		path string
		args []string
	}
)

var (
	_ ExitError = &exitErrorAdapter{}
	_ Cmd       = &cmdAdapter{}
)

// NewOsExec creates a default OsExec instance
func NewOsExec() OsExec {
	return &defaultOsExec{}
}

func (d *defaultOsExec) Command(name string, args ...string) Cmd {
	return &cmdAdapter{cmd: osexec.Command(name, args...)}
}

func wrapExitError(cmd Cmd, err error) error {
	if err == nil {
		return nil
	}
	if ex, ok := err.(*osexec.ExitError); ok {
		return &exitErrorAdapter{err: ex, path: cmd.Path(), args: cmd.Args()}
	}
	return err
}

func (e *exitErrorAdapter) ExitStatus() int { return e.err.ExitCode() }
func (e *exitErrorAdapter) Error() string  { return e.err.Error() }
func (e *exitErrorAdapter) Path() string   { return e.path }
func (e *exitErrorAdapter) Args() []string { return e.args }

func (c *cmdAdapter) Run() error   { return wrapExitError(c, c.cmd.Run()) }
func (c *cmdAdapter) Start() error { return c.cmd.Start() }
func (c *cmdAdapter) Wait() error  { return wrapExitError(c, c.cmd.Wait()) }

func (c *cmdAdapter) Path() string          { return c.cmd.Path }
func (c *cmdAdapter) SetStdout(w io.Writer) { c.cmd.Stdout = w }
func (c *cmdAdapter) SetStderr(w io.Writer) { c.cmd.Stderr = w }
func (c *cmdAdapter) String() string        { return c.cmd.String() }
func (c *cmdAdapter) Process() *os.Process  { return c.cmd.Process }
func (c *cmdAdapter) GetDir() string        { return c.cmd.Dir }
func (c *cmdAdapter) SetDir(dir string)     { c.cmd.Dir = dir }

func (c *cmdAdapter) Args() []string {
	// return a copy of the Args slice to prevent direct modification by the user
	return append([]string(nil), c.cmd.Args...)
}
