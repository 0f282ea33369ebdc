//go:build windows

package conda

import "github.com/twitter/reprosnap/common/os/exec"

// conda is installed as conda.bat on Windows, which only cmd.exe can run.
func command(osExec exec.OsExec, binary string, args ...string) exec.Cmd {
	return osExec.Command("cmd", append([]string{"/C", binary}, args...)...)
}
