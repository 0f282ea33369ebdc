//go:build !windows

package conda

import "github.com/twitter/reprosnap/common/os/exec"

func command(osExec exec.OsExec, binary string, args ...string) exec.Cmd {
	return osExec.Command(binary, args...)
}
