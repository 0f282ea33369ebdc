//go:build windows

package exec

import "os"

// Windows has no SIGTERM; Kill is the only signal available.
func terminate(p *os.Process) error {
	return p.Kill()
}
