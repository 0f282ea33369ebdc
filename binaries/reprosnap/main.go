package main

import (
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	snaperrors "github.com/twitter/reprosnap/common/errors"
	"github.com/twitter/reprosnap/common/os/exec"
	"github.com/twitter/reprosnap/config"
	"github.com/twitter/reprosnap/snapshot/cli"
)

func main() {
	inj := &injector{}
	cmd := cli.MakeSnapshotCLI(inj)
	if err := cmd.Execute(); err != nil {
		// cobra and config errors carry no code of their own.
		code := snaperrors.UsageExitCode
		if e, ok := err.(*snaperrors.ExitCodeError); ok {
			code = e.GetExitCode()
		}
		log.Error(err)
		os.Exit(int(code))
	}
}

type injector struct {
	killTimeout time.Duration
}

func (i *injector) RegisterFlags(rootCmd *cobra.Command) {
	rootCmd.Flags().DurationVar(&i.killTimeout, "kill_timeout", exec.DefaultKillTimeout,
		"how long a timed out command gets to exit after SIGTERM before it is killed")
}

func (i *injector) Inject(cfg config.Config) (exec.OsExec, exec.Runner, error) {
	return exec.NewOsExec(), exec.NewRunner(cfg.CommandTimeout, i.killTimeout), nil
}
