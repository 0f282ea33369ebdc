package cli

// package cli implements the reprosnap command line.
//
// main.go defines its own Injector and passes it to MakeSnapshotCLI, which
// builds the cobra command. When the command runs it:
//   - configures logging from --log_level
//   - builds a config.Config from defaults, --config and the remaining flags
//   - asks the Injector for the exec collaborators to run git and conda with
//   - runs a snapshot.Orchestrator on the working directory argument
//
// The returned error is a *errors.ExitCodeError when the run itself failed, so
// main can pick the process exit status.
import (
	"fmt"
	"io"
	"time"

	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	logsetup "github.com/twitter/reprosnap/common/log"
	"github.com/twitter/reprosnap/common/os/exec"
	"github.com/twitter/reprosnap/common/stats"
	"github.com/twitter/reprosnap/config"
	"github.com/twitter/reprosnap/snapshot"
)

type Injector interface {
	RegisterFlags(cmd *cobra.Command)
	Inject(cfg config.Config) (exec.OsExec, exec.Runner, error)
}

type snapshotCommand struct {
	configFlag    string
	logLevel      string
	destName      string
	extensions    []string
	includeBuilds bool
	hostURL       string
	timeout       time.Duration
	printStats    bool

	// for testing
	now func() time.Time
}

// MakeSnapshotCLI creates the root cobra command.
func MakeSnapshotCLI(injector Injector) *cobra.Command {
	c := &snapshotCommand{}
	return c.register(injector)
}

func (c *snapshotCommand) register(injector Injector) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reprosnap [workdir]",
		Short: "snapshot the sources, git revision and conda environment of a workflow run",
		Long: `reprosnap resets <workdir>/reproducibility and fills it with timestamped
copies of the root-level source files, a git_commit_<ts>.txt descriptor of the
checked out revision, and a conda_env_<ts>.yml export of the active environment.
Each capture is best effort: a failure is reported and the others still run.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := cmd.Flags()
	flags.StringVar(&c.configFlag, "config", "", "YAML config file (.yaml/.yml) or literal YAML text")
	flags.StringVar(&c.logLevel, "log_level", "info", "Log everything at this level and above (error|warn|info|debug)")
	flags.StringVar(&c.destName, "dest_name", config.DefaultDestName, "destination directory name under workdir")
	flags.StringSliceVar(&c.extensions, "extensions", []string{config.DefaultExtension}, "file name suffixes to copy")
	flags.BoolVar(&c.includeBuilds, "include_builds", false, "keep build strings in the exported environment")
	flags.StringVar(&c.hostURL, "host_url", config.DefaultHostURL, "base URL of the commit links")
	flags.DurationVar(&c.timeout, "timeout", 0, "timeout for each git/conda command, 0 for none")
	flags.BoolVar(&c.printStats, "print_stats", false, "print run stats as JSON when done")

	injector.RegisterFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return c.run(injector, cmd, args)
	}
	return cmd
}

func (c *snapshotCommand) run(injector Injector, cmd *cobra.Command, args []string) error {
	if err := logsetup.Setup(c.logLevel, cmd.ErrOrStderr()); err != nil {
		return err
	}

	cfg, err := c.config(cmd)
	if err != nil {
		return err
	}
	if log.IsLevelEnabled(log.DebugLevel) {
		log.Debugf("config:\n%s", spew.Sdump(cfg))
	}

	osExec, runner, err := injector.Inject(cfg)
	if err != nil {
		return err
	}

	workDir := "."
	if len(args) > 0 {
		workDir = args[0]
	}

	stat := stats.DefaultStatsReceiver()
	o := snapshot.NewOrchestrator(cfg, osExec, runner, stat)
	if c.now != nil {
		o.Now = c.now
	}
	report := o.Run(workDir)

	printReport(cmd.OutOrStdout(), report)
	if c.printStats {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", stat.Render(true))
	}
	return report.Err()
}

// config layers defaults, the --config text, then explicitly set flags.
func (c *snapshotCommand) config(cmd *cobra.Command) (config.Config, error) {
	var text []byte
	if c.configFlag != "" {
		var err error
		if text, err = config.GetConfigText(c.configFlag); err != nil {
			return config.Config{}, err
		}
	}
	cfg, err := config.Parse(text)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("dest_name") {
		cfg.DestName = c.destName
	}
	if flags.Changed("extensions") {
		cfg.Extensions = c.extensions
	}
	if flags.Changed("include_builds") {
		cfg.IncludeBuilds = c.includeBuilds
	}
	if flags.Changed("host_url") {
		cfg.HostURL = c.hostURL
	}
	if flags.Changed("timeout") {
		cfg.CommandTimeout = c.timeout
	}
	return cfg, cfg.Validate()
}

func printReport(w io.Writer, report *snapshot.Report) {
	for _, res := range report.Steps {
		if res.OK() {
			for _, p := range res.Paths {
				fmt.Fprintln(w, p)
			}
			continue
		}
		fmt.Fprintf(w, "%s failed (%s): %v\n", res.Step.Describe(), res.Kind(), res.Err)
	}
}
