package snapshot

import (
	"path/filepath"
	"time"

	uuid "github.com/nu7hatch/gouuid"
	log "github.com/sirupsen/logrus"

	snaperrors "github.com/twitter/reprosnap/common/errors"
	"github.com/twitter/reprosnap/common/os/exec"
	"github.com/twitter/reprosnap/common/stats"
	"github.com/twitter/reprosnap/config"
	"github.com/twitter/reprosnap/snapshot/artifact"
	"github.com/twitter/reprosnap/snapshot/conda"
	"github.com/twitter/reprosnap/snapshot/dest"
	"github.com/twitter/reprosnap/snapshot/env"
	"github.com/twitter/reprosnap/snapshot/revision"
	"github.com/twitter/reprosnap/snapshot/source"
)

type SourceCopier interface {
	Copy(srcDir, destDir, ts string) (source.Result, error)
}

type RevisionRecorder interface {
	Record(srcDir, destDir, ts string) (string, error)
}

type EnvExporter interface {
	Export(destDir, ts string) (string, error)
}

// Orchestrator runs the steps of a snapshot: reset the destination, then copy
// sources, record the revision and export the environment. The three capture
// steps are independent; a failure in one does not stop the others. A failure
// to reset the destination ends the run.
//
// Runs against the same destination must not overlap.
type Orchestrator struct {
	// Now fixes the run's timestamp. Defaults to time.Now.
	Now func() time.Time

	destName string
	copier   SourceCopier
	recorder RevisionRecorder
	exporter EnvExporter
	stat     stats.StatsReceiver
}

// NewOrchestrator wires the standard steps from cfg, running git and conda
// through osExec and runner.
func NewOrchestrator(cfg config.Config, osExec exec.OsExec, runner exec.Runner, stat stats.StatsReceiver) *Orchestrator {
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	return MakeOrchestrator(
		cfg.DestName,
		source.NewCopier(cfg.Extensions, stat.Scope(string(StepSource))),
		revision.NewRecorder(cfg.GitBinary, cfg.HostURL, osExec, runner),
		env.NewExporter(conda.NewClient(cfg.CondaBinary, osExec, runner), cfg.IncludeBuilds),
		stat)
}

// MakeOrchestrator builds an Orchestrator from explicit steps.
func MakeOrchestrator(destName string, copier SourceCopier, recorder RevisionRecorder, exporter EnvExporter,
	stat stats.StatsReceiver) *Orchestrator {
	if destName == "" {
		destName = config.DefaultDestName
	}
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	return &Orchestrator{
		Now:      time.Now,
		destName: destName,
		copier:   copier,
		recorder: recorder,
		exporter: exporter,
		stat:     stat,
	}
}

// Run snapshots workDir into workDir/<destName>.
func (o *Orchestrator) Run(workDir string) *Report {
	report := &Report{
		RunID:     newRunID(),
		Timestamp: artifact.Timestamp(o.Now()),
		Dest:      filepath.Join(workDir, o.destName),
	}
	logger := log.WithField("run", report.RunID)
	logger.Infof("Snapshotting %s into %s at %s", workDir, report.Dest, report.Timestamp)

	if !o.step(report, logger, StepPrepare, func() ([]string, error) {
		return nil, dest.Reset(report.Dest)
	}) {
		return report
	}

	o.step(report, logger, StepSource, func() ([]string, error) {
		result, err := o.copier.Copy(workDir, report.Dest, report.Timestamp)
		if err != nil {
			return nil, err
		}
		for _, f := range result.Failed {
			logger.WithField("step", StepSource).Warnf("Skipped %s: %v", f.Name, f.Err)
		}
		return result.Copied, result.Err()
	})

	o.step(report, logger, StepRevision, func() ([]string, error) {
		return single(o.recorder.Record(workDir, report.Dest, report.Timestamp))
	})

	o.step(report, logger, StepEnv, func() ([]string, error) {
		return single(o.exporter.Export(report.Dest, report.Timestamp))
	})

	return report
}

// step runs fn, records its result in report and returns whether it succeeded.
func (o *Orchestrator) step(report *Report, logger *log.Entry, s Step, fn func() ([]string, error)) bool {
	latency := o.stat.Scope(string(s)).Latency(stats.StepLatency_ms).Time()
	paths, err := fn()
	latency.Stop()

	report.Steps = append(report.Steps, StepResult{Step: s, Paths: paths, Err: err})
	logger = logger.WithField("step", s)
	if err != nil {
		o.stat.Counter(stats.StepFailuresCounter).Inc(1)
		logger.WithField("kind", snaperrors.KindOf(err)).Errorf("%s failed: %v", s.Describe(), err)
		return false
	}
	logger.Infof("%s: wrote %d file(s)", s.Describe(), len(paths))
	return true
}

func single(path string, err error) ([]string, error) {
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

func newRunID() string {
	id, err := uuid.NewV4()
	if err != nil {
		log.Debugf("Could not generate run id: %v", err)
		return ""
	}
	return id.String()
}
