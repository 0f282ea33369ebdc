package snapshot

import (
	snaperrors "github.com/twitter/reprosnap/common/errors"
)

// Step names one stage of a snapshot run.
type Step string

const (
	StepPrepare  Step = "prepare"
	StepSource   Step = "source"
	StepRevision Step = "revision"
	StepEnv      Step = "env"
)

// Describe names the operation a step performs, for messages.
func (s Step) Describe() string {
	switch s {
	case StepPrepare:
		return "Preparing destination directory"
	case StepSource:
		return "Copying source files"
	case StepRevision:
		return "Recording git revision"
	case StepEnv:
		return "Exporting conda environment"
	}
	return string(s)
}

// StepResult is the outcome of one step: the artifacts it wrote and, on
// failure, an error carrying a snaperrors.Kind.
type StepResult struct {
	Step  Step
	Paths []string
	Err   error
}

func (r StepResult) OK() bool { return r.Err == nil }

func (r StepResult) Kind() snaperrors.Kind { return snaperrors.KindOf(r.Err) }

// Report aggregates a snapshot run. Every artifact path in it embeds Timestamp.
type Report struct {
	RunID     string
	Timestamp string
	Dest      string
	Steps     []StepResult
}

// Step returns the result of s, if s ran.
func (r *Report) Step(s Step) (StepResult, bool) {
	for _, res := range r.Steps {
		if res.Step == s {
			return res, true
		}
	}
	return StepResult{}, false
}

// Aborted reports whether the destination could not be prepared, so nothing was captured.
func (r *Report) Aborted() bool {
	res, ok := r.Step(StepPrepare)
	return ok && !res.OK()
}

// OK reports whether every step ran and succeeded.
func (r *Report) OK() bool {
	if len(r.Steps) != 4 {
		return false
	}
	for _, res := range r.Steps {
		if !res.OK() {
			return false
		}
	}
	return true
}

// Paths lists every artifact written, in step order.
func (r *Report) Paths() []string {
	var paths []string
	for _, res := range r.Steps {
		paths = append(paths, res.Paths...)
	}
	return paths
}

// ExitCode maps the run's outcome to a process exit code.
func (r *Report) ExitCode() snaperrors.ExitCode {
	switch {
	case r.Aborted():
		return snaperrors.PrepareFailureExitCode
	case !r.OK():
		return snaperrors.CaptureFailureExitCode
	}
	return snaperrors.SuccessExitCode
}

// Err returns nil for a successful run, else an *snaperrors.ExitCodeError
// naming the failed steps.
func (r *Report) Err() error {
	code := r.ExitCode()
	if code == snaperrors.SuccessExitCode {
		return nil
	}
	var failed []string
	for _, res := range r.Steps {
		if !res.OK() {
			failed = append(failed, string(res.Step))
		}
	}
	return snaperrors.NewError(snaperrors.Ef(snaperrors.KindOf(r.firstErr()), "snapshot", "failed steps: %v", failed), code)
}

func (r *Report) firstErr() error {
	for _, res := range r.Steps {
		if res.Err != nil {
			return res.Err
		}
	}
	return nil
}
