/*
package snapshot captures what is needed to reproduce a workflow run.

The main entry point is Orchestrator. Run resets <workdir>/reproducibility and then
captures three things into it, all stamped with one YYYYMMDD_HHMMSS timestamp:
  - copies of the root-level source files (package source)
  - a descriptor of the checked out git revision (package revision)
  - an export of the active conda environment (package env)

A failure to reset the destination aborts the run. Each capture is otherwise
independent: its failure is recorded in the Report and the others still run.
*/
package snapshot
