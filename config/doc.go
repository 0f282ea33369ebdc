/*
Package config holds the options of a snapshot run.

Defaults reproduce the plain `reprosnap` behavior: reset ./reproducibility,
copy root-level *.py files, record the git revision with github.com links,
and export the active conda environment without build pins.

A config can be given as YAML, either as a file name ending in .yaml/.yml or
as literal text:

	destName: reproducibility
	extensions: [".py", ".ipynb"]
	includeBuilds: false
	hostURL: https://github.example.com/team
	commandTimeout: 2m
	gitBinary: git
	condaBinary: conda

Unknown keys are rejected.
*/
package config
