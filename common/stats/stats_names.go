package stats

/*
This file defines all the metrics being collected. As new metrics are added please follow this pattern.
*/

const (
	/*
		the number of source files copied into the destination
	*/
	FilesCopiedCounter = "filesCopied"

	/*
		the number of source files that matched but could not be copied
	*/
	FileCopyFailuresCounter = "fileCopyFailures"

	/*
		the number of capture steps that reported a failure
	*/
	StepFailuresCounter = "stepFailures"

	/*
		time taken by one step of a snapshot run; scoped by step name
	*/
	StepLatency_ms = "latency_ms"
)
