package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeListBuilds() string {
	return `Lists the recorded builds of a CI job and the tools that have results on it.

USE WHEN:
- Discovering which jobs, builds, and tools driftline knows about
- Picking build numbers for diff_builds

RESULTS:
- builds: number, status (success/unstable/failure/aborted/not_built), timestamp
- tools: tool identities with at least one recorded result on this job`
}

func describeGetBaseline() string {
	return `Returns the most recent analysis result of a tool on a job (the baseline).

USE WHEN:
- Checking the current issue count before or after a change
- Fetching the issue list of the latest build

INTERPRETING RESULTS:
- build is the closest completed build that carries a result; builds whose
  report was never ingested are skipped, so this may be older than the
  job's latest build
- by_severity counts use levels: low, medium, high, critical
- Set include_issues for the full issue list (file, line, severity, message)`
}

func describeDiffBuilds() string {
	return `Classifies a build's issues as new, fixed, or outstanding against the previous result-carrying build.

USE WHEN:
- Reviewing what a change introduced or resolved
- Gating on new issues (any new issue is a regression signal)

INTERPRETING RESULTS:
- Identity is the issue fingerprint, which survives line shifts; a moved
  issue is outstanding, not new+fixed
- previous_build 0 means this is the tool's first result: everything is new
- outstanding issues carry the current build's attributes (severity may
  have changed since the previous build)`
}

func describeGetTrend() string {
	return `Builds the issue-count time series of a job, per tool or aggregated across tools.

USE WHEN:
- Judging whether issue counts are trending up or down
- Reporting on long-term code quality

INTERPRETING RESULTS:
- One point per result-carrying build, ascending; gaps mean no report was
  ingested for those builds
- stats.slope > 0 means counts are growing per recorded build; r_squared
  near 1 means the trend is consistent, near 0 means noisy
- Omit tool to merge every tool's series into one with per-tool splits`
}
