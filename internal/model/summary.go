package model

import "time"

// AnalysisSummary tallies the final results of one compliance run.
type AnalysisSummary struct {
	TotalRows        int
	Compliant        int
	NonCompliant     int
	NeedsReview      int
	Unmatched        int
	Matched          int
	TotalViolations  int
	ViolationsByKind map[RuleKind]int
}

// ExtractionSummary captures metrics from a single rule-extraction run.
type ExtractionSummary struct {
	RunID               string
	EntryCount          int
	RuleCount           int
	RulesByKind         map[RuleKind]int
	CrossRefsResolved   int
	CrossRefsUnresolved int
	OracleBatches       int
	OracleFailures      int
	DurationLoad        time.Duration
	DurationBuild       time.Duration
	DurationOracle      time.Duration
	DurationTotal       time.Duration
}
