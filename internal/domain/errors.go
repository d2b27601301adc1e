package domain

import "errors"

// Stage failure kinds. Acquisition and extraction failures are fatal for the
// item they occur on but never abort a batch; oracle failures degrade the
// summary instead of failing the item; distribution failures are logged only.
var (
	ErrAcquisitionFailed  = errors.New("acquisition failed")
	ErrExtractionFailed   = errors.New("extraction failed")
	ErrOracleFailed       = errors.New("oracle failed")
	ErrOracleTimeout      = errors.New("oracle timed out")
	ErrDistributionFailed = errors.New("distribution failed")
)

// Sentinel artifact contents written in place of a summary when the oracle
// call fails. Kept as fixed strings so downstream formatters and operators
// can recognize a degraded document.
const (
	SentinelSummaryFailed   = "Summary generation failed"
	SentinelSummaryTimedOut = "Summary generation timed out"
)
