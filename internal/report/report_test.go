package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportCounts(t *testing.T) {
	rep := NewReport()

	rep.IncrementFilesFound()
	rep.IncrementFilesFound()
	rep.IncrementFilesFound()

	rep.AddSuccess(Record{SourcePath: "a.png", TargetWidth: 10, TargetHeight: 10})
	rep.AddSkip(Record{SourcePath: "b.txt", Outcome: OutcomeSkippedUnsupported, Reason: "unsupported extension"})
	rep.AddFailure("c.jpg", "decode error")
	rep.Finalize()

	assert.Equal(t, int64(3), rep.FilesFound)
	assert.Equal(t, int64(3), rep.FilesProcessed)
	assert.Equal(t, int64(1), rep.GetFilesSucceeded())
	assert.Equal(t, int64(1), rep.GetFilesSkipped())
	assert.Equal(t, int64(1), rep.GetFilesFailed())
	assert.Len(t, rep.Records(), 3)
}

func TestReportFailures(t *testing.T) {
	rep := NewReport()
	rep.AddSuccess(Record{SourcePath: "ok.png"})
	rep.AddFailure("bad.jpg", "truncated file")

	failures := rep.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "bad.jpg", failures[0].SourcePath)
	assert.Equal(t, "truncated file", failures[0].Reason)
	assert.Equal(t, OutcomeFailed, failures[0].Outcome)
}

func TestReportSummaryContainsCounts(t *testing.T) {
	rep := NewReport()
	rep.AddSuccess(Record{SourcePath: "a.png"})
	rep.AddSuccess(Record{SourcePath: "b.png"})
	rep.AddFailure("c.jpg", "boom")
	rep.Finalize()

	summary := rep.GetSummary()
	assert.Contains(t, summary, "Succeeded: 2")
	assert.Contains(t, summary, "Failed: 1")
	assert.Contains(t, summary, "Skipped: 0")
}

func TestFailureSummary(t *testing.T) {
	rep := NewReport()
	assert.Contains(t, rep.GetFailureSummary(), "No failures")

	rep.AddFailure("x.png", "permission denied")
	summary := rep.GetFailureSummary()
	assert.Contains(t, summary, "x.png")
	assert.Contains(t, summary, "permission denied")
}

func TestFailureSummaryTruncatesLongLists(t *testing.T) {
	rep := NewReport()
	for i := 0; i < 15; i++ {
		rep.AddFailure("file.png", "bad")
	}
	assert.Contains(t, rep.GetFailureSummary(), "and 5 more failures")
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "succeeded", OutcomeSucceeded.String())
	assert.Equal(t, "skipped-unsupported-format", OutcomeSkippedUnsupported.String())
	assert.Equal(t, "skipped-output-exists", OutcomeSkippedExists.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
	assert.Equal(t, "unknown", OutcomeUnknown.String())
}

func TestWarnings(t *testing.T) {
	rep := NewReport()
	rep.AddWarning("input directory %s is empty", "/tmp/in")
	require.Len(t, rep.Warnings, 1)
	assert.Contains(t, rep.Warnings[0], "/tmp/in")
}
