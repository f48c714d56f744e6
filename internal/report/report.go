package report

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Outcome classifies the result of processing a single file.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeSucceeded
	OutcomeSkippedUnsupported
	OutcomeSkippedExists
	OutcomeFailed
)

// String returns a human-readable description of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeSkippedUnsupported:
		return "skipped-unsupported-format"
	case OutcomeSkippedExists:
		return "skipped-output-exists"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Record describes what happened to one file during the batch.
type Record struct {
	SourcePath   string
	OutputPath   string
	SourceWidth  int
	SourceHeight int
	TargetWidth  int
	TargetHeight int
	Outcome      Outcome
	Reason       string
	Timestamp    time.Time
}

// Report accumulates per-file records and aggregate counters for one
// batch run. Counters use atomics so the web server can read them while
// a run is in progress.
type Report struct {
	FilesFound     int64
	FilesProcessed int64
	FilesSucceeded int64
	FilesSkipped   int64
	FilesFailed    int64
	BytesProcessed int64

	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	FilesPerSecond float64

	Warnings []string

	mutex   sync.RWMutex
	records []Record
}

// NewReport returns a Report with the start time set to now.
func NewReport() *Report {
	return &Report{
		StartTime: time.Now(),
		records:   make([]Record, 0),
	}
}

// IncrementFilesFound increases the count of found files by 1.
func (r *Report) IncrementFilesFound() {
	atomic.AddInt64(&r.FilesFound, 1)
}

// AddBytesProcessed adds the given number of bytes to the total bytes processed.
func (r *Report) AddBytesProcessed(bytes int64) {
	atomic.AddInt64(&r.BytesProcessed, bytes)
}

// AddSuccess records a successfully resized file.
func (r *Report) AddSuccess(rec Record) {
	rec.Outcome = OutcomeSucceeded
	r.add(rec)
	atomic.AddInt64(&r.FilesProcessed, 1)
	atomic.AddInt64(&r.FilesSucceeded, 1)
}

// AddSkip records a file that was skipped, with the reason.
func (r *Report) AddSkip(rec Record) {
	if rec.Outcome != OutcomeSkippedUnsupported && rec.Outcome != OutcomeSkippedExists {
		rec.Outcome = OutcomeSkippedUnsupported
	}
	r.add(rec)
	atomic.AddInt64(&r.FilesProcessed, 1)
	atomic.AddInt64(&r.FilesSkipped, 1)
}

// AddFailure records a file that could not be processed.
func (r *Report) AddFailure(sourcePath, reason string) {
	r.add(Record{
		SourcePath: sourcePath,
		Outcome:    OutcomeFailed,
		Reason:     reason,
	})
	atomic.AddInt64(&r.FilesProcessed, 1)
	atomic.AddInt64(&r.FilesFailed, 1)
}

// AddWarning records a batch-level warning (e.g. empty input directory).
func (r *Report) AddWarning(format string, args ...interface{}) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Report) add(rec Record) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	r.mutex.Lock()
	r.records = append(r.records, rec)
	r.mutex.Unlock()
}

// Records returns a copy of all per-file records in processing order.
func (r *Report) Records() []Record {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Failures returns the records with a failed outcome.
func (r *Report) Failures() []Record {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	var out []Record
	for _, rec := range r.records {
		if rec.Outcome == OutcomeFailed {
			out = append(out, rec)
		}
	}
	return out
}

// Finalize calculates final statistics such as duration and files per second.
func (r *Report) Finalize() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)

	totalProcessed := atomic.LoadInt64(&r.FilesProcessed)
	if r.Duration.Seconds() > 0 {
		r.FilesPerSecond = float64(totalProcessed) / r.Duration.Seconds()
	}
}

// GetSummary returns a formatted summary of the batch run.
func (r *Report) GetSummary() string {
	return fmt.Sprintf(`Image Resizer Summary:

Files:
		Total Found: %d
		Total Processed: %d
		Succeeded: %d
		Skipped: %d
		Failed: %d

Performance:
		Duration: %v
		Files/Second: %.2f
		Bytes Processed: %s`,
		atomic.LoadInt64(&r.FilesFound),
		atomic.LoadInt64(&r.FilesProcessed),
		atomic.LoadInt64(&r.FilesSucceeded),
		atomic.LoadInt64(&r.FilesSkipped),
		atomic.LoadInt64(&r.FilesFailed),
		r.Duration,
		r.FilesPerSecond,
		formatBytes(atomic.LoadInt64(&r.BytesProcessed)))
}

// GetFailureSummary returns a per-file listing of failures.
func (r *Report) GetFailureSummary() string {
	failures := r.Failures()
	if len(failures) == 0 {
		return "No failures occurred during processing"
	}

	result := fmt.Sprintf("Failures (%d total):\n", len(failures))
	for i, rec := range failures {
		if i >= 10 {
			result += fmt.Sprintf("  ... and %d more failures\n", len(failures)-10)
			break
		}
		result += fmt.Sprintf("  [%s] %s - %s\n",
			rec.Timestamp.Format("15:04:05"),
			rec.SourcePath,
			rec.Reason)
	}
	return result
}

// GetFilesSucceeded returns the number of successfully processed files.
func (r *Report) GetFilesSucceeded() int64 {
	return atomic.LoadInt64(&r.FilesSucceeded)
}

// GetFilesSkipped returns the number of skipped files.
func (r *Report) GetFilesSkipped() int64 {
	return atomic.LoadInt64(&r.FilesSkipped)
}

// GetFilesFailed returns the number of failed files.
func (r *Report) GetFilesFailed() int64 {
	return atomic.LoadInt64(&r.FilesFailed)
}

// formatBytes returns a human-readable string for a byte count.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
