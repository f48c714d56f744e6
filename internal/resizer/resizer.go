package resizer

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"github.com/bharathrajssp-jpg/image-resizer/internal/config"
	"github.com/bharathrajssp-jpg/image-resizer/internal/report"
)

// LogHookFunc receives every progress line, for forwarding to an
// external sink such as a WebSocket.
type LogHookFunc func(level, message string)

// MetadataPreserver copies metadata tags from a source image to an
// output image.
type MetadataPreserver interface {
	CopyTags(src, dst string) error
}

// BatchResizer resizes every supported image in the input directory and
// writes the results to the output directory. Files are processed one at
// a time, in name order; a failure on one file never stops the batch.
type BatchResizer struct {
	config    *config.Config
	logger    *logrus.Logger
	preserver MetadataPreserver

	logHook LogHookFunc
}

// NewBatchResizer returns a new BatchResizer.
func NewBatchResizer(cfg *config.Config, logger *logrus.Logger) *BatchResizer {
	return NewBatchResizerWithLogHook(cfg, logger, nil, nil)
}

// NewBatchResizerWithLogHook additionally wires a metadata preserver and
// a hook that receives progress lines (used by the web server).
func NewBatchResizerWithLogHook(
	cfg *config.Config,
	logger *logrus.Logger,
	preserver MetadataPreserver,
	logHook LogHookFunc,
) *BatchResizer {
	return &BatchResizer{
		config:    cfg,
		logger:    logger,
		preserver: preserver,
		logHook:   logHook,
	}
}

// Process runs the batch and returns the report. An error is returned
// only for configuration-level problems; per-file failures end up in the
// report instead.
func (br *BatchResizer) Process() (*report.Report, error) {
	rep := report.NewReport()

	if !br.config.InputDirectoryExists() {
		if !br.config.Processing.CreateMissingInput {
			return nil, config.NewConfigurationError("input_directory",
				"does not exist: %s", br.config.InputDirectory)
		}
		if err := os.MkdirAll(br.config.InputDirectory, 0755); err != nil {
			return nil, config.NewConfigurationError("input_directory",
				"could not create %s: %v", br.config.InputDirectory, err)
		}
		br.logf("warning", "Created input directory %s, add images and run again", br.config.InputDirectory)
		rep.AddWarning("input directory %s was missing and has been created", br.config.InputDirectory)
		rep.Finalize()
		return rep, nil
	}

	if !br.config.Processing.DryRun {
		if err := os.MkdirAll(br.config.OutputDirectory, 0755); err != nil {
			return nil, config.NewConfigurationError("output_directory",
				"could not create %s: %v", br.config.OutputDirectory, err)
		}
	}

	// os.ReadDir returns entries sorted by name, which keeps batch order
	// and re-runs deterministic.
	entries, err := os.ReadDir(br.config.InputDirectory)
	if err != nil {
		return nil, config.NewConfigurationError("input_directory",
			"could not read %s: %v", br.config.InputDirectory, err)
	}

	candidates := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		candidates++
		rep.IncrementFilesFound()
		br.processEntry(rep, entry)
	}

	if candidates == 0 {
		br.logf("warning", "Input directory %s is empty", br.config.InputDirectory)
		rep.AddWarning("input directory %s contains no files", br.config.InputDirectory)
	}

	rep.Finalize()
	br.logger.Info("Batch processing completed")
	return rep, nil
}

// processEntry handles one directory entry, recording its outcome.
func (br *BatchResizer) processEntry(rep *report.Report, entry os.DirEntry) {
	sourcePath := filepath.Join(br.config.InputDirectory, entry.Name())
	ext := strings.ToLower(filepath.Ext(entry.Name()))

	if !br.config.IsSupportedExtension(ext) {
		br.logger.Debugf("Skipping unsupported file: %s", sourcePath)
		rep.AddSkip(report.Record{
			SourcePath: sourcePath,
			Outcome:    report.OutcomeSkippedUnsupported,
			Reason:     fmt.Sprintf("unsupported extension %q", ext),
		})
		return
	}

	if err := br.processFile(rep, sourcePath, entry); err != nil {
		br.logf("error", "Failed to process %s: %v", sourcePath, err)
		rep.AddFailure(sourcePath, err.Error())
	}
}

// processFile decodes, resizes, and re-encodes a single file. Any error
// it returns is caught by the caller and recorded; it never aborts the
// batch.
func (br *BatchResizer) processFile(rep *report.Report, sourcePath string, entry os.DirEntry) error {
	info, err := entry.Info()
	if err != nil {
		return fmt.Errorf("stat error: %w", err)
	}

	img, err := imaging.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("decode error: %w", err)
	}

	srcWidth := img.Bounds().Dx()
	srcHeight := img.Bounds().Dy()
	br.logf("info", "Processing: %s (%dx%d)", entry.Name(), srcWidth, srcHeight)

	targetWidth, targetHeight := TargetSize(srcWidth, srcHeight, br.config.Resize)

	outputFormat := br.config.Output.Format
	if outputFormat == "" {
		// Keep the source format; the extension is known-supported here.
		outputFormat, _ = FormatForExtension(filepath.Ext(entry.Name()))
	}

	outputName := OutputFileName(entry.Name(), br.config.Output.Format)
	outputPath := filepath.Join(br.config.OutputDirectory, outputName)

	if !br.config.Processing.Overwrite {
		if _, err := os.Stat(outputPath); err == nil {
			br.logger.Infof("Skipping %s, output already exists: %s", sourcePath, outputPath)
			rep.AddSkip(report.Record{
				SourcePath: sourcePath,
				OutputPath: outputPath,
				Outcome:    report.OutcomeSkippedExists,
				Reason:     "output file already exists",
			})
			return nil
		}
	}

	if br.config.Processing.DryRun {
		br.logf("info", "DRY-RUN: Would resize %s (%dx%d) -> %s (%dx%d)",
			sourcePath, srcWidth, srcHeight, outputPath, targetWidth, targetHeight)
		rep.AddSuccess(report.Record{
			SourcePath:   sourcePath,
			OutputPath:   outputPath,
			SourceWidth:  srcWidth,
			SourceHeight: srcHeight,
			TargetWidth:  targetWidth,
			TargetHeight: targetHeight,
		})
		return nil
	}

	resized := img
	if targetWidth != srcWidth || targetHeight != srcHeight {
		resized = imaging.Resize(img, targetWidth, targetHeight, imaging.Lanczos)
	}

	if !SupportsTransparency(outputFormat) && !isOpaque(resized) {
		resized = flatten(resized)
	}

	if err := br.saveImage(resized, outputPath, outputFormat); err != nil {
		return err
	}

	if br.config.Processing.PreserveMetadata && br.preserver != nil {
		if err := br.preserver.CopyTags(sourcePath, outputPath); err != nil {
			br.logger.Warnf("Could not preserve metadata for %s: %v", outputPath, err)
		}
	}

	rep.AddBytesProcessed(info.Size())
	rep.AddSuccess(report.Record{
		SourcePath:   sourcePath,
		OutputPath:   outputPath,
		SourceWidth:  srcWidth,
		SourceHeight: srcHeight,
		TargetWidth:  targetWidth,
		TargetHeight: targetHeight,
	})
	br.logf("info", "Saved: %s (%dx%d)", outputName, targetWidth, targetHeight)
	return nil
}

// saveImage encodes the image to a temporary file and renames it into
// place, so a failed encode never leaves a truncated output behind.
func (br *BatchResizer) saveImage(img image.Image, outputPath, format string) error {
	tmpPath := outputPath + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create error: %w", err)
	}

	if err := Encode(f, img, format, br.config.Output); err != nil {
		f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("encode error: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write error: %w", err)
	}

	if err := os.Rename(tmpPath, outputPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename error: %w", err)
	}
	return nil
}

// isOpaque reports whether the image is known to carry no transparency.
func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

// flatten composites the image over a white background, discarding the
// alpha channel for formats that cannot encode it.
func flatten(img image.Image) image.Image {
	background := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
	return imaging.Overlay(background, img, image.Pt(0, 0), 1.0)
}

// logf logs through logrus and mirrors the line to the log hook.
func (br *BatchResizer) logf(level, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	switch level {
	case "error":
		br.logger.Error(msg)
	case "warning":
		br.logger.Warn(msg)
	default:
		br.logger.Info(msg)
	}
	if br.logHook != nil {
		br.logHook(level, msg)
	}
}
