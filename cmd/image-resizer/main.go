package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bharathrajssp-jpg/image-resizer/internal/config"
	"github.com/bharathrajssp-jpg/image-resizer/internal/logger"
	"github.com/bharathrajssp-jpg/image-resizer/internal/metadata"
	"github.com/bharathrajssp-jpg/image-resizer/internal/resizer"
	"github.com/bharathrajssp-jpg/image-resizer/internal/web"
)

var (
	cfgFile            string
	inputDir           string
	outputDir          string
	width              int
	height             int
	scalePercent       float64
	outputFormat       string
	noAspect           bool
	presetID           string
	dryRun             bool
	overwrite          bool
	createMissingInput bool
	preserveMetadata   bool
	verbose            bool
	quiet              bool
	version            string
	buildTime          string
	port               int
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "image-resizer",
	Short: "Batch resize and convert images in a directory",
	Long: `ImageResizer reads every supported image in an input directory,
resizes it by explicit dimensions or a scale percentage, optionally
converts the output format, and writes the results to an output
directory.

Features:
- Width/height or percentage sizing with aspect-ratio preservation
- Format conversion (JPEG, PNG, WEBP, GIF, BMP, TIFF)
- Transparency flattening when converting to opaque formats
- Per-file error recovery: one bad file never stops the batch
- Named presets for common sizes (thumbnails, Instagram, wallpapers...)
- Optional EXIF preservation on outputs
- Dry-run mode for safe testing`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResize(args)
	},
}

// presetsCmd lists the available resize presets.
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the available resize presets",
	Long: `Lists the named presets that can be passed to --preset. Each preset
is a fixed combination of dimensions, scale, and output format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPresets()
	},
}

// inspectCmd shows dimensions and EXIF metadata for a single file.
var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show image dimensions and EXIF metadata for a file",
	Long: `Decodes the image header of a specific file and shows its dimensions,
detected format, and EXIF metadata. Useful for checking what the resizer
will see before running a batch.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(args[0])
	},
}

// serveCmd starts the web interface server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start web interface server",
	Long: `Starts a web server with a graphical interface for ImageResizer.
The web interface allows you to:
- Configure resize options or pick a preset
- Start batch runs against any directory
- Monitor per-file progress in real-time
- View the final report

Access the interface at http://localhost:<port> (default: 8080)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress non-error output")

	rootCmd.Flags().StringVar(&inputDir, "input", "", "input directory containing images")
	rootCmd.Flags().StringVar(&outputDir, "output", "", "output directory for resized images")
	rootCmd.Flags().IntVar(&width, "width", 0, "target width in pixels")
	rootCmd.Flags().IntVar(&height, "height", 0, "target height in pixels")
	rootCmd.Flags().Float64Var(&scalePercent, "scale", 0, "scale by percentage (e.g. 50 for half size)")
	rootCmd.Flags().StringVar(&outputFormat, "format", "", "convert output to format (JPEG, PNG, WEBP, GIF, BMP, TIFF)")
	rootCmd.Flags().BoolVar(&noAspect, "no-aspect", false, "do not preserve aspect ratio (may distort)")
	rootCmd.Flags().StringVar(&presetID, "preset", "", "use a named preset (see 'image-resizer presets')")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "simulate the batch without writing files")
	rootCmd.Flags().BoolVar(&overwrite, "overwrite", true, "overwrite existing output files")
	rootCmd.Flags().BoolVar(&createMissingInput, "create-missing-input", false, "create the input directory if it does not exist")
	rootCmd.Flags().BoolVar(&preserveMetadata, "preserve-metadata", false, "copy EXIF metadata to output files (requires exiftool)")

	serveCmd.Flags().IntVar(&port, "port", 8080, "port to run web server on")

	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(serveCmd)
}

// initConfig loads configuration file and environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.image-resizer")
		viper.AddConfigPath("/etc/image-resizer")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// runResize executes the main batch resize logic.
func runResize(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := setupLogger(cfg)
	br := resizer.NewBatchResizerWithLogHook(cfg, log, metadata.NewTagPreserver(), nil)

	rep, err := br.Process()
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	if !quiet {
		fmt.Println("\n" + rep.GetSummary())
		if rep.GetFilesFailed() > 0 {
			fmt.Println("\n" + rep.GetFailureSummary())
		}
	}

	// Individual file failures are reported, not fatal.
	return nil
}

// runPresets prints the preset table.
func runPresets() error {
	fmt.Println("Available presets:")
	for _, p := range config.GetAvailablePresets() {
		var size string
		switch {
		case p.Width > 0 && p.Height > 0:
			size = fmt.Sprintf("%dx%d", p.Width, p.Height)
		case p.Width > 0:
			size = fmt.Sprintf("%dpx wide", p.Width)
		case p.ScalePercent > 0:
			size = fmt.Sprintf("%.0f%%", p.ScalePercent)
		default:
			size = "original size"
		}
		if p.OutputFormat != "" {
			size += ", " + p.OutputFormat
		}
		fmt.Printf("  %-12s %-22s %s (%s)\n", p.ID, p.Name, p.Description, size)
	}
	return nil
}

// runInspect shows dimensions and EXIF metadata for a single file.
func runInspect(filePath string) error {
	if !fileExists(filePath) {
		return fmt.Errorf("file does not exist: %s", filePath)
	}

	log := logrus.New()
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	inspector := metadata.NewInspector(log)
	info, err := inspector.Inspect(filePath)
	if err != nil {
		return fmt.Errorf("could not inspect %s: %w", filePath, err)
	}

	fmt.Printf("File:    %s\n", info.Path)
	fmt.Printf("Format:  %s\n", info.Format)
	fmt.Printf("Size:    %dx%d\n", info.Width, info.Height)
	if info.Taken != nil {
		fmt.Printf("Taken:   %s\n", info.Taken.Format("2006-01-02 15:04:05"))
	}
	if info.Orientation != 0 {
		fmt.Printf("Orientation: %d\n", info.Orientation)
	}
	if info.CameraMake != "" || info.CameraModel != "" {
		fmt.Printf("Camera:  %s %s\n", info.CameraMake, info.CameraModel)
	}

	if verbose {
		fields, err := inspector.Fields(filePath)
		if err != nil {
			fmt.Printf("\nFull metadata unavailable: %v\n", err)
			return nil
		}
		fmt.Println("\nAll metadata tags:")
		for k, v := range fields {
			fmt.Printf("  %s: %v\n", k, v)
		}
	}

	return nil
}

// runServe starts the web server and handles graceful shutdown.
func runServe() error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CONFIG LOAD ERROR: %v\n", err)
		cfg = config.DefaultConfig()
		cfg.Processing.DryRun = true
	}

	log := setupLogger(cfg)
	server := web.NewServer(cfg, log, metadata.NewTagPreserver())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := server.Start(port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	fmt.Printf("ImageResizer web interface started!\n")
	fmt.Printf("Open your browser and go to: http://localhost:%d\n", port)
	fmt.Printf("Press Ctrl+C to stop the server\n\n")

	<-sigChan
	fmt.Println("\nShutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	fmt.Println("Server stopped gracefully")
	return nil
}

// loadConfig loads configuration and applies CLI overrides.
func loadConfig(args []string) (*config.Config, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	if inputDir != "" {
		cfg.InputDirectory = inputDir
	}
	if cfg.InputDirectory == "" && len(args) > 0 {
		cfg.InputDirectory = args[0]
	}
	if outputDir != "" {
		cfg.OutputDirectory = outputDir
	}

	if presetID != "" {
		if err := cfg.ApplyPreset(presetID); err != nil {
			return nil, err
		}
	} else {
		if width > 0 {
			cfg.Resize.Width = width
		}
		if height > 0 {
			cfg.Resize.Height = height
		}
		if scalePercent > 0 {
			cfg.Resize.ScalePercent = scalePercent
		}
		if outputFormat != "" {
			cfg.Output.Format = outputFormat
		}
	}
	if noAspect {
		cfg.Resize.MaintainAspect = false
	}

	if dryRun {
		cfg.Processing.DryRun = true
	}
	if !overwrite {
		cfg.Processing.Overwrite = false
	}
	if createMissingInput {
		cfg.Processing.CreateMissingInput = true
	}
	if preserveMetadata {
		cfg.Processing.PreserveMetadata = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setupLogger configures and returns a logger.
func setupLogger(cfg *config.Config) *logrus.Logger {
	loggerCfg := logger.LoggerConfig{
		Level:      cfg.Logging.Level,
		FilePath:   cfg.Logging.FilePath,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
		Compress:   cfg.Logging.Compress,
		Console:    !quiet,
	}

	if verbose {
		loggerCfg.Level = "debug"
	}
	if quiet {
		loggerCfg.Level = "error"
	}

	log, err := logger.NewLogger(loggerCfg)
	if err != nil {
		log = logrus.New()
		log.SetLevel(logrus.InfoLevel)
	}

	return log
}

// fileExists returns true if the given path exists and is a file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
