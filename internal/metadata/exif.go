package metadata

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/barasher/go-exiftool"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/sirupsen/logrus"

	// Register decoders for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Info describes an image file: its pixel dimensions, detected format,
// and EXIF data when present.
type Info struct {
	Path        string
	Format      string
	Width       int
	Height      int
	Taken       *time.Time
	Orientation int
	CameraMake  string
	CameraModel string
}

// Inspector reads image dimensions and EXIF metadata from files.
type Inspector struct {
	logger *logrus.Logger
}

// NewInspector returns a new Inspector.
func NewInspector(logger *logrus.Logger) *Inspector {
	return &Inspector{logger: logger}
}

// Inspect returns the dimensions and EXIF metadata of an image file.
// Missing EXIF data is not an error; the corresponding fields stay zero.
func (i *Inspector) Inspect(filePath string) (*Info, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	info := &Info{
		Path:   filePath,
		Format: strings.ToUpper(format),
		Width:  cfg.Width,
		Height: cfg.Height,
	}

	if _, err := f.Seek(0, 0); err != nil {
		return info, nil
	}

	x, err := exif.Decode(f)
	if err != nil {
		i.logger.Debugf("No EXIF data in %s: %v", filePath, err)
		return info, nil
	}

	if tm, err := x.DateTime(); err == nil {
		info.Taken = &tm
	}
	if field, err := x.Get(exif.Orientation); err == nil {
		if v, err := field.Int(0); err == nil {
			info.Orientation = v
		}
	}
	if field, err := x.Get(exif.Make); err == nil {
		if v, err := field.StringVal(); err == nil {
			info.CameraMake = v
		}
	}
	if field, err := x.Get(exif.Model); err == nil {
		if v, err := field.StringVal(); err == nil {
			info.CameraModel = v
		}
	}

	return info, nil
}

// Fields returns all metadata tags of a file as reported by exiftool.
// Requires the exiftool binary to be installed.
func (i *Inspector) Fields(filePath string) (map[string]interface{}, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("exiftool unavailable: %w", err)
	}
	defer et.Close()

	files := et.ExtractMetadata(filePath)
	if len(files) == 0 {
		return nil, fmt.Errorf("no metadata extracted from %s", filePath)
	}
	if files[0].Err != nil {
		return nil, files[0].Err
	}
	return files[0].Fields, nil
}

// SupportsFile reports whether EXIF inspection makes sense for the file.
func (i *Inspector) SupportsFile(filePath string) bool {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".jpg", ".jpeg", ".png", ".tif", ".tiff", ".webp":
		return true
	default:
		return false
	}
}
