package resizer

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	// Registers WEBP decoding for imaging.Open.
	_ "golang.org/x/image/webp"

	"github.com/bharathrajssp-jpg/image-resizer/internal/config"
)

// FormatForExtension maps a file extension to its canonical format name.
func FormatForExtension(ext string) (string, bool) {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "JPEG", true
	case ".png":
		return "PNG", true
	case ".gif":
		return "GIF", true
	case ".bmp":
		return "BMP", true
	case ".tif", ".tiff":
		return "TIFF", true
	case ".webp":
		return "WEBP", true
	default:
		return "", false
	}
}

// ExtensionForFormat returns the file extension written for a format,
// the lowercase format name with a leading dot.
func ExtensionForFormat(format string) string {
	return "." + strings.ToLower(format)
}

// SupportsTransparency reports whether the format can encode an alpha
// channel. Transparency-bearing images must be flattened before encoding
// to a format that cannot.
func SupportsTransparency(format string) bool {
	switch format {
	case "JPEG", "BMP":
		return false
	default:
		return true
	}
}

// OutputFileName returns the output basename for a source file: the
// original name with the extension rewritten when converting formats.
func OutputFileName(sourceName, outputFormat string) string {
	ext := filepath.Ext(sourceName)
	if outputFormat == "" {
		return sourceName
	}
	if current, ok := FormatForExtension(ext); ok && current == outputFormat {
		return sourceName
	}
	return strings.TrimSuffix(sourceName, ext) + ExtensionForFormat(outputFormat)
}

// Encode writes the image to w in the given format. WEBP goes through its
// own encoder; everything else is delegated to the imaging package.
func Encode(w io.Writer, img image.Image, format string, output config.OutputConfig) error {
	switch format {
	case "JPEG":
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(output.JPEGQuality))
	case "PNG":
		return imaging.Encode(w, img, imaging.PNG)
	case "GIF":
		return imaging.Encode(w, img, imaging.GIF)
	case "BMP":
		return imaging.Encode(w, img, imaging.BMP)
	case "TIFF":
		return imaging.Encode(w, img, imaging.TIFF)
	case "WEBP":
		return webp.Encode(w, img, &webp.Options{Quality: float32(output.WEBPQuality)})
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
