package resizer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bharathrajssp-jpg/image-resizer/internal/config"
)

func TestTargetSize(t *testing.T) {
	tests := []struct {
		name       string
		srcW, srcH int
		rc         config.ResizeConfig
		wantW      int
		wantH      int
	}{
		{
			name: "width only keeps ratio",
			srcW: 1000, srcH: 500,
			rc:    config.ResizeConfig{Width: 300, MaintainAspect: true},
			wantW: 300, wantH: 150,
		},
		{
			name: "height only keeps ratio",
			srcW: 1000, srcH: 500,
			rc:    config.ResizeConfig{Height: 150, MaintainAspect: true},
			wantW: 300, wantH: 150,
		},
		{
			name: "both dimensions exact when aspect off",
			srcW: 1000, srcH: 500,
			rc:    config.ResizeConfig{Width: 800, Height: 800, MaintainAspect: false},
			wantW: 800, wantH: 800,
		},
		{
			name: "both dimensions fit within box when aspect on",
			srcW: 1000, srcH: 500,
			rc:    config.ResizeConfig{Width: 800, Height: 800, MaintainAspect: true},
			wantW: 800, wantH: 400,
		},
		{
			name: "portrait fits within landscape box",
			srcW: 500, srcH: 1000,
			rc:    config.ResizeConfig{Width: 1280, Height: 720, MaintainAspect: true},
			wantW: 360, wantH: 720,
		},
		{
			name: "fifty percent",
			srcW: 800, srcH: 600,
			rc:    config.ResizeConfig{ScalePercent: 50, MaintainAspect: true},
			wantW: 400, wantH: 300,
		},
		{
			name: "hundred percent identity",
			srcW: 1234, srcH: 567,
			rc:    config.ResizeConfig{ScalePercent: 100, MaintainAspect: true},
			wantW: 1234, wantH: 567,
		},
		{
			name: "no rule passes through",
			srcW: 640, srcH: 480,
			rc:    config.ResizeConfig{MaintainAspect: true},
			wantW: 640, wantH: 480,
		},
		{
			name: "width and height win over percentage",
			srcW: 1000, srcH: 500,
			rc:    config.ResizeConfig{Width: 300, ScalePercent: 50, MaintainAspect: true},
			wantW: 300, wantH: 150,
		},
		{
			name: "tiny scale clamps to 1px",
			srcW: 5, srcH: 5,
			rc:    config.ResizeConfig{ScalePercent: 1, MaintainAspect: true},
			wantW: 1, wantH: 1,
		},
		{
			name: "extreme aspect clamps short side to 1px",
			srcW: 10000, srcH: 10,
			rc:    config.ResizeConfig{Width: 100, MaintainAspect: true},
			wantW: 100, wantH: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotW, gotH := TargetSize(tt.srcW, tt.srcH, tt.rc)
			assert.Equal(t, tt.wantW, gotW, "width")
			assert.Equal(t, tt.wantH, gotH, "height")
		})
	}
}

// With maintain_aspect on, the output ratio must match the source ratio
// within one pixel of rounding error.
func TestTargetSizePreservesAspectRatio(t *testing.T) {
	sources := []struct{ w, h int }{
		{800, 600}, {1920, 1080}, {333, 777}, {1024, 1}, {97, 311},
	}
	boxes := []struct{ w, h int }{
		{300, 0}, {0, 150}, {1080, 1080}, {640, 480}, {50, 900},
	}

	for _, src := range sources {
		for _, box := range boxes {
			rc := config.ResizeConfig{Width: box.w, Height: box.h, MaintainAspect: true}
			gotW, gotH := TargetSize(src.w, src.h, rc)

			assert.GreaterOrEqual(t, gotW, 1)
			assert.GreaterOrEqual(t, gotH, 1)

			if gotW <= 1 || gotH <= 1 {
				continue // clamped, ratio no longer meaningful
			}

			srcRatio := float64(src.w) / float64(src.h)
			backH := float64(gotW) / srcRatio
			assert.LessOrEqual(t, math.Abs(backH-float64(gotH)), 1.0,
				"source %dx%d box %dx%d -> %dx%d drifts more than 1px",
				src.w, src.h, box.w, box.h, gotW, gotH)
		}
	}
}

func TestFormatForExtension(t *testing.T) {
	for ext, want := range map[string]string{
		".jpg":  "JPEG",
		".JPEG": "JPEG",
		".png":  "PNG",
		".gif":  "GIF",
		".bmp":  "BMP",
		".tif":  "TIFF",
		".tiff": "TIFF",
		".webp": "WEBP",
	} {
		got, ok := FormatForExtension(ext)
		assert.True(t, ok, ext)
		assert.Equal(t, want, got, ext)
	}

	_, ok := FormatForExtension(".txt")
	assert.False(t, ok)
}

func TestOutputFileName(t *testing.T) {
	assert.Equal(t, "photo.jpg", OutputFileName("photo.jpg", ""))
	assert.Equal(t, "photo.jpeg", OutputFileName("photo.png", "JPEG"))
	assert.Equal(t, "photo.webp", OutputFileName("photo.jpg", "WEBP"))
	// Already in the target format, extension stays untouched.
	assert.Equal(t, "photo.jpg", OutputFileName("photo.jpg", "JPEG"))
	assert.Equal(t, "archive.tiff", OutputFileName("archive.bmp", "TIFF"))
}

func TestSupportsTransparency(t *testing.T) {
	assert.False(t, SupportsTransparency("JPEG"))
	assert.False(t, SupportsTransparency("BMP"))
	assert.True(t, SupportsTransparency("PNG"))
	assert.True(t, SupportsTransparency("WEBP"))
	assert.True(t, SupportsTransparency("GIF"))
	assert.True(t, SupportsTransparency("TIFF"))
}
