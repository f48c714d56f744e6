package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.Resize.MaintainAspect)
	assert.True(t, cfg.Processing.Overwrite)
}

func TestValidateRejectsNegativeDimensions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resize.Width = -1
	err := cfg.Validate()
	require.Error(t, err)

	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "resize.width", cfgErr.Field)
}

func TestValidateRejectsNegativeScale(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resize.ScalePercent = -10
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Format = "HEIC"
	assert.Error(t, cfg.Validate())
}

func TestValidateNormalizesFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Format = "jpg"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "JPEG", cfg.Output.Format)
}

func TestValidateRejectsBadQuality(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.JPEGQuality = 101
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "loud"
	assert.Error(t, cfg.Validate())
}

func TestNormalizeFormat(t *testing.T) {
	for input, want := range map[string]string{
		"jpeg": "JPEG",
		"JPG":  "JPEG",
		"png":  "PNG",
		"Webp": "WEBP",
		"tif":  "TIFF",
		"gif":  "GIF",
		"bmp":  "BMP",
	} {
		got, ok := NormalizeFormat(input)
		assert.True(t, ok, input)
		assert.Equal(t, want, got, input)
	}

	_, ok := NormalizeFormat("svg")
	assert.False(t, ok)
}

func TestIsSupportedExtension(t *testing.T) {
	cfg := DefaultConfig()
	for _, ext := range []string{".jpg", ".JPG", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp"} {
		assert.True(t, cfg.IsSupportedExtension(ext), ext)
	}
	for _, ext := range []string{".txt", ".mp4", ".svg", ""} {
		assert.False(t, cfg.IsSupportedExtension(ext), ext)
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyPreset("youtube"))
	assert.Equal(t, 1280, cfg.Resize.Width)
	assert.Equal(t, 720, cfg.Resize.Height)
	assert.Equal(t, "JPEG", cfg.Output.Format)
	assert.True(t, cfg.Resize.MaintainAspect)
}

func TestApplyPresetNoAspect(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyPreset("products"))
	assert.Equal(t, 800, cfg.Resize.Width)
	assert.Equal(t, 800, cfg.Resize.Height)
	assert.False(t, cfg.Resize.MaintainAspect)
}

func TestApplyPresetUnknown(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ApplyPreset("nope")
	require.Error(t, err)

	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestAllPresetsValidate(t *testing.T) {
	for _, p := range GetAvailablePresets() {
		cfg := DefaultConfig()
		require.NoError(t, cfg.ApplyPreset(p.ID), p.ID)
		assert.NoError(t, cfg.Validate(), p.ID)
	}
}

func TestFindPreset(t *testing.T) {
	p := FindPreset("icons")
	require.NotNil(t, p)
	assert.Equal(t, float64(10), p.ScalePercent)

	assert.Nil(t, FindPreset("missing"))
}
