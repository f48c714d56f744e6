package metadata

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestInspectPNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.png")

	img := image.NewRGBA(image.Rect(0, 0, 123, 45))
	for y := 0; y < 45; y++ {
		for x := 0; x < 123; x++ {
			img.Set(x, y, color.RGBA{10, 20, 30, 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	info, err := NewInspector(testLogger()).Inspect(path)
	require.NoError(t, err)

	assert.Equal(t, "PNG", info.Format)
	assert.Equal(t, 123, info.Width)
	assert.Equal(t, 45, info.Height)
	// A plain PNG carries no EXIF data.
	assert.Nil(t, info.Taken)
	assert.Zero(t, info.Orientation)
}

func TestInspectRejectsNonImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "text.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))

	_, err := NewInspector(testLogger()).Inspect(path)
	assert.Error(t, err)
}

func TestInspectRejectsMissingFile(t *testing.T) {
	_, err := NewInspector(testLogger()).Inspect(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}

func TestSupportsFile(t *testing.T) {
	i := NewInspector(testLogger())
	assert.True(t, i.SupportsFile("photo.jpg"))
	assert.True(t, i.SupportsFile("photo.TIFF"))
	assert.True(t, i.SupportsFile("photo.webp"))
	assert.False(t, i.SupportsFile("clip.mp4"))
	assert.False(t, i.SupportsFile("notes.txt"))
}
