package metadata

import (
	"fmt"
	"os/exec"
)

// TagPreserver copies metadata tags from source images to processed
// outputs and marks them as produced by this tool. It shells out to the
// exiftool binary, which understands far more tag families than any pure
// Go reader.
type TagPreserver struct{}

// NewTagPreserver returns a new TagPreserver.
func NewTagPreserver() *TagPreserver {
	return &TagPreserver{}
}

// CopyTags copies all metadata from src to dst and sets the Software tag.
func (p *TagPreserver) CopyTags(src, dst string) error {
	cmdCopy := exec.Command("exiftool", "-TagsFromFile", src, "-overwrite_original", dst)
	if err := cmdCopy.Run(); err != nil {
		return fmt.Errorf("exiftool copy failed: %v", err)
	}
	cmdSet := exec.Command("exiftool", "-overwrite_original", "-Software=image-resizer", dst)
	if err := cmdSet.Run(); err != nil {
		return fmt.Errorf("exiftool set Software failed: %v", err)
	}
	return nil
}

// Available reports whether the exiftool binary can be found.
func (p *TagPreserver) Available() bool {
	_, err := exec.LookPath("exiftool")
	return err == nil
}
