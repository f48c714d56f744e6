package resizer

import (
	"math"

	"github.com/bharathrajssp-jpg/image-resizer/internal/config"
)

// TargetSize computes the output dimensions for an image of the given
// source size under the configured sizing rules.
//
// Explicit width/height take precedence over a scale percentage when both
// are set. With maintain_aspect enabled and both dimensions given, the
// image is scaled to fit within the width x height box. A single given
// dimension scales the other to preserve the ratio. With no sizing rule
// at all the source dimensions pass through unchanged, which still allows
// a pure format conversion run.
func TargetSize(srcWidth, srcHeight int, rc config.ResizeConfig) (int, int) {
	if srcWidth <= 0 || srcHeight <= 0 {
		return clampDimension(srcWidth), clampDimension(srcHeight)
	}

	switch {
	case rc.Width > 0 && rc.Height > 0:
		if !rc.MaintainAspect {
			return rc.Width, rc.Height
		}
		ratio := math.Min(
			float64(rc.Width)/float64(srcWidth),
			float64(rc.Height)/float64(srcHeight),
		)
		return scaleDimension(srcWidth, ratio), scaleDimension(srcHeight, ratio)

	case rc.Width > 0:
		ratio := float64(rc.Width) / float64(srcWidth)
		return rc.Width, scaleDimension(srcHeight, ratio)

	case rc.Height > 0:
		ratio := float64(rc.Height) / float64(srcHeight)
		return scaleDimension(srcWidth, ratio), rc.Height

	case rc.ScalePercent > 0:
		ratio := rc.ScalePercent / 100
		return scaleDimension(srcWidth, ratio), scaleDimension(srcHeight, ratio)

	default:
		return srcWidth, srcHeight
	}
}

func scaleDimension(dim int, ratio float64) int {
	return clampDimension(int(math.Round(float64(dim) * ratio)))
}

// clampDimension keeps a computed dimension at 1px minimum; a 0px
// dimension would make the image invalid.
func clampDimension(dim int) int {
	if dim < 1 {
		return 1
	}
	return dim
}
