package util

import (
	"image"

	"github.com/nfnt/resize"

	"github.com/chaos-io/colorkey/rembg"
)

// ResizeWithinMax 缩放（最长边 <= maxSize），maxSize <= 0 时不缩放
func ResizeWithinMax(img image.Image, maxSize int) image.Image {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	longest := max(w, h)

	if maxSize <= 0 || longest <= maxSize {
		return img
	}

	scale := float64(maxSize) / float64(longest)
	newW := max(1, int(float64(w)*scale))
	newH := max(1, int(float64(h)*scale))

	resized := resize.Resize(uint(newW), uint(newH), img, resize.Lanczos3)
	return rembg.ToNRGBA(resized)
}
