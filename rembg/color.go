package rembg

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// Color 目标背景色，只比较 RGB
type Color struct {
	R, G, B uint8
}

func (c Color) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.R, c.G, c.B)
}

// ParseColor 解析 "R,G,B"，必须正好三个整数，超出 [0,255] 的值会被截断
func ParseColor(s string) (Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Color{}, fmt.Errorf("%w: %q, color must be R,G,B", ErrInvalidColorFormat, s)
	}

	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q, %q is not an integer", ErrInvalidColorFormat, s, p)
		}
		ch[i] = clamp8(v)
	}

	return Color{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// SampleColor 取左上角像素作为背景色，忽略 alpha
func SampleColor(img *image.NRGBA) Color {
	b := img.Bounds()
	if b.Empty() {
		return Color{}
	}
	i := img.PixOffset(b.Min.X, b.Min.Y)
	return Color{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2]}
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
