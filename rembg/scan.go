package rembg

import "image"

// DefaultTolerance 默认容差
const DefaultTolerance = 30

// Matches 每个通道与目标色的差值都不超过 tolerance 即为匹配
func Matches(r, g, b uint8, target Color, tolerance int) bool {
	return absDiff(r, target.R) <= tolerance &&
		absDiff(g, target.G) <= tolerance &&
		absDiff(b, target.B) <= tolerance
}

// Scan 原地把匹配目标色的像素 alpha 置 0，其他像素不动
// 返回被置为透明的像素数
func Scan(img *image.NRGBA, target Color, tolerance int) int {
	if tolerance < 0 {
		return 0
	}

	b := img.Bounds()
	cleared := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.PixOffset(b.Min.X, y)
		for x := 0; x < b.Dx(); x++ {
			i := row + x*4
			if Matches(img.Pix[i], img.Pix[i+1], img.Pix[i+2], target, tolerance) {
				img.Pix[i+3] = 0
				cleared++
			}
		}
	}
	return cleared
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
