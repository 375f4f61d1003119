package rembg

import (
	"context"
	"image"
	"image/color"
	"log/slog"

	"golang.org/x/image/draw"
)

type Remover interface {
	Remove(ctx context.Context, img image.Image) (image.Image, error)
}

// Result 一次抠色的结果
type Result struct {
	Target  Color
	Sampled bool
	Cleared int
}

// ColorKey 本地按颜色容差去背景
// Color 为 nil 时取左上角像素
type ColorKey struct {
	Color     *Color
	Tolerance int
	OnSample  func(Color)
}

func NewColorKey(target *Color, tolerance int) *ColorKey {
	return &ColorKey{
		Color:     target,
		Tolerance: tolerance,
	}
}

func (k *ColorKey) Remove(ctx context.Context, img image.Image) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, _ := k.Key(img)
	return out, nil
}

// Key 转为 NRGBA 后原地扫描，返回处理后的图片和统计
func (k *ColorKey) Key(img image.Image) (*image.NRGBA, Result) {
	dst := ToNRGBA(img)

	res := Result{}
	if k.Color != nil {
		res.Target = *k.Color
	} else {
		res.Target = SampleColor(dst)
		res.Sampled = true
		if k.OnSample != nil {
			k.OnSample(res.Target)
		}
	}

	res.Cleared = Scan(dst, res.Target, k.Tolerance)
	slog.Debug("color key done",
		"target", res.Target.String(),
		"sampled", res.Sampled,
		"tolerance", k.Tolerance,
		"cleared", res.Cleared,
		"size", dst.Bounds().Size().String())

	return dst, res
}

// ToNRGBA 统一转成原点在 (0,0) 的 NRGBA（非预乘）
// 没有 alpha 的图片 alpha 为 255，已有 alpha 的保持不变
// 调色板、NRGBA、NRGBA64 逐像素转换，alpha 为 0 的像素也保留原 RGB
func ToNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Rect.Min == (image.Point{}) {
		return nrgba
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+w*4], src.Pix[i:i+w*4])
		}
	case *image.NRGBA64:
		// 大端存储，高字节即右移 8 位
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := src.PixOffset(b.Min.X+x, b.Min.Y+y)
				j := y*dst.Stride + x*4
				dst.Pix[j] = src.Pix[i]
				dst.Pix[j+1] = src.Pix[i+2]
				dst.Pix[j+2] = src.Pix[i+4]
				dst.Pix[j+3] = src.Pix[i+6]
			}
		}
	case *image.Paletted:
		lut := make([]color.NRGBA, len(src.Palette))
		for i, c := range src.Palette {
			lut[i] = nrgbaColor(c)
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				idx := int(src.Pix[src.PixOffset(b.Min.X+x, b.Min.Y+y)])
				if idx >= len(lut) {
					continue
				}
				c := lut[idx]
				j := y*dst.Stride + x*4
				dst.Pix[j], dst.Pix[j+1], dst.Pix[j+2], dst.Pix[j+3] = c.R, c.G, c.B, c.A
			}
		}
	default:
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	}
	return dst
}

func nrgbaColor(c color.Color) color.NRGBA {
	if n, ok := c.(color.NRGBA); ok {
		return n
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
