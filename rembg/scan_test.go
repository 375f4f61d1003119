package rembg

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomImage(w, h int, seed int64) *image.NRGBA {
	r := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	_, _ = r.Read(img.Pix)
	return img
}

func cloneNRGBA(img *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(img.Rect)
	copy(out.Pix, img.Pix)
	return out
}

func TestScan_TwoPixels(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 0, G: 0, B: 0, A: 255})

	n := Scan(img, Color{255, 255, 255}, 0)

	assert.Equal(t, 1, n)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 0}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 0, G: 0, B: 0, A: 255}, img.NRGBAAt(1, 0))
}

func TestScan_ToleranceBoundary(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 130, G: 100, B: 100, A: 255}) // 差 30，匹配
	img.SetNRGBA(1, 0, color.NRGBA{R: 131, G: 100, B: 100, A: 255}) // 差 31，不匹配
	img.SetNRGBA(2, 0, color.NRGBA{R: 70, G: 130, B: 70, A: 200})   // 每个通道都差 30

	Scan(img, Color{100, 100, 100}, 30)

	assert.Equal(t, uint8(0), img.NRGBAAt(0, 0).A)
	assert.Equal(t, uint8(255), img.NRGBAAt(1, 0).A)
	assert.Equal(t, color.NRGBA{R: 70, G: 130, B: 70, A: 0}, img.NRGBAAt(2, 0))
}

func TestScan_AlphaIgnoredInComparison(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 10, B: 10, A: 128})
	img.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 10, B: 10, A: 64})

	Scan(img, Color{10, 10, 10}, 0)

	assert.Equal(t, color.NRGBA{R: 10, G: 10, B: 10, A: 0}, img.NRGBAAt(0, 0))
	// 不匹配的半透明像素保持原 alpha，不会被改成 255
	assert.Equal(t, color.NRGBA{R: 200, G: 10, B: 10, A: 64}, img.NRGBAAt(1, 0))
}

func TestScan_NegativeTolerance(t *testing.T) {
	t.Parallel()

	img := randomImage(8, 8, 1)
	before := cloneNRGBA(img)

	assert.Equal(t, 0, Scan(img, SampleColor(img), -1))
	assert.Equal(t, before.Pix, img.Pix)
}

func TestScan_Properties(t *testing.T) {
	t.Parallel()

	for seed := int64(0); seed < 5; seed++ {
		src := randomImage(32, 24, seed)
		target := Color{128, 64, 200}
		tol := 60

		once := cloneNRGBA(src)
		Scan(once, target, tol)

		// 匹配完整 + 非匹配像素逐字节不变
		for y := 0; y < src.Rect.Dy(); y++ {
			for x := 0; x < src.Rect.Dx(); x++ {
				in := src.NRGBAAt(x, y)
				out := once.NRGBAAt(x, y)
				if Matches(in.R, in.G, in.B, target, tol) {
					require.Equal(t, color.NRGBA{R: in.R, G: in.G, B: in.B, A: 0}, out)
				} else {
					require.Equal(t, in, out)
				}
			}
		}

		// 幂等
		twice := cloneNRGBA(once)
		Scan(twice, target, tol)
		assert.Equal(t, once.Pix, twice.Pix)

		// 容差单调
		prev := -1
		for _, tol := range []int{0, 10, 40, 80, 255} {
			img := cloneNRGBA(src)
			Scan(img, target, tol)
			n := countTransparent(img)
			assert.GreaterOrEqual(t, n, prev)
			prev = n
		}
	}
}

func TestScan_SubImage(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	sub := img.SubImage(image.Rect(1, 1, 3, 3)).(*image.NRGBA)

	assert.Equal(t, 4, Scan(sub, Color{255, 255, 255}, 0))
	assert.Equal(t, uint8(255), img.NRGBAAt(0, 0).A)
	assert.Equal(t, uint8(0), img.NRGBAAt(1, 1).A)
	assert.Equal(t, uint8(0), img.NRGBAAt(2, 2).A)
	assert.Equal(t, uint8(255), img.NRGBAAt(3, 3).A)
}

func countTransparent(img *image.NRGBA) int {
	n := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] == 0 {
			n++
		}
	}
	return n
}
