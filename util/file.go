package util

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/chaos-io/colorkey/rembg"
	nhttp "github.com/chaos-io/colorkey/util/http"

	// 注册解码器：png/jpeg/gif 以及 x/image 的 webp/bmp/tiff
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// IsURL 判断输入是否是 http(s) 地址
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// LoadImage 本地路径或 URL 都可以
func LoadImage(ctx context.Context, path string) (image.Image, error) {
	if IsURL(path) {
		return DownloadImage(ctx, nhttp.NewHTTPClient(), path)
	}
	return OpenImage(path)
}

// DownloadImage 下载图片
func DownloadImage(ctx context.Context, cli nhttp.IClient, url string) (image.Image, error) {
	var data []byte
	err := cli.DoHTTPRequest(ctx, &nhttp.RequestParam{
		RequestURI: url,
		Method:     "GET",
		Response:   &data,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", rembg.ErrUnreadableImage, url, err)
	}

	img, _, err := DecodeImage(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", rembg.ErrUnreadableImage, url, err)
	}
	return img, nil
}

// OpenImage 打开本地图片
func OpenImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", rembg.ErrUnreadableImage, path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	img, _, err := DecodeImage(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", rembg.ErrUnreadableImage, path, err)
	}
	return img, nil
}

// DecodeImage 返回图片和格式名（"png"、"jpeg"、"webp" ...）
// gif 只取第一帧
func DecodeImage(r io.Reader) (image.Image, string, error) {
	return image.Decode(r)
}

// EncodePNG 编码为 PNG 字节
func EncodePNG(img image.Image) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePNG 先在内存里编码，成功后再写文件，避免留下半个文件
func WritePNG(path string, img image.Image) error {
	data, err := EncodePNG(img)
	if err != nil {
		return fmt.Errorf("%w: %s: encode png: %v", rembg.ErrWriteFailure, path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %v", rembg.ErrWriteFailure, path, err)
	}
	return nil
}
