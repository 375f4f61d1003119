package rembg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"mime/multipart"
	"strconv"
	"strings"

	nhttp "github.com/chaos-io/colorkey/util/http"
)

const removePath = "/v1/remove"

// SampledColorHeader 服务端取样得到的背景色，格式 "R,G,B"
const SampledColorHeader = "X-Sampled-Color"

// Remote 把图片交给 colorkey serve 处理
type Remote struct {
	Endpoint  string
	Color     *Color
	Tolerance int
	OnSample  func(Color)

	cli nhttp.IClient
}

func NewRemote(endpoint string, target *Color, tolerance int) *Remote {
	return &Remote{
		Endpoint:  strings.TrimSuffix(endpoint, "/"),
		Color:     target,
		Tolerance: tolerance,
		cli:       nhttp.NewHTTPClient(),
	}
}

/*
	curl -X POST "$ENDPOINT/v1/remove" \
	  -F "image=@my_image.png" \
	  -F "color=255,255,255" \
	  -F "tolerance=30" -o out.png
*/
func (r *Remote) Remove(ctx context.Context, img image.Image) (image.Image, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", "image.png")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if err := png.Encode(part, img); err != nil {
		return nil, fmt.Errorf("encode upload: %w", err)
	}

	if r.Color != nil {
		_ = writer.WriteField("color", fmt.Sprintf("%d,%d,%d", r.Color.R, r.Color.G, r.Color.B))
	}
	_ = writer.WriteField("tolerance", strconv.Itoa(r.Tolerance))
	_ = writer.Close()

	var data []byte
	reqParam := &nhttp.RequestParam{
		RequestURI: r.Endpoint + removePath,
		Method:     "POST",
		Header:     map[string]string{"Content-Type": writer.FormDataContentType()},
		Body:       body,
		Response:   &data,
	}
	if err := r.cli.DoHTTPRequest(ctx, reqParam); err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	if raw := reqParam.ResponseHeader.Get(SampledColorHeader); raw != "" && r.OnSample != nil {
		sampled, err := ParseColor(raw)
		if err != nil {
			return nil, fmt.Errorf("sampled color header: %w", err)
		}
		r.OnSample(sampled)
	}

	out, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	slog.Debug("remote remove done", "endpoint", r.Endpoint, "bytes", len(data))
	return out, nil
}
