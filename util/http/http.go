package http

import (
	"context"
	"net/http"
	"time"
)

type IClient interface {
	DoHTTPRequest(ctx context.Context, requestParam *RequestParam) error
}

// RequestParam 一次 HTTP 请求的参数
//
//	Body: nil / []byte / string / io.Reader 原样发送，其他类型按 JSON 序列化
//	Response: *[]byte 接收原始响应体，其他类型按 JSON 反序列化，nil 则丢弃
//	ResponseHeader: 请求完成后由 client 填充
type RequestParam struct {
	RequestURI string
	Method     string
	Header     map[string]string
	Body       interface{}
	Response   interface{}

	ResponseHeader http.Header

	Timeout time.Duration
}
