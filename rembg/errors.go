package rembg

import "errors"

var (
	// ErrInvalidColorFormat --color 不是 R,G,B 三个整数
	ErrInvalidColorFormat = errors.New("invalid color format")
	// ErrUnreadableImage 输入图片不存在、格式不支持或已损坏
	ErrUnreadableImage = errors.New("unreadable image")
	// ErrWriteFailure 输出文件无法写入
	ErrWriteFailure = errors.New("write failure")
)
