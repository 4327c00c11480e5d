// Package datauri 提供内联图像句柄（data URI）的编解码功能
package datauri

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedHandle 图像句柄格式非法
var ErrMalformedHandle = errors.New("malformed image handle")

// Decode 将 data URI 句柄拆分为 (MIME 类型, base64 载荷)
// 句柄格式：data:<mimeType>;base64,<payload>
func Decode(handle string) (mimeType string, payload string, err error) {
	idx := strings.Index(handle, ",")
	if idx < 0 {
		return "", "", fmt.Errorf("%w: missing comma separator", ErrMalformedHandle)
	}

	header := handle[:idx]
	payload = handle[idx+1:]

	colon := strings.Index(header, ":")
	semi := strings.Index(header, ";")
	if colon < 0 || semi < 0 || semi <= colon+1 {
		return "", "", fmt.Errorf("%w: header %q lacks mime type", ErrMalformedHandle, header)
	}

	mimeType = header[colon+1 : semi]
	if strings.TrimSpace(mimeType) == "" {
		return "", "", fmt.Errorf("%w: empty mime type", ErrMalformedHandle)
	}

	return mimeType, payload, nil
}

// Encode 将 (MIME 类型, base64 载荷) 组装为 data URI 句柄
func Encode(mimeType, payload string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, payload)
}

// DecodeBytes 解码句柄并返回原始图像字节，用于后端传输和像素操作
func DecodeBytes(handle string) (mimeType string, data []byte, err error) {
	mimeType, payload, err := Decode(handle)
	if err != nil {
		return "", nil, err
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: invalid base64 payload: %v", ErrMalformedHandle, err)
	}
	return mimeType, data, nil
}

// EncodeBytes 将原始图像字节编码为 data URI 句柄
func EncodeBytes(mimeType string, data []byte) string {
	return Encode(mimeType, base64.StdEncoding.EncodeToString(data))
}

// PayloadSize 估算句柄携带的原始字节数（不做完整解码）
func PayloadSize(handle string) int {
	idx := strings.Index(handle, ",")
	if idx < 0 {
		return 0
	}
	return base64.StdEncoding.DecodedLen(len(handle) - idx - 1)
}
