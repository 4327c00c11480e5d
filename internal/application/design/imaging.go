// Package design 实现对话式建筑设计的编排逻辑
package design

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	xdraw "golang.org/x/image/draw"

	"blueprint-ai-api/pkg/datauri"
	"blueprint-ai-api/pkg/errors"
)

// decodeImage 将图像句柄解码为像素图
func decodeImage(handle string) (image.Image, error) {
	_, data, err := datauri.DecodeBytes(handle)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeMalformedHandle, "malformed image handle")
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidParam, "unsupported image data")
	}
	return img, nil
}

// encodePNG 将像素图编码为 PNG 句柄
func encodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", errors.Wrap(err, errors.CodeInternalError, "png encode failed")
	}
	return datauri.EncodeBytes("image/png", buf.Bytes()), nil
}

// downscale 将图像等比缩小到任一边不超过 maxEdge，已满足时原样返回
func downscale(img image.Image, maxEdge int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxEdge && h <= maxEdge {
		return img
	}
	scale := float64(maxEdge) / float64(w)
	if h > w {
		scale = float64(maxEdge) / float64(h)
	}
	dstW := int(float64(w) * scale)
	dstH := int(float64(h) * scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}

// mapToImage 将展示坐标映射到图像原生坐标
func mapToImage(x, y float64, displayW, displayH, imageW, imageH int) (int, int) {
	if displayW <= 0 || displayH <= 0 {
		return 0, 0
	}
	px := int(x / float64(displayW) * float64(imageW))
	py := int(y / float64(displayH) * float64(imageH))
	return clamp(px, 0, imageW-1), clamp(py, 0, imageH-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// drawMarker 在指定坐标绘制白边红心的圆形标记
func drawMarker(img image.Image, x, y int) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)
	xdraw.Draw(dst, bounds, img, bounds.Min, xdraw.Src)

	radius := bounds.Dx() / 50
	if radius < 8 {
		radius = 8
	}
	ring := radius + radius/3
	fillCircle(dst, x, y, ring, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	fillCircle(dst, x, y, radius, color.RGBA{R: 220, G: 30, B: 30, A: 255})
	return dst
}

func fillCircle(dst *image.RGBA, cx, cy, r int, c color.RGBA) {
	bounds := dst.Bounds()
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			px, py := cx+dx, cy+dy
			if image.Pt(px, py).In(bounds) {
				dst.SetRGBA(px, py, c)
			}
		}
	}
}

// annotatePlan 生成用于室内探索的打点副本：先按长边上限缩小，
// 再把展示坐标映射到缩小后的分辨率并绘制标记
func annotatePlan(handle string, x, y float64, displayW, displayH, maxEdge int) (string, error) {
	img, err := decodeImage(handle)
	if err != nil {
		return "", err
	}
	img = downscale(img, maxEdge)
	bounds := img.Bounds()
	px, py := mapToImage(x, y, displayW, displayH, bounds.Dx(), bounds.Dy())
	return encodePNG(drawMarker(img, px, py))
}
