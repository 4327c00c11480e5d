package design

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"blueprint-ai-api/pkg/datauri"
)

// makePlanHandle 生成指定尺寸的纯色 PNG 句柄
func makePlanHandle(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 240, G: 240, B: 240, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return datauri.EncodeBytes("image/png", buf.Bytes())
}

func decodeHandle(t *testing.T, handle string) image.Image {
	t.Helper()
	img, err := decodeImage(handle)
	if err != nil {
		t.Fatalf("decodeImage: %v", err)
	}
	return img
}

func TestDownscaleCapsLongEdge(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"wide above cap", 2048, 1024, 1024, 512},
		{"tall above cap", 512, 2048, 256, 1024},
		{"already within cap", 800, 600, 800, 600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			got := downscale(img, 1024)
			b := got.Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Fatalf("downscale(%dx%d) = %dx%d, want %dx%d",
					tt.w, tt.h, b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestMapToImage(t *testing.T) {
	// 展示尺寸 400x300，原生 800x600，点 (200,150) 映射到中心
	x, y := mapToImage(200, 150, 400, 300, 800, 600)
	if x != 400 || y != 300 {
		t.Fatalf("mapToImage = (%d,%d), want (400,300)", x, y)
	}

	// 越界坐标被钳制到图内
	x, y = mapToImage(9999, -5, 400, 300, 800, 600)
	if x != 799 || y != 0 {
		t.Fatalf("clamped = (%d,%d), want (799,0)", x, y)
	}
}

func TestAnnotatePlanDrawsMarker(t *testing.T) {
	handle := makePlanHandle(t, 200, 200)

	annotated, err := annotatePlan(handle, 100, 100, 200, 200, 1024)
	if err != nil {
		t.Fatalf("annotatePlan: %v", err)
	}
	img := decodeHandle(t, annotated)
	r, g, b, _ := img.At(100, 100).RGBA()
	if r>>8 != 220 || g>>8 != 30 || b>>8 != 30 {
		t.Fatalf("center pixel = (%d,%d,%d), want marker red", r>>8, g>>8, b>>8)
	}
	// 远离标记处保持原色
	r, g, b, _ = img.At(10, 10).RGBA()
	if r>>8 != 240 || g>>8 != 240 || b>>8 != 240 {
		t.Fatalf("corner pixel = (%d,%d,%d), want untouched", r>>8, g>>8, b>>8)
	}
}

func TestAnnotatePlanDownscalesFirst(t *testing.T) {
	handle := makePlanHandle(t, 2048, 1024)

	annotated, err := annotatePlan(handle, 0, 0, 512, 256, 1024)
	if err != nil {
		t.Fatalf("annotatePlan: %v", err)
	}
	b := decodeHandle(t, annotated).Bounds()
	if b.Dx() != 1024 || b.Dy() != 512 {
		t.Fatalf("annotated size = %dx%d, want 1024x512", b.Dx(), b.Dy())
	}
}

func TestAnnotatePlanMalformedHandle(t *testing.T) {
	if _, err := annotatePlan("not-a-handle", 0, 0, 10, 10, 1024); err == nil {
		t.Fatalf("malformed handle was accepted")
	}
}
