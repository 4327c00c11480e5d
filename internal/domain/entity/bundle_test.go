package entity

import (
	"reflect"
	"testing"
)

func TestAssembleBundle(t *testing.T) {
	tests := []struct {
		name   string
		images []string
		want   Bundle
	}{
		{
			name:   "empty",
			images: nil,
			want:   Bundle{},
		},
		{
			name:   "single image is the sole 2D plan",
			images: []string{"img-a"},
			want:   Bundle{Plans2D: []string{"img-a"}},
		},
		{
			name:   "two images split into one floor and one render",
			images: []string{"img-a", "img-b"},
			want:   Bundle{Plans2D: []string{"img-a"}, Plan3D: "img-b"},
		},
		{
			name:   "last image is the render, floors keep order",
			images: []string{"floor-0", "floor-1", "floor-2", "render"},
			want:   Bundle{Plans2D: []string{"floor-0", "floor-1", "floor-2"}, Plan3D: "render"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssembleBundle(tt.images)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("AssembleBundle(%v) = %+v, want %+v", tt.images, got, tt.want)
			}
		})
	}
}

func TestBundleImagesRoundTrip(t *testing.T) {
	images := []string{"floor-0", "floor-1", "render"}
	bundle := AssembleBundle(images)
	if got := bundle.Images(); !reflect.DeepEqual(got, images) {
		t.Fatalf("Images() = %v, want %v", got, images)
	}
}

func TestBundleCloneIsIndependent(t *testing.T) {
	orig := AssembleBundle([]string{"floor-0", "render"})
	clone := orig.Clone()
	clone.Plans2D[0] = "mutated"
	if orig.Plans2D[0] != "floor-0" {
		t.Fatalf("mutating clone leaked into original: %v", orig.Plans2D)
	}
}
