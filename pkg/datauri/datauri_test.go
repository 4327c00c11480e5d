package datauri

import (
	"errors"
	"testing"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	cases := []struct {
		mime    string
		payload string
	}{
		{"image/png", "aGVsbG8="},
		{"image/jpeg", "d29ybGQ="},
		{"image/webp", "QUJDREVGRw=="},
	}

	for _, tc := range cases {
		handle := Encode(tc.mime, tc.payload)
		mime, payload, err := Decode(handle)
		if err != nil {
			t.Fatalf("decode %q: %v", handle, err)
		}
		if mime != tc.mime || payload != tc.payload {
			t.Fatalf("round trip mismatch: got (%q, %q), want (%q, %q)", mime, payload, tc.mime, tc.payload)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := []struct {
		name   string
		handle string
	}{
		{"no comma", "data:image/png;base64"},
		{"no mime header", "payload,only"},
		{"empty mime", "data:;base64,aGVsbG8="},
		{"empty string", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := Decode(tc.handle); !errors.Is(err, ErrMalformedHandle) {
				t.Fatalf("expected ErrMalformedHandle, got %v", err)
			}
		})
	}
}

func TestDecodeBytes(t *testing.T) {
	handle := EncodeBytes("image/png", []byte{0x89, 0x50, 0x4e, 0x47})
	mime, data, err := DecodeBytes(handle)
	if err != nil {
		t.Fatalf("decode bytes: %v", err)
	}
	if mime != "image/png" {
		t.Fatalf("mime = %q, want image/png", mime)
	}
	if len(data) != 4 || data[0] != 0x89 {
		t.Fatalf("unexpected payload bytes: %v", data)
	}
}

func TestDecodeBytesInvalidBase64(t *testing.T) {
	if _, _, err := DecodeBytes("data:image/png;base64,&&&&"); !errors.Is(err, ErrMalformedHandle) {
		t.Fatalf("expected ErrMalformedHandle, got %v", err)
	}
}

func TestPayloadSize(t *testing.T) {
	handle := EncodeBytes("image/png", make([]byte, 300))
	if got := PayloadSize(handle); got != 300 {
		t.Fatalf("payload size = %d, want 300", got)
	}
	if got := PayloadSize("garbage"); got != 0 {
		t.Fatalf("payload size for malformed handle = %d, want 0", got)
	}
}
