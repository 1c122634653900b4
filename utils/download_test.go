package utils

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestUtils_ShouldBeValidUrl(t *testing.T) {
	ok := IsValidUrl("https://example.com/sample.jpg")
	if !ok {
		t.Errorf("A valid URL should have been provided")
	}
}

func TestUtils_ShouldRejectInvalidUrl(t *testing.T) {
	for _, uri := range []string{"sample.jpg", "/tmp/sample.jpg", "://missing-scheme"} {
		if IsValidUrl(uri) {
			t.Errorf("%q should not be reported as a valid URL", uri)
		}
	}
}

func TestUtils_ShouldDetectValidFileType(t *testing.T) {
	sampleImg := filepath.Join(t.TempDir(), "sample.png")

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("could not encode sample image: %v", err)
	}
	if err := os.WriteFile(sampleImg, buf.Bytes(), 0644); err != nil {
		t.Fatalf("could not write sample image: %v", err)
	}

	ftype, err := DetectContentType(sampleImg)
	if err != nil {
		t.Fatalf("could not detect content type: %v", err)
	}

	if !strings.Contains(ftype.(string), "image") {
		t.Errorf("Content type expected to be of type image, got: %v", ftype)
	}
}
