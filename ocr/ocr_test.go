//go:build ocr

package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

// createTestPNG creates a white PNG with a black block.
func createTestPNG(width, height int) []byte {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	for x := 10; x < 50; x++ {
		for y := 10; y < 30; y++ {
			img.Set(x, y, color.Black)
		}
	}

	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func TestRecognizeImage(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	defer client.Close()

	// The image has no text; only the call path is checked.
	if _, err := client.RecognizeImage(createTestPNG(100, 50)); err != nil {
		t.Errorf("RecognizeImage failed: %v", err)
	}
}

func TestAltTextIsSingleLine(t *testing.T) {
	if !Enabled {
		t.Fatal("Enabled should be true with the ocr tag")
	}
	text, err := AltText(createTestPNG(100, 50), "eng")
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	if strings.ContainsAny(text, "\n\t") {
		t.Errorf("AltText() = %q, want a single line", text)
	}
}
