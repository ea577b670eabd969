//go:build !ocr

// Package ocr recognizes the text drawn in rendered diagram images so it
// can be stored as the picture's alternative text.
//
// This is the stub implementation used when the "ocr" build tag is not set.
// All operations return ErrOCRNotEnabled.
//
// To enable OCR, rebuild with the "ocr" build tag:
//
//	go build -tags ocr ./cmd/md2word
package ocr

// Enabled reports whether OCR support was compiled in.
const Enabled = false

// Client is a stub OCR client that returns errors for all operations.
type Client struct{}

// New returns ErrOCRNotEnabled.
func New() (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op for the stub client.
// It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// RecognizeImage returns ErrOCRNotEnabled.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	return "", ErrOCRNotEnabled
}

// SetLanguage returns ErrOCRNotEnabled.
func (c *Client) SetLanguage(lang string) error {
	return ErrOCRNotEnabled
}

// SetPageSegMode returns ErrOCRNotEnabled.
func (c *Client) SetPageSegMode(mode PageSegMode) error {
	return ErrOCRNotEnabled
}
