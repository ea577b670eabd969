//go:build ocr

// Package ocr recognizes the text drawn in rendered diagram images so it
// can be stored as the picture's alternative text.
//
// This package wraps the Tesseract OCR engine via gosseract. It requires
// Tesseract to be installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr tesseract-ocr-chi-sim
package ocr

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/otiai10/gosseract/v2"
)

// Enabled reports whether OCR support was compiled in.
const Enabled = true

// Client wraps Tesseract for OCR operations.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	return &Client{client: gosseract.NewClient()}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// RecognizeImage performs OCR on PNG or JPEG data and returns the trimmed text.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", errors.Wrap(err, "set image")
	}

	text, err := c.client.Text()
	if err != nil {
		return "", errors.Wrap(err, "recognize text")
	}

	return strings.TrimSpace(text), nil
}

// SetLanguage sets the language(s) for OCR recognition, e.g. "eng+chi_sim".
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(strings.Split(lang, "+")...)
}

// SetPageSegMode sets the Tesseract page segmentation mode.
func (c *Client) SetPageSegMode(mode PageSegMode) error {
	return c.client.SetPageSegMode(gosseract.PageSegMode(mode))
}
