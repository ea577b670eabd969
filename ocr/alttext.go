package ocr

import (
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// ErrOCRNotEnabled is returned when OCR functions are called but OCR support
// was not compiled in. Rebuild with -tags ocr to enable OCR support.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// PageSegMode represents Tesseract page segmentation modes.
type PageSegMode int

// Page segmentation modes used for diagram text.
const (
	PSM_AUTO         PageSegMode = 3  // Fully automatic (default)
	PSM_SINGLE_BLOCK PageSegMode = 6  // Single uniform block of text
	PSM_SPARSE_TEXT  PageSegMode = 11 // Find as much text as possible
)

// MaxAltTextRunes bounds the length of text returned by AltText.
const MaxAltTextRunes = 200

// AltText recognizes the labels in a rendered diagram and folds them into a
// single line suitable for a picture description. Diagram labels are
// scattered, so sparse-text segmentation is used.
func AltText(imageData []byte, lang string) (string, error) {
	client, err := New()
	if err != nil {
		return "", err
	}
	defer client.Close()

	if lang != "" {
		if err := client.SetLanguage(lang); err != nil {
			return "", errors.Wrapf(err, "set language %q", lang)
		}
	}
	if err := client.SetPageSegMode(PSM_SPARSE_TEXT); err != nil {
		return "", errors.Wrap(err, "set page segmentation mode")
	}

	text, err := client.RecognizeImage(imageData)
	if err != nil {
		return "", err
	}
	return foldText(text, MaxAltTextRunes), nil
}

// foldText collapses whitespace runs into single spaces and truncates to
// max runes, appending an ellipsis when cut.
func foldText(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max]) + "…"
}
