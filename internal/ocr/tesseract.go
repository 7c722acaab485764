package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/otiai10/gosseract/v2"

	apperrors "go-identity-verifier/internal/errors"
	"go-identity-verifier/internal/logger"

	"github.com/sirupsen/logrus"
)

// TextExtractor runs optical character recognition over a normalized
// document image and returns the raw recognized text.
type TextExtractor interface {
	ExtractText(img image.Image) (string, error)
}

type tesseractExtractor struct {
	languages      []string
	tessdataPrefix string
}

// NewTesseractExtractor builds a Tesseract-backed extractor configured for
// one-pass multilingual recognition. Missing language data is a fatal
// construction error, not a per-request one.
func NewTesseractExtractor(languages []string, tessdataPrefix string) (TextExtractor, error) {
	if len(languages) == 0 {
		return nil, fmt.Errorf("at least one OCR language is required")
	}
	if tessdataPrefix != "" {
		if err := os.Setenv("TESSDATA_PREFIX", tessdataPrefix); err != nil {
			return nil, fmt.Errorf("could not set TESSDATA_PREFIX: %w", err)
		}
	}

	available, err := gosseract.GetAvailableLanguages()
	if err != nil {
		return nil, fmt.Errorf("tesseract is not available: %w", err)
	}
	installed := make(map[string]bool, len(available))
	for _, lang := range available {
		installed[lang] = true
	}
	for _, lang := range languages {
		if !installed[lang] {
			return nil, fmt.Errorf("missing traineddata for language %q (prefix %q)", lang, tessdataPrefix)
		}
	}

	logger.WithFields(logrus.Fields{
		"languages": languages,
		"tessdata":  tessdataPrefix,
	}).Info("Tesseract extractor initialized")

	return &tesseractExtractor{languages: languages, tessdataPrefix: tessdataPrefix}, nil
}

// ExtractText recognizes all configured scripts in a single pass. No
// confidence filtering is applied; noisy text is returned as-is.
func (t *tesseractExtractor) ExtractText(img image.Image) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.languages...); err != nil {
		return "", apperrors.NewDependencyError("could not configure OCR languages", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", apperrors.NewInternalError("could not encode image for OCR", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", apperrors.NewDependencyError("OCR rejected image", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", apperrors.NewDependencyError("text extraction failed", err)
	}
	return text, nil
}
