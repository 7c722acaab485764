package document

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	apperrors "go-identity-verifier/internal/errors"
)

// PageExtractor turns an uploaded document into a single raster image.
// PDF uploads have their first page rendered; plain images pass through
// untouched.
type PageExtractor interface {
	FirstPage(docPath string) (string, error)
}

type fitzExtractor struct {
	dpi float64
}

// NewPageExtractor creates a MuPDF-backed page extractor rendering at the
// given DPI.
func NewPageExtractor(dpi float64) PageExtractor {
	return &fitzExtractor{dpi: dpi}
}

// FirstPage renders page index 0 of a PDF to a PNG written next to the
// source file and returns its path. Non-PDF inputs are returned unchanged.
// Remaining pages are never touched.
func (e *fitzExtractor) FirstPage(docPath string) (string, error) {
	if strings.ToLower(filepath.Ext(docPath)) != ".pdf" {
		return docPath, nil
	}

	doc, err := fitz.New(docPath)
	if err != nil {
		return "", apperrors.NewInputError("unreadable document", err)
	}
	defer doc.Close()

	if doc.NumPage() < 1 {
		return "", apperrors.NewInputError("document has no pages", nil)
	}

	img, err := doc.ImageDPI(0, e.dpi)
	if err != nil {
		return "", apperrors.NewInputError("could not rasterize first page", err)
	}

	pagePath := filepath.Join(filepath.Dir(docPath), "document_page1.png")
	out, err := os.Create(pagePath)
	if err != nil {
		return "", apperrors.NewInternalError("could not write rasterized page", err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return "", apperrors.NewInternalError("could not encode rasterized page", err)
	}
	return pagePath, nil
}
