package container

import (
	"fmt"
	"net/http"

	"go-identity-verifier/internal/config"
	"go-identity-verifier/internal/document"
	"go-identity-verifier/internal/face"
	"go-identity-verifier/internal/imaging"
	"go-identity-verifier/internal/ocr"
	"go-identity-verifier/internal/service"
	"go-identity-verifier/internal/storage"
	"go-identity-verifier/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config      *config.Config
	uploadStore storage.UploadStore
	verifier    service.VerificationService
	handler     http.Handler
}

// NewContainer builds the dependency graph. OCR initialization validates
// that every configured language has traineddata available; a missing
// language aborts startup.
func NewContainer(cfg *config.Config) (*Container, error) {
	uploadStore, err := storage.NewLocalUploadStore(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize upload store: %w", err)
	}

	textExtractor, err := ocr.NewTesseractExtractor(cfg.Verifier.OCRLanguages, cfg.TessdataPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OCR: %w", err)
	}

	pageExtractor := document.NewPageExtractor(cfg.Verifier.RasterDPI)
	normalizer := imaging.NewNormalizer(cfg.Verifier.UpscaleFactor)
	faceVerifier := face.NewHTTPVerifier(cfg.FaceAPIURL, cfg.Verifier.FaceModel, cfg.FaceAPITimeout)

	verifier := service.NewVerificationService(pageExtractor, normalizer, textExtractor, faceVerifier, cfg.Verifier)
	handler := transport.NewHandler(verifier, uploadStore, cfg)

	return &Container{
		config:      cfg,
		uploadStore: uploadStore,
		verifier:    verifier,
		handler:     handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}
