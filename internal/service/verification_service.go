package service

import (
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strconv"
	"time"

	"github.com/arbovm/levenshtein"
	"github.com/sirupsen/logrus"

	"go-identity-verifier/internal/config"
	"go-identity-verifier/internal/dob"
	"go-identity-verifier/internal/document"
	apperrors "go-identity-verifier/internal/errors"
	"go-identity-verifier/internal/face"
	"go-identity-verifier/internal/imaging"
	"go-identity-verifier/internal/logger"
	"go-identity-verifier/internal/ocr"
	"go-identity-verifier/pkg/models"
)

// VerificationRequest carries the declared fields and the saved upload
// paths for one verification call. Name is recorded but plays no part in
// the decision.
type VerificationRequest struct {
	Name         string
	DeclaredAge  string
	DeclaredDOB  string
	DocumentPath string
	SelfiePath   string
}

// VerificationService runs the pipeline: first-page rasterization,
// normalization, OCR, DOB parsing, age cross-check, face scoring. Each
// stage failure short-circuits to a terminal outcome; a non-nil error is
// reserved for unclassified server faults.
type VerificationService interface {
	Verify(ctx context.Context, req VerificationRequest) (models.Outcome, error)
}

type verificationService struct {
	extractor  document.PageExtractor
	normalizer imaging.Normalizer
	texts      ocr.TextExtractor
	faces      face.Verifier
	cfg        config.VerifierConfig
	now        func() time.Time
}

// NewVerificationService wires the pipeline stages together under the given
// verifier configuration.
func NewVerificationService(
	extractor document.PageExtractor,
	normalizer imaging.Normalizer,
	texts ocr.TextExtractor,
	faces face.Verifier,
	cfg config.VerifierConfig,
) VerificationService {
	return &verificationService{
		extractor:  extractor,
		normalizer: normalizer,
		texts:      texts,
		faces:      faces,
		cfg:        cfg,
		now:        time.Now,
	}
}

func (s *verificationService) Verify(ctx context.Context, req VerificationRequest) (models.Outcome, error) {
	pagePath, err := s.extractor.FirstPage(req.DocumentPath)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeInput) {
			return models.InputError(messageOf(err)), nil
		}
		return models.Outcome{}, err
	}

	img, err := loadImage(pagePath)
	if err != nil {
		return models.InputError("unreadable document image"), nil
	}

	normalized := s.normalizer.Normalize(img)

	text, err := s.texts.ExtractText(normalized)
	if err != nil {
		return models.Outcome{}, err
	}

	extractedDOB := dob.FindDOB(text)
	if extractedDOB == "" {
		logger.WithField("document", pagePath).Info("No DOB pattern in extracted text")
		return models.DobNotFound(), nil
	}

	age, isAdult, ok := dob.CalculateAge(extractedDOB, s.cfg.DateFormats, s.now())

	// Strict string comparison on both the stringified age and the DOB:
	// the same calendar date written with a different separator is a
	// mismatch.
	if !ok || strconv.Itoa(age) != req.DeclaredAge || extractedDOB != req.DeclaredDOB {
		logger.WithFields(logrus.Fields{
			"extracted_dob": extractedDOB,
			"declared_dob":  req.DeclaredDOB,
			"declared_age":  req.DeclaredAge,
			"parsed":        ok,
			"edit_distance": levenshtein.Distance(req.DeclaredDOB, extractedDOB),
		}).Info("DOB or age cross-check failed")

		var agePtr *int
		if ok {
			agePtr = &age
		}
		return models.DobAgeMismatch(extractedDOB, agePtr), nil
	}

	result, err := s.faces.Verify(ctx, pagePath, req.SelfiePath)
	if err != nil {
		logger.WithError(err).Error("Face verification failed")
		return models.FaceVerificationFailed(reasonOf(err)), nil
	}

	if result.Score < s.cfg.SimilarityThreshold {
		logger.WithFields(logrus.Fields{
			"distance": result.Distance,
			"score":    result.Score,
		}).Info("Face similarity below threshold")
		return models.FaceMismatch(result.Score), nil
	}

	return models.Success(extractedDOB, age, isAdult, result.Score), nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// reasonOf prefers the collaborator's own failure reason over the wrapper's.
func reasonOf(err error) string {
	if appErr, isApp := err.(*apperrors.AppError); isApp && appErr.Cause != nil {
		return appErr.Cause.Error()
	}
	return err.Error()
}

// messageOf strips the type prefix and cause chain from structured errors.
func messageOf(err error) string {
	if appErr, isApp := err.(*apperrors.AppError); isApp {
		return appErr.Message
	}
	return err.Error()
}
