package transport

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-identity-verifier/internal/config"
	"go-identity-verifier/internal/logger"
	"go-identity-verifier/internal/service"
	"go-identity-verifier/internal/storage"
	"go-identity-verifier/pkg/models"
)

const indexPage = `<!DOCTYPE html>
<html>
<head><title>Identity Verification</title></head>
<body>
<h1>Identity Verification</h1>
<form action="/verify" method="post" enctype="multipart/form-data">
  <label>Name: <input type="text" name="name"></label><br>
  <label>Age: <input type="text" name="age" required></label><br>
  <label>Date of birth: <input type="text" name="dob" placeholder="DD/MM/YYYY" required></label><br>
  <label>Selfie: <input type="file" name="image" required></label><br>
  <label>Document: <input type="file" name="document" required></label><br>
  <button type="submit">Verify</button>
</form>
</body>
</html>`

func NewHandler(verifier service.VerificationService, store storage.UploadStore, cfg *config.Config) http.Handler {
	r := gin.Default()

	r.Use(requestSizeLimiter(cfg.MaxRequestBodySize))
	r.SetHTMLTemplate(template.Must(template.New("index").Parse(indexPage)))

	r.GET("/", index)
	r.GET("/health", healthCheck)
	r.POST("/verify", verifyIdentity(verifier, store, cfg))

	return r
}

func verifyIdentity(verifier service.VerificationService, store storage.UploadStore, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"ip":     c.ClientIP(),
		}).Info("Processing verification request")

		name := c.PostForm("name")
		declaredAge := c.PostForm("age")
		declaredDOB := c.PostForm("dob")

		selfieFile, selfieErr := c.FormFile("image")
		docFile, docErr := c.FormFile("document")
		if selfieErr != nil || docErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image or document"})
			return
		}
		if !allowedFile(selfieFile.Filename, cfg.Verifier.AcceptedExtensions) ||
			!allowedFile(docFile.Filename, cfg.Verifier.AcceptedExtensions) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type"})
			return
		}

		// Request-scoped namespace keeps concurrent uploads with the same
		// filename apart. Cleanup runs after every terminal outcome.
		ns := store.NewNamespace()
		defer func() {
			if err := store.Purge(ns); err != nil {
				logger.WithError(err).WithField("namespace", ns).Warn("Failed to purge upload namespace")
			}
		}()

		selfiePath, err := saveUpload(selfieFile, ns, store.SaveSelfie)
		if err != nil {
			respondServerError(c, err)
			return
		}
		docPath, err := saveUpload(docFile, ns, store.SaveDocument)
		if err != nil {
			respondServerError(c, err)
			return
		}

		outcome, err := verifier.Verify(ctx, service.VerificationRequest{
			Name:         name,
			DeclaredAge:  declaredAge,
			DeclaredDOB:  declaredDOB,
			DocumentPath: docPath,
			SelfiePath:   selfiePath,
		})
		if err != nil {
			respondServerError(c, err)
			return
		}

		logger.WithFields(logrus.Fields{
			"status":             string(outcome.Status),
			"processing_time_ms": time.Since(startTime).Milliseconds(),
			"ip":                 c.ClientIP(),
		}).Info("Verification request completed")

		respondOutcome(c, outcome)
	}
}

// respondOutcome maps the terminal outcome onto the HTTP surface: 200 for
// success, 400 for user-correctable rejections, 500 for model faults.
func respondOutcome(c *gin.Context, outcome models.Outcome) {
	switch outcome.Status {
	case models.StatusSuccess:
		c.JSON(http.StatusOK, gin.H{
			"message":          "Verification successful",
			"dob":              outcome.DOB,
			"age":              outcome.Age,
			"is_adult":         outcome.IsAdult,
			"face_match_score": formatScore(outcome.Score),
		})
	case models.StatusInputError:
		c.JSON(http.StatusBadRequest, gin.H{"error": outcome.Reason})
	case models.StatusDobNotFound:
		c.JSON(http.StatusBadRequest, gin.H{"error": "DOB not found in document"})
	case models.StatusDobAgeMismatch:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "DOB or age mismatch",
			"dob":   outcome.DOB,
			"age":   outcome.Age,
		})
	case models.StatusFaceMismatch:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Faces do not match",
			"score": formatScore(outcome.Score),
		})
	case models.StatusFaceVerificationFailed:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("Face verification failed: %s", outcome.Reason),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error: unknown outcome"})
	}
}

func respondServerError(c *gin.Context, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"path": c.Request.URL.Path,
		"ip":   c.ClientIP(),
	}).Error("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": fmt.Sprintf("Server error: %v", err),
	})
}

func formatScore(score float64) string {
	return fmt.Sprintf("%.2f%%", score)
}

func allowedFile(filename string, accepted map[string]bool) bool {
	return accepted[strings.ToLower(filepath.Ext(filename))]
}

func saveUpload(fh *multipart.FileHeader, ns string, save func(ns, filename string, r io.Reader) (string, error)) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	return save(ns, fh.Filename, src)
}

func index(c *gin.Context) {
	c.HTML(http.StatusOK, "index", nil)
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
