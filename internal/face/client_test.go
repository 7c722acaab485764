package face

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "go-identity-verifier/internal/errors"
)

func TestScoreFromDistance(t *testing.T) {
	tests := []struct {
		distance float64
		want     float64
	}{
		{0.0, 100.0},
		{0.10, 90.0},
		{0.30, 70.0},
		{0.50, 50.0},
		{1.0, 0.0},
		{1.20, -20.0}, // scores outside [0, 100] are not clamped
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, ScoreFromDistance(tt.distance), 1e-9)
	}
}

func writeImages(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	docPath := filepath.Join(dir, "document.png")
	selfiePath := filepath.Join(dir, "selfie.jpg")
	require.NoError(t, os.WriteFile(docPath, []byte("doc-image"), 0o644))
	require.NoError(t, os.WriteFile(selfiePath, []byte("selfie-image"), 0o644))
	return docPath, selfiePath
}

func TestHTTPVerifier_Verify(t *testing.T) {
	docPath, selfiePath := writeImages(t)

	var received verifyRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/verify", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(verifyResponse{Distance: 0.30, Verified: true})
	}))
	defer server.Close()

	v := NewHTTPVerifier(server.URL, "VGG-Face", 5*time.Second)
	result, err := v.Verify(context.Background(), docPath, selfiePath)
	require.NoError(t, err)

	assert.InDelta(t, 0.30, result.Distance, 1e-9)
	assert.InDelta(t, 70.0, result.Score, 1e-9)

	// The model is identified and strict detection stays off so ambiguous
	// faces are handled best-effort by the service.
	assert.Equal(t, "VGG-Face", received.ModelName)
	assert.False(t, received.EnforceDetection)
	assert.NotEmpty(t, received.Img1)
	assert.NotEmpty(t, received.Img2)
}

func TestHTTPVerifier_ServiceErrorIsDependencyError(t *testing.T) {
	docPath, selfiePath := writeImages(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(verifyResponse{Error: "could not detect a face in the document image"})
	}))
	defer server.Close()

	v := NewHTTPVerifier(server.URL, "VGG-Face", 5*time.Second)
	_, err := v.Verify(context.Background(), docPath, selfiePath)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDependency))
	assert.Contains(t, err.Error(), "could not detect a face")
}

func TestHTTPVerifier_UnreachableServiceIsDependencyError(t *testing.T) {
	docPath, selfiePath := writeImages(t)

	v := NewHTTPVerifier("http://127.0.0.1:1", "VGG-Face", time.Second)
	_, err := v.Verify(context.Background(), docPath, selfiePath)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDependency))
}

func TestHTTPVerifier_MissingImageIsDependencyError(t *testing.T) {
	v := NewHTTPVerifier("http://localhost:5005", "VGG-Face", time.Second)
	_, err := v.Verify(context.Background(), "/no/such/document.png", "/no/such/selfie.jpg")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDependency))
}
