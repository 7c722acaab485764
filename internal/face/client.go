// Package face scores the similarity of two face images by delegating to an
// external face-embedding verification service.
package face

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	apperrors "go-identity-verifier/internal/errors"
)

// Result carries the model-native distance metric and the derived
// percentage score. The score is not clamped and may leave [0, 100] when
// the distance leaves [0, 1].
type Result struct {
	Distance float64
	Score    float64
}

// Verifier compares the face on a document image against a selfie.
type Verifier interface {
	Verify(ctx context.Context, documentPath, selfiePath string) (Result, error)
}

// ScoreFromDistance converts a model distance into a percentage. Lower
// distance means higher similarity.
func ScoreFromDistance(distance float64) float64 {
	return 100 - distance*100
}

type httpVerifier struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewHTTPVerifier creates a client for a DeepFace-style verification
// service. Detection failures are handled best-effort on the service side
// (enforce_detection is off), so partial detections still yield a distance.
func NewHTTPVerifier(baseURL, model string, timeout time.Duration) Verifier {
	transport := &http.Transport{
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &httpVerifier{
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

type verifyRequest struct {
	Img1             string `json:"img1"`
	Img2             string `json:"img2"`
	ModelName        string `json:"model_name"`
	EnforceDetection bool   `json:"enforce_detection"`
}

type verifyResponse struct {
	Distance  float64 `json:"distance"`
	Verified  bool    `json:"verified"`
	Threshold float64 `json:"threshold"`
	Error     string  `json:"error"`
}

// Verify posts both images to the embedding service exactly once; there is
// no retry around model inference. Any service fault is returned as a
// dependency error carrying the underlying reason.
func (v *httpVerifier) Verify(ctx context.Context, documentPath, selfiePath string) (Result, error) {
	img1, err := encodeImageFile(documentPath)
	if err != nil {
		return Result{}, apperrors.NewDependencyError("could not read document image", err)
	}
	img2, err := encodeImageFile(selfiePath)
	if err != nil {
		return Result{}, apperrors.NewDependencyError("could not read selfie image", err)
	}

	payload, err := json.Marshal(verifyRequest{
		Img1:             img1,
		Img2:             img2,
		ModelName:        v.model,
		EnforceDetection: false,
	})
	if err != nil {
		return Result{}, apperrors.NewInternalError("could not encode verification request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/verify", bytes.NewReader(payload))
	if err != nil {
		return Result{}, apperrors.NewInternalError("could not build verification request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return Result{}, apperrors.NewDependencyError("face service unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, apperrors.NewDependencyError("face service response unreadable", err)
	}

	var out verifyResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return Result{}, apperrors.NewDependencyError("face service returned malformed response", err)
	}
	if resp.StatusCode != http.StatusOK {
		reason := out.Error
		if reason == "" {
			reason = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return Result{}, apperrors.NewDependencyError("face verification rejected", errors.New(reason))
	}

	return Result{
		Distance: out.Distance,
		Score:    ScoreFromDistance(out.Distance),
	}, nil
}

func encodeImageFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
