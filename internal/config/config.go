package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
	UploadDir          string
	TessdataPrefix     string
	FaceAPIURL         string
	FaceAPITimeout     time.Duration
	Verifier           VerifierConfig
}

// VerifierConfig carries the decision parameters of the verification
// pipeline. It is passed into the orchestrator at construction time so tests
// can override the threshold, language set, and accepted date formats.
type VerifierConfig struct {
	OCRLanguages        []string
	SimilarityThreshold float64
	AcceptedExtensions  map[string]bool
	DateFormats         []string
	FaceModel           string
	RasterDPI           float64
	UpscaleFactor       float64
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// DefaultVerifierConfig returns the fixed pipeline parameters: the
// multilingual OCR set, the 50% similarity threshold, the accepted upload
// extensions, and the two accepted date layouts in priority order.
func DefaultVerifierConfig() VerifierConfig {
	return VerifierConfig{
		OCRLanguages:        []string{"eng", "hin", "tam", "tel", "kan", "mal"},
		SimilarityThreshold: 50.0,
		AcceptedExtensions: map[string]bool{
			".png":  true,
			".jpg":  true,
			".jpeg": true,
			".pdf":  true,
		},
		DateFormats:   []string{"02/01/2006", "02-01-2006"},
		FaceModel:     "VGG-Face",
		RasterDPI:     300,
		UpscaleFactor: 1.5,
	}
}

func LoadFromEnv() (*Config, error) {
	// Set defaults
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 60*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 20*1024*1024), // 20MB, two uploads per request
		UploadDir:          getEnvOrDefault("UPLOAD_DIR", "uploads"),
		TessdataPrefix:     getEnvOrDefault("TESSDATA_PREFIX", "./tessdata"),
		FaceAPIURL:         getEnvOrDefault("FACE_API_URL", "http://localhost:5005"),
		FaceAPITimeout:     parseDurationOrDefault("FACE_API_TIMEOUT", 60*time.Second),
		Verifier:           DefaultVerifierConfig(),
	}

	if langs := os.Getenv("OCR_LANGUAGES"); langs != "" {
		cfg.Verifier.OCRLanguages = splitLanguages(langs)
	}
	if model := os.Getenv("FACE_MODEL"); model != "" {
		cfg.Verifier.FaceModel = model
	}
	cfg.Verifier.SimilarityThreshold = parseFloatOrDefault("SIMILARITY_THRESHOLD", cfg.Verifier.SimilarityThreshold)

	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.RequestTimeout <= 0 || cfg.FaceAPITimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, face=%s)",
			cfg.RequestTimeout, cfg.FaceAPITimeout)
	}
	if len(cfg.Verifier.OCRLanguages) == 0 {
		return nil, fmt.Errorf("OCR_LANGUAGES must name at least one language")
	}
	if cfg.Verifier.UpscaleFactor < 1 {
		return nil, fmt.Errorf("upscale factor must be >= 1 (got %g)", cfg.Verifier.UpscaleFactor)
	}
	return cfg, nil
}

// splitLanguages accepts both comma- and plus-separated language lists
// ("eng,hin" or "eng+hin").
func splitLanguages(value string) []string {
	value = strings.ReplaceAll(value, "+", ",")
	var langs []string
	for _, lang := range strings.Split(value, ",") {
		if lang = strings.TrimSpace(lang); lang != "" {
			langs = append(langs, lang)
		}
	}
	return langs
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
