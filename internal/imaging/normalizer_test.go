package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// createBimodalImage builds an image whose left half is dark and right half
// is light, a clean two-class histogram for Otsu.
func createBimodalImage(w, h int, dark, light uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := dark
			if x >= w/2 {
				v = light
			}
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

func TestOtsuThreshold_SeparatesBimodalHistogram(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if x < 50 {
				gray.SetGray(x, y, color.Gray{Y: 40})
			} else {
				gray.SetGray(x, y, color.Gray{Y: 200})
			}
		}
	}

	threshold := otsuThreshold(gray)
	if threshold < 40 || threshold >= 200 {
		t.Errorf("threshold = %d, expected a cutoff between the two modes", threshold)
	}
}

func TestBinarize_ProducesOnlyExtremes(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 30, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			gray.SetGray(x, y, color.Gray{Y: uint8((x * y) % 256)})
		}
	}

	out := binarize(gray, otsuThreshold(gray))
	for _, v := range out.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("binarized pixel = %d, want 0 or 255", v)
		}
	}
}

func TestBinarize_SplitsAroundThreshold(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.SetGray(0, 0, color.Gray{Y: 100})
	gray.SetGray(1, 0, color.Gray{Y: 101})

	out := binarize(gray, 100)
	if out.GrayAt(0, 0).Y != 0 {
		t.Errorf("pixel at threshold should binarize to black, got %d", out.GrayAt(0, 0).Y)
	}
	if out.GrayAt(1, 0).Y != 255 {
		t.Errorf("pixel above threshold should binarize to white, got %d", out.GrayAt(1, 0).Y)
	}
}

func TestNormalize_UpscalesByConfiguredFactor(t *testing.T) {
	n := NewNormalizer(1.5)
	img := createBimodalImage(200, 100, 30, 220)

	out := n.Normalize(img)
	bounds := out.Bounds()
	if bounds.Dx() != 300 || bounds.Dy() != 150 {
		t.Errorf("normalized dimensions = %dx%d, want 300x150", bounds.Dx(), bounds.Dy())
	}
}

func TestNormalize_IsDeterministic(t *testing.T) {
	n := NewNormalizer(1.5)
	img := createBimodalImage(64, 64, 20, 230)

	first := n.Normalize(img)
	second := n.Normalize(img)

	var bufA, bufB bytes.Buffer
	if err := png.Encode(&bufA, first); err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(&bufB, second); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(bufA.Bytes(), bufB.Bytes()) {
		t.Error("normalization of identical input produced different output")
	}
}

func TestNormalize_BimodalInputStaysMostlyExtreme(t *testing.T) {
	n := NewNormalizer(1.5)
	out := n.Normalize(createBimodalImage(100, 100, 10, 240))

	// Bilinear interpolation only blends along the single class boundary,
	// so the vast majority of pixels stay fully black or white.
	extreme := 0
	for _, v := range out.Pix {
		if v == 0 || v == 255 {
			extreme++
		}
	}
	if ratio := float64(extreme) / float64(len(out.Pix)); ratio < 0.95 {
		t.Errorf("extreme pixel ratio = %.3f, want >= 0.95", ratio)
	}
}
