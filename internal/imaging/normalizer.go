package imaging

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

var (
	grayBlack = color.Gray{Y: 0}
	grayWhite = color.Gray{Y: 255}
)

// Normalizer prepares a document image for text recognition. The steps run
// in a fixed order: canonical RGBA conversion, grayscale conversion, Otsu
// binarization, and a bilinear upscale to help small glyphs. Output is
// deterministic for a given input.
type Normalizer interface {
	Normalize(img image.Image) *image.Gray
}

type otsuNormalizer struct {
	scale float64
}

// NewNormalizer creates a normalizer upscaling by the given factor in both
// dimensions.
func NewNormalizer(scale float64) Normalizer {
	return &otsuNormalizer{scale: scale}
}

func (n *otsuNormalizer) Normalize(img image.Image) *image.Gray {
	bounds := img.Bounds()

	// Canonical channel layout before the grayscale pass
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, rgba, bounds.Min, draw.Src)

	binary := binarize(gray, otsuThreshold(gray))

	dstW := int(float64(bounds.Dx()) * n.scale)
	dstH := int(float64(bounds.Dy()) * n.scale)
	dst := image.NewGray(image.Rect(0, 0, dstW, dstH))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), binary, binary.Bounds(), xdraw.Src, nil)
	return dst
}

// otsuThreshold picks the global intensity cutoff maximizing between-class
// variance, which is equivalent to minimizing combined within-class variance.
func otsuThreshold(gray *image.Gray) uint8 {
	var hist [256]int
	bounds := gray.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hist[gray.GrayAt(x, y).Y]++
		}
	}

	total := float64(bounds.Dx() * bounds.Dy())
	var sum float64
	for i, count := range hist {
		sum += float64(i) * float64(count)
	}

	var sumB, weightB float64
	var maxVariance float64
	var threshold uint8
	for t := 0; t < 256; t++ {
		weightB += float64(hist[t])
		if weightB == 0 {
			continue
		}
		weightF := total - weightB
		if weightF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		meanB := sumB / weightB
		meanF := (sum - sumB) / weightF
		variance := weightB * weightF * (meanB - meanF) * (meanB - meanF)
		if variance > maxVariance {
			maxVariance = variance
			threshold = uint8(t)
		}
	}
	return threshold
}

// binarize maps pixels above the threshold to white and the rest to black.
func binarize(gray *image.Gray, threshold uint8) *image.Gray {
	bounds := gray.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if gray.GrayAt(x, y).Y > threshold {
				out.SetGray(x, y, grayWhite)
			} else {
				out.SetGray(x, y, grayBlack)
			}
		}
	}
	return out
}
