package inference

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
)

// ErrInvalidImage is returned when the upload can't be decoded as an image.
var ErrInvalidImage = errors.New("invalid image")

// Tensor is a single image as height x width x RGB, values in [0, 255].
type Tensor [][][]float32

// Preprocess decodes an image, scales it to size x size and converts it to a raw RGB tensor.
// Nearest neighbour sampling and unnormalized pixel values match how the model was trained.
func Preprocess(image []byte, size int) (Tensor, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty upload", ErrInvalidImage)
	}

	img, err := imaging.Decode(bytes.NewReader(image), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	resized := imaging.Resize(img, size, size, imaging.NearestNeighbor)

	tensor := make(Tensor, size)
	for y := range size {
		row := make([][]float32, size)
		for x := range size {
			i := y*resized.Stride + x*4
			row[x] = []float32{
				float32(resized.Pix[i]),
				float32(resized.Pix[i+1]),
				float32(resized.Pix[i+2]),
			}
		}
		tensor[y] = row
	}
	return tensor, nil
}

// ArgMax returns the index of the highest score. Ties resolve to the lowest index,
// an empty slice yields -1.
func ArgMax(scores []float32) int {
	if len(scores) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best
}
