package codec

import (
	"fmt"
	"math"

	"github.com/AnyUserName/pixlab/internal/pixbuf"
)

// MSE is the mean squared sample difference over every channel of a and b.
func MSE(a, b *pixbuf.Buffer) (float64, error) {
	if a.Width != b.Width || a.Height != b.Height || a.Channels != b.Channels {
		return 0, fmt.Errorf("mse: shapes %dx%dx%d and %dx%dx%d differ: %w",
			a.Width, a.Height, a.Channels, b.Width, b.Height, b.Channels, pixbuf.ErrInvalidParameter)
	}
	if len(a.Pix) == 0 {
		return 0, nil
	}
	var sum float64
	for i := range a.Pix {
		d := float64(a.Pix[i]) - float64(b.Pix[i])
		sum += d * d
	}
	return sum / float64(len(a.Pix)), nil
}

// PSNR converts an MSE on 8-bit samples to decibels; zero error is +Inf.
func PSNR(mse float64) float64 {
	if mse <= 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(255*255/mse)
}
