package segment

import (
	"github.com/AnyUserName/pixlab/internal/pixbuf"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// LabelColor is the fill used for label l of count in the colored style.
func LabelColor(l, count int) (r, g, b uint8) {
	return colorful.Hsl(float64(l)/float64(count)*360, 0.7, 0.6).Clamped().RGB255()
}

func markerColor(l, count int) (r, g, b uint8) {
	return colorful.Hsl(float64(l)/float64(count)*360, 1, 0.5).Clamped().RGB255()
}

func renderColored(src *pixbuf.Buffer, labels []int, count int) *pixbuf.Buffer {
	out := src.SameShape()
	palette := make([][3]uint8, count+1)
	for l := 1; l <= count; l++ {
		r, g, b := LabelColor(l, count)
		palette[l] = [3]uint8{r, g, b}
	}
	for i, l := range labels {
		o := i * out.Channels
		c := palette[l]
		out.Pix[o], out.Pix[o+1], out.Pix[o+2] = c[0], c[1], c[2]
	}
	return out
}

// isEdge reports whether pixel i is a boundary or touches a different label.
func isEdge(labels []int, w, h, i int) bool {
	l := labels[i]
	if l == 0 {
		return true
	}
	x, y := i%w, i/w
	return (x > 0 && labels[i-1] != l) ||
		(x < w-1 && labels[i+1] != l) ||
		(y > 0 && labels[i-w] != l) ||
		(y < h-1 && labels[i+w] != l)
}

func renderContours(src *pixbuf.Buffer, labels []int) *pixbuf.Buffer {
	out := src.Clone()
	for i := range labels {
		if !isEdge(labels, src.Width, src.Height, i) {
			continue
		}
		o := i * out.Channels
		out.Pix[o], out.Pix[o+1], out.Pix[o+2] = 255, 255, 255
	}
	return out
}

// renderMarkers draws a filled disc per seed over a copy of src.
func renderMarkers(src *pixbuf.Buffer, seeds []Point, count int) *pixbuf.Buffer {
	out := src.Clone()
	radius := max(2, min(src.Width, src.Height)/50)
	for i, s := range seeds {
		r, g, b := markerColor(i+1, count)
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				x, y := s.X+dx, s.Y+dy
				if dx*dx+dy*dy > radius*radius || x < 0 || y < 0 || x >= src.Width || y >= src.Height {
					continue
				}
				o := out.Offset(x, y)
				out.Pix[o], out.Pix[o+1], out.Pix[o+2] = r, g, b
			}
		}
	}
	return out
}
