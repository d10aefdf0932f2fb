package segment

import (
	"math/rand/v2"

	"github.com/AnyUserName/pixlab/internal/parallel"
	"github.com/AnyUserName/pixlab/internal/pixbuf"
	"gonum.org/v1/gonum/floats"
)

type kmResult struct {
	labels     []int
	seeds      []int
	centroids  [][3]float64
	converged  bool
	iterations int
}

func sqDistRGB(a, b []float64) float64 {
	dr, dg, db := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return dr*dr + dg*dg + db*db
}

// kmeans runs Lloyd's algorithm in RGB space from a k-means++ start drawn
// with a PCG source seeded by opts.Seed. A cluster that loses all its pixels
// keeps its previous centroid.
func kmeans(buf *pixbuf.Buffer, opts Options) kmResult {
	n, k := buf.Pixels(), opts.Count
	px := make([][]float64, n)
	flat := make([]float64, 3*n)
	for i, o := 0, 0; i < n; i, o = i+1, o+buf.Channels {
		p := flat[3*i : 3*i+3 : 3*i+3]
		p[0], p[1], p[2] = float64(buf.Pix[o]), float64(buf.Pix[o+1]), float64(buf.Pix[o+2])
		px[i] = p
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	seeds := plusPlus(px, k, rng)
	centroids := make([][]float64, k)
	for c, s := range seeds {
		centroids[c] = append([]float64(nil), px[s]...)
	}

	labels := make([]int, n)
	assign := func() {
		parallel.Ranges(n, opts.Workers, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				best, bestD := 0, sqDistRGB(px[i], centroids[0])
				for c := 1; c < k; c++ {
					if d := sqDistRGB(px[i], centroids[c]); d < bestD {
						best, bestD = c, d
					}
				}
				labels[i] = best + 1
			}
		})
	}

	res := kmResult{seeds: seeds}
	sums := make([][]float64, k)
	for c := range sums {
		sums[c] = make([]float64, 3)
	}
	counts := make([]int, k)

	for iter := 1; iter <= opts.MaxIterations; iter++ {
		assign()
		for c := range sums {
			floats.Scale(0, sums[c])
			counts[c] = 0
		}
		for i, l := range labels {
			floats.Add(sums[l-1], px[i])
			counts[l-1]++
		}
		var moved float64
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			moved = max(moved, floats.Distance(sums[c], centroids[c], 2))
			copy(centroids[c], sums[c])
		}
		res.iterations = iter
		if moved < opts.Epsilon {
			res.converged = true
			break
		}
	}
	assign()

	res.labels = labels
	res.centroids = make([][3]float64, k)
	for c, v := range centroids {
		copy(res.centroids[c][:], v)
	}
	return res
}

// plusPlus picks k distinct starting pixels: the first uniformly, each next
// one with probability proportional to its squared distance from the
// closest pick. When every remaining pixel coincides with a pick, the
// lowest unpicked index is taken.
func plusPlus(px [][]float64, k int, rng *rand.Rand) []int {
	n := len(px)
	first := rng.IntN(n)
	seeds := []int{first}
	picked := map[int]bool{first: true}

	d2 := make([]float64, n)
	for i := range px {
		d2[i] = sqDistRGB(px[i], px[first])
	}

	for len(seeds) < k {
		next := -1
		if total := floats.Sum(d2); total > 0 {
			r := rng.Float64() * total
			var cum float64
			for i, d := range d2 {
				if d == 0 {
					continue
				}
				cum += d
				next = i
				if cum > r {
					break
				}
			}
		} else {
			for i := 0; i < n; i++ {
				if !picked[i] {
					next = i
					break
				}
			}
		}
		seeds = append(seeds, next)
		picked[next] = true
		for i := range px {
			d2[i] = min(d2[i], sqDistRGB(px[i], px[next]))
		}
	}
	return seeds
}
