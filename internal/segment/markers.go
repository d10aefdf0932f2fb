package segment

import "math"

// localMinima lists pixels whose elevation is <= every 8-neighbor, in index
// order.
func localMinima(elev []uint8, w, h int) []int {
	var out []int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := elev[y*w+x]
			isMin := true
			for dy := -1; dy <= 1 && isMin; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if (dx == 0 && dy == 0) || nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					if elev[ny*w+nx] < v {
						isMin = false
						break
					}
				}
			}
			if isMin {
				out = append(out, y*w+x)
			}
		}
	}
	return out
}

// Seeds picks count seed pixels by farthest-point sampling over the local
// minima of elev. The first seed is the lowest minimum; each following seed
// is the candidate farthest from all chosen ones (ties: lower elevation,
// then lower index). Flat images run out of distinct minima, so sampling
// continues over every pixel.
//
// Farthest-point sampling costs O(count × pixels); above maxSampledSeeds the
// seeds are spread evenly over the image in index order instead.
func Seeds(elev []uint8, w, h, count int) []int {
	if count > maxSampledSeeds {
		return spreadSeeds(w*h, count)
	}
	seeds := farthestPoints(localMinima(elev, w, h), elev, w, count, nil)
	if len(seeds) < count {
		all := make([]int, w*h)
		for i := range all {
			all[i] = i
		}
		seeds = farthestPoints(all, elev, w, count, seeds)
	}
	return seeds
}

// maxSampledSeeds is the largest count Seeds handles with farthest-point
// sampling.
const maxSampledSeeds = 1024

// spreadSeeds returns count distinct indices evenly spaced over [0, n).
func spreadSeeds(n, count int) []int {
	out := make([]int, count)
	for i := range out {
		out[i] = i * n / count
	}
	return out
}

func sqDist(a, b, w int) int {
	dx, dy := a%w-b%w, a/w-b/w
	return dx*dx + dy*dy
}

// farthestPoints extends chosen from pool until it holds want entries or
// every pool entry is already chosen.
func farthestPoints(pool []int, elev []uint8, w, want int, chosen []int) []int {
	dist := make([]int, len(pool))
	for i, p := range pool {
		dist[i] = math.MaxInt
		for _, s := range chosen {
			dist[i] = min(dist[i], sqDist(p, s, w))
		}
	}

	for len(chosen) < want {
		best := -1
		for i, p := range pool {
			if dist[i] == 0 {
				continue
			}
			if best < 0 {
				best = i
				continue
			}
			b := pool[best]
			switch {
			case dist[i] > dist[best]:
				best = i
			case dist[i] == dist[best] && elev[p] < elev[b]:
				best = i
			}
			// Equal distance and elevation keeps the earlier, lower index.
		}
		if best < 0 {
			break
		}
		s := pool[best]
		chosen = append(chosen, s)
		for i, p := range pool {
			dist[i] = min(dist[i], sqDist(p, s, w))
		}
	}
	return chosen
}
