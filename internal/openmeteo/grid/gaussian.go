package grid

import "math"

// ReducedGaussian implements the O1280-class reduced Gaussian grid from
// spec §4.1: 2560 latitude rows, nxOf(0)=20 growing toward the equator,
// symmetric about it, with row counts always a multiple of 4 (matches the
// pack's own use of 2560-row global grids — see DESIGN.md for how nxOf is
// derived from the two fixed points the spec gives).
type ReducedGaussian struct {
	rows      int        // total latitude rows, e.g. 2560 for "O1280"
	baseCount int        // nxOf(0), e.g. 20
	growth    int        // nx growth per row moving away from the pole, e.g. 4
	lats      []float64  // latitude of each row, north to south, degrees
	rowStart  []int      // prefix-sum offset of each row's first point
	total     int
}

// NewReducedGaussianO1280 builds the reduced Gaussian grid spec §4.1 names
// explicitly: 2560 rows, nxOf(0)=20, nxOf(1279)=5136.
func NewReducedGaussianO1280() *ReducedGaussian {
	return NewReducedGaussian(2560, 20, 4)
}

// NewReducedGaussian builds a reduced Gaussian grid with rows latitude rows,
// nxOf(0)=baseCount at the pole, growing by growth points per row moving
// toward the equator, symmetric about it.
func NewReducedGaussian(rows, baseCount, growth int) *ReducedGaussian {
	g := &ReducedGaussian{rows: rows, baseCount: baseCount, growth: growth}
	g.lats = gaussianLatitudes(rows)
	g.rowStart = make([]int, rows+1)
	offset := 0
	for r := 0; r < rows; r++ {
		g.rowStart[r] = offset
		offset += g.nxOf(r)
	}
	g.rowStart[rows] = offset
	g.total = offset
	return g
}

// nxOf returns the number of points in row r, counting from the north pole
// (row 0) and mirrored about the equator, per spec §4.1.
func (g *ReducedGaussian) nxOf(r int) int {
	half := g.rows / 2
	rel := r
	if rel >= half {
		rel = g.rows - 1 - rel
	}
	return g.baseCount + g.growth*rel
}

var _ Grid = (*ReducedGaussian)(nil)

func (g *ReducedGaussian) Count() int { return g.total }

// rowOf returns the latitude row containing global point index p.
func (g *ReducedGaussian) rowOf(p int) int {
	// rowStart is monotonically increasing; binary search for the row whose
	// [rowStart[r], rowStart[r+1]) bracket contains p.
	lo, hi := 0, g.rows
	for lo < hi {
		mid := (lo + hi) / 2
		if g.rowStart[mid+1] <= p {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func (g *ReducedGaussian) GetCoordinates(p Point) (lat, lon float64) {
	idx := int(p)
	row := g.rowOf(idx)
	j := idx - g.rowStart[row]
	lat = g.lats[row]
	lon = 360.0 * float64(j) / float64(g.nxOf(row))
	return lat, lon
}

// nearestRow returns the row whose latitude is closest to lat.
func (g *ReducedGaussian) nearestRow(lat float64) int {
	lo, hi := 0, g.rows-1
	// g.lats is descending (north to south); binary search for crossover.
	for lo < hi {
		mid := (lo + hi) / 2
		if g.lats[mid] > lat {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	best := lo
	if lo > 0 && math.Abs(g.lats[lo-1]-lat) < math.Abs(g.lats[lo]-lat) {
		best = lo - 1
	}
	return best
}

func (g *ReducedGaussian) Forward(lat, lon float64) (x, y float64, ok bool) {
	if lat > 90 || lat < -90 {
		return 0, 0, false
	}
	row := g.nearestRow(lat)
	n := g.nxOf(row)
	for lon < 0 {
		lon += 360
	}
	for lon >= 360 {
		lon -= 360
	}
	j := lon / 360.0 * float64(n)
	return j, float64(row), true
}

func (g *ReducedGaussian) Inverse(x, y float64) (lat, lon float64) {
	row := int(math.Round(y))
	if row < 0 {
		row = 0
	}
	if row >= g.rows {
		row = g.rows - 1
	}
	n := g.nxOf(row)
	lat = g.lats[row]
	lon = 360.0 * x / float64(n)
	return lat, lon
}

func (g *ReducedGaussian) FindPoint(lat, lon float64) (Point, bool) {
	if lat > 90 || lat < -90 {
		return NoPoint, false
	}
	row := g.nearestRow(lat)
	n := g.nxOf(row)
	for lon < 0 {
		lon += 360
	}
	for lon >= 360 {
		lon -= 360
	}
	j := int(math.Round(lon / 360.0 * float64(n)))
	j = j % n
	return Point(g.rowStart[row] + j), true
}

// Neighbours3x3 returns the points in the row above, the same row, and the
// row below nearest that are closest in longitude, for terrain-optimised
// lookup. Row lengths differ between neighbouring rows in a reduced
// Gaussian grid, so "same column" means "closest matching longitude", not
// "same j index".
func (g *ReducedGaussian) Neighbours3x3(nearest Point) []Point {
	idx := int(nearest)
	row := g.rowOf(idx)
	_, lon := g.GetCoordinates(nearest)

	var out []Point
	for dr := -1; dr <= 1; dr++ {
		r := row + dr
		if r < 0 || r >= g.rows {
			continue
		}
		n := g.nxOf(r)
		centerJ := int(math.Round(lon / 360.0 * float64(n)))
		for dj := -1; dj <= 1; dj++ {
			if dr == 0 && dj == 0 {
				continue
			}
			j := ((centerJ+dj)%n + n) % n
			out = append(out, Point(g.rowStart[r]+j))
		}
	}
	return out
}

// gaussianLatitudes computes the n latitude rows of a global reduced
// Gaussian grid (north to south, degrees) from the roots of the Legendre
// polynomial of degree n, following the standard Newton-Raphson
// root-finding recurrence (Numerical Recipes "gauleg"). The pack carries no
// ready-made Gaussian-quadrature-node table for a 2560-row grid, so the
// roots are computed directly — see DESIGN.md.
func gaussianLatitudes(n int) []float64 {
	x := make([]float64, n)
	const eps = 1e-14
	m := n / 2
	for i := 0; i < m; i++ {
		z := math.Cos(math.Pi * (float64(i) + 0.75) / (float64(n) + 0.5))
		var pp float64
		for iter := 0; iter < 100; iter++ {
			p1, p2 := 1.0, 0.0
			for j := 1; j <= n; j++ {
				p3 := p2
				p2 = p1
				p1 = ((2*float64(j)-1)*z*p2 - (float64(j)-1)*p3) / float64(j)
			}
			pp = float64(n) * (z*p1 - p2) / (z*z - 1)
			z1 := z
			z = z1 - p1/pp
			if math.Abs(z-z1) < eps {
				break
			}
		}
		x[i] = z
		x[n-1-i] = -z
	}
	// x is now ordered north-to-south (x[0] close to +1 == near north pole)
	// since the loop above walks i from the pole inward. Convert cos(theta)
	// to latitude in degrees.
	lats := make([]float64, n)
	for i, xi := range x {
		lats[i] = math.Asin(xi) * 180 / math.Pi
	}
	return lats
}
