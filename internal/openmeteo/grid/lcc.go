package grid

import "math"

// LambertConformalConic implements spec §4.1's "Lambert conformal conic
// takes (λ0, ϕ0, ϕ1, ϕ2, radius)". Meteorological grids (unlike cartographic
// ones) are specified on a spherical earth with a single declared radius —
// the forward/inverse equations here follow the same cone-constant
// structure as the ellipsoidal projection in the pack's
// spatialmodel-inmap/vendor/github.com/ctessum/geom/proj/lcc.go, specialised
// to e=0 (sphere), since that package's ellipsoidal SR type isn't a fit for
// a single-radius spherical grid (see DESIGN.md).
type LambertConformalConic struct {
	Nx, Ny               int
	Dx, Dy               float64
	Lon0, Lat0, Lat1, Lat2 float64 // degrees
	Radius               float64
	X0, Y0               float64 // origin offset in grid units (col,row of (lon0,lat0))

	n, f, rho0 float64
}

// NewLambertConformalConic precomputes the cone constant n, scale factor F
// and reference radius rho0 used by every forward/inverse call.
func NewLambertConformalConic(nx, ny int, dx, dy, lon0, lat0, lat1, lat2, radius, x0, y0 float64) *LambertConformalConic {
	g := &LambertConformalConic{Nx: nx, Ny: ny, Dx: dx, Dy: dy, Lon0: lon0, Lat0: lat0, Lat1: lat1, Lat2: lat2, Radius: radius, X0: x0, Y0: y0}
	const d2r = math.Pi / 180
	phi0, phi1, phi2 := lat0*d2r, lat1*d2r, lat2*d2r

	if math.Abs(lat1-lat2) < 1e-10 {
		g.n = math.Sin(phi1)
	} else {
		g.n = math.Log(math.Cos(phi1)/math.Cos(phi2)) /
			math.Log(math.Tan(math.Pi/4+phi2/2)/math.Tan(math.Pi/4+phi1/2))
	}
	g.f = math.Cos(phi1) * math.Pow(math.Tan(math.Pi/4+phi1/2), g.n) / g.n
	g.rho0 = radius * g.f / math.Pow(math.Tan(math.Pi/4+phi0/2), g.n)
	return g
}

var _ Grid = (*LambertConformalConic)(nil)

func (g *LambertConformalConic) Count() int { return g.Nx * g.Ny }

func (g *LambertConformalConic) project(lat, lon float64) (px, py float64) {
	const d2r = math.Pi / 180
	phi := lat * d2r
	rho := g.Radius * g.f / math.Pow(math.Tan(math.Pi/4+phi/2), g.n)
	theta := g.n * normalizeLonDiff(lon-g.Lon0) * d2r
	px = rho * math.Sin(theta)
	py = g.rho0 - rho*math.Cos(theta)
	return px, py
}

func (g *LambertConformalConic) unproject(px, py float64) (lat, lon float64) {
	const d2r = math.Pi / 180
	rho := math.Copysign(math.Hypot(px, g.rho0-py), g.n)
	theta := math.Atan2(px, g.rho0-py)
	lat = (2*math.Atan(math.Pow(g.Radius*g.f/rho, 1/g.n)) - math.Pi/2) / d2r
	lon = theta/g.n/d2r + g.Lon0
	return lat, lon
}

func normalizeLonDiff(d float64) float64 {
	for d > 180 {
		d -= 360
	}
	for d < -180 {
		d += 360
	}
	return d
}

func (g *LambertConformalConic) Forward(lat, lon float64) (x, y float64, ok bool) {
	px, py := g.project(lat, lon)
	x = px/g.Dx + g.X0
	y = py/g.Dy + g.Y0
	if x < -0.5 || x > float64(g.Nx)-0.5 || y < -0.5 || y > float64(g.Ny)-0.5 {
		return 0, 0, false
	}
	return x, y, true
}

func (g *LambertConformalConic) Inverse(x, y float64) (lat, lon float64) {
	px := (x - g.X0) * g.Dx
	py := (y - g.Y0) * g.Dy
	return g.unproject(px, py)
}

func (g *LambertConformalConic) FindPoint(lat, lon float64) (Point, bool) {
	x, y, ok := g.Forward(lat, lon)
	if !ok {
		return NoPoint, false
	}
	xi, yi := int(math.Round(x)), int(math.Round(y))
	if xi < 0 || xi >= g.Nx || yi < 0 || yi >= g.Ny {
		return NoPoint, false
	}
	return Point(yi*g.Nx + xi), true
}

func (g *LambertConformalConic) GetCoordinates(p Point) (lat, lon float64) {
	yi := int(p) / g.Nx
	xi := int(p) % g.Nx
	return g.Inverse(float64(xi), float64(yi))
}

func (g *LambertConformalConic) Neighbours3x3(nearest Point) []Point {
	yi := int(nearest) / g.Nx
	xi := int(nearest) % g.Nx
	var out []Point
	for dy := -1; dy <= 1; dy++ {
		ny := yi + dy
		if ny < 0 || ny >= g.Ny {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx := xi + dx
			if nx < 0 || nx >= g.Nx {
				continue
			}
			out = append(out, Point(ny*g.Nx+nx))
		}
	}
	return out
}
