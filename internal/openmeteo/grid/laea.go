package grid

import "math"

// LambertAzimuthalEqualArea implements the spherical Lambert azimuthal
// equal-area projection named in spec §4.1, centered on (Lat0, Lon0).
// Structured the same way as LambertConformalConic (see DESIGN.md for why
// the pack's ellipsoidal proj package isn't reused directly).
type LambertAzimuthalEqualArea struct {
	Nx, Ny         int
	Dx, Dy         float64
	Lat0, Lon0     float64
	Radius         float64
	X0, Y0         float64
}

var _ Grid = LambertAzimuthalEqualArea{}

func (g LambertAzimuthalEqualArea) Count() int { return g.Nx * g.Ny }

func (g LambertAzimuthalEqualArea) project(lat, lon float64) (px, py float64) {
	const d2r = math.Pi / 180
	phi0, phi := g.Lat0*d2r, lat*d2r
	lambda := normalizeLonDiff(lon-g.Lon0) * d2r

	cosC := math.Sin(phi0)*math.Sin(phi) + math.Cos(phi0)*math.Cos(phi)*math.Cos(lambda)
	k := math.Sqrt(2 / (1 + cosC))

	px = g.Radius * k * math.Cos(phi) * math.Sin(lambda)
	py = g.Radius * k * (math.Cos(phi0)*math.Sin(phi) - math.Sin(phi0)*math.Cos(phi)*math.Cos(lambda))
	return px, py
}

func (g LambertAzimuthalEqualArea) unproject(px, py float64) (lat, lon float64) {
	const d2r = math.Pi / 180
	phi0 := g.Lat0 * d2r
	rho := math.Hypot(px, py)
	if rho < 1e-9 {
		return g.Lat0, g.Lon0
	}
	c := 2 * math.Asin(clampUnit(rho/(2*g.Radius)))
	sinC, cosC := math.Sin(c), math.Cos(c)

	phi := math.Asin(clampUnit(cosC*math.Sin(phi0) + py*sinC*math.Cos(phi0)/rho))
	lambda := math.Atan2(px*sinC, rho*math.Cos(phi0)*cosC-py*math.Sin(phi0)*sinC)

	lat = phi / d2r
	lon = g.Lon0 + lambda/d2r
	return lat, lon
}

func (g LambertAzimuthalEqualArea) Forward(lat, lon float64) (x, y float64, ok bool) {
	px, py := g.project(lat, lon)
	x = px/g.Dx + g.X0
	y = py/g.Dy + g.Y0
	if x < -0.5 || x > float64(g.Nx)-0.5 || y < -0.5 || y > float64(g.Ny)-0.5 {
		return 0, 0, false
	}
	return x, y, true
}

func (g LambertAzimuthalEqualArea) Inverse(x, y float64) (lat, lon float64) {
	px := (x - g.X0) * g.Dx
	py := (y - g.Y0) * g.Dy
	return g.unproject(px, py)
}

func (g LambertAzimuthalEqualArea) FindPoint(lat, lon float64) (Point, bool) {
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

func (g LambertAzimuthalEqualArea) GetCoordinates(p Point) (lat, lon float64) {
	yi := int(p) / g.Nx
	xi := int(p) % g.Nx
	return g.Inverse(float64(xi), float64(yi))
}

func (g LambertAzimuthalEqualArea) Neighbours3x3(nearest Point) []Point {
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
