package grid

import "math"

// PolarStereographic implements the spherical polar stereographic
// projection named in spec §4.1. Hemisphere is +1 for north, -1 for south;
// TrueScaleLat is the latitude at which the projection is scale-true (often
// the standard parallel quoted by the model's grid description).
type PolarStereographic struct {
	Nx, Ny       int
	Dx, Dy       float64
	Hemisphere   float64 // +1 or -1
	LonOrigin    float64
	TrueScaleLat float64
	Radius       float64
	X0, Y0       float64
}

var _ Grid = PolarStereographic{}

func (g PolarStereographic) Count() int { return g.Nx * g.Ny }

func (g PolarStereographic) project(lat, lon float64) (px, py float64) {
	const d2r = math.Pi / 180
	h := g.Hemisphere
	phi := h * lat * d2r
	phiTS := h * g.TrueScaleLat * d2r
	lambda := h * normalizeLonDiff(lon-g.LonOrigin) * d2r

	mc := math.Cos(phiTS)
	tc := math.Tan(math.Pi/4 - phiTS/2)
	t := math.Tan(math.Pi/4 - phi/2)
	rho := g.Radius * mc * t / tc

	px = h * rho * math.Sin(lambda)
	py = -rho * math.Cos(lambda)
	return px, py
}

func (g PolarStereographic) unproject(px, py float64) (lat, lon float64) {
	const d2r = math.Pi / 180
	h := g.Hemisphere
	phiTS := h * g.TrueScaleLat * d2r
	mc := math.Cos(phiTS)
	tc := math.Tan(math.Pi/4 - phiTS/2)

	rho := math.Hypot(px, py)
	if rho < 1e-9 {
		lat = h * 90
		lon = g.LonOrigin
		return lat, lon
	}
	t := rho * tc / (g.Radius * mc)
	phi := math.Pi/2 - 2*math.Atan(t)
	lambda := math.Atan2(h*px, -py)

	lat = h * phi / d2r
	lon = g.LonOrigin + h*lambda/d2r
	return lat, lon
}

func (g PolarStereographic) Forward(lat, lon float64) (x, y float64, ok bool) {
	px, py := g.project(lat, lon)
	x = px/g.Dx + g.X0
	y = py/g.Dy + g.Y0
	if x < -0.5 || x > float64(g.Nx)-0.5 || y < -0.5 || y > float64(g.Ny)-0.5 {
		return 0, 0, false
	}
	return x, y, true
}

func (g PolarStereographic) Inverse(x, y float64) (lat, lon float64) {
	px := (x - g.X0) * g.Dx
	py := (y - g.Y0) * g.Dy
	return g.unproject(px, py)
}

func (g PolarStereographic) FindPoint(lat, lon float64) (Point, bool) {
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

func (g PolarStereographic) GetCoordinates(p Point) (lat, lon float64) {
	yi := int(p) / g.Nx
	xi := int(p) % g.Nx
	return g.Inverse(float64(xi), float64(yi))
}

func (g PolarStereographic) Neighbours3x3(nearest Point) []Point {
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
