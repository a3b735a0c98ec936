package grid

import "math"

// Rotated is a regular grid defined in a rotated-pole coordinate system
// (spec §4.1 "Rotated lat/lon takes (poleLat, poleLon)"). Forward and
// inverse use the standard rotation composed from two rotations about the
// z- and y-axes.
type Rotated struct {
	Nx, Ny         int
	LatMin, LonMin float64 // in rotated-grid degrees
	Dx, Dy         float64
	PoleLat, PoleLon float64 // geographic location of the rotated south pole
}

var _ Grid = Rotated{}

func (g Rotated) Count() int { return g.Nx * g.Ny }

// toRotated converts true (lat, lon) to rotated-pole (lat, lon), given the
// geographic position of the rotated grid's south pole.
func (g Rotated) toRotated(lat, lon float64) (rlat, rlon float64) {
	const d2r = math.Pi / 180
	theta := (90 + g.PoleLat) * d2r // angle of rotation about y-axis
	phi := g.PoleLon * d2r          // angle of rotation about z-axis

	latR := lat * d2r
	lonR := lon * d2r

	x := math.Cos(lonR) * math.Cos(latR)
	y := math.Sin(lonR) * math.Cos(latR)
	z := math.Sin(latR)

	x1 := math.Cos(theta)*math.Cos(phi)*x + math.Cos(theta)*math.Sin(phi)*y + math.Sin(theta)*z
	y1 := -math.Sin(phi)*x + math.Cos(phi)*y
	z1 := -math.Sin(theta)*math.Cos(phi)*x - math.Sin(theta)*math.Sin(phi)*y + math.Cos(theta)*z

	rlat = math.Asin(clampUnit(z1)) / d2r
	rlon = math.Atan2(y1, x1) / d2r
	return rlat, rlon
}

// fromRotated is the inverse rotation.
func (g Rotated) fromRotated(rlat, rlon float64) (lat, lon float64) {
	const d2r = math.Pi / 180
	theta := (90 + g.PoleLat) * d2r
	phi := g.PoleLon * d2r

	rlatR := rlat * d2r
	rlonR := rlon * d2r

	x := math.Cos(rlonR) * math.Cos(rlatR)
	y := math.Sin(rlonR) * math.Cos(rlatR)
	z := math.Sin(rlatR)

	x1 := math.Cos(theta)*math.Cos(phi)*x - math.Sin(phi)*y - math.Sin(theta)*math.Cos(phi)*z
	y1 := math.Cos(theta)*math.Sin(phi)*x + math.Cos(phi)*y - math.Sin(theta)*math.Sin(phi)*z
	z1 := math.Sin(theta)*x + math.Cos(theta)*z

	lat = math.Asin(clampUnit(z1)) / d2r
	lon = math.Atan2(y1, x1) / d2r
	return lat, lon
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

func (g Rotated) Forward(lat, lon float64) (x, y float64, ok bool) {
	rlat, rlon := g.toRotated(lat, lon)
	y = (rlat - g.LatMin) / g.Dy
	if y < -0.5 || y > float64(g.Ny)-0.5 {
		return 0, 0, false
	}
	rlon = wrapLongitude(rlon, g.LonMin)
	x = (rlon - g.LonMin) / g.Dx
	return x, y, true
}

func (g Rotated) Inverse(x, y float64) (lat, lon float64) {
	rlat := g.LatMin + y*g.Dy
	rlon := g.LonMin + x*g.Dx
	return g.fromRotated(rlat, rlon)
}

func (g Rotated) FindPoint(lat, lon float64) (Point, bool) {
	x, y, ok := g.Forward(lat, lon)
	if !ok {
		return NoPoint, false
	}
	xi := int(math.Round(x))
	yi := int(math.Round(y))
	if xi < 0 || xi >= g.Nx || yi < 0 || yi >= g.Ny {
		return NoPoint, false
	}
	return Point(yi*g.Nx + xi), true
}

func (g Rotated) GetCoordinates(p Point) (lat, lon float64) {
	yi := int(p) / g.Nx
	xi := int(p) % g.Nx
	return g.Inverse(float64(xi), float64(yi))
}

func (g Rotated) Neighbours3x3(nearest Point) []Point {
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
