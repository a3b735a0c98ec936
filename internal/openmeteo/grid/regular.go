package grid

import "math"

// RegularLatLon is a regular, evenly-spaced latitude/longitude grid (spec
// §4.1 "Regular lat/lon with (latMin, lonMin, dx, dy)"). Longitude wraps;
// out-of-range latitudes return none.
type RegularLatLon struct {
	Nx, Ny           int
	LatMin, LonMin   float64
	Dx, Dy           float64
}

var _ Grid = RegularLatLon{}

func (g RegularLatLon) Count() int { return g.Nx * g.Ny }

func (g RegularLatLon) Forward(lat, lon float64) (x, y float64, ok bool) {
	y = (lat - g.LatMin) / g.Dy
	if y < -0.5 || y > float64(g.Ny)-0.5 {
		return 0, 0, false
	}
	lon = wrapLongitude(lon, g.LonMin)
	x = (lon - g.LonMin) / g.Dx
	return x, y, true
}

func (g RegularLatLon) Inverse(x, y float64) (lat, lon float64) {
	lat = g.LatMin + y*g.Dy
	lon = g.LonMin + x*g.Dx
	return lat, lon
}

func (g RegularLatLon) FindPoint(lat, lon float64) (Point, bool) {
	x, y, ok := g.Forward(lat, lon)
	if !ok {
		return NoPoint, false
	}
	xi := int(math.Round(x))
	yi := int(math.Round(y))
	if xi < 0 {
		xi += g.Nx
	}
	xi = xi % g.Nx
	if yi < 0 || yi >= g.Ny {
		return NoPoint, false
	}
	return Point(yi*g.Nx + xi), true
}

func (g RegularLatLon) GetCoordinates(p Point) (lat, lon float64) {
	yi := int(p) / g.Nx
	xi := int(p) % g.Nx
	return g.Inverse(float64(xi), float64(yi))
}

// Neighbours3x3 returns the up-to-8 grid points surrounding nearest,
// wrapping in longitude and clipping at the poles, for use with
// grid.FindPointTerrainOptimised.
func (g RegularLatLon) Neighbours3x3(nearest Point) []Point {
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
			nx := ((xi+dx)%g.Nx + g.Nx) % g.Nx
			out = append(out, Point(ny*g.Nx+nx))
		}
	}
	return out
}

func wrapLongitude(lon, lonMin float64) float64 {
	for lon < lonMin {
		lon += 360
	}
	for lon >= lonMin+360 {
		lon -= 360
	}
	return lon
}
