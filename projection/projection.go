// Package projection converts longitude/latitude to Web Mercator meters.
package projection

import "math"

// EarthRadius is the WGS84 semi-major axis in meters.
const EarthRadius = 6378137.0

// MaxLatitude is the latitude at which Web Mercator is clipped.
const MaxLatitude = 85.0511287798

// Mercator projects one lon/lat pair in degrees.
func Mercator(lon, lat float64) (x, y float64) {
	lat = math.Max(-MaxLatitude, math.Min(MaxLatitude, lat))
	x = EarthRadius * lon * math.Pi / 180
	y = EarthRadius * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))
	return x, y
}

// ProjectXY projects parallel lon/lat slices into new slices. The shorter
// length wins.
func ProjectXY(lon, lat []float64) (x, y []float64) {
	n := min(len(lon), len(lat))
	x = make([]float64, n)
	y = make([]float64, n)
	for i := 0; i < n; i++ {
		x[i], y[i] = Mercator(lon[i], lat[i])
	}
	return x, y
}

// ProjectXsYs projects multi-point geometries: one lon and lat slice per
// row.
func ProjectXsYs(lons, lats [][]float64) (xs, ys [][]float64) {
	n := min(len(lons), len(lats))
	xs = make([][]float64, n)
	ys = make([][]float64, n)
	for i := 0; i < n; i++ {
		xs[i], ys[i] = ProjectXY(lons[i], lats[i])
	}
	return xs, ys
}
