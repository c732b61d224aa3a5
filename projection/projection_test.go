package projection

import (
	"math"
	"testing"
)

func TestMercator(t *testing.T) {
	tests := []struct {
		lon, lat float64
		x, y     float64
	}{
		{0, 0, 0, 0},
		{180, 0, 20037508.342789244, 0},
		{-74.0, 40.7, -8237642.318702243, 4968191.930188206},
	}
	for _, tt := range tests {
		x, y := Mercator(tt.lon, tt.lat)
		if math.Abs(x-tt.x) > 1e-3 || math.Abs(y-tt.y) > 1 {
			t.Errorf("Mercator(%v, %v) = (%v, %v), want (%v, %v)", tt.lon, tt.lat, x, y, tt.x, tt.y)
		}
	}
	_, top := Mercator(0, 90)
	_, clipped := Mercator(0, MaxLatitude)
	if top != clipped {
		t.Errorf("latitude 90 not clipped: %v != %v", top, clipped)
	}
}

func TestProjectXsYs(t *testing.T) {
	xs, ys := ProjectXsYs([][]float64{{0, 180}, {}}, [][]float64{{0, 0}, {}})
	if len(xs) != 2 || len(xs[0]) != 2 || len(ys[1]) != 0 {
		t.Fatalf("ProjectXsYs() shapes = %v, %v", xs, ys)
	}
	if math.Abs(xs[0][1]-20037508.342789244) > 1e-3 {
		t.Errorf("xs[0][1] = %v", xs[0][1])
	}
}
