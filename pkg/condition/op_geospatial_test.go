package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeospatial_WithinRadius_MapForm(t *testing.T) {
	data := map[string]interface{}{"loc": map[string]interface{}{"lat": 52.5200, "lon": 13.4050}}
	assert.True(t, evalLeaf(t, "loc", "within_radius", map[string]interface{}{
		"center": map[string]interface{}{"lat": 52.5200, "lon": 13.4050}, "radius_km": 1.0,
	}, data))
}

func TestGeospatial_WithinRadius_PositionalForm(t *testing.T) {
	data := map[string]interface{}{"loc": []interface{}{52.5200, 13.4050}}
	assert.True(t, evalLeaf(t, "loc", "within_radius", map[string]interface{}{
		"center": []interface{}{52.5200, 13.4050}, "radius_km": 1.0,
	}, data))
}

func TestGeospatial_OutsideRadiusFails(t *testing.T) {
	data := map[string]interface{}{"loc": map[string]interface{}{"lat": 52.5200, "lon": 13.4050}}
	assert.False(t, evalLeaf(t, "loc", "within_radius", map[string]interface{}{
		"center": map[string]interface{}{"lat": 48.8566, "lon": 2.3522}, "radius_km": 1.0,
	}, data))
}

func TestGeospatial_InPolygon_InteriorPoint(t *testing.T) {
	data := map[string]interface{}{"loc": map[string]interface{}{"lat": 0.5, "lon": 0.5}}
	square := []interface{}{
		map[string]interface{}{"lat": 0.0, "lon": 0.0},
		map[string]interface{}{"lat": 0.0, "lon": 1.0},
		map[string]interface{}{"lat": 1.0, "lon": 1.0},
		map[string]interface{}{"lat": 1.0, "lon": 0.0},
	}
	assert.True(t, evalLeaf(t, "loc", "in_polygon", map[string]interface{}{"vertices": square}, data))
}

func TestGeospatial_InPolygon_ExteriorPoint(t *testing.T) {
	data := map[string]interface{}{"loc": map[string]interface{}{"lat": 5.0, "lon": 5.0}}
	square := []interface{}{
		map[string]interface{}{"lat": 0.0, "lon": 0.0},
		map[string]interface{}{"lat": 0.0, "lon": 1.0},
		map[string]interface{}{"lat": 1.0, "lon": 1.0},
		map[string]interface{}{"lat": 1.0, "lon": 0.0},
	}
	assert.False(t, evalLeaf(t, "loc", "in_polygon", map[string]interface{}{"vertices": square}, data))
}

func TestGeospatial_InPolygon_BoundaryPointIsInside(t *testing.T) {
	data := map[string]interface{}{"loc": map[string]interface{}{"lat": 0.0, "lon": 0.5}}
	square := []interface{}{
		map[string]interface{}{"lat": 0.0, "lon": 0.0},
		map[string]interface{}{"lat": 0.0, "lon": 1.0},
		map[string]interface{}{"lat": 1.0, "lon": 1.0},
		map[string]interface{}{"lat": 1.0, "lon": 0.0},
	}
	assert.True(t, evalLeaf(t, "loc", "in_polygon", map[string]interface{}{"vertices": square}, data))
}

func TestGeospatial_InPolygon_TooFewVerticesFailsClosed(t *testing.T) {
	data := map[string]interface{}{"loc": map[string]interface{}{"lat": 0.5, "lon": 0.5}}
	assert.False(t, evalLeaf(t, "loc", "in_polygon", map[string]interface{}{"vertices": []interface{}{
		map[string]interface{}{"lat": 0.0, "lon": 0.0},
	}}, data))
}
