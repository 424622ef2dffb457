package camera

import (
	"testing"

	"github.com/NASA-AMMOS/Landform-sub006/internal/coord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrthographicGISFromProjectionWGS84IdentityAxes(t *testing.T) {
	proj := coord.ForEPSG(4326)
	require.NotNil(t, proj)

	m := NewOrthographicGISFromProjection(proj, -117.1, 34.2, 0.5, Vec3{X: 0, Y: 0, Z: -1})

	require.Equal(t, -117.1, m.Origin.X)
	require.Equal(t, 34.2, m.Origin.Y)
	// Under WGS84Identity, easting increases with longitude and northing
	// with latitude, so Right should point toward +X and Up toward +Y.
	assert.Greater(t, m.Right.X, 0.0)
	assert.Greater(t, m.Up.Y, 0.0)
	assert.InDelta(t, 1.0, m.Right.Length(), 1e-6)
	assert.InDelta(t, 1.0, m.Up.Length(), 1e-6)
}

func TestNewOrthographicGISFromProjectionProjectsOrigin(t *testing.T) {
	proj := coord.ForEPSG(3857)
	require.NotNil(t, proj)

	m := NewOrthographicGISFromProjection(proj, 1000.0, 2000.0, 1.0, Vec3{X: 0, Y: 0, Z: -1})
	px, ok := m.Project(Vec3{X: 1000.0, Y: 2000.0, Z: 0})
	require.True(t, ok)
	assert.InDelta(t, 0.0, px.X, 1e-6)
	assert.InDelta(t, 0.0, px.Y, 1e-6)
}
