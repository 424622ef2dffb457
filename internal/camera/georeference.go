package camera

import "github.com/NASA-AMMOS/Landform-sub006/internal/coord"

// NewOrthographicGISFromProjection builds an OrthographicGIS camera model
// for a north-up orthorectified source image whose origin pixel is given in
// a named projected CRS rather than already in local tangent-plane meters —
// the common case for ingested GIS orthoimagery (geotiff-style rasters
// carrying an EPSG code), as opposed to imagery already delivered in a
// local frame.
//
// proj resolves the source CRS via internal/coord.ForEPSG's dispatch
// table; originEasting/originNorthing
// locate the image's origin pixel in that CRS; down is the local nadir direction
// (usually (0,0,-1) for a planet-fixed ENU frame). East/North basis
// vectors are derived from proj's small-step finite difference in WGS84
// space so the model holds even for projections whose grid north is not
// exactly geographic north (e.g. internal/coord.SwissLV95).
func NewOrthographicGISFromProjection(proj coord.Projection, originEasting, originNorthing, metersPerPixel float64, down Vec3) *OrthographicGIS {
	lon0, lat0 := proj.ToWGS84(originEasting, originNorthing)
	origin := Vec3{X: originEasting, Y: originNorthing, Z: 0}

	const step = 1e-5 // degrees, ~1.1m at the equator — enough to sense local grid skew
	eastEasting, eastNorthing := proj.FromWGS84(lon0+step, lat0)
	northEasting, northNorthing := proj.FromWGS84(lon0, lat0+step)

	right := Vec3{X: eastEasting - originEasting, Y: eastNorthing - originNorthing}.Normalize()
	up := Vec3{X: northEasting - originEasting, Y: northNorthing - originNorthing}.Normalize()

	return &OrthographicGIS{
		Origin:         origin,
		Right:          right,
		Up:             up,
		Down:           down,
		MetersPerPixel: metersPerPixel,
	}
}
