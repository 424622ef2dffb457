package camera

import (
	"encoding/json"
	"fmt"
)

// Model is the tagged-variant camera interface: project a 3-D point to a
// pixel, unproject a pixel plus a range back to a 3-D point, and deep-clone.
type Model interface {
	// Project maps a 3-D point in the camera's reference frame to a pixel
	// coordinate. ok is false when the point is behind the camera or
	// otherwise unprojectable.
	Project(point Vec3) (pixel Vec2, ok bool)

	// Unproject maps a pixel coordinate plus a range along the camera's
	// viewing direction back to a 3-D point.
	Unproject(pixel Vec2, distance float64) Vec3

	// Clone returns a deep copy.
	Clone() Model

	// Kind identifies the variant, used for tagged JSON (de)serialization.
	Kind() string
}

// FrustumHuller is implemented only by camera variants with a closed-form
// frustum hull (the Linear/CAHV model).
type FrustumHuller interface {
	FrustumHull(imageWidth, imageHeight int, nearRange, farRange float64) []Vec3
}

const (
	KindLinear           = "linear"            // CAHV
	KindRadialPolynomial = "radial_polynomial"  // CAHVOR
	KindEntrancePupil    = "entrance_pupil"     // CAHVORE
	KindOrthographicGIS  = "orthographic_gis"
)

// envelope is the tagged-JSON wrapper used to (de)serialize a Model without
// the caller knowing the concrete variant ahead of time: a kind tag plus
// the raw encoding of whichever concrete struct produced it.
type envelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON tags the model's concrete type so UnmarshalModel can dispatch
// back to the right variant.
func MarshalJSON(m Model) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Kind: m.Kind(), Data: data})
}

// UnmarshalModel reverses MarshalJSON, dispatching on the tagged kind.
func UnmarshalModel(raw []byte) (Model, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("camera.UnmarshalModel: %w", err)
	}
	switch env.Kind {
	case KindLinear:
		var l Linear
		if err := json.Unmarshal(env.Data, &l); err != nil {
			return nil, err
		}
		return &l, nil
	case KindRadialPolynomial:
		var r RadialPolynomial
		if err := json.Unmarshal(env.Data, &r); err != nil {
			return nil, err
		}
		return &r, nil
	case KindEntrancePupil:
		var e EntrancePupil
		if err := json.Unmarshal(env.Data, &e); err != nil {
			return nil, err
		}
		return &e, nil
	case KindOrthographicGIS:
		var o OrthographicGIS
		if err := json.Unmarshal(env.Data, &o); err != nil {
			return nil, err
		}
		return &o, nil
	default:
		return nil, fmt.Errorf("camera.UnmarshalModel: unknown kind %q", env.Kind)
	}
}
