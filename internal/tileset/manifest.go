package tileset

import (
	"encoding/json"

	"github.com/NASA-AMMOS/Landform-sub006/internal/camera"
)

// ImageDescriptor is one source image's entry in the scene manifest,
// carrying the camera model that projects it.
type ImageDescriptor struct {
	ID          string
	URL         string
	CameraModel camera.Model
}

type imageDescriptorJSON struct {
	ID          string          `json:"id"`
	URL         string          `json:"url"`
	CameraModel json.RawMessage `json:"cameraModel"`
}

// MarshalJSON tags the embedded camera.Model through camera.MarshalJSON's
// {kind,data} envelope, since the interface value itself carries no
// exported JSON shape.
func (d ImageDescriptor) MarshalJSON() ([]byte, error) {
	camJSON, err := camera.MarshalJSON(d.CameraModel)
	if err != nil {
		return nil, err
	}
	return json.Marshal(imageDescriptorJSON{ID: d.ID, URL: d.URL, CameraModel: camJSON})
}

// UnmarshalJSON reverses MarshalJSON.
func (d *ImageDescriptor) UnmarshalJSON(data []byte) error {
	var raw imageDescriptorJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	model, err := camera.UnmarshalModel(raw.CameraModel)
	if err != nil {
		return err
	}
	d.ID = raw.ID
	d.URL = raw.URL
	d.CameraModel = model
	return nil
}

// FrameGraphEdge is one edge of the frame graph: a glTF-style TRS node
// transform relative to ParentID ("" for a graph root).
type FrameGraphEdge struct {
	FrameID     string     `json:"frameId"`
	ParentID    string     `json:"parentId"`
	Translation [3]float64 `json:"translation"`
	// Rotation is a unit quaternion [x,y,z,w], the glTF node-transform
	// convention — matches this repo's gltfUpAxis framing better than an
	// Euler triple, which is ambiguous without a stated axis order.
	Rotation [4]float64 `json:"rotation"`
	Scale    [3]float64 `json:"scale"`
}

// IdentityFrameGraphEdge returns an edge with zero translation, identity
// rotation, and unit scale — the default for a frame with no recorded
// adjustment.
func IdentityFrameGraphEdge(frameID, parentID string) FrameGraphEdge {
	return FrameGraphEdge{
		FrameID:     frameID,
		ParentID:    parentID,
		Translation: [3]float64{0, 0, 0},
		Rotation:    [4]float64{0, 0, 0, 1},
		Scale:       [3]float64{1, 1, 1},
	}
}

// SiteDrive is one site-drive record, the surface-mission convention of
// naming a rover's position by which numbered site and drive it was
// captured at.
type SiteDrive struct {
	Site      int     `json:"site"`
	Drive     int     `json:"drive"`
	Northing  float64 `json:"northing"`
	Easting   float64 `json:"easting"`
	Elevation float64 `json:"elevation"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

// Manifest is the scene.json contents: tileset references, image
// descriptors, the frame graph, and site-drive records.
type Manifest struct {
	TilesetRefs []string          `json:"tilesetRefs"`
	Images      []ImageDescriptor `json:"images"`
	Frames      []FrameGraphEdge  `json:"frames"`
	SiteDrives  []SiteDrive       `json:"siteDrives"`
}

// MarshalManifest renders m as indented JSON, the same human-diffable
// convention as Marshal for tileset.json.
func MarshalManifest(m *Manifest) ([]byte, error) {
	return json.MarshalIndent(m, "", "\t")
}

// UnmarshalManifest parses a scene.json document.
func UnmarshalManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
