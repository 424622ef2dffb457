package tileset

import (
	"encoding/json"
	"testing"

	"github.com/NASA-AMMOS/Landform-sub006/internal/camera"
)

func TestImageDescriptorJSONRoundTrip(t *testing.T) {
	d := ImageDescriptor{
		ID:  "img0",
		URL: "images/img0.png",
		CameraModel: &camera.Linear{
			C: camera.Vec3{X: 1, Y: 2, Z: 3},
			A: camera.Vec3{X: 0, Y: 0, Z: 1},
			H: camera.Vec3{X: 1, Y: 0, Z: 0},
			V: camera.Vec3{X: 0, Y: 1, Z: 0},
		},
	}

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var round ImageDescriptor
	if err := json.Unmarshal(data, &round); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if round.ID != d.ID || round.URL != d.URL {
		t.Fatalf("round = %+v, want id/url = %q/%q", round, d.ID, d.URL)
	}
	lin, ok := round.CameraModel.(*camera.Linear)
	if !ok {
		t.Fatalf("round.CameraModel type = %T, want *camera.Linear", round.CameraModel)
	}
	if lin.C != d.CameraModel.(*camera.Linear).C {
		t.Fatalf("round C = %+v, want %+v", lin.C, d.CameraModel.(*camera.Linear).C)
	}
}

func TestIdentityFrameGraphEdge(t *testing.T) {
	e := IdentityFrameGraphEdge("f1", "root")
	if e.FrameID != "f1" || e.ParentID != "root" {
		t.Fatalf("edge ids = %q/%q, want f1/root", e.FrameID, e.ParentID)
	}
	if e.Translation != [3]float64{0, 0, 0} {
		t.Fatalf("Translation = %v, want zero", e.Translation)
	}
	if e.Rotation != [4]float64{0, 0, 0, 1} {
		t.Fatalf("Rotation = %v, want identity quaternion", e.Rotation)
	}
	if e.Scale != [3]float64{1, 1, 1} {
		t.Fatalf("Scale = %v, want unit scale", e.Scale)
	}
}

func TestManifestMarshalUnmarshalRoundTrip(t *testing.T) {
	m := &Manifest{
		TilesetRefs: []string{"tileset.json"},
		Images: []ImageDescriptor{{
			ID:  "img0",
			URL: "images/img0.png",
			CameraModel: &camera.Linear{
				C: camera.Vec3{X: 0, Y: 0, Z: 0},
				A: camera.Vec3{X: 0, Y: 0, Z: 1},
				H: camera.Vec3{X: 1, Y: 0, Z: 0},
				V: camera.Vec3{X: 0, Y: 1, Z: 0},
			},
		}},
		Frames: []FrameGraphEdge{IdentityFrameGraphEdge("f0", "")},
		SiteDrives: []SiteDrive{
			{Site: 3, Drive: 120, Northing: 10.5, Easting: -4.2, Elevation: 100.1, Lat: 18.4, Lon: 77.5},
		},
	}

	data, err := MarshalManifest(m)
	if err != nil {
		t.Fatalf("MarshalManifest: %v", err)
	}
	round, err := UnmarshalManifest(data)
	if err != nil {
		t.Fatalf("UnmarshalManifest: %v", err)
	}
	if len(round.TilesetRefs) != 1 || round.TilesetRefs[0] != "tileset.json" {
		t.Fatalf("TilesetRefs = %v, want [tileset.json]", round.TilesetRefs)
	}
	if len(round.Images) != 1 || round.Images[0].ID != "img0" {
		t.Fatalf("Images = %+v, want one entry id=img0", round.Images)
	}
	if _, ok := round.Images[0].CameraModel.(*camera.Linear); !ok {
		t.Fatalf("Images[0].CameraModel type = %T, want *camera.Linear", round.Images[0].CameraModel)
	}
	if len(round.SiteDrives) != 1 || round.SiteDrives[0].Site != 3 || round.SiteDrives[0].Drive != 120 {
		t.Fatalf("SiteDrives = %+v, want site=3 drive=120", round.SiteDrives)
	}
}
