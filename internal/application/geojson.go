package application

import (
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/geo"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/mapview"
	"github.com/paulmach/orb/geojson"
)

// OverlaysToGeoJSON exports overlays as a FeatureCollection. Group markers
// carry their group index and their index among tappable markers, which is
// the index accepted by marker taps.
func OverlaysToGeoJSON(overlays []mapview.Overlay) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	tapIndex := 0

	for i, o := range overlays {
		switch ov := o.(type) {
		case *mapview.Polyline:
			f := geojson.NewFeature(geo.ToLineString(ov.Points))
			f.Properties["kind"] = string(mapview.KindPolyline)
			f.Properties["overlay"] = i
			f.Properties["lineWidth"] = ov.Style.LineWidth
			f.Properties["strokeColor"] = ov.Style.StrokeColor
			fc.Append(f)
		case *mapview.Marker:
			fc.Append(markerFeature(ov, i))
		case *mapview.Group:
			for _, m := range ov.Markers {
				f := markerFeature(m, i)
				f.Properties["group"] = i
				if ov.Tappable {
					f.Properties["tap_index"] = tapIndex
					tapIndex++
				}
				fc.Append(f)
			}
		}
	}
	return fc
}

func markerFeature(m *mapview.Marker, overlay int) *geojson.Feature {
	f := geojson.NewFeature(geo.ToPoint(m.Position))
	f.Properties["kind"] = string(mapview.KindMarker)
	f.Properties["overlay"] = overlay
	if m.Instruction != "" {
		f.Properties["instruction"] = m.Instruction
	}
	if m.Icon != nil {
		f.Properties["icon"] = m.Icon.SVG
		if m.Icon.Anchor != nil {
			f.Properties["anchor"] = []int{m.Icon.Anchor.X, m.Icon.Anchor.Y}
		}
	}
	return f
}
