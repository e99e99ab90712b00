package application

import (
	"strings"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/geo"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/mapview"
)

var (
	decorationStyle = mapview.Style{LineWidth: 4, StrokeColor: "rgba(214, 69, 65, 1)"}

	decorationPath = []geo.Coordinate{
		{Lat: 12.8576, Lng: 77.6627},
		{Lat: 12.8623, Lng: 77.6487},
		{Lat: 12.8666, Lng: 77.6522},
		{Lat: 12.8692, Lng: 77.6535},
	}

	labelMarkers = []struct {
		label    string
		position geo.Coordinate
	}{
		{"4", geo.Coordinate{Lat: 12.9202, Lng: 77.621}},
		{"2.5", geo.Coordinate{Lat: 12.8643, Lng: 77.6524}},
	}
)

const boxedLabelSVG = `<svg  width="24" height="24" xmlns="http://www.w3.org/2000/svg">` +
	`<rect stroke="black" fill="${FILL}" x="1" y="1" width="22" height="22" />` +
	`<text x="12" y="18" font-size="12pt" font-family="Arial" font-weight="bold" ` +
	`text-anchor="middle" fill="${STROKE}" >${LABEL}</text></svg>`

// BoxedLabelIcon returns a square SVG icon showing label.
func BoxedLabelIcon(label, fill, stroke string) mapview.Icon {
	svg := strings.NewReplacer("${FILL}", fill, "${STROKE}", stroke, "${LABEL}", label).Replace(boxedLabelSVG)
	return mapview.Icon{SVG: svg}
}

// Decorate adds the fixed red polyline and the two labelled markers.
func Decorate(v *mapview.View) {
	v.AddObject(mapview.NewPolyline(decorationPath, decorationStyle))
	for _, m := range labelMarkers {
		icon := BoxedLabelIcon(m.label, "white", "red")
		v.AddObject(&mapview.Marker{Position: m.position, Icon: &icon})
	}
}
