package application

import (
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/geo"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/mapview"
)

// ClickMessage formats the report for a tap at c.
func ClickMessage(c geo.Coordinate) string {
	return "Clicked at " + geo.FormatHemisphere(c)
}

// ReportClick converts a viewport position to a coordinate and formats it.
func ReportClick(v *mapview.View, x, y float64) (geo.Coordinate, string) {
	c := v.ScreenToGeo(x, y)
	return c, ClickMessage(c)
}
