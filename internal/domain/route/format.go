package route

import (
	"fmt"
	"strconv"
)

// FormatTravelTime renders seconds as "<minutes> minutes <seconds> seconds.".
func FormatTravelTime(seconds int64) string {
	return fmt.Sprintf("%d minutes %d seconds.", seconds/60, seconds%60)
}

// FormatDistance renders meters as "<distance>m." with no rounding.
func FormatDistance(meters float64) string {
	return strconv.FormatFloat(meters, 'f', -1, 64) + "m."
}
