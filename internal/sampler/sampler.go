// Package sampler derives clock samples from instants in time.
package sampler

import (
	"math"
	"time"

	"github.com/clockrobustus/clockd/internal/types"
)

// Sample decomposes an instant into its local wall-clock fields and computes
// the analog hand angles. The hour hand sweeps continuously: it advances
// with the minutes and seconds rather than jumping on the hour, and the
// minute hand likewise advances with the seconds.
func Sample(t time.Time) types.ClockSample {
	h, m, s := t.Clock()
	return types.ClockSample{
		Hour:        h,
		Minute:      m,
		Second:      s,
		HourAngle:   hourAngle(h, m, s),
		MinuteAngle: minuteAngle(m, s),
		SecondAngle: secondAngle(s),
	}
}

// hourAngle maps (h, m, s) onto the hour hand's position on a 12-hour dial,
// in radians from 12 o'clock. Always in [0, 2π).
func hourAngle(h, m, s int) float64 {
	turns := (float64(h%12) + float64(m)/60 + float64(s)/3600) / 12
	return turns * 2 * math.Pi
}

// minuteAngle maps (m, s) onto the minute hand's position. Always in [0, 2π).
func minuteAngle(m, s int) float64 {
	turns := (float64(m) + float64(s)/60) / 60
	return turns * 2 * math.Pi
}

// secondAngle maps s onto the second hand's position. Always in [0, 2π).
func secondAngle(s int) float64 {
	return float64(s) / 60 * 2 * math.Pi
}
