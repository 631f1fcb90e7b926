package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
)

// plotValues maps the series onto the value axis. Values that can't be
// drawn become NaN, which asciigraph leaves as gaps.
func plotValues(values []float64, logValues bool) ([]float64, int) {
	data := make([]float64, len(values))
	finite := 0
	for i, v := range values {
		if logValues {
			if v > 0 {
				v = math.Log10(v)
			} else {
				v = math.NaN()
			}
		}
		if math.IsInf(v, 0) {
			v = math.NaN()
		}
		if !math.IsNaN(v) {
			finite++
		}
		data[i] = v
	}
	return data, finite
}

func Caption(s Series, logValues bool) string {
	value := s.Kind
	if logValues {
		value = "log10 " + value
	}
	caption := fmt.Sprintf("%s: %s of %s", s.Name, value, s.Species)
	if s.Filter != "" {
		caption += " (" + s.Filter + ")"
	}
	if n := len(s.Radii); n > 0 {
		scale := "linear"
		if s.LogRadius {
			scale = "log"
		}
		caption += fmt.Sprintf(", r = %.3g .. %.3g (%s bins)", s.Radii[0], s.Radii[n-1], scale)
	}
	return caption
}

// Plot draws the series bin by bin. With logValues the value axis shows
// log10 of the value and non-positive bins are skipped.
func Plot(s Series, width, height int, logValues bool) string {
	data, finite := plotValues(s.Values, logValues)
	if finite == 0 {
		return Subtle.Render(fmt.Sprintf("%s: nothing to plot", s.Name))
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(Caption(s, logValues)),
	)
}
