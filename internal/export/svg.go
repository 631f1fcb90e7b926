package export

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/san-kum/galprof/internal/storage"
)

// ProfileToSVG draws a stored profile as a line chart. The radius axis is
// logarithmic for log-binned profiles. Bins with non-finite values, or
// non-positive values when logValues is set, are left out of the line.
func ProfileToSVG(p storage.Profile, width, height int, logValues bool, strokeColor string) string {
	type point struct{ X, Y float64 }

	points := make([]point, 0, len(p.Bins))
	for _, b := range p.Bins {
		x, y := b.Radius, b.Value
		if p.LogBins {
			x = math.Log10(x)
		}
		if logValues {
			if y <= 0 {
				continue
			}
			y = math.Log10(y)
		}
		if math.IsNaN(y) || math.IsInf(y, 0) || math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		points = append(points, point{x, y})
	}
	if len(points) < 2 {
		return ""
	}

	// Find bounds
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, pt := range points {
		minX = math.Min(minX, pt.X)
		maxX = math.Max(maxX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxY = math.Max(maxY, pt.Y)
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<title>%s (%s)</title>
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, html.EscapeString(p.Name), html.EscapeString(p.Kind), strokeColor))

	for i, pt := range points {
		x := (pt.X - minX) / rangeX * float64(width)
		y := float64(height) - (pt.Y-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
