package viz

import (
	"math"

	"github.com/san-kum/galprof/internal/geom"
)

// Projection draws positions projected onto the x-y plane as Braille dots,
// in a square window of half-width extent around centre. Each radius in
// rings is drawn as a circle around the centre.
func Projection[V geom.Vector[V]](positions []V, centre V, extent float64, width, height int, rings ...float64) *Canvas {
	c := NewCanvas(width, height)
	if !(extent > 0) {
		return c
	}

	dotsX, dotsY := float64(width*2), float64(height*4)
	scale := math.Min(dotsX, dotsY) / (2 * extent)
	ox, oy := dotsX/2, dotsY/2

	toDots := func(x, y float64) (int, int) {
		return int(math.Floor(ox + x*scale)), int(math.Floor(oy - y*scale))
	}

	for _, p := range positions {
		d := p.Sub(centre)
		x, y := d.At(0), d.At(1)
		if math.Abs(x) > extent || math.Abs(y) > extent {
			continue
		}
		c.Set(toDots(x, y))
	}

	cx, cy := toDots(0, 0)
	for _, r := range rings {
		if r > 0 {
			c.DrawCircle(cx, cy, int(math.Round(r*scale)))
		}
	}
	return c
}
