// Package anim produces animated rectangle sets for the demo loop.
package anim

import (
	"time"

	"github.com/chewxy/math32"

	"github.com/gogpu/rectloop/render"
)

// Orbit defaults.
const (
	orbitRadius = 0.5
	orbitSize   = 0.1
)

var orbitColor = [3]float32{0.5, 0.7, 0.8}

// Scene is a time-driven instance generator. It satisfies app.TickSource.
// The slice returned by Tick is reused by the next call.
type Scene struct {
	grid       bool
	cols, rows int
	speed      float32

	t   float32
	buf []render.Instance
}

// NewOrbit returns a scene with one rectangle circling the origin.
func NewOrbit(speed float32) *Scene {
	return &Scene{speed: speed}
}

// NewGrid returns a scene of cols×rows pulsing rectangles covering the
// viewport. A zero dimension yields no instances.
func NewGrid(cols, rows int, speed float32) *Scene {
	return &Scene{grid: true, cols: max(cols, 0), rows: max(rows, 0), speed: speed}
}

// Elapsed returns the scene time in seconds, scaled by speed.
func (s *Scene) Elapsed() float32 { return s.t }

// Tick advances the scene by dt and returns its instances for a surface of
// the given size. Rectangles are corrected for aspect ratio so they stay
// square on screen; a zero-sized surface disables the correction.
func (s *Scene) Tick(dt time.Duration, width, height uint32) []render.Instance {
	s.t += float32(dt.Seconds()) * s.speed
	ax, ay := aspect(width, height)

	s.buf = s.buf[:0]
	if !s.grid {
		s.buf = append(s.buf, render.Instance{
			Position: [2]float32{math32.Sin(s.t) * orbitRadius, math32.Cos(s.t) * orbitRadius},
			Size:     [2]float32{orbitSize * ax, orbitSize * ay},
			Color:    orbitColor,
		})
		return s.buf
	}

	if s.cols == 0 || s.rows == 0 {
		return s.buf
	}
	cw := 2 / float32(s.cols)
	ch := 2 / float32(s.rows)
	half := 0.4 * math32.Min(cw, ch)
	for r := 0; r < s.rows; r++ {
		for c := 0; c < s.cols; c++ {
			fx := (float32(c) + 0.5) / float32(s.cols)
			fy := (float32(r) + 0.5) / float32(s.rows)
			phase := (fx + fy) * math32.Pi
			pulse := 0.6 + 0.4*math32.Sin(s.t*2+phase)
			s.buf = append(s.buf, render.Instance{
				Position: [2]float32{-1 + cw*(float32(c)+0.5), -1 + ch*(float32(r)+0.5)},
				Size:     [2]float32{half * pulse * ax, half * pulse * ay},
				Color:    gradient(fx, fy, s.t),
			})
		}
	}
	return s.buf
}

// aspect returns per-axis scale factors that shrink the longer axis.
func aspect(width, height uint32) (float32, float32) {
	if width == 0 || height == 0 || width == height {
		return 1, 1
	}
	w, h := float32(width), float32(height)
	if w > h {
		return h / w, 1
	}
	return 1, w / h
}

func gradient(fx, fy, t float32) [3]float32 {
	return [3]float32{
		0.5 + 0.5*math32.Sin(t+fx*math32.Pi),
		0.3 + 0.6*fy,
		0.5 + 0.5*math32.Cos(t+fy*math32.Pi),
	}
}
