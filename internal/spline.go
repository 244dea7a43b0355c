// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package internal

import "math"

// MonotoneSpline is a piecewise cubic Hermite spline built with the
// Fritsch-Carlson method: monotone non-decreasing input knots produce a
// monotone non-decreasing spline.
type MonotoneSpline struct {
	xs, ys, ms []float32 // knots and tangents
	lastSeg    int       // cached segment index for the sequential LUT-fill access pattern
}

// NewMonotoneSpline builds a spline from knots already normalized (x strictly
// increasing, endpoints at 0 and 1 present). Panics if fewer than two knots
// are given; x ordering is not checked here, so callers normalize via
// Curve.Normalize and validate monotonicity before calling this.
func NewMonotoneSpline(knots Curve) *MonotoneSpline {
	n := len(knots)
	if n < 2 {
		panic("spline needs at least two knots")
	}
	xs := make([]float32, n)
	ys := make([]float32, n)
	for i, k := range knots {
		xs[i] = k.X
		ys[i] = k.Y
	}

	// Initial tangents: central differences interior, one-sided at ends.
	ms := make([]float32, n)
	if n == 2 {
		slope := (ys[1] - ys[0]) / (xs[1] - xs[0])
		ms[0], ms[1] = slope, slope
	} else {
		for i := 0; i < n; i++ {
			switch i {
			case 0:
				ms[i] = (ys[1] - ys[0]) / (xs[1] - xs[0])
			case n - 1:
				ms[i] = (ys[n-1] - ys[n-2]) / (xs[n-1] - xs[n-2])
			default:
				ms[i] = (ys[i+1] - ys[i-1]) / (xs[i+1] - xs[i-1])
			}
		}
	}

	// Monotonicity pass per segment.
	for i := 0; i < n-1; i++ {
		dx := xs[i+1] - xs[i]
		delta := (ys[i+1] - ys[i]) / dx
		if delta == 0 {
			ms[i], ms[i+1] = 0, 0
			continue
		}
		if sign32(ms[i]) != sign32(delta) && ms[i] != 0 {
			ms[i] = 0
		}
		if sign32(ms[i+1]) != sign32(delta) && ms[i+1] != 0 {
			ms[i+1] = 0
		}
		alpha := ms[i] / delta
		beta := ms[i+1] / delta
		if s := alpha*alpha + beta*beta; s > 9 {
			tau := float32(3.0) / float32(math.Sqrt(float64(s)))
			ms[i] *= tau
			ms[i+1] *= tau
		}
	}

	return &MonotoneSpline{xs: xs, ys: ys, ms: ms}
}

func sign32(v float32) float32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Eval evaluates the spline at x, clamping to the first/last knot outside the
// domain. Segment lookup starts from the last hit, which amortizes to O(1)
// for the sequential access pattern of LUT generation.
func (s *MonotoneSpline) Eval(x float32) float32 {
	n := len(s.xs)
	if x <= s.xs[0] {
		return s.ys[0]
	}
	if x >= s.xs[n-1] {
		return s.ys[n-1]
	}

	i := s.lastSeg
	if i >= n-1 || x < s.xs[i] || x > s.xs[i+1] {
		i = s.findSegment(x)
	}
	for i < n-2 && x > s.xs[i+1] {
		i++
	}
	for i > 0 && x < s.xs[i] {
		i--
	}
	s.lastSeg = i

	x0, x1 := s.xs[i], s.xs[i+1]
	y0, y1 := s.ys[i], s.ys[i+1]
	m0, m1 := s.ms[i], s.ms[i+1]
	h := x1 - x0
	t := (x - x0) / h

	t2 := t * t
	t3 := t2 * t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2

	return h00*y0 + h10*h*m0 + h01*y1 + h11*h*m1
}

func (s *MonotoneSpline) findSegment(x float32) int {
	lo, hi := 0, len(s.xs)-2
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.xs[mid] <= x {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
