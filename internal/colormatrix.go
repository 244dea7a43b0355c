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

import "gonum.org/v1/gonum/mat"

// InterpolateColorMatrix blends the 3200K and 7000K reference matrices for a
// requested correlated color temperature, per §4.9. Weight alpha is clamped
// to [0,1] outside the [3200,7000] calibration range.
func InterpolateColorMatrix(m3200, m7000 *mat.Dense, colorTempKelvin float32) *mat.Dense {
	alpha := (1/colorTempKelvin - 1.0/3200.0) / (1.0/7000.0 - 1.0/3200.0)
	alpha = clampF32(alpha, 0, 1)

	out := mat.NewDense(3, 4, nil)
	out.Scale(float64(alpha), m7000)
	tmp := mat.NewDense(3, 4, nil)
	tmp.Scale(float64(1-alpha), m3200)
	out.Add(out, tmp)
	return out
}
