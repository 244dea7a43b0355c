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

// cfaSlot indexes a position within a 2x2 GRBG quad: Gr (top-left, shares a
// row with Red), R, B, Gb (bottom-right, shares a row with Blue).
type cfaSlot int

const (
	slotGr cfaSlot = 0
	slotR  cfaSlot = 1
	slotB  cfaSlot = 2
	slotGb cfaSlot = 3
)

// cfaQuadTable maps input pattern -> GRBG slot -> source (dx,dy) offset
// within the 2x2 quad, per the redesign note in §9 ("prefer a lookup table").
var cfaQuadTable = [4][4][2]int{
	CFAGRBG: {slotGr: {0, 0}, slotR: {1, 0}, slotB: {0, 1}, slotGb: {1, 1}},
	CFARGGB: {slotGr: {1, 0}, slotR: {0, 0}, slotB: {1, 1}, slotGb: {0, 1}},
	CFAGBRG: {slotGr: {1, 1}, slotR: {0, 1}, slotB: {1, 0}, slotGb: {0, 0}},
	CFABGGR: {slotGr: {0, 1}, slotR: {1, 1}, slotB: {0, 0}, slotGb: {1, 0}},
}

// outputSlotAt returns which GRBG slot a given (x,y) falls on, given its
// position within its own 2x2 quad.
func outputSlotAt(qx, qy int) cfaSlot {
	switch {
	case qx == 0 && qy == 0:
		return slotGr
	case qx == 1 && qy == 0:
		return slotR
	case qx == 0 && qy == 1:
		return slotB
	default:
		return slotGb
	}
}

// CFANormalize remaps a Bayer plane of any of the four supported CFA layouts
// to GRBG, and applies the green-balance multiplier to the Gb slot only
// (odd,odd output locations), per §4.5.
func CFANormalize(in *BayerPlane, greenBalance float32) *BayerPlane {
	out := NewBayerPlane(in.Width, in.Height, CFAGRBG, in.Black, in.White)
	table := cfaQuadTable[in.CFA]

	parallelRows(in.Height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			qoy := (y / 2) * 2
			for x := 0; x < in.Width; x++ {
				qox := (x / 2) * 2
				slot := outputSlotAt(x-qox, y-qoy)
				off := table[slot]
				v := in.At(qox+off[0], qoy+off[1])

				if slot == slotGb && greenBalance != 1 {
					scaled := float32(v) * greenBalance
					v = uint16(clampF32(scaled, 0, float32(in.White)))
				}
				out.Data[y*out.Width+x] = v
			}
		}
	})
	return out
}
