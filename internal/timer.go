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

import "time"

// StartTimer starts a scope timer for label and returns a closure that logs
// the elapsed duration when called. Carries no global state; callers defer
// the returned function at the point they want the measurement to end.
func StartTimer(label string) func() {
	start := time.Now()
	return func() {
		LogPrintf("%s: %s\n", label, time.Since(start))
	}
}
