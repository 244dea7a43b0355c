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

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// logState holds the process-wide log destinations. No kernel ever logs an
// error it also returns to the caller (§7); this is for progress/diagnostic
// output only, mirroring the verbosity the teacher's preprocessing/postprocessing
// commands print per-frame.
var logState = struct {
	sync.Mutex
	writers []io.Writer
	file    *os.File
}{writers: []io.Writer{os.Stdout}}

// LogPrintf writes a formatted line to all active log destinations.
func LogPrintf(format string, args ...interface{}) {
	logState.Lock()
	defer logState.Unlock()
	for _, w := range logState.writers {
		fmt.Fprintf(w, format, args...)
	}
}

// LogPrintln writes a line to all active log destinations.
func LogPrintln(args ...interface{}) {
	logState.Lock()
	defer logState.Unlock()
	for _, w := range logState.writers {
		fmt.Fprintln(w, args...)
	}
}

// LogFatal logs a message and terminates the process. Reserved for CLI-level
// unrecoverable conditions; never called from inside a kernel or the driver,
// which surface typed errors instead (§7).
func LogFatal(args ...interface{}) {
	LogPrintln(args...)
	LogSync()
	os.Exit(3)
}

// LogFatalf logs a formatted message and terminates the process.
func LogFatalf(format string, args ...interface{}) {
	LogPrintf(format, args...)
	LogSync()
	os.Exit(3)
}

// LogAlsoToFile additionally tees log output to the given file path.
func LogAlsoToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	logState.Lock()
	defer logState.Unlock()
	logState.file = f
	logState.writers = append(logState.writers, f)
	return nil
}

// LogSync flushes and closes any file log destination.
func LogSync() {
	logState.Lock()
	defer logState.Unlock()
	if logState.file != nil {
		logState.file.Sync()
		logState.file.Close()
		logState.file = nil
		logState.writers = logState.writers[:1]
	}
}
